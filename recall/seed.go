package recall

import (
	"sort"

	"github.com/rushteam/moviekit/core"
)

// SelectSeed 从评分历史中选出候选生成的种子电影。
//
// 历史必须按时间戳升序传入（调用方契约，recommender 负责校验）：
//   - 先过滤出评分 >= likeThreshold 的记录，取其中最后一条，
//     即"最近喜欢的电影"；
//   - 若没有任何记录达到阈值，则把整个历史按评分降序排序后取末尾元素，
//     也就是该序列中评分最低的一条。这是线上既有行为，保持原样
//     （见 DESIGN.md 的种子回退说明），变更前先改对应测试。
//
// 历史为空时返回 (0, false)。
func SelectSeed(history []core.RatingEvent, likeThreshold float64) (int64, bool) {
	if len(history) == 0 {
		return 0, false
	}

	var liked []core.RatingEvent
	for _, ev := range history {
		if ev.Value >= likeThreshold {
			liked = append(liked, ev)
		}
	}
	if len(liked) > 0 {
		return liked[len(liked)-1].ItemID, true
	}

	byValueDesc := make([]core.RatingEvent, len(history))
	copy(byValueDesc, history)
	sort.SliceStable(byValueDesc, func(a, b int) bool {
		return byValueDesc[a].Value > byValueDesc[b].Value
	})
	return byValueDesc[len(byValueDesc)-1].ItemID, true
}
