// Package popularity 预计算"高均分 + 高评分量"的热门电影榜单，
// 作为冷启动与候选生成失败时的兜底召回源。
//
// 榜单离线构建一次后只读；TopPopular 只做前缀截取，不做任何重算。
package popularity

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/moviekit/core"
)

// Options 控制榜单的构建。
type Options struct {
	MinCount int // 入榜所需的最少评分数，默认 100
	Limit    int // 榜单缓存长度，默认 50
}

// Index 是热门榜单的不可变快照。
type Index struct {
	ids   []int64
	means map[int64]float64
}

// Build 从历史评分聚合出热门榜单：
// 按电影聚合 (count, mean)，保留 count >= MinCount 的电影，
// 按 mean 降序排列，并列时按 movieId 升序，截取前 Limit 条缓存。
func Build(events []core.RatingEvent, opts Options) *Index {
	if opts.MinCount <= 0 {
		opts.MinCount = 100
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	type agg struct {
		count int
		sum   float64
	}
	byItem := make(map[int64]*agg)
	for _, ev := range events {
		a := byItem[ev.ItemID]
		if a == nil {
			a = &agg{}
			byItem[ev.ItemID] = a
		}
		a.count++
		a.sum += ev.Value
	}

	idx := &Index{means: make(map[int64]float64)}
	qualified := make([]int64, 0, len(byItem))
	for id, a := range byItem {
		if a.count < opts.MinCount {
			continue
		}
		qualified = append(qualified, id)
		idx.means[id] = a.sum / float64(a.count)
	}

	// 先按 id 升序定好并列次序，再按均分稳定降序
	sort.Slice(qualified, func(a, b int) bool { return qualified[a] < qualified[b] })
	sort.SliceStable(qualified, func(a, b int) bool {
		return idx.means[qualified[a]] > idx.means[qualified[b]]
	})

	if len(qualified) > opts.Limit {
		qualified = qualified[:opts.Limit]
	}
	idx.ids = qualified
	return idx
}

// Len 返回榜单长度。
func (idx *Index) Len() int {
	return len(idx.ids)
}

// TopPopular 返回榜单前 min(n, 榜单长度) 条，无副作用，幂等。
func (idx *Index) TopPopular(n int) []int64 {
	if n <= 0 {
		return nil
	}
	if n > len(idx.ids) {
		n = len(idx.ids)
	}
	out := make([]int64, n)
	copy(out, idx.ids[:n])
	return out
}

// Mean 返回某电影的榜单均分（仅对榜内电影有值）。
func (idx *Index) Mean(id int64) (float64, bool) {
	m, ok := idx.means[id]
	return m, ok
}

// Publish 把榜单写入有序集合，score 为均分，供在线侧 ZRange 读取。
// 离线任务产出、在线服务消费的交接点。
func (idx *Index) Publish(ctx context.Context, kv core.KeyValueStore, key string) error {
	for _, id := range idx.ids {
		if err := kv.ZAdd(ctx, key, idx.means[id], strconv.FormatInt(id, 10)); err != nil {
			return err
		}
	}
	return nil
}

// Load 从有序集合恢复榜单（均分不回填，只恢复序）。
func Load(ctx context.Context, kv core.KeyValueStore, key string, limit int) (*Index, error) {
	if limit <= 0 {
		limit = 50
	}
	members, err := kv.ZRange(ctx, key, 0, int64(limit)-1)
	if err != nil {
		return nil, err
	}

	idx := &Index{means: make(map[int64]float64)}
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		idx.ids = append(idx.ids, id)
		if score, err := kv.ZScore(ctx, key, m); err == nil {
			idx.means[id] = score
		}
	}
	return idx, nil
}
