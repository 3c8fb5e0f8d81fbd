package rank

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/model"
	"github.com/rushteam/moviekit/pipeline"
	"github.com/rushteam/moviekit/pkg/utils"
)

// DefaultFallbackScore 是模型缺失时给每个候选的常数分。
// 排序退化为召回顺序，但链路不中断。
const DefaultFallbackScore = 3.0

// SVDNode 用评分预测模型给候选打分并按分数降序排序。
// - Model 为 nil（离线产物缺失）时，所有候选拿 FallbackScore
// - 写入 labels：rank_model
// - 分数并列时保持输入顺序（稳定排序）
type SVDNode struct {
	Model model.RatingModel

	// FallbackScore 模型缺失时的兜底分，<= 0 时取 DefaultFallbackScore
	FallbackScore float64
}

func (n *SVDNode) Name() string        { return "rank.svd" }
func (n *SVDNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SVDNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	fallback := n.FallbackScore
	if fallback <= 0 {
		fallback = DefaultFallbackScore
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		if n.Model == nil {
			it.Score = fallback
			it.PutLabel("rank_model", utils.Label{Value: "fallback", Source: "rank"})
			continue
		}
		it.Score = n.Model.Predict(rctx.UserID, it.ID)
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
		it.PutLabel("predicted_rating", utils.Label{
			Value:  strconv.FormatFloat(it.Score, 'f', 2, 64),
			Source: "rank",
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}
