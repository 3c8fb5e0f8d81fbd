package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/pipeline"
	"github.com/rushteam/moviekit/pkg/utils"
	"github.com/rushteam/moviekit/popularity"
	"github.com/rushteam/moviekit/similarity"
)

// Similar 是混合推荐的内容召回源：
// 从用户历史里选种子电影，再用类型 TF-IDF 相似度取 TopK 候选。
// 种子不在目录中（相似结果为空）时退到热门榜单。
// Similar 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Similar struct {
	Index *similarity.Index

	// Popular 是候选生成失败时的兜底榜单，可为 nil（此时直接返回空）
	Popular *popularity.Index

	// TopK 候选数量，默认 30
	TopK int

	// LikeThreshold "喜欢"的评分阈值，默认 4.0
	LikeThreshold float64
}

func (r *Similar) Name() string        { return "recall.similar" }
func (r *Similar) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Similar) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Similar) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Index == nil || rctx == nil || len(rctx.History) == 0 {
		return nil, nil
	}

	threshold := r.LikeThreshold
	if threshold <= 0 {
		threshold = 4.0
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 30
	}

	seed, ok := SelectSeed(rctx.History, threshold)
	if !ok {
		return nil, nil
	}

	source := "similar"
	ids := r.Index.TopSimilar(seed, topK)
	if len(ids) == 0 && r.Popular != nil {
		ids = r.Popular.TopPopular(topK)
		source = "popular_fallback"
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: source, Source: "recall"})
		it.PutLabel("seed_movie", utils.Label{Value: strconv.FormatInt(seed, 10), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
