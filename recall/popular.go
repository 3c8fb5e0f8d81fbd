package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/pipeline"
	"github.com/rushteam/moviekit/pkg/utils"
	"github.com/rushteam/moviekit/popularity"
)

// Popular 是热门召回源，冷启动与 fan-out 兜底场景使用。
// - 如果配置了 Store（KeyValueStore），优先从有序集合 ZRange 读取（离线任务产出）
// - 否则使用内存中的 Index 快照
// Popular 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Popular struct {
	Store core.KeyValueStore
	Key   string // 有序集合 key，例如 "popular:movies"

	// Index 是内存兜底榜单
	Index *popularity.Index

	// TopK 返回数量，默认 10
	TopK int
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Popular) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}

	var ids []int64

	if r.Store != nil && r.Key != "" {
		members, err := r.Store.ZRange(ctx, r.Key, 0, int64(topK)-1)
		if err == nil && len(members) > 0 {
			ids = make([]int64, 0, len(members))
			for _, m := range members {
				if id, err := strconv.ParseInt(m, 10, 64); err == nil {
					ids = append(ids, id)
				}
			}
		}
	}

	if len(ids) == 0 && r.Index != nil {
		ids = r.Index.TopPopular(topK)
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
