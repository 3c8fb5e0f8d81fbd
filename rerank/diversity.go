package rerank

import (
	"context"

	"github.com/rushteam/moviekit/catalog"
	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/pipeline"
)

// Diversity 是一个简单的多样性 ReRank：按主类型去重，
// 同一主类型只保留排序最靠前的一部，避免整页都是同一类电影。
// 主类型取目录里该电影的第一个类型标签；无类型的电影直接保留。
type Diversity struct {
	Catalog *catalog.Catalog
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil || len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]struct{})
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		entry, ok := n.Catalog.Get(it.ID)
		if !ok || len(entry.Genres) == 0 {
			out = append(out, it)
			continue
		}
		primary := entry.Genres[0]
		if _, dup := seen[primary]; dup {
			continue
		}
		seen[primary] = struct{}{}
		out = append(out, it)
	}
	return out, nil
}
