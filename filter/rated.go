package filter

import (
	"context"

	"github.com/rushteam/moviekit/core"
)

// RatedFilter 是已看过过滤器：剔除用户评分历史中出现过的电影。
// 历史随请求透传在 RecommendContext.History 中，无需访问存储。
type RatedFilter struct{}

func (f *RatedFilter) Name() string {
	return "filter.rated"
}

func (f *RatedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil {
		return false, nil
	}
	for _, ev := range rctx.History {
		if ev.ItemID == item.ID {
			return true, nil
		}
	}
	return false, nil
}
