package filter

import (
	"context"

	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/pkg/dsl"
)

// RuleFilter 是规则过滤器：用 CEL 表达式描述"什么样的候选应被剔除"。
// 表达式对候选求值为 true 时过滤，例如排除某些类型或召回来源：
//
//	&RuleFilter{Expr: `"Horror" in item.meta.genres`}
//	&RuleFilter{Expr: `label.recall_source == "popular" && item.score < 3.0`}
type RuleFilter struct {
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil || rctx == nil {
		return false, nil
	}
	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return matched, nil
}
