package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/moviekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选规则解释器，使用 CEL (Common Expression Language) 实现。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "popular"
//   - 数值：item.score > 3.5 / item.id != 42
//   - 逻辑：label.recall_source == "similar" && item.score > 3.0
//   - 包含："Horror" in item.meta.genres
//
// 示例：
//   - `label.recall_source.contains("popular")` → 召回来源包含 "popular"
//   - `!("Horror" in item.meta.genres)` → 排除恐怖片
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行 CEL 表达式，返回布尔结果。
// 空表达式恒为 true。表达式必须返回布尔值，否则视为错误。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错：
		// 用表达式里的 label.key != null 做存在性检查
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any, len(e.item.Labels))
	labelAccessor := make(map[string]any, len(e.item.Labels))
	for k, v := range e.item.Labels {
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
		// label.recall_source 直接返回 value，方便写短表达式
		labelAccessor[k] = v.Value
	}

	item := map[string]any{
		"id":     e.item.ID,
		"score":  e.item.Score,
		"meta":   e.item.Meta,
		"labels": labels,
	}

	rctx := map[string]any{
		"user_id": e.rctx.UserID,
		"scene":   e.rctx.Scene,
		"params":  e.rctx.Params,
	}

	return map[string]any{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rctx,
	}
}
