package core

import "github.com/rushteam/moviekit/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选电影、打分、元信息、标签。
// ID 对应目录中的 movieId；Score 是排序阶段写入的预测评分；
// Labels 用于解释与策略驱动（召回来源、过滤原因等）。
type Item struct {
	ID     int64
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
