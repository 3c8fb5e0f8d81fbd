package core

import "github.com/rushteam/moviekit/pkg/utils"

// RecommendContext 承载用户/场景/请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64
	Scene  string

	// History 是用户的评分历史，按时间戳升序排列。
	// 召回阶段用它做种子选择，过滤阶段用它剔除已看过的电影。
	History []RatingEvent

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、冷启动、重度用户等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（limit、device_type 等）
	Params map[string]any
}

// RatedSet 返回历史中出现过的 itemID 集合，用于已看过过滤。
func (rctx *RecommendContext) RatedSet() map[int64]struct{} {
	if len(rctx.History) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(rctx.History))
	for _, ev := range rctx.History {
		set[ev.ItemID] = struct{}{}
	}
	return set
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
