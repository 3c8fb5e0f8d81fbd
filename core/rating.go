package core

import (
	"context"
	"time"
)

// RatingEvent 是一条历史评分记录，由外部评分存储产出，引擎只读不写。
// Value 的取值范围为 [0.5, 5.0]（MovieLens 半星制）。
type RatingEvent struct {
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// RatingStore 是外部评分存储的领域接口。
//
// 契约：FetchRatingHistory 返回的历史必须按时间戳升序排列，
// 引擎依赖该顺序解释"最近喜欢"的语义（见 recommender 包）。
type RatingStore interface {
	// FetchRatingHistory 获取指定用户的全部评分历史（时间戳升序）
	FetchRatingHistory(ctx context.Context, userID int64) ([]RatingEvent, error)
}

// HistoryAscending 校验历史是否按时间戳升序排列。
// 零值时间戳视为无序信息，跳过比较（兼容不带时间戳的调用方）。
func HistoryAscending(history []RatingEvent) bool {
	var prev time.Time
	for _, ev := range history {
		if ev.Timestamp.IsZero() {
			continue
		}
		if !prev.IsZero() && ev.Timestamp.Before(prev) {
			return false
		}
		prev = ev.Timestamp
	}
	return true
}
