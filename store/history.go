package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rushteam/moviekit/core"
)

// HistoryStore 是基于 core.Store 的评分历史适配器，
// 实现外部评分存储的领域接口 core.RatingStore。
//
// 存储布局：{KeyPrefix}:{userID} -> JSON 数组（时间戳升序追加）。
type HistoryStore struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀，默认 "ratings:user"
	KeyPrefix string
}

// NewHistoryStore 创建一个评分历史适配器。
func NewHistoryStore(s core.Store, keyPrefix string) *HistoryStore {
	if keyPrefix == "" {
		keyPrefix = "ratings:user"
	}
	return &HistoryStore{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

func (h *HistoryStore) key(userID int64) string {
	return h.KeyPrefix + ":" + strconv.FormatInt(userID, 10)
}

// FetchRatingHistory 返回用户的评分历史（时间戳升序，即追加顺序）。
// 用户没有任何评分时返回空切片，不视为错误。
func (h *HistoryStore) FetchRatingHistory(ctx context.Context, userID int64) ([]core.RatingEvent, error) {
	data, err := h.store.Get(ctx, h.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var events []core.RatingEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Append 追加一条评分。时间戳为零值时补当前时间，保持升序追加契约。
func (h *HistoryStore) Append(ctx context.Context, ev core.RatingEvent) error {
	events, err := h.FetchRatingHistory(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	events = append(events, ev)

	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return h.store.Set(ctx, h.key(ev.UserID), data)
}

var _ core.RatingStore = (*HistoryStore)(nil)
