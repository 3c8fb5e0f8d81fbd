package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/moviekit/core"
)

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()
	h := NewHistoryStore(m, "")

	t.Run("no history is not an error", func(t *testing.T) {
		events, err := h.FetchRatingHistory(ctx, 42)
		if err != nil {
			t.Fatalf("FetchRatingHistory: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("got %d events, want 0", len(events))
		}
	})

	t.Run("append then fetch preserves order", func(t *testing.T) {
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		in := []core.RatingEvent{
			{UserID: 1, ItemID: 10, Value: 4.0, Timestamp: base},
			{UserID: 1, ItemID: 20, Value: 2.5, Timestamp: base.Add(time.Hour)},
			{UserID: 1, ItemID: 30, Value: 5.0, Timestamp: base.Add(2 * time.Hour)},
		}
		for _, ev := range in {
			if err := h.Append(ctx, ev); err != nil {
				t.Fatalf("Append: %v", err)
			}
		}

		got, err := h.FetchRatingHistory(ctx, 1)
		if err != nil {
			t.Fatalf("FetchRatingHistory: %v", err)
		}
		if len(got) != len(in) {
			t.Fatalf("got %d events, want %d", len(got), len(in))
		}
		for i := range in {
			if got[i].ItemID != in[i].ItemID || got[i].Value != in[i].Value {
				t.Errorf("got[%d] = %+v, want %+v", i, got[i], in[i])
			}
			if !got[i].Timestamp.Equal(in[i].Timestamp) {
				t.Errorf("got[%d].Timestamp = %v, want %v", i, got[i].Timestamp, in[i].Timestamp)
			}
		}
		if !core.HistoryAscending(got) {
			t.Error("fetched history must be ascending by timestamp")
		}
	})

	t.Run("zero timestamp filled on append", func(t *testing.T) {
		if err := h.Append(ctx, core.RatingEvent{UserID: 2, ItemID: 7, Value: 3.5}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		got, err := h.FetchRatingHistory(ctx, 2)
		if err != nil {
			t.Fatalf("FetchRatingHistory: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d events, want 1", len(got))
		}
		if got[0].Timestamp.IsZero() {
			t.Error("Append must fill a zero timestamp")
		}
	})

	t.Run("histories are isolated per user", func(t *testing.T) {
		got, err := h.FetchRatingHistory(ctx, 2)
		if err != nil {
			t.Fatalf("FetchRatingHistory: %v", err)
		}
		for _, ev := range got {
			if ev.UserID != 2 {
				t.Errorf("user 2 history contains event for user %d", ev.UserID)
			}
		}
	})
}
