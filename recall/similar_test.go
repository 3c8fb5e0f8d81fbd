package recall

import (
	"context"
	"testing"

	"github.com/rushteam/moviekit/catalog"
	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/popularity"
	"github.com/rushteam/moviekit/similarity"
)

func testIndex() *similarity.Index {
	return similarity.Build(catalog.New([]catalog.Item{
		{ID: 1, Title: "Heat", Genres: []string{"Action", "Crime"}},
		{ID: 2, Title: "Rush Hour", Genres: []string{"Action", "Comedy"}},
		{ID: 3, Title: "Airplane!", Genres: []string{"Comedy"}},
		{ID: 4, Title: "Manchester by the Sea", Genres: []string{"Drama"}},
	}))
}

func testPopular() *popularity.Index {
	evs := make([]core.RatingEvent, 0, 6)
	for u := int64(1); u <= 3; u++ {
		evs = append(evs,
			core.RatingEvent{UserID: u, ItemID: 7, Value: 5.0},
			core.RatingEvent{UserID: u, ItemID: 8, Value: 4.0},
		)
	}
	return popularity.Build(evs, popularity.Options{MinCount: 3, Limit: 10})
}

func TestSimilar_Recall(t *testing.T) {
	ctx := context.Background()

	t.Run("empty history yields nothing", func(t *testing.T) {
		src := &Similar{Index: testIndex()}
		items, err := src.Recall(ctx, &core.RecommendContext{UserID: 1})
		if err != nil {
			t.Fatalf("Recall: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("got %d items, want 0", len(items))
		}
	})

	t.Run("candidates come from seed similarity", func(t *testing.T) {
		src := &Similar{Index: testIndex(), TopK: 2}
		rctx := &core.RecommendContext{
			UserID:  1,
			History: []core.RatingEvent{ev(1, 5.0, 1)},
		}
		items, err := src.Recall(ctx, rctx)
		if err != nil {
			t.Fatalf("Recall: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}
		if items[0].ID != 2 {
			t.Errorf("top candidate = %d, want 2 (shares action)", items[0].ID)
		}
		for _, it := range items {
			if it.ID == 1 {
				t.Error("seed movie must not appear in candidates")
			}
			if got := it.Labels["recall_source"].Value; got != "similar" {
				t.Errorf("recall_source = %q, want similar", got)
			}
			if got := it.Labels["seed_movie"].Value; got != "1" {
				t.Errorf("seed_movie = %q, want 1", got)
			}
		}
	})

	t.Run("unknown seed falls back to popular chart", func(t *testing.T) {
		src := &Similar{Index: testIndex(), Popular: testPopular(), TopK: 5}
		rctx := &core.RecommendContext{
			UserID:  1,
			History: []core.RatingEvent{ev(999, 5.0, 1)},
		}
		items, err := src.Recall(ctx, rctx)
		if err != nil {
			t.Fatalf("Recall: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2 from the popular chart", len(items))
		}
		if items[0].ID != 7 || items[1].ID != 8 {
			t.Errorf("popular fallback order = [%d %d], want [7 8]", items[0].ID, items[1].ID)
		}
		if got := items[0].Labels["recall_source"].Value; got != "popular_fallback" {
			t.Errorf("recall_source = %q, want popular_fallback", got)
		}
	})

	t.Run("unknown seed without chart yields nothing", func(t *testing.T) {
		src := &Similar{Index: testIndex()}
		rctx := &core.RecommendContext{
			UserID:  1,
			History: []core.RatingEvent{ev(999, 5.0, 1)},
		}
		items, err := src.Recall(ctx, rctx)
		if err != nil {
			t.Fatalf("Recall: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("got %d items, want 0", len(items))
		}
	})
}
