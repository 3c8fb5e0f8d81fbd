package filter

import (
	"context"
	"testing"

	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/pkg/utils"
)

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, len(ids))
	for i, id := range ids {
		out[i] = core.NewItem(id)
	}
	return out
}

func TestRatedFilter(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{
		UserID: 1,
		History: []core.RatingEvent{
			{UserID: 1, ItemID: 10, Value: 4.0},
			{UserID: 1, ItemID: 20, Value: 2.5},
		},
	}

	f := &RatedFilter{}
	tests := []struct {
		name   string
		itemID int64
		want   bool
	}{
		{name: "rated movie filtered", itemID: 10, want: true},
		{name: "low rated movie still filtered", itemID: 20, want: true},
		{name: "unrated movie kept", itemID: 30, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(ctx, rctx, core.NewItem(tt.itemID))
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter(%d) = %v, want %v", tt.itemID, got, tt.want)
			}
		})
	}

	t.Run("empty history keeps everything", func(t *testing.T) {
		got, err := f.ShouldFilter(ctx, &core.RecommendContext{UserID: 1}, core.NewItem(10))
		if err != nil {
			t.Fatalf("ShouldFilter: %v", err)
		}
		if got {
			t.Error("nothing should be filtered without history")
		}
	})
}

func TestRuleFilter(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{UserID: 1, Scene: "homepage"}

	tests := []struct {
		name string
		expr string
		item func() *core.Item
		want bool
	}{
		{
			name: "empty expression keeps everything",
			expr: "",
			item: func() *core.Item { return core.NewItem(1) },
			want: false,
		},
		{
			name: "blocklist by id",
			expr: "item.id in [1407, 1717]",
			item: func() *core.Item { return core.NewItem(1407) },
			want: true,
		},
		{
			name: "id not in blocklist",
			expr: "item.id in [1407, 1717]",
			item: func() *core.Item { return core.NewItem(1) },
			want: false,
		},
		{
			name: "label value match",
			expr: `label.recall_source == "popular"`,
			item: func() *core.Item {
				it := core.NewItem(1)
				it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
				return it
			},
			want: true,
		},
		{
			name: "genre exclusion via meta",
			expr: `"Horror" in item.meta.genres`,
			item: func() *core.Item {
				it := core.NewItem(1)
				it.Meta["genres"] = []string{"Horror", "Thriller"}
				return it
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &RuleFilter{Expr: tt.expr}
			got, err := f.ShouldFilter(ctx, rctx, tt.item())
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("bad expression returns error", func(t *testing.T) {
		f := &RuleFilter{Expr: "item.id +"}
		if _, err := f.ShouldFilter(ctx, rctx, core.NewItem(1)); err == nil {
			t.Fatal("broken expression should return an error")
		}
	})
}

func TestFilterNode_Process(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{
		UserID: 1,
		History: []core.RatingEvent{
			{UserID: 1, ItemID: 2, Value: 4.0},
		},
	}

	n := &FilterNode{Filters: []Filter{&RatedFilter{}}}
	got, err := n.Process(ctx, rctx, items(1, 2, 3))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("Process kept %v, want [1 3]", itemIDList(got))
	}

	t.Run("no filters is a passthrough", func(t *testing.T) {
		n := &FilterNode{}
		in := items(1, 2)
		got, err := n.Process(ctx, rctx, in)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d items, want 2", len(got))
		}
	})
}

func itemIDList(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
