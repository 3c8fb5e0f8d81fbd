package similarity

import (
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/moviekit/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Item{
		{ID: 1, Title: "Heat", Genres: []string{"Action", "Crime"}},
		{ID: 2, Title: "Rush Hour", Genres: []string{"Action", "Comedy"}},
		{ID: 3, Title: "Airplane!", Genres: []string{"Comedy"}},
		{ID: 4, Title: "Manchester by the Sea", Genres: []string{"Drama"}},
		{ID: 5, Title: "Untagged", Genres: nil},
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercase and split on non alphanumeric",
			text: "Action|Sci-Fi Film-Noir",
			want: []string{"action", "sci", "fi", "film", "noir"},
		},
		{
			name: "stop words and single chars removed",
			text: "The a of children's",
			want: []string{"children"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "no genres listed keeps meaningful tokens only",
			text: "(no genres listed)",
			want: []string{"genres", "listed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIndex_Similarity(t *testing.T) {
	idx := Build(testCatalog())

	t.Run("symmetric", func(t *testing.T) {
		ab, ok := idx.Similarity(1, 2)
		if !ok {
			t.Fatal("Similarity(1, 2) not ok")
		}
		ba, _ := idx.Similarity(2, 1)
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("Similarity asymmetric: %v vs %v", ab, ba)
		}
	})

	t.Run("self similarity is one", func(t *testing.T) {
		s, ok := idx.Similarity(1, 1)
		if !ok {
			t.Fatal("Similarity(1, 1) not ok")
		}
		if math.Abs(s-1.0) > 1e-9 {
			t.Errorf("self similarity = %v, want 1.0", s)
		}
	})

	t.Run("shared genre scores higher than disjoint", func(t *testing.T) {
		shared, _ := idx.Similarity(1, 2)   // 共享 action
		disjoint, _ := idx.Similarity(1, 4) // 无交集
		if shared <= disjoint {
			t.Errorf("shared=%v should exceed disjoint=%v", shared, disjoint)
		}
		if disjoint != 0 {
			t.Errorf("disjoint genres similarity = %v, want 0", disjoint)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, ok := idx.Similarity(1, 999); ok {
			t.Error("Similarity with unknown id should return ok=false")
		}
	})

	t.Run("empty genre vector scores zero", func(t *testing.T) {
		s, ok := idx.Similarity(1, 5)
		if !ok || s != 0 {
			t.Errorf("Similarity(1, 5) = (%v, %v), want (0, true)", s, ok)
		}
	})

	t.Run("range within unit interval", func(t *testing.T) {
		ids := []int64{1, 2, 3, 4, 5}
		for _, a := range ids {
			for _, b := range ids {
				s, _ := idx.Similarity(a, b)
				if s < 0 || s > 1+1e-9 {
					t.Errorf("Similarity(%d, %d) = %v out of [0, 1]", a, b, s)
				}
			}
		}
	})
}

func TestIndex_TopSimilar(t *testing.T) {
	idx := Build(testCatalog())

	t.Run("excludes self and respects n", func(t *testing.T) {
		got := idx.TopSimilar(1, 2)
		if len(got) != 2 {
			t.Fatalf("TopSimilar(1, 2) returned %d items, want 2", len(got))
		}
		for _, id := range got {
			if id == 1 {
				t.Error("TopSimilar must not contain the query item itself")
			}
		}
	})

	t.Run("ordered by descending similarity", func(t *testing.T) {
		got := idx.TopSimilar(1, 10)
		if len(got) != 4 {
			t.Fatalf("TopSimilar(1, 10) returned %d items, want 4", len(got))
		}
		prev := math.Inf(1)
		for _, id := range got {
			s, _ := idx.Similarity(1, id)
			if s > prev+1e-12 {
				t.Errorf("results not sorted: item %d score %v after %v", id, s, prev)
			}
			prev = s
		}
		// 共享 action 的 2 必须排最前
		if got[0] != 2 {
			t.Errorf("TopSimilar(1)[0] = %d, want 2", got[0])
		}
	})

	t.Run("unknown seed returns nil", func(t *testing.T) {
		if got := idx.TopSimilar(999, 5); got != nil {
			t.Errorf("TopSimilar(999, 5) = %v, want nil", got)
		}
	})

	t.Run("non positive n returns nil", func(t *testing.T) {
		if got := idx.TopSimilar(1, 0); got != nil {
			t.Errorf("TopSimilar(1, 0) = %v, want nil", got)
		}
	})
}

func TestBuild_VocabAndDeterminism(t *testing.T) {
	a := Build(testCatalog())
	b := Build(testCatalog())

	// action / crime / comedy / drama
	if a.VocabSize() != 4 {
		t.Errorf("VocabSize = %d, want 4", a.VocabSize())
	}

	for _, id := range []int64{1, 2, 3, 4, 5} {
		ga := a.TopSimilar(id, 10)
		gb := b.TopSimilar(id, 10)
		if !reflect.DeepEqual(ga, gb) {
			t.Errorf("TopSimilar(%d) differs across rebuilds: %v vs %v", id, ga, gb)
		}
	}
}
