package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/moviekit/core"
)

type noopNode struct {
	name string
}

func (n *noopNode) Name() string { return n.name }
func (n *noopNode) Kind() Kind   { return KindRecall }

func (n *noopNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return items, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeFile(t, "pipeline.yaml", `
pipeline:
  name: test
  nodes:
    - type: recall.similar
      config:
        top_k: 5
    - type: rerank.topn
      config:
        n: 3
`)

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if cfg.Pipeline.Name != "test" {
		t.Errorf("name = %q, want test", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[0].Type != "recall.similar" {
		t.Errorf("nodes[0].Type = %q", cfg.Pipeline.Nodes[0].Type)
	}
	if got := cfg.Pipeline.Nodes[0].Config["top_k"]; got != 5 {
		t.Errorf("top_k = %v (%T), want 5", got, got)
	}
}

func TestLoadFromJSON(t *testing.T) {
	path := writeFile(t, "pipeline.json", `{
  "pipeline": {
    "name": "test",
    "nodes": [
      {"type": "rerank.topn", "config": {"n": 3}}
    ]
  }
}`)

	cfg, err := LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Type != "rerank.topn" {
		t.Errorf("nodes = %+v", cfg.Pipeline.Nodes)
	}
}

func TestLoad_MissingAndMalformed(t *testing.T) {
	if _, err := LoadFromYAML("does/not/exist.yaml"); err == nil {
		t.Error("LoadFromYAML should fail on a missing file")
	}
	path := writeFile(t, "bad.yaml", "pipeline: [not a mapping")
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("LoadFromYAML should fail on malformed yaml")
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("noop", func(cfg map[string]any) (Node, error) {
		return &noopNode{name: "noop"}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Name = "test"
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "noop"}}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Name() != "noop" {
		t.Errorf("pipeline nodes = %+v", p.Nodes)
	}

	t.Run("unknown node type", func(t *testing.T) {
		cfg := &Config{}
		cfg.Pipeline.Nodes = []NodeConfig{{Type: "nope"}}
		if _, err := cfg.BuildPipeline(factory); err == nil {
			t.Error("BuildPipeline should fail on an unregistered node type")
		}
	})
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&noopNode{name: "a"}, &noopNode{name: "b"}}}
	in := []*core.Item{core.NewItem(1)}
	got, err := p.Run(context.Background(), &core.RecommendContext{UserID: 1}, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Run = %+v", got)
	}
}
