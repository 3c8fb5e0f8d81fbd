// Package config 把 YAML/JSON 的 pipeline 配置映射到内置 Node。
// 目录、相似度索引、热门榜单、评分模型等不可变快照通过 Deps 注入，
// 配置只负责描述链路形状与各 Node 的参数。
package config

import (
	"fmt"
	"time"

	"github.com/rushteam/moviekit/catalog"
	"github.com/rushteam/moviekit/filter"
	"github.com/rushteam/moviekit/model"
	"github.com/rushteam/moviekit/pipeline"
	"github.com/rushteam/moviekit/pkg/conv"
	"github.com/rushteam/moviekit/popularity"
	"github.com/rushteam/moviekit/rank"
	"github.com/rushteam/moviekit/recall"
	"github.com/rushteam/moviekit/rerank"
	"github.com/rushteam/moviekit/similarity"
)

// Deps 是配置驱动构建所需的引擎快照。
type Deps struct {
	Catalog    *catalog.Catalog
	Similarity *similarity.Index
	Popular    *popularity.Index
	Model      model.RatingModel
}

// NewFactory 返回一个包含所有内置 Node 的工厂。
func NewFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// Recall Nodes
	factory.Register("recall.similar", deps.buildSimilarNode)
	factory.Register("recall.popular", deps.buildPopularNode)
	factory.Register("recall.fanout", deps.buildFanoutNode)

	// Filter Nodes
	factory.Register("filter", deps.buildFilterNode)

	// Rank Nodes
	factory.Register("rank.svd", deps.buildSVDNode)

	// ReRank Nodes
	factory.Register("rerank.topn", deps.buildTopNNode)
	factory.Register("rerank.diversity", deps.buildDiversityNode)

	return factory
}

func (d Deps) buildSimilarNode(cfg map[string]any) (pipeline.Node, error) {
	if d.Similarity == nil {
		return nil, fmt.Errorf("recall.similar requires a similarity index")
	}
	return &recall.Similar{
		Index:         d.Similarity,
		Popular:       d.Popular,
		TopK:          conv.ConfigGetInt(cfg, "top_k", 30),
		LikeThreshold: conv.ConfigGetFloat(cfg, "like_threshold", 4.0),
	}, nil
}

func (d Deps) buildPopularNode(cfg map[string]any) (pipeline.Node, error) {
	if d.Popular == nil {
		return nil, fmt.Errorf("recall.popular requires a popularity index")
	}
	return &recall.Popular{
		Index: d.Popular,
		TopK:  conv.ConfigGetInt(cfg, "top_k", 10),
	}, nil
}

func (d Deps) buildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesCfg, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesCfg))
	for _, sc := range sourcesCfg {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet[string](sourceMap, "type", "")
		switch sourceType {
		case "similar":
			node, err := d.buildSimilarNode(sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.Similar))
		case "popular":
			node, err := d.buildPopularNode(sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.Popular))
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet[bool](cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet[string](cfg, "merge_strategy", "priority"),
		MaxConcurrent: conv.ConfigGetInt(cfg, "max_concurrent", 0),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	return fanout, nil
}

func (d Deps) buildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filters := []filter.Filter{}
	if conv.ConfigGet(cfg, "rated", true) {
		filters = append(filters, &filter.RatedFilter{})
	}
	if expr := conv.ConfigGet[string](cfg, "rule", ""); expr != "" {
		filters = append(filters, &filter.RuleFilter{Expr: expr})
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func (d Deps) buildSVDNode(cfg map[string]any) (pipeline.Node, error) {
	return &rank.SVDNode{
		Model:         d.Model,
		FallbackScore: conv.ConfigGetFloat(cfg, "fallback_score", rank.DefaultFallbackScore),
	}, nil
}

func (d Deps) buildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 10)}, nil
}

func (d Deps) buildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	if d.Catalog == nil {
		return nil, fmt.Errorf("rerank.diversity requires a catalog")
	}
	return &rerank.Diversity{Catalog: d.Catalog}, nil
}
