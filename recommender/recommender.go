// Package recommender 是混合推荐引擎的编排层：
// 类型相似度召回 → 已看过过滤 → SVD 评分排序 → TopN 截断，
// 以及冷启动调用方需要的热门榜单出口。
//
// 所有依赖（目录、相似度索引、热门榜单、评分模型）都是构建期注入的
// 不可变快照，Recommend 是纯读操作，可被任意并发请求调用。
package recommender

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/moviekit/catalog"
	"github.com/rushteam/moviekit/core"
	"github.com/rushteam/moviekit/filter"
	"github.com/rushteam/moviekit/model"
	"github.com/rushteam/moviekit/pipeline"
	"github.com/rushteam/moviekit/popularity"
	"github.com/rushteam/moviekit/rank"
	"github.com/rushteam/moviekit/recall"
	"github.com/rushteam/moviekit/rerank"
	"github.com/rushteam/moviekit/similarity"
)

// Recommendation 是一条推荐结果，Title/Genres 来自目录补全（目录缺失则为空）。
type Recommendation struct {
	ItemID int64    `json:"item_id"`
	Score  float64  `json:"predicted_rating"`
	Title  string   `json:"title,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// Recommender 是推荐引擎的门面。字段在 New 之后视为只读。
type Recommender struct {
	Catalog    *catalog.Catalog
	Similarity *similarity.Index
	Popular    *popularity.Index
	Model      model.RatingModel // nil 时排序退化为常数兜底分

	// Ratings 是外部评分存储（可选），RecommendForUser 用它拉取历史
	Ratings core.RatingStore

	// Pipeline 允许整体替换编排链；nil 时使用默认的混合链路
	Pipeline *pipeline.Pipeline

	Logger zerolog.Logger

	// 引擎参数，零值时取 core.DefaultEngineConfig 的默认值
	CandidateTopK int
	TopN          int
	LikeThreshold float64
}

// New 组装一个混合推荐引擎。模型可以为 nil（产物缺失时的降级模式）。
func New(
	cat *catalog.Catalog,
	sim *similarity.Index,
	pop *popularity.Index,
	m model.RatingModel,
	logger zerolog.Logger,
) *Recommender {
	defaults := &core.DefaultEngineConfig{}
	r := &Recommender{
		Catalog:       cat,
		Similarity:    sim,
		Popular:       pop,
		Model:         m,
		Logger:        logger,
		CandidateTopK: defaults.DefaultCandidateTopK(),
		TopN:          defaults.DefaultTopN(),
		LikeThreshold: defaults.DefaultLikeThreshold(),
	}
	if m == nil {
		logger.Warn().Msg("no rating model loaded, serving with constant fallback scores")
	}
	if cat == nil || cat.Len() == 0 {
		logger.Warn().Msg("empty catalog, recommendations will degrade to popularity fallback")
	}
	return r
}

// Recommend 为用户生成推荐列表。
//
// 契约：history 必须按时间戳升序排列（"最近喜欢"的语义依赖它），
// 乱序输入返回 INVALID_INPUT。history 为空返回 ErrNoSignal，
// 调用方应改走冷启动路径（TopPopular）。
//
// 结果不含历史中已出现的电影，长度不超过 TopN。
func (r *Recommender) Recommend(
	ctx context.Context,
	userID int64,
	history []core.RatingEvent,
) ([]Recommendation, error) {
	if len(history) == 0 {
		return nil, core.ErrNoSignal
	}
	if !core.HistoryAscending(history) {
		return nil, core.NewDomainError(core.ModuleRecommender, core.ErrorCodeInvalidInput,
			"recommender: rating history must be in ascending timestamp order")
	}

	rctx := &core.RecommendContext{
		UserID:  userID,
		History: history,
	}

	p := r.Pipeline
	if p == nil {
		p = r.defaultPipeline()
	}

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		rec := Recommendation{ItemID: it.ID, Score: it.Score}
		if r.Catalog != nil {
			if entry, ok := r.Catalog.Get(it.ID); ok {
				rec.Title = entry.Title
				rec.Genres = entry.Genres
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// RecommendForUser 从外部评分存储拉取历史后推荐（历史按升序追加存储）。
func (r *Recommender) RecommendForUser(ctx context.Context, userID int64) ([]Recommendation, error) {
	if r.Ratings == nil {
		return nil, core.NewDomainError(core.ModuleRecommender, core.ErrorCodeNotSupported,
			"recommender: no rating store configured")
	}
	history, err := r.Ratings.FetchRatingHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.Recommend(ctx, userID, history)
}

// TopPopular 返回热门榜单前 n 条（冷启动出口），分数为榜单均分。
func (r *Recommender) TopPopular(n int) []Recommendation {
	if r.Popular == nil {
		return nil
	}
	ids := r.Popular.TopPopular(n)
	out := make([]Recommendation, 0, len(ids))
	for _, id := range ids {
		rec := Recommendation{ItemID: id}
		if mean, ok := r.Popular.Mean(id); ok {
			rec.Score = mean
		}
		if r.Catalog != nil {
			if entry, ok := r.Catalog.Get(id); ok {
				rec.Title = entry.Title
				rec.Genres = entry.Genres
			}
		}
		out = append(out, rec)
	}
	return out
}

// defaultPipeline 构建默认的混合链路。Node 全部无状态，按请求构建零成本。
func (r *Recommender) defaultPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Similar{
				Index:         r.Similarity,
				Popular:       r.Popular,
				TopK:          r.CandidateTopK,
				LikeThreshold: r.LikeThreshold,
			},
			&filter.FilterNode{
				Filters: []filter.Filter{&filter.RatedFilter{}},
			},
			&rank.SVDNode{Model: r.Model},
			&rerank.TopNNode{N: r.TopN},
		},
	}
}
