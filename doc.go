// Package moviekit 是一个电影混合推荐引擎（Movie Recommender Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - 内容 + 协同混合: TF-IDF 类型相似召回，SVD 评分模型排序，热门榜单兜底
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
// - Node 可扩展: 自定义 Node 即可插拔扩展
package moviekit

import "github.com/rushteam/moviekit/pipeline"

// 轻量 facade：便于用户直接 import "moviekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
