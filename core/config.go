package core

// EngineConfig 是推荐引擎相关的配置接口，用于提供默认值。
type EngineConfig interface {
	// DefaultCandidateTopK 返回候选生成阶段的相似电影数量
	DefaultCandidateTopK() int

	// DefaultTopN 返回最终推荐列表长度
	DefaultTopN() int

	// DefaultLikeThreshold 返回"喜欢"的评分阈值（种子选择用）
	DefaultLikeThreshold() float64

	// DefaultPopularMinCount 返回进入热门榜单所需的最少评分数
	DefaultPopularMinCount() int

	// DefaultPopularLimit 返回热门榜单的缓存长度
	DefaultPopularLimit() int

	// DefaultSampleCap 返回离线训练的抽样上限
	DefaultSampleCap() int
}

// DefaultEngineConfig 是默认的引擎配置实现。
type DefaultEngineConfig struct{}

func (c *DefaultEngineConfig) DefaultCandidateTopK() int {
	return 30
}

func (c *DefaultEngineConfig) DefaultTopN() int {
	return 10
}

func (c *DefaultEngineConfig) DefaultLikeThreshold() float64 {
	return 4.0
}

func (c *DefaultEngineConfig) DefaultPopularMinCount() int {
	return 100
}

func (c *DefaultEngineConfig) DefaultPopularLimit() int {
	return 50
}

func (c *DefaultEngineConfig) DefaultSampleCap() int {
	return 500_000
}
