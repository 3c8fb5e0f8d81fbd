package model

// RatingModel 是排序阶段的最小抽象：预测某用户对某电影的评分。
// 具体实现可以是本地模型（SVD 矩阵分解）或任何可查表的离线产物；
// 排序 Node 只依赖这个接口，便于用 stub 单测编排逻辑。
type RatingModel interface {
	Name() string
	Predict(userID, itemID int64) float64
}
