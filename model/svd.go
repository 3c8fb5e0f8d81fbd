package model

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/moviekit/core"
)

// Config 是 SVD 的超参数。
type Config struct {
	Factors int     // 隐向量维度 F
	Epochs  int     // 训练轮数（无 early stopping，固定跑满）
	LR      float64 // 学习率
	Reg     float64 // L2 正则系数
	Seed    int64   // 随机种子：因子初始化与每轮 shuffle 都由它决定
}

// DefaultConfig 返回默认超参数。
func DefaultConfig() Config {
	return Config{
		Factors: 50,
		Epochs:  20,
		LR:      0.005,
		Reg:     0.02,
		Seed:    42,
	}
}

// SVD 实现了带偏置项的矩阵分解评分模型（biased MF），用 SGD 离线训练。
//
// 预测原理：
//
//	pred = globalMean + userBias[u] + itemBias[i] + dot(userFactors[u], itemFactors[i])
//
// 状态机：未训练 → 训练中 → 已训练。Fit 只允许调用一次，
// 成功返回后模型即为只读快照，可被任意并发 Predict。
type SVD struct {
	Logger zerolog.Logger

	cfg Config

	globalMean  float64
	userBias    []float64
	itemBias    []float64
	userFactors [][]float64
	itemFactors [][]float64

	userIDs   []int64 // 内部下标 -> userID（升序）
	itemIDs   []int64 // 内部下标 -> itemID（升序）
	userIndex map[int64]int
	itemIndex map[int64]int

	epochRMSE []float64
	trained   bool
}

// New 创建一个未训练的 SVD 模型。
func New(cfg Config) *SVD {
	if cfg.Factors <= 0 {
		cfg.Factors = DefaultConfig().Factors
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = DefaultConfig().Epochs
	}
	if cfg.LR <= 0 {
		cfg.LR = DefaultConfig().LR
	}
	if cfg.Reg < 0 {
		cfg.Reg = DefaultConfig().Reg
	}
	return &SVD{
		Logger: zerolog.Nop(),
		cfg:    cfg,
	}
}

func (m *SVD) Name() string { return "svd" }

// Ready 报告模型是否已完成训练，可以对外服务。
func (m *SVD) Ready() bool { return m.trained }

// Config 返回训练时使用的超参数。
func (m *SVD) Config() Config { return m.cfg }

// GlobalMean 返回训练集的评分均值（未知用户/电影的兜底预测值）。
func (m *SVD) GlobalMean() float64 { return m.globalMean }

// EpochRMSE 返回每轮训练的 RMSE（诊断用）。
func (m *SVD) EpochRMSE() []float64 { return m.epochRMSE }

// ErrEmptyTrainingSet 表示训练样本为空，模型保持未训练状态。
var ErrEmptyTrainingSet = core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: empty training set")

// Fit 在 (user, item, rating) 三元组上训练模型。
//
// 输入校验在任何状态变化之前完成：空样本、评分越界、重复训练都会被拒绝，
// 此时模型仍处于未训练状态。给定相同的输入与种子，训练结果完全可复现。
func (m *SVD) Fit(events []core.RatingEvent) error {
	if m.trained {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: already trained")
	}
	if len(events) == 0 {
		return ErrEmptyTrainingSet
	}
	for _, ev := range events {
		if ev.Value < 0.5 || ev.Value > 5.0 || math.IsNaN(ev.Value) {
			return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: rating out of range [0.5, 5.0]")
		}
	}

	m.userIDs = uniqueSortedIDs(events, func(ev core.RatingEvent) int64 { return ev.UserID })
	m.itemIDs = uniqueSortedIDs(events, func(ev core.RatingEvent) int64 { return ev.ItemID })
	m.userIndex = indexOf(m.userIDs)
	m.itemIndex = indexOf(m.itemIDs)

	nUsers, nItems := len(m.userIDs), len(m.itemIDs)
	m.Logger.Info().
		Int("users", nUsers).
		Int("items", nItems).
		Int("ratings", len(events)).
		Int("factors", m.cfg.Factors).
		Int("epochs", m.cfg.Epochs).
		Msg("svd training started")

	var sum float64
	for _, ev := range events {
		sum += ev.Value
	}
	m.globalMean = sum / float64(len(events))

	rng := rand.New(rand.NewSource(m.cfg.Seed))
	m.userBias = make([]float64, nUsers)
	m.itemBias = make([]float64, nItems)
	m.userFactors = normalMatrix(rng, nUsers, m.cfg.Factors)
	m.itemFactors = normalMatrix(rng, nItems, m.cfg.Factors)

	uIdx := make([]int, len(events))
	iIdx := make([]int, len(events))
	for k, ev := range events {
		uIdx[k] = m.userIndex[ev.UserID]
		iIdx[k] = m.itemIndex[ev.ItemID]
	}

	lr, reg := m.cfg.LR, m.cfg.Reg
	order := make([]int, len(events))
	ufOld := make([]float64, m.cfg.Factors)
	m.epochRMSE = make([]float64, 0, m.cfg.Epochs)

	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		for k := range order {
			order[k] = k
		}
		rng.Shuffle(len(order), func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})

		var totalErr float64
		for _, k := range order {
			u, i := uIdx[k], iIdx[k]
			uf, itf := m.userFactors[u], m.itemFactors[i]

			pred := m.globalMean + m.userBias[u] + m.itemBias[i] + dot(uf, itf)
			err := events[k].Value - pred
			totalErr += err * err

			m.userBias[u] += lr * (err - reg*m.userBias[u])
			m.itemBias[i] += lr * (err - reg*m.itemBias[i])

			// 因子更新必须使用对侧更新前的值：先快照用户因子，
			// 用户侧用当前电影因子更新，电影侧再用快照更新。
			copy(ufOld, uf)
			for f := range uf {
				uf[f] += lr * (err*itf[f] - reg*uf[f])
			}
			for f := range itf {
				itf[f] += lr * (err*ufOld[f] - reg*itf[f])
			}
		}

		rmse := math.Sqrt(totalErr / float64(len(events)))
		m.epochRMSE = append(m.epochRMSE, rmse)
		m.Logger.Debug().Int("epoch", epoch+1).Float64("rmse", rmse).Msg("svd epoch done")
	}

	m.trained = true
	m.Logger.Info().Float64("final_rmse", m.epochRMSE[len(m.epochRMSE)-1]).Msg("svd training finished")
	return nil
}

// Predict 预测用户对电影的评分，结果裁剪到 [0.5, 5.0]。
// 训练集中没出现过的用户或电影一律返回 globalMean（冷启动兜底）。
func (m *SVD) Predict(userID, itemID int64) float64 {
	if !m.trained {
		return m.globalMean
	}

	u, okU := m.userIndex[userID]
	i, okI := m.itemIndex[itemID]
	if !okU || !okI {
		return m.globalMean
	}

	pred := m.globalMean + m.userBias[u] + m.itemBias[i] + dot(m.userFactors[u], m.itemFactors[i])
	return clip(pred, 0.5, 5.0)
}

var _ RatingModel = (*SVD)(nil)

func uniqueSortedIDs(events []core.RatingEvent, key func(core.RatingEvent) int64) []int64 {
	seen := make(map[int64]struct{}, len(events))
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		id := key(ev)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

func indexOf(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

func normalMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	mat := make([][]float64, rows)
	for r := range mat {
		row := make([]float64, cols)
		for c := range row {
			row[c] = rng.NormFloat64() * 0.1
		}
		mat[r] = row
	}
	return mat
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
