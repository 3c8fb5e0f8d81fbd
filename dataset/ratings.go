// Package dataset 读取历史评分数据源（userId,movieId,rating[,timestamp]），
// 为离线训练与热门榜单构建提供三元组序列。
package dataset

import (
	"encoding/csv"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/moviekit/core"
)

// LoadCSV 从 ratings.csv 加载评分三元组。
// 坏行只记 warning 并跳过；文件缺失时返回空切片，离线任务自行决定是否致命。
func LoadCSV(path string, logger zerolog.Logger) ([]core.RatingEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("ratings source missing")
		return nil, nil
	}
	defer f.Close()

	events, err := ReadCSV(f, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("ratings", len(events)).Str("path", path).Msg("ratings loaded")
	return events, nil
}

// ReadCSV 从任意 reader 解析评分数据（测试使用）。
func ReadCSV(r io.Reader, logger zerolog.Logger) ([]core.RatingEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	events := make([]core.RatingEvent, 0, 4096)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line++
			logger.Warn().Int("line", line).Err(err).Msg("skip unreadable rating row")
			continue
		}
		line++

		if len(record) < 3 {
			logger.Warn().Int("line", line).Int("fields", len(record)).Msg("skip short rating row")
			continue
		}
		if line == 1 && strings.EqualFold(record[0], "userId") {
			continue
		}

		userID, err1 := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		itemID, err2 := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		value, err3 := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			logger.Warn().Int("line", line).Msg("skip malformed rating row")
			continue
		}

		ev := core.RatingEvent{UserID: userID, ItemID: itemID, Value: value}
		if len(record) > 3 {
			if ts, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64); err == nil {
				ev.Timestamp = time.Unix(ts, 0).UTC()
			}
		}
		events = append(events, ev)
	}

	return events, nil
}

// Sample 对评分集做确定性抽样：数量超过 cap 时用种子随机取 cap 条。
// 给定相同的输入与种子，抽样结果完全一致（训练可复现的前提）。
// cap <= 0 或数量不超标时原样返回。
func Sample(events []core.RatingEvent, cap int, seed int64) []core.RatingEvent {
	if cap <= 0 || len(events) <= cap {
		return events
	}

	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(order), func(a, b int) {
		order[a], order[b] = order[b], order[a]
	})

	out := make([]core.RatingEvent, cap)
	for i := 0; i < cap; i++ {
		out[i] = events[order[i]]
	}
	return out
}
