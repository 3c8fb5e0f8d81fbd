package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// GenreSeparator 是数据源中类型标签的分隔符（MovieLens 约定）。
const GenreSeparator = "|"

// LoadCSV 从 movies.csv（movieId,title,genres）加载目录。
// 坏行只记 warning 并跳过；文件缺失时返回空目录而不是错误，
// 下游（相似度索引、推荐流程）会对空目录优雅降级。
func LoadCSV(path string, logger zerolog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("catalog source missing, starting with empty catalog")
		return New(nil), nil
	}
	defer f.Close()

	c, err := ReadCSV(f, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("items", c.Len()).Str("path", path).Msg("catalog loaded")
	return c, nil
}

// ReadCSV 从任意 reader 解析目录数据（测试使用）。
func ReadCSV(r io.Reader, logger zerolog.Logger) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	items := make([]Item, 0, 1024)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line++
			logger.Warn().Int("line", line).Err(err).Msg("skip unreadable catalog row")
			continue
		}
		line++

		if len(record) < 3 {
			logger.Warn().Int("line", line).Int("fields", len(record)).Msg("skip short catalog row")
			continue
		}
		// 兼容带表头的文件
		if line == 1 && strings.EqualFold(record[0], "movieId") {
			continue
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			logger.Warn().Int("line", line).Str("movie_id", record[0]).Msg("skip catalog row with bad id")
			continue
		}

		items = append(items, Item{
			ID:     id,
			Title:  strings.TrimSpace(record[1]),
			Genres: splitGenres(record[2]),
		})
	}

	return New(items), nil
}

func splitGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, GenreSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
