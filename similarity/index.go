// Package similarity 基于类型标签构建 TF-IDF 向量空间，
// 回答"与电影 X 最相似的 TopN"查询（余弦相似度）。
//
// 索引是目录的纯函数：构建一次后只读，任意并发查询无需加锁；
// 目录变化时需要整体重建，不支持增量更新。
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/rushteam/moviekit/catalog"
)

// Index 是类型相似度索引。
// 第 i 行稀疏向量对应目录的第 i 条记录。
type Index struct {
	ids   []int64           // 行号 -> movieId
	rows  []map[int]float64 // 行号 -> 稀疏 TF-IDF 向量（列号 -> 权重）
	norms []float64         // 行号 -> 向量模长
	rowOf map[int64]int     // movieId -> 行号
	vocab map[string]int    // token -> 列号
}

// Build 在目录快照上构建 TF-IDF 索引。
// 权重：tf = 词频/文档长度，idf = ln(N/df) + 1。
func Build(c *catalog.Catalog) *Index {
	items := c.Items()
	idx := &Index{
		ids:   make([]int64, len(items)),
		rows:  make([]map[int]float64, len(items)),
		norms: make([]float64, len(items)),
		rowOf: make(map[int64]int, len(items)),
		vocab: make(map[string]int),
	}

	docs := make([][]string, len(items))
	df := make(map[string]int)
	for i, it := range items {
		idx.ids[i] = it.ID
		idx.rowOf[it.ID] = i

		tokens := Tokenize(it.GenreText())
		docs[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
			if _, ok := idx.vocab[tok]; !ok {
				idx.vocab[tok] = len(idx.vocab)
			}
		}
	}

	n := float64(len(items))
	idf := make(map[string]float64, len(df))
	for tok, d := range df {
		idf[tok] = math.Log(n/float64(d)) + 1.0
	}

	for i, tokens := range docs {
		row := make(map[int]float64, len(tokens))
		if len(tokens) > 0 {
			tf := make(map[string]int, len(tokens))
			for _, tok := range tokens {
				tf[tok]++
			}
			for tok, cnt := range tf {
				row[idx.vocab[tok]] = float64(cnt) / float64(len(tokens)) * idf[tok]
			}
		}
		idx.rows[i] = row
		idx.norms[i] = norm(row)
	}

	return idx
}

// Tokenize 把类型串切成小写 token：按非字母数字切分，去掉停用词和单字符。
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// VocabSize 返回词表维度。
func (idx *Index) VocabSize() int {
	return len(idx.vocab)
}

// Similarity 返回两部电影的余弦相似度。任一 id 不在目录中时返回 (0, false)。
func (idx *Index) Similarity(a, b int64) (float64, bool) {
	ra, ok := idx.rowOf[a]
	if !ok {
		return 0, false
	}
	rb, ok := idx.rowOf[b]
	if !ok {
		return 0, false
	}
	return idx.cosine(ra, rb), true
}

// TopSimilar 返回与 itemID 最相似的至多 n 部电影（不含自身）。
// 分数并列时按目录行序稳定排序；itemID 不在目录中时返回空切片。
func (idx *Index) TopSimilar(itemID int64, n int) []int64 {
	row, ok := idx.rowOf[itemID]
	if !ok || n <= 0 {
		return nil
	}

	type scored struct {
		row   int
		score float64
	}
	candidates := make([]scored, 0, len(idx.rows)-1)
	for i := range idx.rows {
		if i == row {
			continue
		}
		candidates = append(candidates, scored{row: i, score: idx.cosine(row, i)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]int64, len(candidates))
	for i, c := range candidates {
		out[i] = idx.ids[c.row]
	}
	return out
}

func (idx *Index) cosine(a, b int) float64 {
	if idx.norms[a] == 0 || idx.norms[b] == 0 {
		return 0
	}
	ra, rb := idx.rows[a], idx.rows[b]
	// 遍历较小的向量
	if len(rb) < len(ra) {
		ra, rb = rb, ra
	}
	var dot float64
	for col, w := range ra {
		dot += w * rb[col]
	}
	return dot / (idx.norms[a] * idx.norms[b])
}

func norm(row map[int]float64) float64 {
	var sum float64
	for _, w := range row {
		sum += w * w
	}
	return math.Sqrt(sum)
}
