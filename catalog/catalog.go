// Package catalog 维护电影目录的内存快照：id、标题、类型标签。
// 目录在进程启动时加载一次，之后只读，可被任意并发读取。
package catalog

import "strings"

// Item 是一条电影目录记录，加载后不可变。
type Item struct {
	ID     int64
	Title  string
	Genres []string
}

// GenreText 返回空格拼接的类型串，仅供相似度索引做分词使用。
func (it Item) GenreText() string {
	return strings.Join(it.Genres, " ")
}

// Catalog 是电影目录表。行序与数据源一致，
// 相似度索引的第 i 行向量对应这里的第 i 条记录。
type Catalog struct {
	items []Item
	index map[int64]int // movieId -> 行号
}

// New 从给定记录构建目录（测试或非 CSV 数据源使用）。
// 重复 id 时保留首次出现的行。
func New(items []Item) *Catalog {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[int64]int, len(items)),
	}
	for _, it := range items {
		if _, ok := c.index[it.ID]; ok {
			continue
		}
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Items 返回目录记录（按行序）。调用方不得修改返回的切片。
func (c *Catalog) Items() []Item {
	return c.items
}

// Get 按 movieId 查找记录。
func (c *Catalog) Get(id int64) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// IndexOf 返回 movieId 对应的行号，不存在时返回 -1。
func (c *Catalog) IndexOf(id int64) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}
