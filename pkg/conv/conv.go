// Package conv 提供类型转换、配置取值等工具，用于简化配置驱动构建中的重复逻辑。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
// 支持 int、int64、int32、float64、float32（YAML/JSON 数字常解析为 float64）。
func ToInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ToInt64 将 any 转为 int64。
func ToInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

// ConfigGet 从配置 map 中取出 key 对应的值并断言为 T，失败返回默认值。
func ConfigGet[T any](cfg map[string]any, key string, def T) T {
	if cfg == nil {
		return def
	}
	v, ok := cfg[key]
	if !ok {
		return def
	}
	if tv, ok := v.(T); ok {
		return tv
	}
	return def
}

// ConfigGetInt 从配置 map 中取出整数值（兼容 YAML/JSON 的数字类型）。
func ConfigGetInt(cfg map[string]any, key string, def int) int {
	if cfg == nil {
		return def
	}
	v, ok := cfg[key]
	if !ok {
		return def
	}
	if n, ok := ToInt(v); ok {
		return n
	}
	return def
}

// ConfigGetFloat 从配置 map 中取出浮点值。
func ConfigGetFloat(cfg map[string]any, key string, def float64) float64 {
	if cfg == nil {
		return def
	}
	v, ok := cfg[key]
	if !ok {
		return def
	}
	if f, ok := ToFloat64(v); ok {
		return f
	}
	return def
}

// SliceAnyToInt64 将 []any 转为 []int64，无法转换的元素被跳过。
func SliceAnyToInt64(v any) []int64 {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(raw))
	for _, e := range raw {
		if id, ok := ToInt64(e); ok {
			out = append(out, id)
		}
	}
	return out
}
