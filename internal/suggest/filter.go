package suggest

import "strings"

// Filter returns the items for which any of keys(item) contains query,
// ignoring case, in their original order. At most limit items are returned;
// limit <= 0 means no cap. The result never aliases items.
func Filter[T any](items []T, query string, limit int, keys func(T) []string) []T {
	needle := strings.ToLower(query)
	capacity := len(items)
	if limit > 0 {
		capacity = min(capacity, limit)
	}
	out := make([]T, 0, capacity)
	for _, item := range items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if needle == "" || matches(keys(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matches(keys []string, needle string) bool {
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), needle) {
			return true
		}
	}
	return false
}
