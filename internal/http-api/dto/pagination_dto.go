package dto

// Paginated is the envelope of every list endpoint.
type Paginated[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

// NewPaginated converts items with conv, keeping Results non-nil so empty
// pages encode as [].
func NewPaginated[M, T any](items []M, total int64, conv func(*M) T) *Paginated[T] {
	results := make([]T, 0, len(items))
	for i := range items {
		results = append(results, conv(&items[i]))
	}
	return &Paginated[T]{Count: total, Results: results}
}
