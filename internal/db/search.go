package db

// KNNQuery is the input for vector nearest-neighbor search. Scores in the
// result are raw distances in the index's metric (L2 for coordinate indexes).
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// TagQuery is the input for exact tag-match search: it matches documents whose
// Field holds any of Values (a single-element Values is an exact lookup, a
// multi-element Values is the batched id-set form). SortBy optionally orders
// results by a sortable numeric field before the limit is applied.
type TagQuery struct {
	IndexName    string
	Field        string
	Values       []string
	SortBy       string
	SortDesc     bool
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
