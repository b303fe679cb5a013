package search

import "planner/api/internal/rbac"

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultEntry ResultType = "entry"
	ResultStore ResultType = "store"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type    ResultType `json:"type"`
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
	StoreID int64      `json:"storeId"`
	Date    string     `json:"date,omitempty"`
}

// Query describes a search request. Scope is resolved by the caller
// before the query runs; no backend ever sees stores outside it.
type Query struct {
	Text       string
	FilterType ResultType // empty = all types
	Scope      rbac.Scope
	Limit      int
	Offset     int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push entities into a search index.
type Indexer interface {
	IndexEntry(e EntryRecord) error
	IndexStore(s StoreRecord) error
	DeleteEntry(id string) error
}

// EntryRecord is the data we index for a planner day sheet.
type EntryRecord struct {
	ID      string `json:"id"`
	StoreID int64  `json:"storeId"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

// StoreRecord is the data we index for a store.
type StoreRecord struct {
	ID          string `json:"id"`
	StoreID     int64  `json:"storeId"`
	StoreNumber string `json:"storeNumber"`
	Name        string `json:"name"`
	Location    string `json:"location"`
}
