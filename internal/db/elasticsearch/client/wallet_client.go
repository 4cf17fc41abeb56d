package client

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
)

const SearchResultSize = 10

type RefreshRate string

const (
	// Wait for the changes made by the request to be made visible by a refresh before replying.
	Wait RefreshRate = "wait_for"
	// Immediate refreshes the relevant primary and replica shards immediately after the operation occurs.
	Immediate RefreshRate = "true"
	// Async takes no refresh related actions. The changes become visible at some point after the request returns.
	Async RefreshRate = "false"
)

func ParseRefreshRate(s string) (RefreshRate, bool) {
	switch RefreshRate(s) {
	case Wait, Immediate, Async:
		return RefreshRate(s), true
	default:
		return "", false
	}
}

type WalletClient interface {
	// BulkIndex indexes (inserts) multiple documents in the same index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/docs-bulk.html
	BulkIndex(ctx context.Context, metaInfo []MetaMap, documentInfo []DocumentMap, index string) error
	// Index indexes (inserts) a single document in the index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/docs-index_.html
	Index(ctx context.Context, metaInfo MetaMap, documentInfo DocumentMap, index string) error
	// Search searches for documents in the index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-search.html
	// queryResultSize is the number of results to return, nil for SearchResultSize
	Search(ctx context.Context, query string, indices []string, queryResultSize *int) ([]map[string]interface{}, error)
	// Count counts the number of documents in the index matching the query
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-count.html
	Count(ctx context.Context, query string, indices []string) (int64, error)
}

type WalletClientImpl struct {
	es          *elasticsearch.Client
	refreshRate string
}

func NewWalletClientImpl(es *elasticsearch.Client, refreshRate RefreshRate) *WalletClientImpl {
	return &WalletClientImpl{es: es, refreshRate: string(refreshRate)}
}
