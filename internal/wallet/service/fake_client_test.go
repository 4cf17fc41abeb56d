package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
)

// fakeWalletClient answers the service's queries from memory.
type fakeWalletClient struct {
	client.WalletClient
	mu       sync.Mutex
	ticks    []model.BalanceTick
	events   []model.Event
	searches int
	err      error
	// onSearch runs under mu before the nth search is answered.
	onSearch func(n int)
}

type parsedQuery struct {
	Query struct {
		Bool struct {
			Filter []map[string]map[string]interface{} `json:"filter"`
		} `json:"bool"`
	} `json:"query"`
	Sort []map[string]map[string]string `json:"sort"`
}

func (f *fakeWalletClient) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) ([]map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.onSearch != nil {
		f.onSearch(f.searches)
	}
	if f.err != nil {
		return nil, f.err
	}
	var q parsedQuery
	if err := json.Unmarshal([]byte(query), &q); err != nil {
		return nil, err
	}
	var matched []interface{}
	switch indices[0] {
	case bootstrapper.BalanceIndexName:
		for _, tick := range f.ticks {
			if matchesTick(q, tick) {
				matched = append(matched, tick)
			}
		}
		descending := q.Sort[0]["timestamp"]["order"] == "desc"
		sort.Slice(matched, func(i, j int) bool {
			a, b := matched[i].(model.BalanceTick).Timestamp, matched[j].(model.BalanceTick).Timestamp
			if descending {
				return a.After(b)
			}
			return a.Before(b)
		})
	case bootstrapper.WalletEventIndexName:
		for _, event := range f.events {
			if matchesEvent(q, event) {
				matched = append(matched, event)
			}
		}
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].(model.Event).EventId < matched[j].(model.Event).EventId
		})
	}
	if queryResultSize != nil && len(matched) > *queryResultSize {
		matched = matched[:*queryResultSize]
	}
	return toDocuments(matched)
}

func (f *fakeWalletClient) Count(ctx context.Context, query string, indices []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var q parsedQuery
	if err := json.Unmarshal([]byte(query), &q); err != nil {
		return 0, err
	}
	var count int64
	for _, event := range f.events {
		if matchesEvent(q, event) {
			count++
		}
	}
	return count, nil
}

func matchesTick(q parsedQuery, tick model.BalanceTick) bool {
	for _, filter := range q.Query.Bool.Filter {
		if term, ok := filter["term"]; ok && term["wallet_id"] != tick.WalletId {
			return false
		}
		if r, ok := filter["range"]; ok {
			bounds := r["timestamp"].(map[string]interface{})
			if gte, ok := bounds["gte"]; ok && tick.Timestamp.Before(mustParse(gte)) {
				return false
			}
			if lte, ok := bounds["lte"]; ok && tick.Timestamp.After(mustParse(lte)) {
				return false
			}
		}
	}
	return true
}

func matchesEvent(q parsedQuery, event model.Event) bool {
	for _, filter := range q.Query.Bool.Filter {
		if term, ok := filter["term"]; ok && term["wallet_id"] != event.WalletId {
			return false
		}
		if r, ok := filter["range"]; ok {
			bounds := r["event_id"].(map[string]interface{})
			if gte, ok := bounds["gte"]; ok && float64(event.EventId) < gte.(float64) {
				return false
			}
			if lte, ok := bounds["lte"]; ok && float64(event.EventId) > lte.(float64) {
				return false
			}
		}
	}
	return true
}

func mustParse(v interface{}) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v.(string))
	if err != nil {
		panic(err)
	}
	return t
}

func toDocuments(values []interface{}) ([]map[string]interface{}, error) {
	docs := make([]map[string]interface{}, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &docs[i]); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

type fakeBuffer[T any] struct {
	mu      sync.Mutex
	written []T
}

func (f *fakeBuffer[T]) WriteToBuffer(value []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, value...)
}

func (f *fakeBuffer[T]) Flush(ctx context.Context) error { return nil }
