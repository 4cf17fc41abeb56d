package model

import "fmt"

type BulkResponse struct {
	Took   int                   `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]BulkItem `json:"items"`
}

type BulkItem struct {
	Index  string         `json:"_index"`
	ID     string         `json:"_id"`
	Status int            `json:"status"`
	Error  *BulkItemError `json:"error,omitempty"`
}

type BulkItemError struct {
	Type   string `json:"type"`   // Type of error (e.g., mapper_parsing_exception)
	Reason string `json:"reason"` // Failure reason
}

// FirstError describes the first failed item, or nil when every item succeeded.
func (r BulkResponse) FirstError() error {
	failed := 0
	var first *BulkItem
	for _, item := range r.Items {
		for _, result := range item {
			if result.Error == nil {
				continue
			}
			failed++
			if first == nil {
				res := result
				first = &res
			}
		}
	}
	if first == nil {
		return nil
	}
	return fmt.Errorf(
		"%d of %d items failed, first %s in %s: %s: %s",
		failed, len(r.Items), first.ID, first.Index, first.Error.Type, first.Error.Reason,
	)
}
