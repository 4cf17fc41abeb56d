package service

import "time"

func walletFilter(walletId string) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{
			"wallet_id": walletId,
		},
	}
}

func getEventsQuery(walletId string, from *uint32, to *uint32) map[string]interface{} {
	filterClauses := []map[string]interface{}{walletFilter(walletId)}
	if from != nil || to != nil {
		eventRange := map[string]interface{}{}
		if from != nil {
			eventRange["gte"] = *from
		}
		if to != nil {
			eventRange["lte"] = *to
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"event_id": eventRange,
			},
		})
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"sort": []map[string]interface{}{
			{"event_id": map[string]interface{}{"order": "asc"}},
		},
	}
}

func countEventsQuery(walletId string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{walletFilter(walletId)},
			},
		},
	}
}

func getLatestBalanceQuery(walletId string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{walletFilter(walletId)},
			},
		},
		"sort": []map[string]interface{}{
			{"timestamp": map[string]interface{}{"order": "desc"}},
		},
	}
}

// getBalanceRangeQuery selects the wallet's ticks in [from, to], oldest first.
func getBalanceRangeQuery(walletId string, from time.Time, to time.Time) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					walletFilter(walletId),
					{
						"range": map[string]interface{}{
							"timestamp": map[string]interface{}{
								"gte": from.UTC().Format(time.RFC3339Nano),
								"lte": to.UTC().Format(time.RFC3339Nano),
							},
						},
					},
				},
			},
		},
		"sort": []map[string]interface{}{
			{"timestamp": map[string]interface{}{"order": "asc"}},
		},
	}
}
