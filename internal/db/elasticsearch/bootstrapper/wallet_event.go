package bootstrapper

const WalletEventIndexName = "wallet_event_index"

var walletEventIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"wallet_id": map[string]interface{}{
				"type": "keyword",
			},
			"event_id": map[string]interface{}{
				"type": "long",
			},
			"timestamp": map[string]interface{}{
				"type": "date_nanos",
			},
			"created_at": map[string]interface{}{
				"type": "date",
			},
			"kind": map[string]interface{}{
				"type": "keyword",
			},
			"counterparty": map[string]interface{}{
				"type": "keyword",
			},
			// amounts are decimal strings and can exceed a long
			"amount": map[string]interface{}{
				"type": "keyword",
			},
			"method_name": map[string]interface{}{
				"type": "keyword",
			},
		},
	},
}
