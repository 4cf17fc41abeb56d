package bootstrapper

const BalanceIndexName = "balance_index"

var balanceIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"wallet_id": map[string]interface{}{
				"type": "keyword",
			},
			"timestamp": map[string]interface{}{
				"type": "date_nanos",
			},
			"created_at": map[string]interface{}{
				"type": "date",
			},
			"cycles": map[string]interface{}{
				"type": "keyword",
			},
		},
	},
}
