package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEsResponse_Documents(t *testing.T) {
	raw := `{"took":3,"hits":{"total":{"value":2},"hits":[
		{"_index":"balance_index","_id":"a","_source":{"wallet_id":"w","cycles":"10"}},
		{"_index":"balance_index","_id":"b","_source":{"wallet_id":"w","cycles":"20"}}
	]}}`
	var res EsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &res))
	docs := res.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0]["_id"])
	assert.Equal(t, "20", docs[1]["cycles"])
}

func TestBulkResponse_FirstError(t *testing.T) {
	t.Run("Returns nil without failures", func(t *testing.T) {
		raw := `{"errors":false,"items":[{"index":{"_index":"i","_id":"a","status":201}}]}`
		var res BulkResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &res))
		assert.NoError(t, res.FirstError())
	})

	t.Run("Describes the first failure", func(t *testing.T) {
		raw := `{"errors":true,"items":[
			{"index":{"_index":"i","_id":"a","status":201}},
			{"index":{"_index":"i","_id":"b","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad"}}}
		]}`
		var res BulkResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &res))
		err := res.FirstError()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 items failed")
		assert.Contains(t, err.Error(), "mapper_parsing_exception")
	})
}
