package model

// Structs for parsing the Elasticsearch response
type EsResponse struct {
	Took     int       `json:"took"`
	TimedOut bool      `json:"timed_out"`
	Shards   ShardInfo `json:"_shards"`
	Hits     Hits      `json:"hits"`
}

type ShardInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

type Hits struct {
	Total    Total       `json:"total"`
	HitArray []HitSource `json:"hits"`
}

type Total struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

type HitSource struct {
	Index  string                 `json:"_index"`
	ID     string                 `json:"_id"`
	Source map[string]interface{} `json:"_source"`
}

// Documents returns the hit sources with their "_id" attached.
func (r EsResponse) Documents() []map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(r.Hits.HitArray))
	for _, hit := range r.Hits.HitArray {
		doc := hit.Source
		if doc == nil {
			doc = map[string]interface{}{}
		}
		doc["_id"] = hit.ID
		results = append(results, doc)
	}
	return results
}
