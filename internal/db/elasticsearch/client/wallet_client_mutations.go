package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/model"
)

func (a *WalletClientImpl) BulkIndex(
	ctx context.Context,
	metaInfo []MetaMap,
	documentInfo []DocumentMap,
	index string,
) error {
	if len(documentInfo) == 0 {
		return nil
	}
	body, err := buildBulkBody(metaInfo, documentInfo)
	if err != nil {
		return err
	}
	res, err := a.es.Bulk(
		bytes.NewReader(body),
		a.es.Bulk.WithIndex(index),
		a.es.Bulk.WithContext(ctx),
		a.es.Bulk.WithRefresh(a.refreshRate),
	)
	if err != nil {
		return fmt.Errorf("error bulk indexing: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index error: %s", res.String())
	}

	var bulkResponse model.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("failed to decode bulk response body: %w", err)
	}
	if bulkResponse.Errors {
		return fmt.Errorf("bulk index error: %w", bulkResponse.FirstError())
	}
	return nil
}

func (a *WalletClientImpl) Index(
	ctx context.Context,
	metaInfo MetaMap,
	documentInfo DocumentMap,
	index string,
) error {
	if metaInfo == nil {
		return a.BulkIndex(ctx, nil, []DocumentMap{documentInfo}, index)
	}
	return a.BulkIndex(ctx, []MetaMap{metaInfo}, []DocumentMap{documentInfo}, index)
}

func buildBulkBody(metaInfo []MetaMap, documentInfo []DocumentMap) ([]byte, error) {
	var buf bytes.Buffer
	for i, d := range documentInfo {
		var meta MetaMap
		if i < len(metaInfo) && metaInfo[i] != nil {
			meta = metaInfo[i]
		} else {
			// empty meta for bulk index
			meta = MetaMap{"index": map[string]interface{}{}}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("error marshaling meta to bulk index: %w", err)
		}
		buf.Write(metaJSON)
		buf.WriteByte('\n')

		dataJSON, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("error marshaling data to bulk index: %w", err)
		}
		buf.Write(dataJSON)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
