package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	chartModel "github.com/Avi18971911/CycleWallet/internal/chart/model"
	chartService "github.com/Avi18971911/CycleWallet/internal/chart/service"
	"github.com/Avi18971911/CycleWallet/internal/db/cache"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/Avi18971911/CycleWallet/internal/db/write_buffer"
	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
	"go.uber.org/zap"
)

type BalanceService interface {
	RecordBalances(ctx context.Context, ticks []model.BalanceTick) error
	GetLatestBalance(ctx context.Context, walletId string) (*model.BalanceTick, error)
	GetChart(
		ctx context.Context,
		walletId string,
		precision chartModel.Precision,
		count int,
	) ([]chartModel.Bucket, error)
}

type BalanceServiceImpl struct {
	ac       client.WalletClient
	dbBuffer write_buffer.DatabaseWriteBuffer[model.BalanceTick]
	cs       *chartService.ChartService
	cache    cache.ChartCache
	pageSize int
	logger   *zap.Logger
}

func NewBalanceService(
	ac client.WalletClient,
	dbBuffer write_buffer.DatabaseWriteBuffer[model.BalanceTick],
	cs *chartService.ChartService,
	chartCache cache.ChartCache,
	logger *zap.Logger,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		ac:       ac,
		dbBuffer: dbBuffer,
		cs:       cs,
		cache:    chartCache,
		pageSize: querySize,
		logger:   logger,
	}
}

func (bs *BalanceServiceImpl) RecordBalances(ctx context.Context, ticks []model.BalanceTick) error {
	createdAt := time.Now().UTC()
	typedTicks := make([]model.BalanceTick, len(ticks))
	for i, tick := range ticks {
		if err := tick.Validate(); err != nil {
			return err
		}
		tick.Id = model.BalanceTickDocumentId(tick.WalletId, tick.Timestamp)
		tick.Timestamp = tick.Timestamp.UTC()
		tick.CreatedAt = createdAt
		typedTicks[i] = tick
	}
	bs.dbBuffer.WriteToBuffer(typedTicks)
	return nil
}

func (bs *BalanceServiceImpl) GetLatestBalance(ctx context.Context, walletId string) (*model.BalanceTick, error) {
	queryJson, err := json.Marshal(getLatestBalanceQuery(walletId))
	if err != nil {
		return nil, fmt.Errorf("error marshalling latest balance query: %w", err)
	}
	size := 1
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := bs.ac.Search(queryCtx, string(queryJson), []string{bootstrapper.BalanceIndexName}, &size)
	if err != nil {
		return nil, fmt.Errorf("error searching for latest balance of wallet %s: %w", walletId, err)
	}
	if len(res) == 0 {
		return nil, ErrNoBalance
	}
	ticks, err := client.FromDocuments[model.BalanceTick](res)
	if err != nil {
		return nil, fmt.Errorf("error converting search result to balance: %w", err)
	}
	return &ticks[0], nil
}

// GetChart buckets the wallet's balance history. Only ticks between the oldest
// bucket boundary and the latest tick are loaded, since forward filling never
// selects an earlier one.
func (bs *BalanceServiceImpl) GetChart(
	ctx context.Context,
	walletId string,
	precision chartModel.Precision,
	count int,
) ([]chartModel.Bucket, error) {
	if err := chartService.Validate(precision, count); err != nil {
		return nil, err
	}
	var generation cache.Generation
	if bs.cache != nil {
		buckets, lookedUp, err := bs.cache.Get(walletId, precision, count)
		generation = lookedUp
		if err == nil {
			return buckets, nil
		}
		if !errors.Is(err, cache.ErrKeyNotFound) {
			bs.logger.Warn("Failed to read chart from cache", zap.String("wallet_id", walletId), zap.Error(err))
		}
	}

	latest, err := bs.GetLatestBalance(ctx, walletId)
	if err != nil {
		return nil, err
	}
	boundaries, err := bs.cs.BuildTimeArray(latest.Timestamp, precision, count)
	if err != nil {
		return nil, err
	}
	samples, err := bs.loadSamples(ctx, walletId, boundaries, latest.Timestamp)
	if err != nil {
		return nil, err
	}
	buckets, err := bs.cs.BuildData(samples, precision, count)
	if err != nil {
		return nil, err
	}

	if bs.cache != nil {
		err := bs.cache.Put(walletId, precision, count, generation, buckets)
		switch {
		case errors.Is(err, cache.ErrStaleGeneration):
			bs.logger.Debug("Not caching chart of invalidated wallet", zap.String("wallet_id", walletId))
		case err != nil:
			bs.logger.Warn("Failed to cache chart", zap.String("wallet_id", walletId), zap.Error(err))
		}
	}
	return buckets, nil
}

// loadSamples pages through the ticks in [oldest boundary, latest]. When a page
// fills up, the next one starts at the first boundary past its last tick, as
// the ticks in between cannot be chosen for any bucket.
func (bs *BalanceServiceImpl) loadSamples(
	ctx context.Context,
	walletId string,
	boundaries []chartModel.TimeLabel,
	latest time.Time,
) ([]chartModel.Sample, error) {
	var samples []chartModel.Sample
	next := len(boundaries) - 1
	for next >= 0 {
		page, err := bs.getBalanceRange(ctx, walletId, boundaries[next].Date, latest)
		if err != nil {
			return nil, err
		}
		for _, tick := range page {
			samples = append(samples, chartModel.Sample{
				Timestamp: tick.Timestamp,
				Value:     tick.Cycles.InexactFloat64(),
			})
		}
		if len(page) < bs.pageSize {
			break
		}
		last := page[len(page)-1].Timestamp
		for next >= 0 && !boundaries[next].Date.After(last) {
			next--
		}
	}
	if len(samples) == 0 {
		// the latest tick was removed between the two queries
		return nil, ErrNoBalance
	}
	return samples, nil
}

func (bs *BalanceServiceImpl) getBalanceRange(
	ctx context.Context,
	walletId string,
	from time.Time,
	to time.Time,
) ([]model.BalanceTick, error) {
	queryJson, err := json.Marshal(getBalanceRangeQuery(walletId, from, to))
	if err != nil {
		return nil, fmt.Errorf("error marshalling balance range query: %w", err)
	}
	size := bs.pageSize
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := bs.ac.Search(queryCtx, string(queryJson), []string{bootstrapper.BalanceIndexName}, &size)
	if err != nil {
		return nil, fmt.Errorf("error searching for balances of wallet %s: %w", walletId, err)
	}
	ticks, err := client.FromDocuments[model.BalanceTick](res)
	if err != nil {
		return nil, fmt.Errorf("error converting search result to balances: %w", err)
	}
	return ticks, nil
}
