package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/chart/model"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/CycleWallet/internal/event_bus"
	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

const (
	numCounters = 1e5
	bufferItems = 64
)

// Generation counts the invalidations of a wallet's charts.
type Generation uint64

// ChartCache holds built charts until the wallet's balance history changes or the entry expires.
// Get reports the generation it looked up, also on a miss; a chart built after that lookup is
// handed back to Put with the same generation.
type ChartCache interface {
	Get(walletId string, precision model.Precision, count int) ([]model.Bucket, Generation, error)
	Put(walletId string, precision model.Precision, count int, generation Generation, buckets []model.Bucket) error
	Invalidate(walletId string)
}

type ChartCacheImpl struct {
	cache       *ristretto.Cache
	ttl         time.Duration
	generations map[string]Generation
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewRistrettoCache(maxCost int64) (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
		// cost is the number of buckets
		IgnoreInternalCost: true,
	})
}

func NewChartCacheImpl(cache *ristretto.Cache, ttl time.Duration, logger *zap.Logger) *ChartCacheImpl {
	return &ChartCacheImpl{
		cache:       cache,
		ttl:         ttl,
		generations: make(map[string]Generation),
		logger:      logger,
	}
}

func (cc *ChartCacheImpl) Get(
	walletId string,
	precision model.Precision,
	count int,
) ([]model.Bucket, Generation, error) {
	generation := cc.generation(walletId)
	value, found := cc.cache.Get(key(walletId, precision, count, generation))
	if !found {
		return nil, generation, ErrKeyNotFound
	}
	buckets, ok := value.([]model.Bucket)
	if !ok {
		return nil, generation, fmt.Errorf("value not of expected type %T returned from cache when getting", value)
	}
	return buckets, generation, nil
}

// Put stores buckets under the generation they were looked up with. A chart whose wallet was
// invalidated in the meantime is not stored.
func (cc *ChartCacheImpl) Put(
	walletId string,
	precision model.Precision,
	count int,
	generation Generation,
	buckets []model.Bucket,
) error {
	if cc.generation(walletId) != generation {
		return ErrStaleGeneration
	}
	set := cc.cache.SetWithTTL(key(walletId, precision, count, generation), buckets, int64(len(buckets)), cc.ttl)
	if !set {
		return ErrSetFailed
	}
	cc.cache.Wait()
	return nil
}

// Invalidate orphans every cached chart of the wallet. Orphaned entries expire with their TTL.
func (cc *ChartCacheImpl) Invalidate(walletId string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.generations[walletId]++
}

// SubscribeToFlushes invalidates a wallet's charts whenever new balances for it reach the store.
func (cc *ChartCacheImpl) SubscribeToFlushes(bus event_bus.FlushBus) error {
	return bus.Subscribe(bootstrapper.BalanceIndexName, func(walletIds []string) {
		for _, walletId := range walletIds {
			cc.Invalidate(walletId)
		}
		cc.logger.Debug("Invalidated cached charts", zap.Strings("wallet_ids", walletIds))
	})
}

func (cc *ChartCacheImpl) generation(walletId string) Generation {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.generations[walletId]
}

func key(walletId string, precision model.Precision, count int, generation Generation) string {
	return fmt.Sprintf("%s|%s|%d|%d", walletId, precision, count, generation)
}

var (
	ErrKeyNotFound = errors.New("key not found within the cache")
	ErrSetFailed   = errors.New("failed to set value in cache")
)

// ErrStaleGeneration is returned by Put when the wallet was invalidated after the lookup.
var ErrStaleGeneration = errors.New("chart built from invalidated balances")
