package write_buffer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/Avi18971911/CycleWallet/internal/event_bus"
	"go.uber.org/zap"
)

const WriteQueueSize = 30
const flushTimeOut = 10 * time.Second

// WalletDocument is a document owned by a single wallet.
type WalletDocument interface {
	GetWalletId() string
}

type DatabaseWriteBuffer[ValueType WalletDocument] interface {
	WriteToBuffer(value []ValueType)
	Flush(ctx context.Context) error
}

type DatabaseWriteBufferImpl[ValueType WalletDocument] struct {
	writeQueue   []ValueType
	ac           client.WalletClient
	esIndexName  string
	bus          event_bus.FlushBus
	queueSize    int
	flushTimeout time.Duration
	logger       *zap.Logger
	mu           sync.Mutex
}

// NewDatabaseWriteBufferImpl buffers documents for esIndexName. bus may be nil when nothing listens for flushes.
func NewDatabaseWriteBufferImpl[ValueType WalletDocument](
	ac client.WalletClient,
	esIndexName string,
	bus event_bus.FlushBus,
	logger *zap.Logger,
) *DatabaseWriteBufferImpl[ValueType] {
	return &DatabaseWriteBufferImpl[ValueType]{
		writeQueue:   []ValueType{},
		ac:           ac,
		esIndexName:  esIndexName,
		bus:          bus,
		queueSize:    WriteQueueSize,
		flushTimeout: flushTimeOut,
		logger:       logger,
	}
}

// WithLimits overrides the queue size that triggers a flush and the timeout of each flush.
func (wbc *DatabaseWriteBufferImpl[ValueType]) WithLimits(
	queueSize int,
	flushTimeout time.Duration,
) *DatabaseWriteBufferImpl[ValueType] {
	if queueSize > 0 {
		wbc.queueSize = queueSize
	}
	if flushTimeout > 0 {
		wbc.flushTimeout = flushTimeout
	}
	return wbc
}

func (wbc *DatabaseWriteBufferImpl[ValueType]) WriteToBuffer(
	value []ValueType,
) {
	wbc.mu.Lock()
	wbc.writeQueue = append(wbc.writeQueue, value...)
	shouldFlush := len(wbc.writeQueue) > wbc.queueSize
	wbc.mu.Unlock()
	if shouldFlush {
		go wbc.flushInBackground()
	}
}

// Start flushes the buffer every interval until ctx is done.
func (wbc *DatabaseWriteBufferImpl[ValueType]) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				wbc.flushInBackground()
			}
		}
	}()
}

func (wbc *DatabaseWriteBufferImpl[ValueType]) flushInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), wbc.flushTimeout)
	defer cancel()
	err := wbc.Flush(ctx)
	if err != nil {
		wbc.logger.Error(
			"Failed to flush to Elasticsearch",
			zap.String("index", wbc.esIndexName),
			zap.Error(err),
		)
	}
}

// Flush writes everything queued so far. Documents of a failed flush are dropped.
func (wbc *DatabaseWriteBufferImpl[ValueType]) Flush(ctx context.Context) error {
	wbc.mu.Lock()
	queue := wbc.writeQueue
	wbc.writeQueue = []ValueType{}
	wbc.mu.Unlock()
	if len(queue) == 0 {
		return nil
	}

	metaMap, dataMap, err := client.ToMetaAndDataMap(queue)
	if err != nil {
		return fmt.Errorf("error converting write queue to meta and data map: %w", err)
	}
	err = wbc.ac.BulkIndex(ctx, metaMap, dataMap, wbc.esIndexName)
	if err != nil {
		return fmt.Errorf("error bulk indexing %d documents to Elasticsearch: %w", len(queue), err)
	}
	wbc.logger.Debug(
		"Flushed write buffer",
		zap.String("index", wbc.esIndexName),
		zap.Int("documents", len(queue)),
	)

	if wbc.bus == nil {
		return nil
	}
	notice := event_bus.FlushNotice{Index: wbc.esIndexName, WalletIds: walletIdsOf(queue)}
	if err := wbc.bus.Publish(notice); err != nil {
		return fmt.Errorf("error publishing flush notice: %w", err)
	}
	return nil
}

func walletIdsOf[ValueType WalletDocument](values []ValueType) []string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v.GetWalletId()] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
