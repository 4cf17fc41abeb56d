package write_buffer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/Avi18971911/CycleWallet/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type doc struct {
	Id       string `json:"_id,omitempty"`
	WalletId string `json:"wallet_id"`
	Value    int    `json:"value"`
}

func (d doc) GetWalletId() string { return d.WalletId }

type fakeClient struct {
	client.WalletClient
	mu      sync.Mutex
	indexed [][]client.DocumentMap
	metas   [][]client.MetaMap
	index   string
	err     error
}

func (f *fakeClient) BulkIndex(
	ctx context.Context,
	metaInfo []client.MetaMap,
	documentInfo []client.DocumentMap,
	index string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, documentInfo)
	f.metas = append(f.metas, metaInfo)
	f.index = index
	return nil
}

func (f *fakeClient) batches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.indexed)
}

type fakeBus struct {
	mu      sync.Mutex
	notices []event_bus.FlushNotice
}

func (f *fakeBus) Subscribe(string, func([]string)) error { return nil }

func (f *fakeBus) Publish(notice event_bus.FlushNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice)
	return nil
}

func TestDatabaseWriteBufferImpl_Flush(t *testing.T) {
	t.Run("Indexes queued documents and announces their wallets", func(t *testing.T) {
		ac := &fakeClient{}
		bus := &fakeBus{}
		wb := NewDatabaseWriteBufferImpl[doc](ac, "balance_index", bus, zap.NewNop())
		wb.WriteToBuffer([]doc{{Id: "1", WalletId: "b", Value: 1}, {Id: "2", WalletId: "a", Value: 2}})
		wb.WriteToBuffer([]doc{{Id: "3", WalletId: "b", Value: 3}})

		require.NoError(t, wb.Flush(context.Background()))
		require.Len(t, ac.indexed, 1)
		assert.Len(t, ac.indexed[0], 3)
		assert.Equal(t, "balance_index", ac.index)
		assert.Equal(t, client.MetaMap{"index": map[string]interface{}{"_id": "1"}}, ac.metas[0][0])
		assert.NotContains(t, ac.indexed[0][0], "_id")

		require.Len(t, bus.notices, 1)
		assert.Equal(t, event_bus.FlushNotice{Index: "balance_index", WalletIds: []string{"a", "b"}}, bus.notices[0])
	})

	t.Run("Does nothing when empty", func(t *testing.T) {
		ac := &fakeClient{}
		bus := &fakeBus{}
		wb := NewDatabaseWriteBufferImpl[doc](ac, "balance_index", bus, zap.NewNop())
		require.NoError(t, wb.Flush(context.Background()))
		assert.Empty(t, ac.indexed)
		assert.Empty(t, bus.notices)
	})

	t.Run("Returns the store error without announcing", func(t *testing.T) {
		ac := &fakeClient{err: errors.New("cluster red")}
		bus := &fakeBus{}
		wb := NewDatabaseWriteBufferImpl[doc](ac, "balance_index", bus, zap.NewNop())
		wb.WriteToBuffer([]doc{{WalletId: "a"}})
		assert.ErrorContains(t, wb.Flush(context.Background()), "cluster red")
		assert.Empty(t, bus.notices)
	})

	t.Run("Works without a bus", func(t *testing.T) {
		ac := &fakeClient{}
		wb := NewDatabaseWriteBufferImpl[doc](ac, "wallet_event_index", nil, zap.NewNop())
		wb.WriteToBuffer([]doc{{WalletId: "a"}})
		require.NoError(t, wb.Flush(context.Background()))
		assert.Len(t, ac.indexed, 1)
	})
}

func TestDatabaseWriteBufferImpl_WriteToBuffer(t *testing.T) {
	t.Run("Flushes once the queue outgrows its size", func(t *testing.T) {
		ac := &fakeClient{}
		wb := NewDatabaseWriteBufferImpl[doc](ac, "balance_index", nil, zap.NewNop()).WithLimits(2, time.Second)
		wb.WriteToBuffer([]doc{{WalletId: "a"}, {WalletId: "a"}})
		assert.Equal(t, 0, ac.batches())
		wb.WriteToBuffer([]doc{{WalletId: "a"}})
		assert.Eventually(t, func() bool { return ac.batches() == 1 }, time.Second, 10*time.Millisecond)
	})

	t.Run("Flushes periodically once started", func(t *testing.T) {
		ac := &fakeClient{}
		wb := NewDatabaseWriteBufferImpl[doc](ac, "balance_index", nil, zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		wb.Start(ctx, 10*time.Millisecond)
		wb.WriteToBuffer([]doc{{WalletId: "a"}})
		assert.Eventually(t, func() bool { return ac.batches() == 1 }, time.Second, 10*time.Millisecond)
	})
}
