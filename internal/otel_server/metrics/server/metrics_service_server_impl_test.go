package server

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protoMetrics "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	commonV1 "go.opentelemetry.io/proto/otlp/common/v1"
	v1 "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourceV1 "go.opentelemetry.io/proto/otlp/resource/v1"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	ticks []model.BalanceTick
	err   error
}

func (f *fakeRecorder) RecordBalances(ctx context.Context, ticks []model.BalanceTick) error {
	if f.err != nil {
		return f.err
	}
	f.ticks = append(f.ticks, ticks...)
	return nil
}

func stringAttribute(key string, value string) *commonV1.KeyValue {
	return &commonV1.KeyValue{
		Key:   key,
		Value: &commonV1.AnyValue{Value: &commonV1.AnyValue_StringValue{StringValue: value}},
	}
}

func intPoint(walletId string, ts time.Time, value int64) *v1.NumberDataPoint {
	point := &v1.NumberDataPoint{
		TimeUnixNano: uint64(ts.UnixNano()),
		Value:        &v1.NumberDataPoint_AsInt{AsInt: value},
	}
	if walletId != "" {
		point.Attributes = []*commonV1.KeyValue{stringAttribute(WalletIdAttribute, walletId)}
	}
	return point
}

func doublePoint(walletId string, ts time.Time, value float64) *v1.NumberDataPoint {
	point := intPoint(walletId, ts, 0)
	point.Value = &v1.NumberDataPoint_AsDouble{AsDouble: value}
	return point
}

func gauge(name string, points ...*v1.NumberDataPoint) *v1.Metric {
	return &v1.Metric{Name: name, Data: &v1.Metric_Gauge{Gauge: &v1.Gauge{DataPoints: points}}}
}

func sum(name string, points ...*v1.NumberDataPoint) *v1.Metric {
	return &v1.Metric{Name: name, Data: &v1.Metric_Sum{Sum: &v1.Sum{DataPoints: points}}}
}

func request(resourceWalletId string, metrics ...*v1.Metric) *protoMetrics.ExportMetricsServiceRequest {
	resource := &resourceV1.Resource{}
	if resourceWalletId != "" {
		resource.Attributes = []*commonV1.KeyValue{stringAttribute(WalletIdAttribute, resourceWalletId)}
	}
	return &protoMetrics.ExportMetricsServiceRequest{
		ResourceMetrics: []*v1.ResourceMetrics{{
			Resource:     resource,
			ScopeMetrics: []*v1.ScopeMetrics{{Metrics: metrics}},
		}},
	}
}

func TestMetricsServiceServerImpl_Export(t *testing.T) {
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	logger := zap.NewNop()

	t.Run("Records gauge and sum points", func(t *testing.T) {
		recorder := &fakeRecorder{}
		srv := NewMetricsServiceServerImpl(logger, recorder)
		res, err := srv.Export(context.Background(), request("",
			gauge(BalanceMetricName, intPoint("wallet-a", ts, 3000000000000)),
			sum(BalanceMetricName, doublePoint("wallet-b", ts.Add(time.Minute), 1.5e9)),
		))
		require.NoError(t, err)
		assert.Nil(t, res.PartialSuccess)
		require.Len(t, recorder.ticks, 2)
		assert.Equal(t, "wallet-a", recorder.ticks[0].WalletId)
		assert.True(t, ts.Equal(recorder.ticks[0].Timestamp))
		assert.True(t, decimal.NewFromInt(3000000000000).Equal(recorder.ticks[0].Cycles))
		assert.Equal(t, "wallet-b", recorder.ticks[1].WalletId)
		assert.True(t, decimal.NewFromInt(1500000000).Equal(recorder.ticks[1].Cycles))
	})

	t.Run("Falls back to the resource wallet id", func(t *testing.T) {
		recorder := &fakeRecorder{}
		srv := NewMetricsServiceServerImpl(logger, recorder)
		_, err := srv.Export(context.Background(), request("wallet-r",
			gauge(BalanceMetricName, intPoint("", ts, 7), intPoint("wallet-p", ts, 8)),
		))
		require.NoError(t, err)
		require.Len(t, recorder.ticks, 2)
		assert.Equal(t, "wallet-r", recorder.ticks[0].WalletId)
		assert.Equal(t, "wallet-p", recorder.ticks[1].WalletId)
	})

	t.Run("Ignores other metrics", func(t *testing.T) {
		recorder := &fakeRecorder{}
		srv := NewMetricsServiceServerImpl(logger, recorder)
		res, err := srv.Export(context.Background(), request("",
			gauge("process.cpu.time", intPoint("wallet-a", ts, 1)),
			&v1.Metric{Name: BalanceMetricName, Data: &v1.Metric_Histogram{Histogram: &v1.Histogram{}}},
		))
		require.NoError(t, err)
		assert.Nil(t, res.PartialSuccess)
		assert.Empty(t, recorder.ticks)
	})

	t.Run("Rejects points without a wallet or with an invalid value", func(t *testing.T) {
		recorder := &fakeRecorder{}
		srv := NewMetricsServiceServerImpl(logger, recorder)
		res, err := srv.Export(context.Background(), request("",
			gauge(BalanceMetricName,
				intPoint("", ts, 5),
				intPoint("wallet-a", ts, -5),
				doublePoint("wallet-a", ts, math.NaN()),
				intPoint("wallet-a", ts, 5),
			),
		))
		require.NoError(t, err)
		require.NotNil(t, res.PartialSuccess)
		assert.Equal(t, int64(3), res.PartialSuccess.RejectedDataPoints)
		require.Len(t, recorder.ticks, 1)
		assert.True(t, decimal.NewFromInt(5).Equal(recorder.ticks[0].Cycles))
	})

	t.Run("Stamps points without a time on arrival", func(t *testing.T) {
		recorder := &fakeRecorder{}
		srv := NewMetricsServiceServerImpl(logger, recorder)
		point := intPoint("wallet-a", ts, 5)
		point.TimeUnixNano = 0
		before := time.Now()
		_, err := srv.Export(context.Background(), request("", gauge(BalanceMetricName, point)))
		require.NoError(t, err)
		require.Len(t, recorder.ticks, 1)
		assert.False(t, recorder.ticks[0].Timestamp.Before(before.Truncate(time.Second)))
	})

	t.Run("Returns the recorder error", func(t *testing.T) {
		failure := errors.New("buffer closed")
		srv := NewMetricsServiceServerImpl(logger, &fakeRecorder{err: failure})
		_, err := srv.Export(context.Background(), request("", gauge(BalanceMetricName, intPoint("wallet-a", ts, 5))))
		assert.ErrorIs(t, err, failure)
	})
}
