package server

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
	"github.com/shopspring/decimal"
	protoMetrics "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	commonV1 "go.opentelemetry.io/proto/otlp/common/v1"
	v1 "go.opentelemetry.io/proto/otlp/metrics/v1"
	"go.uber.org/zap"
)

const (
	BalanceMetricName = "wallet.cycles.balance"
	WalletIdAttribute = "wallet.id"
)

type BalanceRecorder interface {
	RecordBalances(ctx context.Context, ticks []model.BalanceTick) error
}

type MetricsServiceServerImpl struct {
	protoMetrics.UnimplementedMetricsServiceServer
	recorder BalanceRecorder
	logger   *zap.Logger
}

func NewMetricsServiceServerImpl(
	logger *zap.Logger,
	recorder BalanceRecorder,
) *MetricsServiceServerImpl {
	logger.Info("Creating new MetricsServiceServerImpl")
	return &MetricsServiceServerImpl{
		logger:   logger,
		recorder: recorder,
	}
}

// Export turns every wallet.cycles.balance gauge or sum point into a balance
// tick. Points that cannot be attributed to a wallet are reported as rejected.
func (mss *MetricsServiceServerImpl) Export(
	ctx context.Context,
	req *protoMetrics.ExportMetricsServiceRequest,
) (*protoMetrics.ExportMetricsServiceResponse, error) {
	receivedAt := time.Now().UTC()
	var ticks []model.BalanceTick
	var rejected int64
	for _, resourceMetrics := range req.ResourceMetrics {
		resourceWalletId := walletIdOf(resourceMetrics.GetResource().GetAttributes())
		for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
			for _, metric := range scopeMetrics.Metrics {
				if metric.GetName() != BalanceMetricName {
					continue
				}
				for _, point := range dataPointsOf(metric) {
					tick, err := typeTick(point, resourceWalletId, receivedAt)
					if err != nil {
						mss.logger.Warn("Skipping balance data point", zap.Error(err))
						rejected++
						continue
					}
					ticks = append(ticks, tick)
				}
			}
		}
	}

	if len(ticks) > 0 {
		if err := mss.recorder.RecordBalances(ctx, ticks); err != nil {
			mss.logger.Error("Failed to record balances", zap.Int("ticks", len(ticks)), zap.Error(err))
			return nil, err
		}
	}

	res := &protoMetrics.ExportMetricsServiceResponse{}
	if rejected > 0 {
		res.PartialSuccess = &protoMetrics.ExportMetricsPartialSuccess{
			RejectedDataPoints: rejected,
			ErrorMessage:       fmt.Sprintf("%d balance data points had no wallet id or an invalid value", rejected),
		}
	}
	return res, nil
}

func dataPointsOf(metric *v1.Metric) []*v1.NumberDataPoint {
	switch data := metric.Data.(type) {
	case *v1.Metric_Gauge:
		return data.Gauge.GetDataPoints()
	case *v1.Metric_Sum:
		return data.Sum.GetDataPoints()
	default:
		return nil
	}
}

func typeTick(point *v1.NumberDataPoint, resourceWalletId string, receivedAt time.Time) (model.BalanceTick, error) {
	walletId := walletIdOf(point.GetAttributes())
	if walletId == "" {
		walletId = resourceWalletId
	}
	if walletId == "" {
		return model.BalanceTick{}, fmt.Errorf("data point has no %s attribute", WalletIdAttribute)
	}

	var cycles decimal.Decimal
	switch value := point.Value.(type) {
	case *v1.NumberDataPoint_AsInt:
		cycles = decimal.NewFromInt(value.AsInt)
	case *v1.NumberDataPoint_AsDouble:
		if math.IsNaN(value.AsDouble) || math.IsInf(value.AsDouble, 0) {
			return model.BalanceTick{}, fmt.Errorf("wallet %s reported a non-finite balance", walletId)
		}
		cycles = decimal.NewFromFloat(value.AsDouble)
	default:
		return model.BalanceTick{}, fmt.Errorf("wallet %s reported a data point without a value", walletId)
	}
	if cycles.IsNegative() {
		return model.BalanceTick{}, fmt.Errorf("wallet %s reported a negative balance %s", walletId, cycles)
	}

	timestamp := receivedAt
	if point.GetTimeUnixNano() != 0 {
		timestamp = time.Unix(0, int64(point.GetTimeUnixNano())).UTC()
	}
	return model.BalanceTick{
		WalletId:  walletId,
		Timestamp: timestamp,
		Cycles:    cycles,
	}, nil
}

func walletIdOf(attributes []*commonV1.KeyValue) string {
	for _, attribute := range attributes {
		if attribute.GetKey() == WalletIdAttribute {
			return attribute.GetValue().GetStringValue()
		}
	}
	return ""
}
