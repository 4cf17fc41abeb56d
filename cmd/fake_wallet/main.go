package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/config"
	metricsServer "github.com/Avi18971911/CycleWallet/internal/otel_server/metrics/server"
	protoMetrics "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	commonV1 "go.opentelemetry.io/proto/otlp/common/v1"
	v1 "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourceV1 "go.opentelemetry.io/proto/otlp/resource/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"
)

const (
	reportInterval = 2 * time.Second
	startBalance   = 4_000_000_000_000
	walletIdEnv    = "FAKE_WALLET_ID"
)

// fake_wallet reports a random walk of a wallet balance to the balance collector.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.NewLoaderFromEnv().Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	walletId := os.Getenv(walletIdEnv)
	if walletId == "" {
		walletId = "rwlgt-iiaaa-aaaaa-aaaaa-cai"
	}

	conn, err := grpc.NewClient(
		dialTarget(cfg.Collector.Address),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.UseCompressor(gzip.Name)),
	)
	if err != nil {
		logger.Fatal("Failed to create collector client", zap.Error(err))
	}
	defer conn.Close()
	metricsClient := protoMetrics.NewMetricsServiceClient(conn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	balance := int64(startBalance)
	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			balance = nextBalance(balance)
			reportCtx, cancel := context.WithTimeout(ctx, reportInterval)
			res, err := metricsClient.Export(reportCtx, balanceRequest(walletId, now, balance))
			cancel()
			if err != nil {
				logger.Error("Failed to report balance", zap.Error(err))
				continue
			}
			if res.GetPartialSuccess().GetRejectedDataPoints() > 0 {
				logger.Warn("Collector rejected balance", zap.String("reason", res.GetPartialSuccess().GetErrorMessage()))
				continue
			}
			logger.Info("Reported balance", zap.String("wallet_id", walletId), zap.Int64("cycles", balance))
		}
	}
}

// nextBalance spends most of the time and occasionally receives a top up.
func nextBalance(balance int64) int64 {
	if rand.Intn(10) == 0 {
		return balance + rand.Int63n(2_000_000_000_000)
	}
	spent := rand.Int63n(50_000_000_000)
	if spent > balance {
		return 0
	}
	return balance - spent
}

func balanceRequest(walletId string, now time.Time, balance int64) *protoMetrics.ExportMetricsServiceRequest {
	return &protoMetrics.ExportMetricsServiceRequest{
		ResourceMetrics: []*v1.ResourceMetrics{{
			Resource: &resourceV1.Resource{
				Attributes: []*commonV1.KeyValue{{
					Key:   metricsServer.WalletIdAttribute,
					Value: &commonV1.AnyValue{Value: &commonV1.AnyValue_StringValue{StringValue: walletId}},
				}},
			},
			ScopeMetrics: []*v1.ScopeMetrics{{
				Scope: &commonV1.InstrumentationScope{Name: "fake_wallet"},
				Metrics: []*v1.Metric{{
					Name: metricsServer.BalanceMetricName,
					Unit: "{cycles}",
					Data: &v1.Metric_Gauge{Gauge: &v1.Gauge{DataPoints: []*v1.NumberDataPoint{{
						TimeUnixNano: uint64(now.UnixNano()),
						Value:        &v1.NumberDataPoint_AsInt{AsInt: balance},
					}}}},
				}},
			}},
		}},
	}
}

func dialTarget(address string) string {
	if strings.HasPrefix(address, ":") {
		return "localhost" + address
	}
	return address
}
