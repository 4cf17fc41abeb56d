package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	chartService "github.com/Avi18971911/CycleWallet/internal/chart/service"
	"github.com/Avi18971911/CycleWallet/internal/config"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/Avi18971911/CycleWallet/internal/db/write_buffer"
	metricsServer "github.com/Avi18971911/CycleWallet/internal/otel_server/metrics/server"
	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
	"github.com/Avi18971911/CycleWallet/internal/wallet/service"
	"github.com/elastic/go-elasticsearch/v8"
	protoMetrics "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
	}

	bs := bootstrapper.NewBootstrapper(es, logger)
	err = bs.BootstrapElasticsearch()
	if err != nil {
		logger.Fatal("Failed to bootstrap elasticsearch", zap.Error(err))
	}

	listener, err := net.Listen("tcp", cfg.Collector.Address)
	if err != nil {
		logger.Fatal("Failed to listen", zap.String("address", cfg.Collector.Address), zap.Error(err))
	}

	refresh, ok := client.ParseRefreshRate(cfg.Elasticsearch.Refresh)
	if !ok {
		logger.Fatal("Invalid elasticsearch refresh", zap.String("refresh", cfg.Elasticsearch.Refresh))
	}
	ac := client.NewWalletClientImpl(es, refresh)
	// Charts are served by the query server, whose cache expires on its own TTL.
	balanceDBBuffer := write_buffer.NewDatabaseWriteBufferImpl[model.BalanceTick](
		ac,
		bootstrapper.BalanceIndexName,
		nil,
		logger,
	).WithLimits(cfg.WriteBuffer.Size, cfg.WriteBuffer.FlushTimeout)
	balanceDBBuffer.Start(ctx, cfg.WriteBuffer.FlushInterval)
	balanceService := service.NewBalanceService(
		ac,
		balanceDBBuffer,
		chartService.NewChartService(cfg.Location()),
		nil,
		logger,
	)

	srv := grpc.NewServer()
	protoMetrics.RegisterMetricsServiceServer(srv, metricsServer.NewMetricsServiceServerImpl(logger, balanceService))

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down balance collector")
		srv.GracefulStop()
	}()

	logger.Info("gRPC service started, listening for OpenTelemetry metrics...", zap.String("address", cfg.Collector.Address))
	if err := srv.Serve(listener); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.WriteBuffer.FlushTimeout)
	defer cancel()
	if err := balanceDBBuffer.Flush(flushCtx); err != nil {
		logger.Error("Failed to flush balances", zap.Error(err))
	}
}
