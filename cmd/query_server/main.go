package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	chartService "github.com/Avi18971911/CycleWallet/internal/chart/service"
	"github.com/Avi18971911/CycleWallet/internal/config"
	"github.com/Avi18971911/CycleWallet/internal/db/cache"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/Avi18971911/CycleWallet/internal/db/write_buffer"
	"github.com/Avi18971911/CycleWallet/internal/event_bus"
	"github.com/Avi18971911/CycleWallet/internal/query_server/auth"
	"github.com/Avi18971911/CycleWallet/internal/query_server/router"
	"github.com/Avi18971911/CycleWallet/internal/telemetry"
	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
	"github.com/Avi18971911/CycleWallet/internal/wallet/service"
	"github.com/asaskevich/EventBus"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// @title Cycle Wallet API
// @version 1.0
// @description Balance history, charts and event log of cycle wallets.

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

	tp, shutdownTracing, err := telemetry.NewTracerProvider(ctx, cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("Failed to create tracer provider", zap.Error(err))
	}

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

	refresh, ok := client.ParseRefreshRate(cfg.Elasticsearch.Refresh)
	if !ok {
		logger.Fatal("Invalid elasticsearch refresh", zap.String("refresh", cfg.Elasticsearch.Refresh))
	}
	ac := client.NewWalletClientImpl(es, refresh)
	flushBus := event_bus.NewFlushBus(EventBus.New(), logger)

	balanceDBBuffer := write_buffer.NewDatabaseWriteBufferImpl[model.BalanceTick](
		ac,
		bootstrapper.BalanceIndexName,
		flushBus,
		logger,
	).WithLimits(cfg.WriteBuffer.Size, cfg.WriteBuffer.FlushTimeout)
	eventDBBuffer := write_buffer.NewDatabaseWriteBufferImpl[model.Event](
		ac,
		bootstrapper.WalletEventIndexName,
		flushBus,
		logger,
	).WithLimits(cfg.WriteBuffer.Size, cfg.WriteBuffer.FlushTimeout)
	balanceDBBuffer.Start(ctx, cfg.WriteBuffer.FlushInterval)
	eventDBBuffer.Start(ctx, cfg.WriteBuffer.FlushInterval)

	ristrettoCache, err := cache.NewRistrettoCache(cfg.Cache.MaxCost)
	if err != nil {
		logger.Fatal("Failed to create chart cache", zap.Error(err))
	}
	defer ristrettoCache.Close()
	chartCache := cache.NewChartCacheImpl(ristrettoCache, cfg.Cache.TTL, logger)
	err = chartCache.SubscribeToFlushes(flushBus)
	if err != nil {
		logger.Fatal("Failed to subscribe chart cache to flushes", zap.Error(err))
	}

	balanceService := service.NewBalanceService(
		ac,
		balanceDBBuffer,
		chartService.NewChartService(cfg.Location()),
		chartCache,
		logger,
	)
	eventService := service.NewEventService(ac, eventDBBuffer, logger)

	var verifier *auth.Verifier
	if cfg.Auth.Enabled {
		publicKey, err := auth.LoadPublicKey(cfg.Auth.PublicKeyFile)
		if err != nil {
			logger.Fatal("Failed to load delegation public key", zap.Error(err))
		}
		verifier = auth.NewVerifier(publicKey)
	}

	r := router.CreateRouter(
		balanceService,
		eventService,
		cfg.Chart,
		verifier,
		tp.Tracer("query_server"),
		logger,
	)
	srv := &http.Server{Addr: cfg.Server.Address, Handler: r}

	go func() {
		logger.Info("Starting query server", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down query server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down http server", zap.Error(err))
	}
	if err := balanceDBBuffer.Flush(shutdownCtx); err != nil {
		logger.Error("Failed to flush balances", zap.Error(err))
	}
	if err := eventDBBuffer.Flush(shutdownCtx); err != nil {
		logger.Error("Failed to flush events", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to shut down tracing", zap.Error(err))
	}
}
