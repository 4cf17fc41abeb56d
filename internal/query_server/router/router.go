package router

import (
	"net/http"

	"github.com/Avi18971911/CycleWallet/internal/config"
	"github.com/Avi18971911/CycleWallet/internal/query_server/auth"
	"github.com/Avi18971911/CycleWallet/internal/query_server/handler"
	"github.com/Avi18971911/CycleWallet/internal/wallet/service"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CreateRouter wires the wallet API. A nil verifier leaves the wallet routes unauthenticated.
func CreateRouter(
	balanceService service.BalanceService,
	eventService service.EventService,
	chartConfig config.ChartConfig,
	verifier *auth.Verifier,
	tracer trace.Tracer,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle("/healthz", handler.HealthHandler(logger)).Methods("GET")

	wallets := r.PathPrefix("/wallets/{walletId}").Subrouter()
	if verifier != nil {
		wallets.Use(auth.Middleware(verifier, logger))
	}

	wallets.Handle(
		"/chart", handler.ChartHandler(
			balanceService,
			chartConfig,
			tracer,
			logger,
		),
	).Methods("GET")

	wallets.Handle(
		"/balance", handler.LatestBalanceHandler(
			balanceService,
			tracer,
			logger,
		),
	).Methods("GET")

	wallets.Handle(
		"/balance", handler.RecordBalancesHandler(
			balanceService,
			tracer,
			logger,
		),
	).Methods("POST")

	wallets.Handle(
		"/events", handler.EventsHandler(
			eventService,
			tracer,
			logger,
		),
	).Methods("GET")

	wallets.Handle(
		"/events", handler.RecordEventsHandler(
			eventService,
			tracer,
			logger,
		),
	).Methods("POST")

	return r
}
