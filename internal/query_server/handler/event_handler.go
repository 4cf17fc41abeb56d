package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Avi18971911/CycleWallet/internal/wallet/service"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EventsHandler creates a handler for the event log of a wallet.
// @Summary Get wallet events by event id range.
// @Tags wallets
// @Produce json
// @Param walletId path string true "Wallet canister id"
// @Param from query int false "First event id, inclusive"
// @Param to query int false "Last event id, inclusive"
// @Success 200 {object} EventsResponseDTO "Events ordered by event id"
// @Failure 400 {object} ErrorMessage "Invalid range"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /wallets/{walletId}/events [get]
func EventsHandler(
	es service.EventService,
	tracer trace.Tracer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletId := mux.Vars(r)["walletId"]
		ctx, span := tracer.Start(r.Context(), "EventsHandler")
		defer span.End()
		span.SetAttributes(attribute.String("wallet.id", walletId))

		from, err := eventIdParam(r, "from")
		if err != nil {
			HttpError(w, err.Error(), http.StatusBadRequest, logger)
			return
		}
		to, err := eventIdParam(r, "to")
		if err != nil {
			HttpError(w, err.Error(), http.StatusBadRequest, logger)
			return
		}

		events, err := es.GetEvents(ctx, walletId, from, to)
		if err != nil {
			serviceError(w, err, logger)
			return
		}
		total, err := es.CountEvents(ctx, walletId)
		if err != nil {
			serviceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, EventsResponseDTO{
			WalletId: walletId,
			Events:   eventsToDTO(events),
			Total:    total,
		}, logger)
	}
}

// RecordEventsHandler creates a handler for reporting wallet events.
// @Summary Record events of a wallet.
// @Tags wallets
// @Accept json
// @Produce json
// @Param walletId path string true "Wallet canister id"
// @Param events body RecordEventsRequestDTO true "Wallet events"
// @Success 202 {object} AcceptedResponseDTO "Events queued for storage"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /wallets/{walletId}/events [post]
func RecordEventsHandler(
	es service.EventService,
	tracer trace.Tracer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletId := mux.Vars(r)["walletId"]
		ctx, span := tracer.Start(r.Context(), "RecordEventsHandler")
		defer span.End()
		defer closeBody(r, logger)

		var req RecordEventsRequestDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}
		span.SetAttributes(attribute.String("wallet.id", walletId), attribute.Int("wallet.events", len(req.Events)))

		err = es.RecordEvents(ctx, eventsFromDTO(walletId, req.Events))
		if err != nil {
			serviceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusAccepted, AcceptedResponseDTO{Accepted: len(req.Events)}, logger)
	}
}

func eventIdParam(r *http.Request, name string) (*uint32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%s must be an event id, got %q", name, raw)
	}
	id := uint32(parsed)
	return &id, nil
}
