package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Avi18971911/CycleWallet/internal/wallet/service"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LatestBalanceHandler creates a handler for the latest balance of a wallet.
// @Summary Get the latest balance of a wallet.
// @Tags wallets
// @Produce json
// @Param walletId path string true "Wallet canister id"
// @Success 200 {object} BalanceResponseDTO "Latest balance"
// @Failure 404 {object} ErrorMessage "No balance recorded for the wallet"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /wallets/{walletId}/balance [get]
func LatestBalanceHandler(
	bs service.BalanceService,
	tracer trace.Tracer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletId := mux.Vars(r)["walletId"]
		ctx, span := tracer.Start(r.Context(), "LatestBalanceHandler")
		defer span.End()
		span.SetAttributes(attribute.String("wallet.id", walletId))

		balance, err := bs.GetLatestBalance(ctx, walletId)
		if err != nil {
			serviceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, balanceToDTO(balance), logger)
	}
}

// RecordBalancesHandler creates a handler for reporting observed balances.
// @Summary Record balances of a wallet.
// @Tags wallets
// @Accept json
// @Produce json
// @Param walletId path string true "Wallet canister id"
// @Param ticks body RecordBalancesRequestDTO true "Observed balances"
// @Success 202 {object} AcceptedResponseDTO "Balances queued for storage"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /wallets/{walletId}/balance [post]
func RecordBalancesHandler(
	bs service.BalanceService,
	tracer trace.Tracer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletId := mux.Vars(r)["walletId"]
		ctx, span := tracer.Start(r.Context(), "RecordBalancesHandler")
		defer span.End()
		defer closeBody(r, logger)

		var req RecordBalancesRequestDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}
		span.SetAttributes(attribute.String("wallet.id", walletId), attribute.Int("balance.ticks", len(req.Ticks)))

		err = bs.RecordBalances(ctx, ticksFromDTO(walletId, req.Ticks))
		if err != nil {
			serviceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusAccepted, AcceptedResponseDTO{Accepted: len(req.Ticks)}, logger)
	}
}
