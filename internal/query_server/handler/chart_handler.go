package handler

import (
	"fmt"
	"net/http"
	"strconv"

	chartModel "github.com/Avi18971911/CycleWallet/internal/chart/model"
	"github.com/Avi18971911/CycleWallet/internal/config"
	"github.com/Avi18971911/CycleWallet/internal/wallet/service"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ChartHandler creates a handler for the balance chart of a wallet.
// @Summary Get the balance chart of a wallet.
// @Tags wallets
// @Produce json
// @Param walletId path string true "Wallet canister id"
// @Param precision query string false "minute, hour, day, week or month (default hour)"
// @Param count query int false "Number of buckets (default 20)"
// @Success 200 {object} ChartResponseDTO "Buckets in ascending order"
// @Failure 400 {object} ErrorMessage "Invalid precision or count"
// @Failure 404 {object} ErrorMessage "No balance recorded for the wallet"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /wallets/{walletId}/chart [get]
func ChartHandler(
	bs service.BalanceService,
	chartConfig config.ChartConfig,
	tracer trace.Tracer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletId := mux.Vars(r)["walletId"]
		ctx, span := tracer.Start(r.Context(), "ChartHandler")
		defer span.End()

		precision, count, err := chartParams(r, chartConfig)
		if err != nil {
			HttpError(w, err.Error(), http.StatusBadRequest, logger)
			return
		}
		span.SetAttributes(
			attribute.String("wallet.id", walletId),
			attribute.String("chart.precision", string(precision)),
			attribute.Int("chart.count", count),
		)

		buckets, err := bs.GetChart(ctx, walletId, precision, count)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			serviceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, ChartResponseDTO{
			WalletId:  walletId,
			Precision: string(precision),
			Buckets:   bucketsToDTO(buckets),
		}, logger)
	}
}

// chartParams reads precision and count, defaulting both and capping count at the configured maximum.
func chartParams(r *http.Request, chartConfig config.ChartConfig) (chartModel.Precision, int, error) {
	query := r.URL.Query()
	precision := chartConfig.DefaultPrecision
	if raw := query.Get("precision"); raw != "" {
		parsed, err := chartModel.ParsePrecision(raw)
		if err != nil {
			return "", 0, err
		}
		precision = parsed
	}

	count := chartConfig.DefaultCount
	if raw := query.Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return "", 0, errInvalidCount(raw)
		}
		count = parsed
	}
	if chartConfig.MaxCount > 0 && count > chartConfig.MaxCount {
		count = chartConfig.MaxCount
	}
	return precision, count, nil
}

func errInvalidCount(raw string) error {
	return fmt.Errorf("count must be a positive integer, got %q", raw)
}
