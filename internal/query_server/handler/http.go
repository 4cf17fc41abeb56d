package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	chartService "github.com/Avi18971911/CycleWallet/internal/chart/service"
	walletModel "github.com/Avi18971911/CycleWallet/internal/wallet/model"
	walletService "github.com/Avi18971911/CycleWallet/internal/wallet/service"
	"go.uber.org/zap"
)

type ErrorMessage struct {
	Message string `json:"message"`
}

func HttpError(w http.ResponseWriter, message string, statusCode int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(ErrorMessage{Message: message})
	if err != nil {
		logger.Error("Failed to encode error message", zap.Error(err))
	}
}

// serviceError answers with the status matching err. Server side failures keep their details in the log.
func serviceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	switch {
	case errors.Is(err, chartService.ErrInvalidArgument),
		errors.Is(err, walletModel.ErrInvalidEvent),
		errors.Is(err, walletModel.ErrInvalidTick),
		errors.Is(err, walletService.ErrInvalidRange):
		HttpError(w, err.Error(), http.StatusBadRequest, logger)
	case errors.Is(err, walletService.ErrNoBalance):
		HttpError(w, err.Error(), http.StatusNotFound, logger)
	default:
		logger.Error("Error encountered when serving request", zap.Error(err))
		HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}, logger *zap.Logger) {
	payload, err := json.Marshal(body)
	if err != nil {
		logger.Error("Error encountered when encoding response", zap.Error(err))
		HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(payload); err != nil {
		logger.Error("Error encountered when writing response", zap.Error(err))
	}
}

func closeBody(r *http.Request, logger *zap.Logger) {
	if err := r.Body.Close(); err != nil {
		logger.Error("Error encountered when closing request body", zap.Error(err))
	}
}
