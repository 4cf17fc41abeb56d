package handler

import (
	"net/http"

	"go.uber.org/zap"
)

type HealthResponseDTO struct {
	Status string `json:"status"`
}

// HealthHandler reports that the server is up.
// @Summary Liveness check.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponseDTO
// @Router /healthz [get]
func HealthHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponseDTO{Status: "ok"}, logger)
	}
}
