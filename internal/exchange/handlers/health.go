package handlers

import (
	"exchange-desk/internal/common/clientprotocol"
	"exchange-desk/pkg/logging"
	"net/http"
)

type HealthHandler struct {
	logger *logging.ZapLogger
}

func NewHealthHandler(logger *logging.ZapLogger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeResponseJSON(r.Context(), w, http.StatusOK, clientprotocol.HealthResponse{Status: "ok"}, h.logger)
}

type NotFoundHandler struct {
	logger *logging.ZapLogger
}

func NewNotFoundHandler(logger *logging.ZapLogger) *NotFoundHandler {
	return &NotFoundHandler{logger: logger}
}

func (h *NotFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeError(r.Context(), w, http.StatusNotFound, "not found", h.logger)
}
