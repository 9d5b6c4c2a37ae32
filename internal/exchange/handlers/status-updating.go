package handlers

import (
	"context"
	"errors"
	"exchange-desk/internal/common/clientprotocol"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/pkg/logging"
	"go.uber.org/zap"
	"net/http"
)

type StatusUpdatingService interface {
	UpdateStatus(ctx context.Context, id int, status string) (data.Order, error)
}

type StatusUpdatingHandler struct {
	service StatusUpdatingService
	logger  *logging.ZapLogger
}

func NewStatusUpdatingHandler(service StatusUpdatingService, logger *logging.ZapLogger) *StatusUpdatingHandler {
	return &StatusUpdatingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *StatusUpdatingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer closeBody(ctx, r.Body, h.logger)

	id, ok := orderIDFromRequest(r)
	if !ok {
		writeError(ctx, w, http.StatusNotFound, data.ErrOrderNotFound.Error(), h.logger)
		return
	}
	input, err := decodeJSON[clientprotocol.UpdateStatusRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(ctx, "error decoding input", zap.Error(err))
		writeError(ctx, w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	_, err = h.service.UpdateStatus(ctx, id, input.Status)
	if err != nil {
		var validationErr *data.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeError(ctx, w, http.StatusBadRequest, validationErr.Error(), h.logger)
		case errors.Is(err, data.ErrOrderNotFound):
			writeError(ctx, w, http.StatusNotFound, data.ErrOrderNotFound.Error(), h.logger)
		default:
			h.logger.ErrorCtx(ctx, "Error updating order status", zap.Int("order_id", id), zap.Error(err))
			writeError(ctx, w, http.StatusInternalServerError, err.Error(), h.logger)
		}
		return
	}
	writeResponseJSON(ctx, w, http.StatusOK, clientprotocol.SuccessResponse{Success: true}, h.logger)
}
