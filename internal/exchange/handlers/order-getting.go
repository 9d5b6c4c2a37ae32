package handlers

import (
	"context"
	"errors"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/pkg/logging"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"net/http"
	"strconv"
)

const orderIDParam = "id"

type OrderGettingService interface {
	GetOrder(ctx context.Context, id int) (data.Order, error)
}

type OrderGettingHandler struct {
	service OrderGettingService
	logger  *logging.ZapLogger
}

func NewOrderGettingHandler(service OrderGettingService, logger *logging.ZapLogger) *OrderGettingHandler {
	return &OrderGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := orderIDFromRequest(r)
	if !ok {
		writeError(ctx, w, http.StatusNotFound, data.ErrOrderNotFound.Error(), h.logger)
		return
	}
	order, err := h.service.GetOrder(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrOrderNotFound):
			writeError(ctx, w, http.StatusNotFound, data.ErrOrderNotFound.Error(), h.logger)
		default:
			h.logger.ErrorCtx(ctx, "Error getting order", zap.Int("order_id", id), zap.Error(err))
			writeError(ctx, w, http.StatusInternalServerError, err.Error(), h.logger)
		}
		return
	}
	writeResponseJSON(ctx, w, http.StatusOK, order, h.logger)
}

func orderIDFromRequest(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, orderIDParam))
	if err != nil {
		return 0, false
	}
	return id, true
}
