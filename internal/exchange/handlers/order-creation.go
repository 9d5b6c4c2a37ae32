package handlers

import (
	"context"
	"errors"
	"exchange-desk/internal/common/clientprotocol"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/service"
	"exchange-desk/pkg/logging"
	"go.uber.org/zap"
	"net/http"
)

type OrderCreationService interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (data.Order, error)
}

type OrderCreationHandler struct {
	service OrderCreationService
	logger  *logging.ZapLogger
}

func NewOrderCreationHandler(service OrderCreationService, logger *logging.ZapLogger) *OrderCreationHandler {
	return &OrderCreationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderCreationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer closeBody(ctx, r.Body, h.logger)

	input, err := decodeJSON[clientprotocol.CreateOrderRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(ctx, "error decoding input", zap.Error(err))
		h.fail(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.CreateOrder(ctx, service.CreateOrderInput{
		ExmoCode:      input.ExmoCode,
		GiveAmount:    input.GiveAmount,
		ReceiveAmount: input.ReceiveAmount,
		FullName:      input.FullName,
		Phone:         input.Phone,
		Bank:          input.Bank,
	})
	if err != nil {
		var validationErr *data.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.logger.DebugCtx(ctx, "invalid order", zap.Error(err))
			h.fail(ctx, w, http.StatusBadRequest, validationErr.Error())
		default:
			h.logger.ErrorCtx(ctx, "order creation error", zap.Error(err))
			h.fail(ctx, w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeResponseJSON(ctx, w, http.StatusOK, clientprotocol.CreateOrderResponse{Success: true, ID: order.ID}, h.logger)
}

func (h *OrderCreationHandler) fail(ctx context.Context, w http.ResponseWriter, statusCode int, msg string) {
	writeResponseJSON(ctx, w, statusCode, clientprotocol.CreateOrderResponse{Success: false, Error: msg}, h.logger)
}
