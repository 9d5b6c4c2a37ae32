package handlers

import (
	"context"
	"exchange-desk/internal/common/clientprotocol"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/paging"
	"exchange-desk/pkg/logging"
	"go.uber.org/zap"
	"net/http"
)

type OrdersListingService interface {
	ListOrders(ctx context.Context, page, perPage int) (paging.Page[data.Order], error)
}

type OrdersListingHandler struct {
	service OrdersListingService
	logger  *logging.ZapLogger
}

func NewOrdersListingHandler(service OrdersListingService, logger *logging.ZapLogger) *OrdersListingHandler {
	return &OrdersListingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrdersListingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := h.service.ListOrders(ctx, queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		h.logger.ErrorCtx(ctx, "Error listing orders", zap.Error(err))
		writeError(ctx, w, http.StatusInternalServerError, err.Error(), h.logger)
		return
	}
	writeResponseJSON(ctx, w, http.StatusOK, clientprotocol.OrdersResponse{
		Orders: page.Items,
		Total:  page.Total,
		Page:   page.Number,
		Pages:  page.Pages,
	}, h.logger)
}
