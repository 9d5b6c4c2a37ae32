package clientprotocol

import "exchange-desk/internal/exchange/data"

type CreateOrderRequest struct {
	ExmoCode      string      `json:"exmoCode"`
	GiveAmount    data.Amount `json:"giveAmount"`
	ReceiveAmount data.Amount `json:"receiveAmount"`
	FullName      string      `json:"fullName"`
	Phone         string      `json:"phone"`
	Bank          string      `json:"bank"`
}

type CreateOrderResponse struct {
	Success bool   `json:"success"`
	ID      int    `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type OrdersResponse struct {
	Orders []data.Order `json:"orders"`
	Total  int          `json:"total"`
	Page   int          `json:"page"`
	Pages  int          `json:"pages"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
