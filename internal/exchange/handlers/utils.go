package handlers

import (
	"context"
	"encoding/json"
	"exchange-desk/internal/common/clientprotocol"
	"exchange-desk/pkg/logging"
	"go.uber.org/zap"
	"io"
	"net/http"
	"strconv"
)

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

// decodeJSON accepts unknown fields: web forms tend to post more than the order needs.
func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	err := json.NewDecoder(r).Decode(&out)
	return out, err
}

func tryWriteResponseJSON(w http.ResponseWriter, statusCode int, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(res)
	return err
}

func writeResponseJSON(ctx context.Context, w http.ResponseWriter, statusCode int, responseItem any, logger *logging.ZapLogger) {
	if err := tryWriteResponseJSON(w, statusCode, responseItem); err != nil {
		logger.ErrorCtx(ctx, "Error writing response", zap.Error(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, msg string, logger *logging.ZapLogger) {
	writeResponseJSON(ctx, w, statusCode, clientprotocol.ErrorResponse{Error: msg}, logger)
}

// queryInt returns 0 when the parameter is absent or not a number.
func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
