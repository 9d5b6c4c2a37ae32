package middleware

import (
	"exchange-desk/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPanicRecoverWritesJSON(t *testing.T) {
	handler := NewPanicRecover(logging.NewNop()).CreateHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, internalErrorBody, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestLoggerContextWritesAccessLine(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.New(zap.New(core))
	handler := NewLoggerContext(logger).CreateHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.InfoCtx(r.Context(), "inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/order", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/api/order", entries[0].ContextMap()["path"])
	assert.Equal(t, "request served", entries[1].Message)
	assert.EqualValues(t, http.StatusTeapot, entries[1].ContextMap()["status"])
	assert.Equal(t, http.MethodPost, entries[1].ContextMap()["method"])
}
