package middleware

import (
	"exchange-desk/pkg/logging"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type LoggerContext struct {
	logger *logging.ZapLogger
}

func NewLoggerContext(logger *logging.ZapLogger) *LoggerContext {
	return &LoggerContext{
		logger: logger,
	}
}

// CreateHandler puts request fields into the context and writes one access
// line per request.
func (lc *LoggerContext) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(
			logging.WithContextFields(
				r.Context(),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.String("remote-addr", r.RemoteAddr),
				zap.String("request-id", chimiddleware.GetReqID(r.Context())),
			),
		)
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			lc.logger.InfoCtx(r.Context(), "request served",
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
