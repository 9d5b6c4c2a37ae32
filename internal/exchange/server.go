package exchange

import (
	"context"
	"errors"
	"exchange-desk/internal/exchange/handlers"
	"exchange-desk/internal/exchange/middleware"
	"exchange-desk/pkg/logging"
	"fmt"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"net/http"
	"time"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
}

type OrderService interface {
	handlers.OrderCreationService
	handlers.OrdersListingService
	handlers.OrderGettingService
	handlers.StatusUpdatingService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(cfg Config, orderService OrderService, logger *logging.ZapLogger) *Server {
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           NewRouter(orderService, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func NewRouter(orderService OrderService, logger *logging.ZapLogger) *chi.Mux {
	orderCreationHandler := handlers.NewOrderCreationHandler(orderService, logger)
	ordersListingHandler := handlers.NewOrdersListingHandler(orderService, logger)
	orderGettingHandler := handlers.NewOrderGettingHandler(orderService, logger)
	statusUpdatingHandler := handlers.NewStatusUpdatingHandler(orderService, logger)
	notFoundHandler := handlers.NewNotFoundHandler(logger)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		middleware.NewLoggerContext(logger).CreateHandler,
		middleware.NewPanicRecover(logger).CreateHandler,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
	)
	router.NotFound(notFoundHandler.ServeHTTP)
	router.MethodNotAllowed(notFoundHandler.ServeHTTP)

	router.Get("/health", handlers.NewHealthHandler(logger).ServeHTTP)
	router.Route("/api", func(router chi.Router) {
		router.Post("/order", orderCreationHandler.ServeHTTP)
		router.Get("/orders", ordersListingHandler.ServeHTTP)
		router.Get("/order/{id}", orderGettingHandler.ServeHTTP)
		router.Put("/order/{id}/status", statusUpdatingHandler.ServeHTTP)
	})

	return router
}
