package main

import (
	"context"
	"exchange-desk/internal/config"
	"exchange-desk/internal/exchange"
	"exchange-desk/internal/exchange/data/filerepository"
	"exchange-desk/internal/exchange/data/jsonstorage"
	"exchange-desk/internal/exchange/notifier"
	"exchange-desk/internal/exchange/service"
	"exchange-desk/internal/exchange/telegram"
	"exchange-desk/pkg/logging"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewZapLogger(level, "intake")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	storage := jsonstorage.New(cfg.Storage.Path, logger)
	repository := filerepository.New(storage, logger)
	telegramClient := telegram.NewClient(telegram.Config{
		APIURL: cfg.Bot.APIURL,
		Token:  cfg.Bot.Token,
	}, logger)
	adminNotifier := notifier.New(notifier.Config{
		AdminIDs:    cfg.Bot.AdminIDs,
		Concurrency: cfg.Bot.NotifyConcurrency,
	}, telegramClient, logger)
	orders := service.NewOrders(repository, adminNotifier, logger)

	server := exchange.NewServer(exchange.Config{
		ServerAddress:   cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, orders, logger)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelCtx()

	logger.InfoCtx(rootCtx, "Starting intake server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", storage.Path()),
		zap.Int("admins", len(cfg.Bot.AdminIDs)),
	)
	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(rootCtx context.Context, cfg *config.Config, server *exchange.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), 2*cfg.Server.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
