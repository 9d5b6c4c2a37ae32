package main

import (
	"context"
	"exchange-desk/internal/config"
	"exchange-desk/internal/exchange/bot"
	"exchange-desk/internal/exchange/data/filerepository"
	"exchange-desk/internal/exchange/data/jsonstorage"
	"exchange-desk/internal/exchange/service"
	"exchange-desk/internal/exchange/telegram"
	"exchange-desk/pkg/logging"
	"fmt"
	"go.uber.org/zap"
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
	logger, err := logging.NewZapLogger(level, "bot")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	storage := jsonstorage.New(cfg.Storage.Path, logger)
	repository := filerepository.New(storage, logger)
	orders := service.NewOrders(repository, nil, logger)
	telegramClient := telegram.NewClient(telegram.Config{
		APIURL: cfg.Bot.APIURL,
		Token:  cfg.Bot.Token,
	}, logger)

	botCfg := bot.DefaultConfig()
	botCfg.PageSize = cfg.Bot.PageSize
	botCfg.PollTimeout = cfg.Bot.PollTimeout
	botCfg.PollInterval = cfg.Bot.PollInterval
	botCfg.ErrorBackoff = cfg.Bot.ErrorBackoff
	session := bot.New(botCfg, telegramClient, orders, logger)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelCtx()

	logger.InfoCtx(rootCtx, "Bot started", zap.String("storage", storage.Path()))
	if err := run(rootCtx, session); err != nil {
		logger.ErrorCtx(rootCtx, "Bot stopped with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Bot stopped gracefully")
	}
}

func run(ctx context.Context, session *bot.Bot) error {
	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("bot session error: %w", err)
	}
	return nil
}
