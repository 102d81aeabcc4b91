package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockLens/internal/notifier"
	"StockLens/internal/scheduler"
	"StockLens/internal/session"
)

func newBotCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve reports over a Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			app, err := load(ctx, true)
			if err != nil {
				return err
			}
			log := app.Log
			defer log.Sync()
			cfg := app.Config

			store, err := openStore(cfg.Session.Store, cfg.Session.SQLitePath, log)
			if err != nil {
				return err
			}
			defer store.Close()

			sched := scheduler.NewScheduler(store, cfg.Session.IdleTTL, log)
			if err := sched.RegisterSweep(cfg.Session.SweepCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			tg := notifier.NewTelegramBot(cfg.Telegram.BotToken, cfg.Proxy, log)
			bot := notifier.NewBot(store, app.Assembler, app.News, log)
			go tg.StartPolling(ctx, bot.Handle)
			log.Info("StockLens bot is running, press Ctrl+C to stop", zap.String("session_store", cfg.Session.Store))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Info("shutdown signal received, stopping")
			cancel()
			return nil
		},
	}
}

func openStore(kind, path string, log *zap.Logger) (session.Store, error) {
	switch kind {
	case "sqlite":
		s, err := session.NewSQLiteStore(path, log)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		return s, nil
	default:
		return session.NewMemoryStore(), nil
	}
}
