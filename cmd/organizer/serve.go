package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"daily-organizer/internal/bot"
	"daily-organizer/internal/service"
)

const reportTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the report scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateBot(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	telegramBot, err := bot.New(cfg.TelegramToken, a.services, a.loc, logger.Named("bot").Sugar())
	if err != nil {
		return err
	}

	log := logger.Sugar()
	sendReports := func() {
		jobCtx, cancel := context.WithTimeout(ctx, reportTimeout)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("send reports", "error", err)
		}
	}

	scheduler := service.NewSchedulerService(a.loc, logger.Named("scheduler"))
	if cfg.ReportTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.ReportTime, sendReports); err != nil {
			return err
		}
	}
	if cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, sendReports); err != nil {
			return err
		}
	}
	if scheduler.Len() > 0 {
		scheduler.Start()
		defer scheduler.Stop()
		log.Infow("reports scheduled", "daily_at", cfg.ReportTime, "interval", cfg.ReportInterval)
	}

	log.Infow("organizer bot started", "env", cfg.Env, "timezone", a.loc.String())
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
