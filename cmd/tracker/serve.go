package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"productivity-tracker/internal/bot"
	"productivity-tracker/internal/config"
	"productivity-tracker/internal/httpapi"
	"productivity-tracker/internal/repository"
	"productivity-tracker/internal/service"
)

const reportTimeout = 30 * time.Second

var httpAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the Telegram bot and the report scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	db, err := repository.NewDB(cfg.DBDriver, cfg.DatabaseURL, log.Gorm())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	store := repository.NewGormStore(db)

	categories := service.NewCategoryService(store)
	tasks := service.NewTaskService(store)
	notes := service.NewNoteService(store)
	users := service.NewUserService(store)
	reminders := service.NewReminderService(store, 0)

	server := httpapi.NewServer(httpapi.Services{
		Categories: categories,
		Tasks:      tasks,
		Notes:      notes,
		Users:      users,
	}, log.Logger, cfg.CORSOrigin)

	var telegramBot *bot.Bot
	if cfg.BotEnabled() {
		telegramBot, err = bot.New(cfg.TelegramToken, bot.Services{
			Categories: categories,
			Tasks:      tasks,
			Notes:      notes,
			Reminders:  reminders,
		}, log.Logger, bot.Options{SessionTTL: cfg.SessionTTL, Location: time.Local})
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	} else {
		log.Info().Msg("TELEGRAM_TOKEN not set, bot disabled")
	}

	scheduler := service.NewSchedulerService(time.Local, log.Logger)
	if err := scheduleReports(scheduler, cfg, reportJob(telegramBot, reminders, cfg.ReportChatID, log.Logger)); err != nil {
		return fmt.Errorf("schedule reports: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	errCh := make(chan error, 2)
	go func() {
		errCh <- server.ListenAndServe(ctx, cfg.HTTPAddr)
	}()
	if telegramBot != nil {
		go func() {
			errCh <- telegramBot.Start(ctx)
		}()
	}

	log.Info().Str("driver", cfg.DBDriver).Str("addr", cfg.HTTPAddr).Bool("bot", telegramBot != nil).Msg("tracker started")

	err = <-errCh
	stop()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("stopped with error")
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}

// scheduleReports registers the digest job daily at REPORT_AT, otherwise every REPORT_INTERVAL_HOURS.
func scheduleReports(scheduler *service.SchedulerService, cfg config.Config, job func()) error {
	if cfg.ReportAt != "" {
		_, err := scheduler.ScheduleDaily(cfg.ReportAt, job)
		return err
	}
	if cfg.ReportInterval > 0 {
		_, err := scheduler.ScheduleInterval(cfg.ReportInterval, job)
		return err
	}
	return nil
}

// reportJob sends the due digest to the report chat, or logs its counts when no chat is configured.
func reportJob(telegramBot *bot.Bot, reminders *service.ReminderService, chatID int64, log zerolog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		if telegramBot != nil && chatID != 0 {
			if err := telegramBot.SendReport(ctx, chatID); err != nil {
				log.Error().Err(err).Int64("chat", chatID).Msg("send report")
			}
			return
		}

		digest, err := reminders.Collect(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("collect report")
			return
		}
		log.Info().Int("overdue", digest.Overdue).Int("upcoming", digest.Upcoming).Msg("due tasks")
	}
}
