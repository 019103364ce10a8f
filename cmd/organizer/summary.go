package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/service"
)

var (
	summaryTelegramID int64
	summarySort       string
	summaryHTML       bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print one user's daily report to stdout",
	RunE:  runSummary,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		// opening the database migrates it
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		logger.Sugar().Infow("database migrated", "dsn", cfg.DatabaseURL)
		return nil
	},
}

func init() {
	summaryCmd.Flags().Int64Var(&summaryTelegramID, "telegram-id", 0, "Telegram id of the user")
	summaryCmd.Flags().StringVar(&summarySort, "sort", string(engine.SortByDueDate), "task order: due_date, priority or created_at")
	summaryCmd.Flags().BoolVar(&summaryHTML, "html", false, "render Telegram HTML instead of plain text")
	_ = summaryCmd.MarkFlagRequired("telegram-id")
}

func runSummary(cmd *cobra.Command, args []string) error {
	key, ok := engine.ParseSortKey(summarySort)
	if !ok {
		return fmt.Errorf("unknown sort key %q", summarySort)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	user, err := a.services.Users.FindByTelegramID(ctx, summaryTelegramID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no user with telegram id %d", summaryTelegramID)
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	d, err := a.services.Dashboards.Build(ctx, *user, time.Now(), key)
	if err != nil {
		return err
	}
	format := service.FormatPlain
	if summaryHTML {
		format = service.FormatHTML
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), service.RenderSummary(d, format))
	return err
}
