package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/app"
	"github.com/Freeeeeet/timetable_bot/internal/config"
	"github.com/Freeeeeet/timetable_bot/internal/controller/httpapi"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve the timetable over the JSON HTTP API",
	Long: `Start the HTTP API. With DB_DSN set the stored timetable is served and an
optional source file is imported first. Without a database the source file is
parsed into memory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("addr") {
			addr = cfg.HTTPAddr
		}

		// логи запросов пишутся всегда, --verbose тут не нужен
		logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var svc *service.TimetableService
		switch {
		case cfg.DBDSN != "":
			pool, err := openDB(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc = newDBService(pool, logger)
			if len(args) == 1 {
				if _, err := importFile(ctx, svc, args[0]); err != nil {
					return fmt.Errorf("failed to import %s: %w", args[0], err)
				}
			} else if err := svc.Reload(ctx); err != nil {
				return err
			}
		case len(args) == 1:
			l, err := loadFile(ctx, args[0], logger)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}
			svc = l.service
		default:
			return errors.New("either DB_DSN or a source file is required")
		}

		api := httpapi.NewServer(&httpapi.Options{
			Address: addr,
			Debug:   cfg.Environment != "production",
			Service: svc,
			Logger:  logger,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(api.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return api.Stop(shutdownCtx)
		})

		logger.Info("Serving timetable API", zap.String("addr", addr))
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address (default: HTTP_ADDR)")
}
