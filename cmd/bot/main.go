package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/timetable_bot/internal/app"
	"github.com/Freeeeeet/timetable_bot/internal/config"
	"github.com/Freeeeeet/timetable_bot/internal/controller"
	"github.com/Freeeeeet/timetable_bot/internal/controller/httpapi"
	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/Freeeeeet/timetable_bot/internal/migrations"
	"github.com/Freeeeeet/timetable_bot/internal/repository"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting timetable bot",
		zap.String("environment", cfg.Environment),
		zap.String("source", cfg.SourcePath),
		zap.Duration("reimport_interval", cfg.ReimportInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	err = migrator.Run(ctx)
	migrator.Close()
	if err != nil {
		return err
	}

	// Репозитории
	timetableRepo := repository.NewTimetableRepository(pool)
	importRunRepo := repository.NewImportRunRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	selectionRepo := repository.NewSelectionRepository(pool)

	// Сервисы
	timetableService := service.NewTimetableService(timetableRepo, importRunRepo, timetable.Options{
		CourseColumn:     cfg.CourseColumn,
		InstructorColumn: cfg.InstructorColumn,
		Workers:          cfg.Workers,
	}, logger)
	userService := service.NewUserService(userRepo, logger)
	selectionService := service.NewSelectionService(selectionRepo, timetableService, logger)

	if err := timetableService.Reload(ctx); err != nil {
		return err
	}

	// Фоновый импорт файла расписания
	scheduler := app.NewScheduler(timetableService, cfg.SourcePath, cfg.ReimportInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, userService, timetableService, selectionService, export.Calendar{
		Name:          "Расписание",
		SemesterStart: cfg.SemesterStart,
		Weeks:         cfg.SemesterWeeks,
		Location:      cfg.Location,
	}, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	api := httpapi.NewServer(&httpapi.Options{
		Address: cfg.HTTPAddr,
		Debug:   cfg.Environment != "production",
		Service: timetableService,
		Logger:  logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return botController.Start(gctx)
	})
	g.Go(api.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return api.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
