package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Freeeeeet/timetable_bot/internal/app"
	"github.com/Freeeeeet/timetable_bot/internal/config"
	"github.com/Freeeeeet/timetable_bot/internal/migrations"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/Freeeeeet/timetable_bot/internal/source"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// openDB подключается к базе из DB_DSN и применяет миграции
func openDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	err = migrator.Run(ctx)
	migrator.Close()
	if err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newDBService(pool *pgxpool.Pool, logger *zap.Logger) *service.TimetableService {
	return service.NewTimetableService(
		repository.NewTimetableRepository(pool),
		repository.NewImportRunRepository(pool),
		timetableOptions(),
		logger,
	)
}

// importFile читает файл с учётом --sheet и импортирует его через сервис
func importFile(ctx context.Context, svc *service.TimetableService, path string) (*model.ImportRun, error) {
	table, err := source.Open(path, source.Options{Sheet: rootFlags.sheet})
	if err != nil {
		return nil, err
	}
	return svc.ImportTable(ctx, filepath.Base(path), table)
}
