package app

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// Importer импортирует файл расписания
type Importer interface {
	Import(ctx context.Context, path string) (*model.ImportRun, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	importer Importer
	path     string
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	lastModTime time.Time
}

// NewScheduler создаёт планировщик периодического импорта файла path
func NewScheduler(importer Importer, path string, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		importer: importer,
		path:     path,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи. Без пути или с нулевым интервалом ничего не делает.
func (s *Scheduler) Start(ctx context.Context) {
	if s.path == "" || s.interval <= 0 {
		s.logger.Info("Periodic re-import disabled")
		close(s.done)
		return
	}

	s.logger.Info("Starting background scheduler",
		zap.String("source", s.path),
		zap.Duration("interval", s.interval),
	)

	go s.runImportTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения. Вызывается после Start.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}

// runImportTask периодически импортирует файл расписания
func (s *Scheduler) runImportTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.importIfChanged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.importIfChanged(ctx)
		case <-s.stopChan:
			s.logger.Info("Import task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Import task cancelled")
			return
		}
	}
}

// importIfChanged импортирует файл, если он изменился с последнего успешного импорта
func (s *Scheduler) importIfChanged(ctx context.Context) {
	info, err := os.Stat(s.path)
	if err != nil {
		s.logger.Error("Failed to stat timetable source", zap.String("source", s.path), zap.Error(err))
		return
	}
	if !s.lastModTime.IsZero() && info.ModTime().Equal(s.lastModTime) {
		s.logger.Debug("Timetable source unchanged, skipping import", zap.String("source", s.path))
		return
	}

	run, err := s.importer.Import(ctx, s.path)
	if err != nil {
		s.logger.Error("Failed to import timetable", zap.String("source", s.path), zap.Error(err))
		return
	}

	s.lastModTime = info.ModTime()
	s.logger.Info("Scheduled import completed",
		zap.String("run_id", run.ID.String()),
		zap.Int("issues", run.Issues),
	)
}
