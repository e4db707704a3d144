package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvironment      = "development"
	defaultReimportInterval = 24 * time.Hour
	defaultHTTPAddr         = ":8080"
	defaultCourseColumn     = "Course Name/Group Name"
	defaultInstructorColumn = "Instructor"
	defaultSemesterWeeks    = 16
	defaultTimezone         = "Asia/Kolkata"
	defaultWorkers          = 4
)

var (
	ErrNoDBDSN         = errors.New("DB_DSN is required but not set")
	ErrNoTelegramToken = errors.New("TELEGRAM_TOKEN is required but not set")
)

type Config struct {
	TelegramToken    string        `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN            string        `mapstructure:"DB_DSN"`
	Environment      string        `mapstructure:"ENV"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"` // пусто: уровень по умолчанию для ENV
	SourcePath       string        `mapstructure:"SOURCE_PATH"`
	ReimportInterval time.Duration `mapstructure:"REIMPORT_INTERVAL"` // 0 отключает периодический импорт
	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	CourseColumn     string        `mapstructure:"COURSE_COLUMN"`
	InstructorColumn string        `mapstructure:"INSTRUCTOR_COLUMN"`
	SemesterStart    time.Time     `mapstructure:"SEMESTER_START"` // нулевое значение если не задано
	SemesterWeeks    int           `mapstructure:"SEMESTER_WEEKS"`
	Timezone         string        `mapstructure:"TIMEZONE"`
	Workers          int           `mapstructure:"NORMALIZE_WORKERS"`

	Location *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения и подставляет значения по умолчанию
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:            os.Getenv("DB_DSN"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		Environment:      envOr("ENV", defaultEnvironment),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		SourcePath:       os.Getenv("SOURCE_PATH"),
		HTTPAddr:         envOr("HTTP_ADDR", defaultHTTPAddr),
		CourseColumn:     envOr("COURSE_COLUMN", defaultCourseColumn),
		InstructorColumn: envOr("INSTRUCTOR_COLUMN", defaultInstructorColumn),
		Timezone:         envOr("TIMEZONE", defaultTimezone),
	}

	var err error
	if cfg.ReimportInterval, err = durationEnv("REIMPORT_INTERVAL", defaultReimportInterval); err != nil {
		return nil, err
	}
	if cfg.SemesterWeeks, err = intEnv("SEMESTER_WEEKS", defaultSemesterWeeks); err != nil {
		return nil, err
	}
	if cfg.Workers, err = intEnv("NORMALIZE_WORKERS", defaultWorkers); err != nil {
		return nil, err
	}

	if cfg.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	if v := os.Getenv("SEMESTER_START"); v != "" {
		cfg.SemesterStart, err = time.ParseInLocation(time.DateOnly, v, cfg.Location)
		if err != nil {
			return nil, fmt.Errorf("parse SEMESTER_START: %w", err)
		}
	}

	return cfg, nil
}

// RequireDB проверяет что задана строка подключения к базе
func (c *Config) RequireDB() error {
	if c.DBDSN == "" {
		return ErrNoDBDSN
	}
	return nil
}

// RequireBot проверяет настройки, нужные процессу бота
func (c *Config) RequireBot() error {
	if err := c.RequireDB(); err != nil {
		return err
	}
	if c.TelegramToken == "" {
		return ErrNoTelegramToken
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	// "0" без единиц тоже допустим и отключает задачу
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
