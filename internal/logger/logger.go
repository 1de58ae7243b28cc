package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

const permission = 0o664

// Options selects where and how records are written.
type Options struct {
	Level  string
	Format string
	Path   string
	Writer io.Writer
}

// Logger owns the zerolog logger and the file behind it, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a timestamped zerolog logger. Path takes precedence over Writer.
func New(opts Options) (*Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	l := &Logger{}
	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	}
	if opts.Path != "" {
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		w = zerolog.SyncWriter(f)
	}
	if opts.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	l.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Gorm adapts the logger for gorm's SQL tracing.
func (l *Logger) Gorm() gormlogger.Interface {
	sub := l.With().Str("component", "gorm").Logger()
	return gormlogger.New(
		log.New(sub, "", 0),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
