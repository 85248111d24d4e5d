// Package observability builds the structured logger shared by every host.
package observability

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// LoggerConfig selects the level, console format and optional rotating file.
type LoggerConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	NoColor    bool   `yaml:"no_color" mapstructure:"no_color"`
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:      "info",
		Format:     "console",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// ParseLevel accepts the zap level names ("debug", "info", ...).
func ParseLevel(s string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// New builds a logger named "capsim". Console output goes to console when
// it is non-nil; the file sink, when configured, is always JSON and rotated
// by lumberjack. With neither sink a no-op logger is returned.
func New(cfg LoggerConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	atom := zap.NewAtomicLevelAt(level)

	var cores []zapcore.Core
	if console != nil {
		cores = append(cores, zapcore.NewCore(encoder(cfg), console, atom))
	}
	if cfg.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder(LoggerConfig{Format: "json"}), file, atom))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("capsim"), nil
}

// NewStderr is New with console output on a locked stderr.
func NewStderr(cfg LoggerConfig) (*zap.Logger, error) {
	return New(cfg, zapcore.Lock(os.Stderr))
}

func encoder(cfg LoggerConfig) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	if cfg.Format == "json" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.NoColor {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// Sync flushes the logger, ignoring the errors terminals return for sync.
func Sync(l *zap.Logger) {
	if l == nil {
		return
	}
	if err := l.Sync(); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "/dev/std") &&
			!strings.Contains(msg, "invalid argument") &&
			!strings.Contains(msg, "inappropriate ioctl") &&
			!strings.Contains(msg, "operation not supported") {
			fmt.Fprintln(os.Stderr, "failed to sync logger:", err)
		}
	}
}
