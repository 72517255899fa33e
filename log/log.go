package log

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is shared by every package of the module. It discards everything
// until InitLogger is called.
var Logger = zap.NewNop()

type Config struct {
	Level       string
	Development bool
	TimeZone    string
}

func InitLogger(cfg Config) error {
	location := time.Local
	if cfg.TimeZone != "" {
		loc, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
		}
		location = loc
	}

	config := zap.NewProductionConfig()
	if cfg.Development {
		config = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		config.Level = level
	}
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(location).Format(time.RFC3339))
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if isatty.IsTerminal(os.Stderr.Fd()) {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Logger = logger
	return nil
}
