package logger

import (
	"fmt"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yi-nology/itam/pkg/config"
)

// New builds the application logger from configuration.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// RedirectHertz sends hertz's hlog output through the application logger.
func RedirectHertz(l *zap.Logger) {
	hlog.SetOutput(zap.NewStdLog(l.WithOptions(zap.AddCallerSkip(2))).Writer())
}
