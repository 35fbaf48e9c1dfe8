package main

import (
	"go.uber.org/zap"

	"github.com/arnegrid/photonforge/pkg/core"
)

// zapLogger adapts a *zap.SugaredLogger to core.Logger, the thin printf-style
// interface pkg/renderer logs through.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func newLogger(verbose bool) (core.Logger, func(), error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.TimeKey = "" // render logs are one-shot CLI output, not a log aggregator feed
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return zapLogger{sugar: logger.Sugar()}, func() { _ = logger.Sync() }, nil
}
