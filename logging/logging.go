// Package logging builds the battle logger and the event observer that
// writes engine events to it.
package logging

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/battlecore/engine/events"
	"github.com/nathoo/battlecore/types"
)

// New builds a console-encoded logger writing to path at the given level.
// An empty path returns a no-op logger so the terminal stays clean.
func New(path, level string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(lvl),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("battle"), nil
}

// TurnObserver returns an event handler that records every engine event
// at debug level, with defeats and level-ups at info.
func TurnObserver(logger *zap.Logger) events.Handler {
	return func(e types.Event) {
		fields := Fields(e)
		switch e.Type {
		case types.EventDefeated, types.EventLevelUp:
			logger.Info(e.Type, fields...)
		default:
			logger.Debug(e.Type, fields...)
		}
	}
}

// Fields converts an event's data into zap fields in key order.
func Fields(e types.Event) []zap.Field {
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		switch v := e.Data[k].(type) {
		case int:
			fields = append(fields, zap.Int(k, v))
		case string:
			fields = append(fields, zap.String(k, v))
		case bool:
			fields = append(fields, zap.Bool(k, v))
		default:
			fields = append(fields, zap.Any(k, v))
		}
	}
	return fields
}
