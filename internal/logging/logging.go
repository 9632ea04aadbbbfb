// Package logging builds the zap loggers used across the proof engine.
package logging

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/proof/internal/config"
	"github.com/roach88/proof/internal/ir"
)

// Standard field names for structured logging.
// Use these constants instead of raw strings.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldToken     = "token"
	FieldRule      = "rule"
	FieldTarget    = "target"
	FieldPremise   = "premise"
	FieldContext   = "context"
	FieldReason    = "reason"
	FieldCount     = "count"
	FieldPath      = "path"
)

// New builds a logger from the log configuration. The json format uses the
// production encoder; console uses the development encoder.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
	}

	var zc zap.Config
	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	default:
		return nil, errors.Newf("unknown log format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Component tags a logger with a component name.
func Component(l *zap.Logger, name string) *zap.Logger {
	return OrNop(l).With(zap.String(FieldComponent, name))
}

// Quad renders a quad as a structured field.
func Quad(key string, q ir.Quad) zap.Field {
	return zap.Int64s(key, []int64{int64(q.Subject), int64(q.Predicate), int64(q.Object), int64(q.Context)})
}

// RequestID renders a request identifier.
func RequestID(id ir.ID) zap.Field {
	return zap.Int64(FieldRequestID, int64(id))
}
