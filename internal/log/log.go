package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soladipe/saas-provision/internal/core/ports"
	apperrors "github.com/soladipe/saas-provision/internal/errors"
)

type slogAdapter struct {
	logger *slog.Logger
}

// NewLogger builds a ports.Logger over log/slog writing to stderr, so stdout
// stays reserved for the provisioning report and run manifest path.
func NewLogger(cfg Config) (ports.Logger, error) {
	var level slog.Level
	switch cfg.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	outputWriter := io.Writer(os.Stderr)

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(outputWriter, opts)
	default:
		handler = slog.NewTextHandler(outputWriter, opts)
	}

	return &slogAdapter{logger: slog.New(handler)}, nil
}

func (s *slogAdapter) log(ctx context.Context, level slog.Level, err error, format string, args ...any) {
	if !s.logger.Enabled(ctx, level) {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	var attrs []slog.Attr
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			attrs = append(attrs, slog.String("error_code", string(appErr.Code)))
			if appErr.WrappedError != nil {
				attrs = append(attrs, slog.String("error_wrapped", appErr.WrappedError.Error()))
			}
			if appErr.SuggestedAction != "" {
				attrs = append(attrs, slog.String("error_suggestion", appErr.SuggestedAction))
			}
		} else {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
	}

	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *slogAdapter) Debugf(ctx context.Context, format string, args ...any) {
	s.log(ctx, slog.LevelDebug, nil, format, args...)
}

func (s *slogAdapter) Infof(ctx context.Context, format string, args ...any) {
	s.log(ctx, slog.LevelInfo, nil, format, args...)
}

func (s *slogAdapter) Warnf(ctx context.Context, format string, args ...any) {
	s.log(ctx, slog.LevelWarn, nil, format, args...)
}

func (s *slogAdapter) Errorf(ctx context.Context, err error, format string, args ...any) {
	s.log(ctx, slog.LevelError, err, format, args...)
}

func (s *slogAdapter) WithFields(fields map[string]any) ports.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &slogAdapter{logger: s.logger.With(args...)}
}
