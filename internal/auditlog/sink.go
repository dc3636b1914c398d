package auditlog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
)

// Sink writes one structured audit record per finished order.
type Sink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSink creates an audit sink logging at the given level name (DEBUG, INFO, WARN, ERROR).
func NewSink(logger *slog.Logger, level string) *Sink {
	return &Sink{
		logger: logger,
		level:  ParseLevel(level),
	}
}

// Notify logs the finished order.
func (s *Sink) Notify(ctx context.Context, c cake.Cake) {
	s.logger.LogAttrs(ctx, s.level, "order_audited",
		slog.String("cake_id", c.ID()),
		slog.String("kind", string(c.Kind())),
		slog.String("size", string(c.Size())),
		slog.Bool("decorated", c.IsDecorated()),
		slog.Any("decorations", c.DecorationNames()),
		slog.String("base_price", c.BasePrice().StringFixed(2)),
		slog.String("total", c.TotalPrice().StringFixed(2)),
	)
}

// ParseLevel converts a level name to slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
