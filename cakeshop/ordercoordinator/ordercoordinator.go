package ordercoordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog"
)

var (
	// ErrInvalidRequest is returned when an order request is missing or names an unsupported kind or size.
	ErrInvalidRequest = errors.New("invalid order request")
	// ErrNilSink is returned when a nil sink is registered.
	ErrNilSink = errors.New("sink cannot be nil")
	// ErrUncomparableSink is returned when a sink value cannot be compared with ==,
	// such as a bare func or a struct holding a slice. Register a pointer instead.
	ErrUncomparableSink = errors.New("sink is not comparable")
)

// Sink receives every finished order. Implementations must treat the cake as read-only
// and must be comparable, since registration is keyed on identity.
type Sink interface {
	Notify(ctx context.Context, c cake.Cake)
}

// OrderRequest describes one order to place.
// Decorations must be non-nil; an empty list means a bare cake.
type OrderRequest struct {
	Kind        cake.Kind
	Size        cake.Size
	Decorations []cake.Decoration
	Customer    string
}

// Coordinator is the single orchestration point for placing orders.
type Coordinator interface {
	// RegisterSink appends s to the fan-out list. Registering the same sink twice is a no-op.
	RegisterSink(s Sink) error

	// RemoveSink removes s if present.
	RemoveSink(s Sink)

	// SinkCount returns the number of registered sinks.
	SinkCount() int

	// PlaceOrder mints, decorates and fans out a cake, returning it after every sink was notified.
	PlaceOrder(ctx context.Context, req *OrderRequest) (cake.Cake, error)
}

// coordinator implements the Coordinator interface.
type coordinator struct {
	catalog    catalog.Catalog
	surcharges cake.SurchargeTable
	logger     *slog.Logger

	mu    sync.RWMutex
	sinks []Sink
}

// Option defines configuration options for Coordinator.
type Option func(*coordinator)

// WithSurcharges sets the surcharge table used when decorating cakes.
func WithSurcharges(surcharges cake.SurchargeTable) Option {
	return func(c *coordinator) {
		c.surcharges = surcharges
	}
}

// WithSink registers a sink at construction time. A sink RegisterSink would reject
// is skipped and logged as sink_rejected.
func WithSink(s Sink) Option {
	return func(c *coordinator) {
		if err := c.RegisterSink(s); err != nil {
			c.logger.Warn("sink_rejected",
				slog.String("sink", fmt.Sprintf("%T", s)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// NewCoordinator creates a Coordinator backed by the given catalog.
func NewCoordinator(cat catalog.Catalog, logger *slog.Logger, options ...Option) Coordinator {
	c := &coordinator{
		catalog:    cat,
		surcharges: cake.DefaultSurcharges(),
		logger:     logger,
		sinks:      make([]Sink, 0),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// RegisterSink appends s unless it is already registered.
func (c *coordinator) RegisterSink(s Sink) error {
	if s == nil {
		return ErrNilSink
	}

	if !reflect.ValueOf(s).Comparable() {
		return fmt.Errorf("%w: %T", ErrUncomparableSink, s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(s) >= 0 {
		return nil
	}

	c.sinks = append(c.sinks, s)
	c.logger.Debug("sink_registered", slog.String("sink", fmt.Sprintf("%T", s)))
	return nil
}

// RemoveSink drops s from the fan-out list.
func (c *coordinator) RemoveSink(s Sink) {
	if s == nil || !reflect.ValueOf(s).Comparable() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(s)
	if idx < 0 {
		return
	}

	// Build a new slice so snapshots taken by in-flight fan-outs stay intact
	sinks := make([]Sink, 0, len(c.sinks)-1)
	sinks = append(sinks, c.sinks[:idx]...)
	c.sinks = append(sinks, c.sinks[idx+1:]...)
}

// SinkCount returns the number of registered sinks.
func (c *coordinator) SinkCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.sinks)
}

// indexOf must be called with mu held.
func (c *coordinator) indexOf(s Sink) int {
	for i, existing := range c.sinks {
		if existing == s {
			return i
		}
	}

	return -1
}

// PlaceOrder validates the request, mints a base cake, applies every decoration in order
// and notifies every registered sink in registration order.
func (c *coordinator) PlaceOrder(ctx context.Context, req *OrderRequest) (cake.Cake, error) {
	start := time.Now()
	reqLogger := c.logger.With(slog.String("order_request_id", uuid.NewString()))

	if err := validateRequest(req); err != nil {
		reqLogger.WarnContext(ctx, "order_rejected", slog.String("error", err.Error()))
		return cake.Cake{}, err
	}

	reqLogger = reqLogger.With(slog.String("customer", req.Customer))
	reqLogger.InfoContext(ctx, "order_received",
		slog.String("kind", string(req.Kind)),
		slog.String("size", string(req.Size)),
		slog.Int("decorations_count", len(req.Decorations)),
	)

	finished, err := c.build(req)
	if err != nil {
		reqLogger.ErrorContext(ctx, "order_failed",
			slog.String("error", err.Error()),
			slog.Duration("duration_ms", time.Since(start)),
		)
		return cake.Cake{}, err
	}

	sinks := c.snapshot()
	for _, s := range sinks {
		s.Notify(ctx, finished)
	}

	reqLogger.InfoContext(ctx, "order_completed",
		slog.String("cake_id", finished.ID()),
		slog.String("description", finished.Describe()),
		slog.String("total", finished.TotalPrice().StringFixed(2)),
		slog.Int("sinks_notified", len(sinks)),
		slog.Duration("duration_ms", time.Since(start)),
	)

	return finished, nil
}

// build mints the base cake and layers decorations on top of it.
func (c *coordinator) build(req *OrderRequest) (cake.Cake, error) {
	current, err := c.catalog.MintCake(req.Kind, req.Size)
	if err != nil {
		return cake.Cake{}, fmt.Errorf("failed to mint cake: %w", err)
	}

	for _, d := range req.Decorations {
		next, err := c.surcharges.Apply(current, d)
		if err != nil {
			return cake.Cake{}, fmt.Errorf("failed to apply decoration to %s: %w", current.ID(), err)
		}

		current = next
	}

	return current, nil
}

// snapshot returns the current sinks so fan-out runs without holding the lock.
func (c *coordinator) snapshot() []Sink {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sinks
}

func validateRequest(req *OrderRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}

	if !req.Kind.Valid() {
		return fmt.Errorf("%w: unknown cake kind %q", ErrInvalidRequest, req.Kind)
	}

	if !req.Size.Valid() {
		return fmt.Errorf("%w: unknown cake size %q", ErrInvalidRequest, req.Size)
	}

	if req.Decorations == nil {
		return fmt.Errorf("%w: decorations list cannot be nil", ErrInvalidRequest)
	}

	return nil
}
