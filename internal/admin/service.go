package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog"
	"github.com/CameronXie/cake-shop-explorer/internal/stafftoken"
)

// ErrForbidden is returned when the authorizer denies a verified staff member.
var ErrForbidden = errors.New("forbidden")

// TokenVerifier turns a bearer token into a staff identity.
type TokenVerifier interface {
	Verify(token string) (*stafftoken.Staff, error)
}

// Service guards catalog mutations behind staff tokens and an Authorizer.
type Service struct {
	catalog    catalog.Catalog
	verifier   TokenVerifier
	authorizer Authorizer
	logger     *slog.Logger
}

// NewService creates a Service over cat.
func NewService(cat catalog.Catalog, verifier TokenVerifier, authorizer Authorizer, logger *slog.Logger) *Service {
	return &Service{
		catalog:    cat,
		verifier:   verifier,
		authorizer: authorizer,
		logger:     logger,
	}
}

// SetPrice changes one row of the price table.
func (s *Service) SetPrice(ctx context.Context, token string, kind cake.Kind, size cake.Size, price decimal.Decimal) error {
	staff, err := s.authorize(ctx, token, ActionSetPrice)
	if err != nil {
		return err
	}

	previous, _ := s.catalog.PriceOf(kind, size)
	if err := s.catalog.SetPrice(kind, size, price); err != nil {
		return fmt.Errorf("failed to set price: %w", err)
	}

	s.logger.InfoContext(ctx, "price_updated",
		slog.String("staff", staff.Subject),
		slog.String("kind", string(kind)),
		slog.String("size", string(size)),
		slog.String("previous", previous.StringFixed(2)),
		slog.String("price", price.StringFixed(2)),
	)

	return nil
}

// ResetPrices restores the compiled-in price table.
func (s *Service) ResetPrices(ctx context.Context, token string) error {
	staff, err := s.authorize(ctx, token, ActionResetPrices)
	if err != nil {
		return err
	}

	s.catalog.ResetToDefaults()
	s.logger.InfoContext(ctx, "prices_reset", slog.String("staff", staff.Subject))

	return nil
}

// ResetCounters zeroes every per-kind order counter.
func (s *Service) ResetCounters(ctx context.Context, token string) error {
	staff, err := s.authorize(ctx, token, ActionResetCounters)
	if err != nil {
		return err
	}

	s.catalog.ResetCounters()
	s.logger.InfoContext(ctx, "counters_reset", slog.String("staff", staff.Subject))

	return nil
}

func (s *Service) authorize(ctx context.Context, token string, action Action) (*stafftoken.Staff, error) {
	staff, err := s.verifier.Verify(token)
	if err != nil {
		s.logger.WarnContext(ctx, "admin_denied",
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to verify staff token: %w", err)
	}

	allowed, err := s.authorizer.Authorize(ctx, &Request{
		Subject: staff.Subject,
		Roles:   staff.Roles,
		Action:  action,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to authorize %s: %w", action, err)
	}

	if !allowed {
		s.logger.WarnContext(ctx, "admin_denied",
			slog.String("staff", staff.Subject),
			slog.String("action", string(action)),
		)
		return nil, fmt.Errorf("%w: %s may not %s", ErrForbidden, staff.Subject, action)
	}

	return staff, nil
}
