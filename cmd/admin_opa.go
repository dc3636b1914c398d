//go:build !casbin || opa

package main

import (
	"context"
	"log/slog"

	"github.com/CameronXie/cake-shop-explorer/internal/admin"
	"github.com/CameronXie/cake-shop-explorer/internal/admin/opa"
	"github.com/CameronXie/cake-shop-explorer/internal/config"
)

// newAuthorizer builds the OPA authorizer, using the configured policy file when one is set.
func newAuthorizer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (admin.Authorizer, error) {
	policy := opa.NewStaticPolicy(opa.DefaultPolicy)
	if cfg.Admin.PolicyPath != "" {
		policy = opa.NewFilePolicy(cfg.Admin.PolicyPath)
	}

	logger.InfoContext(ctx, "initializing authorizer with OPA", slog.String("policy_path", cfg.Admin.PolicyPath))

	return opa.NewAuthorizer(policy, opa.DefaultQuery), nil
}
