//go:build casbin && !opa

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	_ "github.com/go-sql-driver/mysql"

	"github.com/CameronXie/cake-shop-explorer/internal/admin"
	"github.com/CameronXie/cake-shop-explorer/internal/admin/casbin"
	"github.com/CameronXie/cake-shop-explorer/internal/config"
)

const (
	MysqlUserEnv = "MYSQL_USER"
	MysqlPassEnv = "MYSQL_PASSWORD"
	MysqlHostEnv = "MYSQL_HOST"
	MysqlPortEnv = "MYSQL_PORT"
)

// getMysqlDSN constructs a MySQL Data Source Name (DSN) from environment variables and returns it as a string.
func getMysqlDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/",
		os.Getenv(MysqlUserEnv),
		os.Getenv(MysqlPassEnv),
		os.Getenv(MysqlHostEnv),
		os.Getenv(MysqlPortEnv),
	)
}

// newPolicyStore connects the gorm adapter to MySQL and seeds the role grants.
func newPolicyStore() (*gormadapter.Adapter, error) {
	a, err := gormadapter.NewAdapter("mysql", getMysqlDSN())
	if err != nil {
		return nil, err
	}

	grants := map[string][]admin.Action{
		"manager": {admin.ActionSetPrice, admin.ActionResetCounters},
		"owner":   {admin.ActionSetPrice, admin.ActionResetPrices, admin.ActionResetCounters},
	}

	for role, actions := range grants {
		for _, action := range actions {
			if err := a.AddPolicy("p", "p", []string{role, string(action)}); err != nil {
				return nil, err
			}
		}
	}

	return a, nil
}

// newAuthorizer builds the casbin authorizer backed by MySQL.
func newAuthorizer(ctx context.Context, _ *config.Config, logger *slog.Logger) (admin.Authorizer, error) {
	logger.InfoContext(ctx, "initializing authorizer with Casbin")

	store, err := newPolicyStore()
	if err != nil {
		return nil, err
	}

	return casbin.NewAuthorizer(casbin.Model, store)
}
