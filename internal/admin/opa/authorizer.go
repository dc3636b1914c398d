package opa

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/CameronXie/cake-shop-explorer/internal/admin"
)

const (
	moduleName = "cakeshop_admin"

	// DefaultQuery is the rule consulted when no query is given.
	DefaultQuery = "data.cakeshop.allow"
)

// DefaultPolicy lets managers change prices and reset counters, and owners do everything.
const DefaultPolicy = `
package cakeshop

role_permissions := {
	"manager": ["price:set", "counter:reset"],
	"owner": ["price:set", "price:reset", "counter:reset"],
}

default allow := false

allow if {
	some role in input.roles
	some permitted in role_permissions[role]
	permitted == input.action
}
`

type authorizer struct {
	policy PolicySource
	query  string
}

// Authorize evaluates the request against the current policy.
func (a *authorizer) Authorize(ctx context.Context, req *admin.Request) (bool, error) {
	if req == nil {
		return false, errors.New("authorization request cannot be nil")
	}

	policy, err := a.policy.GetPolicy(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get policy: %w", err)
	}

	query, err := rego.New(rego.Module(moduleName, policy), rego.Query(a.query)).PrepareForEval(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to prepare query: %w", err)
	}

	roles := req.Roles
	if roles == nil {
		roles = []string{}
	}

	result, err := query.Eval(ctx, rego.EvalInput(map[string]any{
		"subject": req.Subject,
		"roles":   roles,
		"action":  string(req.Action),
	}))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate query: %w", err)
	}

	if len(result) == 0 || len(result[0].Expressions) == 0 {
		return false, errors.New("failed to evaluate query: no result")
	}

	allowed, ok := result[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("failed to evaluate query: unexpected result %v", result[0].Expressions[0].Value)
	}

	return allowed, nil
}

// NewAuthorizer creates an OPA backed Authorizer evaluating query against policy.
func NewAuthorizer(policy PolicySource, query string) admin.Authorizer {
	if query == "" {
		query = DefaultQuery
	}

	return &authorizer{
		policy: policy,
		query:  query,
	}
}
