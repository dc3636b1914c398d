package casbin

import (
	"context"
	"errors"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"

	"github.com/CameronXie/cake-shop-explorer/internal/admin"
)

// Model grants actions to roles; g maps staff subjects to roles held in the policy store.
const Model = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.act == p.act
`

type authorizer struct {
	enforcer casbin.IEnforcer
}

// Authorize reloads the policy and allows the request when the subject,
// or any role carried by the token, is granted the action.
func (a *authorizer) Authorize(_ context.Context, req *admin.Request) (bool, error) {
	if req == nil {
		return false, errors.New("authorization request cannot be nil")
	}

	if err := a.enforcer.LoadPolicy(); err != nil {
		return false, err
	}

	subjects := append([]string{req.Subject}, req.Roles...)
	for _, sub := range subjects {
		ok, err := a.enforcer.Enforce(sub, string(req.Action))
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}

	return false, nil
}

// NewAuthorizer creates a casbin backed Authorizer from a model definition and a policy adapter.
func NewAuthorizer(config string, policyRepo persist.Adapter) (admin.Authorizer, error) {
	m, err := model.NewModelFromString(config)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m, policyRepo)
	if err != nil {
		return nil, err
	}

	return &authorizer{enforcer: enforcer}, nil
}
