package casbin

import (
	"context"
	"errors"
	"testing"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CameronXie/cake-shop-explorer/internal/admin"
)

const (
	policyPath = "testdata/policy.csv"
)

// mockEnforcer is a mock implementation of the casbin.IEnforcer interface used for testing purposes.
type mockEnforcer struct {
	casbin.IEnforcer
	mock.Mock
}

func (e *mockEnforcer) LoadPolicy() error {
	args := e.Called()
	return args.Error(0)
}

func (e *mockEnforcer) Enforce(rvals ...any) (bool, error) {
	args := e.Called(rvals...)
	return args.Bool(0), args.Error(1)
}

func TestAuthorizer_AuthorizeChecksRolesAfterSubject(t *testing.T) {
	enforcer := new(mockEnforcer)
	enforcer.On("LoadPolicy").Return(nil)
	enforcer.On("Enforce", "bob", "price:set").Return(false, nil)
	enforcer.On("Enforce", "manager", "price:set").Return(true, nil)

	a := authorizer{enforcer: enforcer}
	allowed, err := a.Authorize(context.TODO(), &admin.Request{
		Subject: "bob",
		Roles:   []string{"manager", "owner"},
		Action:  admin.ActionSetPrice,
	})

	assert.True(t, allowed)
	assert.NoError(t, err)
	enforcer.AssertNumberOfCalls(t, "LoadPolicy", 1)
	enforcer.AssertNumberOfCalls(t, "Enforce", 2)
}

func TestAuthorizer_AuthorizeErrors(t *testing.T) {
	testCases := map[string]struct {
		loadErr     error
		enforceErr  error
		expectedErr string
	}{
		"should return error when policy cannot load": {
			loadErr:     errors.New("adapter down"),
			expectedErr: "adapter down",
		},
		"should return error when enforce fails": {
			enforceErr:  errors.New("bad matcher"),
			expectedErr: "bad matcher",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			enforcer := new(mockEnforcer)
			enforcer.On("LoadPolicy").Return(tc.loadErr)
			enforcer.On("Enforce", "bob", "price:reset").Return(false, tc.enforceErr)

			a := authorizer{enforcer: enforcer}
			allowed, err := a.Authorize(context.TODO(), &admin.Request{Subject: "bob", Action: admin.ActionResetPrices})

			assert.False(t, allowed)
			assert.EqualError(t, err, tc.expectedErr)
		})
	}
}

func TestNewAuthorizer(t *testing.T) {
	a, err := NewAuthorizer(Model, fileadapter.NewAdapter(policyPath))
	require.NoError(t, err)
	require.NotNil(t, a)

	cases := map[string]struct {
		request        *admin.Request
		expectDecision bool
	}{
		"should allow subject mapped to owner in policy store": {
			request:        &admin.Request{Subject: "alice", Action: admin.ActionResetPrices},
			expectDecision: true,
		},
		"should allow manager role from token to set price": {
			request:        &admin.Request{Subject: "bob", Roles: []string{"manager"}, Action: admin.ActionSetPrice},
			expectDecision: true,
		},
		"should deny manager role resetting prices": {
			request:        &admin.Request{Subject: "bob", Roles: []string{"manager"}, Action: admin.ActionResetPrices},
			expectDecision: false,
		},
		"should deny subject without roles": {
			request:        &admin.Request{Subject: "carol", Action: admin.ActionResetCounters},
			expectDecision: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			decision, err := a.Authorize(context.TODO(), tc.request)
			assert.Equal(t, tc.expectDecision, decision)
			assert.NoError(t, err)
		})
	}
}

func TestNewAuthorizer_InvalidModel(t *testing.T) {
	_, err := NewAuthorizer("[request_definition]\n", fileadapter.NewAdapter(policyPath))
	assert.Error(t, err)
}
