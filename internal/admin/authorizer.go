package admin

import "context"

// Action names an administrative operation.
type Action string

const (
	ActionSetPrice      Action = "price:set"
	ActionResetPrices   Action = "price:reset"
	ActionResetCounters Action = "counter:reset"
)

// Request asks whether a staff member may perform an action.
type Request struct {
	Subject string
	Roles   []string
	Action  Action
}

// Authorizer decides whether a staff member may perform an administrative action.
type Authorizer interface {
	Authorize(ctx context.Context, req *Request) (bool, error)
}
