// Package principal carries the authenticated caller identity through
// request contexts.
package principal

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleOperator Role = "operator"
	RoleCustomer Role = "customer"
)

type Principal struct {
	ID   snowflake.ID
	Role Role
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
