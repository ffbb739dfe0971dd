package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("auth: principal required")
	ErrForbidden       = errors.New("auth: role not permitted")
)

type Role string

const (
	RoleGuest         Role = "guest"
	RoleStaff         Role = "staff"
	RoleBranchManager Role = "branch_manager"
	RoleAdmin         Role = "admin"
)

// StaffRoles may operate rooms, bookings and waitlists on behalf of guests.
var StaffRoles = []Role{RoleStaff, RoleBranchManager, RoleAdmin}

func ParseRole(raw string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleStaff, RoleBranchManager, RoleAdmin:
		return r
	default:
		return RoleGuest
	}
}

type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

func (p Principal) Authenticated() bool {
	return p.UserID != ""
}

func (p Principal) HasRole(roles ...Role) bool {
	return slices.Contains(roles, p.Role)
}

func (p Principal) IsStaff() bool {
	return p.HasRole(StaffRoles...)
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok && p.Authenticated()
}

// Guarded is implemented by messages restricted to a set of roles.
type Guarded interface {
	Actor() Principal
	AllowedRoles() []Role
}

// Check verifies the actor of a guarded message. Messages without roles only
// need an authenticated actor.
func Check(msg Guarded) error {
	actor := msg.Actor()
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	roles := msg.AllowedRoles()
	if len(roles) == 0 || actor.HasRole(roles...) {
		return nil
	}
	return ErrForbidden
}
