package middleware

import (
	"context"

	"hotelbooking/internal/app/auth"
)

type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// Authorization rejects commands whose actor may not issue them.
func Authorization(a Authorizer) CommandMiddleware {
	return guard(requireAuthorizer(a).Authorize).commands()
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	return guard(requireAuthorizer(a).Authorize).queries()
}

func requireAuthorizer(a Authorizer) Authorizer {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return a
}

// RoleAuthorizer enforces auth.Guarded messages: an authenticated actor
// holding one of the allowed roles. Unguarded messages, such as price quotes,
// pass through.
type RoleAuthorizer struct{}

func (RoleAuthorizer) Authorize(_ context.Context, message any) error {
	if guarded, ok := message.(auth.Guarded); ok {
		return auth.Check(guarded)
	}
	return nil
}

var _ Authorizer = RoleAuthorizer{}
