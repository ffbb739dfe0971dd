package middleware

import (
	"context"
)

type Validator interface {
	Validate(ctx context.Context, message any) error
}

func Validation(v Validator) CommandMiddleware {
	return guard(requireValidator(v).Validate).commands()
}

func QueryValidation(v Validator) QueryMiddleware {
	return guard(requireValidator(v).Validate).queries()
}

func requireValidator(v Validator) Validator {
	if v == nil {
		panic("middleware: validator required")
	}
	return v
}

// SelfValidator defers to the message's own Validate method when it has one.
type SelfValidator struct{}

func (SelfValidator) Validate(_ context.Context, message any) error {
	if v, ok := message.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

var _ Validator = SelfValidator{}
