package huma

import (
	"context"

	base "github.com/danielgtaylor/huma/v2"
)

type (
	API         = base.API
	Operation   = base.Operation
	StatusError = base.StatusError
	ErrorDetail = base.ErrorDetail
)

var (
	Error404NotFound            = base.Error404NotFound
	Error422UnprocessableEntity = base.Error422UnprocessableEntity
	NewError                    = base.NewError
)

// Register wraps huma.Register to expose through this package.
func Register[I, O any](api API, op Operation, handler func(context.Context, *I) (*O, error)) {
	base.Register[I, O](api, op, handler)
}

// FieldError returns an error detail pointing at the given request location.
func FieldError(location, msg string, value any) error {
	return &ErrorDetail{Location: location, Message: msg, Value: value}
}
