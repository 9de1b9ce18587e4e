package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/duesbook/internal/auth"
	"github.com/mmynk/duesbook/internal/ledger"
	"github.com/mmynk/duesbook/internal/validation"
)

// ErrorFieldHeader names the request field an invalid_argument or
// already_exists error is attributed to.
const ErrorFieldHeader = "Duesbook-Error-Field"

var errInternal = errors.New("internal error")

// ErrorField returns the field a Connect error is attributed to, or "".
func ErrorField(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(ErrorFieldHeader)
}

// toConnectError maps ledger, auth and validation errors onto Connect codes.
// Unclassified errors are logged in full and reach the client as a generic
// internal error.
func toConnectError(logger *slog.Logger, procedure string, err error) error {
	var (
		connectErr  *connect.Error
		validErr    *ledger.ValidationError
		conflictErr *ledger.ConflictError
		requestErr  *validation.RequestValidationError
	)
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, ledger.ErrNotFound)
	case errors.As(err, &validErr):
		return withField(connect.NewError(connect.CodeInvalidArgument, errors.New(validErr.Message)), validErr.Field)
	case errors.As(err, &requestErr):
		return withField(connect.NewError(connect.CodeInvalidArgument, requestErr), requestErr.Field())
	case errors.As(err, &conflictErr):
		return withField(connect.NewError(connect.CodeAlreadyExists, conflictErr), conflictErr.Field)
	case errors.Is(err, ledger.ErrConcurrentUpdate):
		return connect.NewError(connect.CodeAborted, ledger.ErrConcurrentUpdate)
	case errors.Is(err, auth.ErrEmailExists):
		return withField(connect.NewError(connect.CodeAlreadyExists, err), "email")
	case errors.Is(err, auth.ErrWeakPassword):
		return withField(connect.NewError(connect.CodeInvalidArgument, err), "password")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	logger.Error("Unhandled error", "procedure", procedure, "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}

func withField(err *connect.Error, field string) *connect.Error {
	if field != "" {
		err.Meta().Set(ErrorFieldHeader, field)
	}
	return err
}
