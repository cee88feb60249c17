package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/middleware"
)

var errNoUser = errors.New("no authenticated user")

// codeFor maps an error kind to its Connect code.
func codeFor(kind errs.Kind) connect.Code {
	switch kind {
	case errs.KindNotFound:
		return connect.CodeNotFound
	case errs.KindConflict:
		return connect.CodeAlreadyExists
	case errs.KindForbidden:
		return connect.CodePermissionDenied
	case errs.KindInvalidInput:
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}

// toConnectError converts a core error into a Connect error carrying only the
// user-visible message. Unclassified errors become storage failures of op.
func toConnectError(op string, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	classified := errs.Classify(op, err)
	return connect.NewError(codeFor(errs.KindOf(classified)), errors.New(errs.Message(classified)))
}

// actor returns the user the request is made on behalf of.
func actor(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errNoUser)
	}
	return userID, nil
}
