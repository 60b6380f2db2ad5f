package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// ErrorKindTrailer carries the ledger error kind next to the status code
const ErrorKindTrailer = "ledger-error-kind"

// codeFor maps ledger error kinds to gRPC codes
func codeFor(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindInvalidArgument, domain.KindAmountMismatch:
		return codes.InvalidArgument
	case domain.KindInvalidState:
		return codes.FailedPrecondition
	case domain.KindForbidden:
		return codes.PermissionDenied
	case domain.KindConflict:
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// mapError converts ledger errors to gRPC status errors and attaches the
// kind as a trailer. Causes of store failures stay server-side.
func mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	kind := domain.KindOf(err)
	_ = grpc.SetTrailer(ctx, metadata.Pairs(ErrorKindTrailer, string(kind)))

	return status.Error(codeFor(kind), domain.MessageOf(err))
}
