package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/spellcaster/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidAmount, codes.InvalidArgument},
	{common.ErrInvalidPrice, codes.InvalidArgument},
	{common.ErrInvalidTier, codes.InvalidArgument},
	{common.ErrorUnauthorized, codes.PermissionDenied},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrStalePrices, codes.FailedPrecondition},
	{common.ErrInsufficientRunes, codes.FailedPrecondition},
	{common.ErrInsufficientBooks, codes.FailedPrecondition},
	{common.ErrBuffActive, codes.FailedPrecondition},
	{common.ErrOutdatedRecord, codes.FailedPrecondition},
	{common.ErrOverflow, codes.OutOfRange},
	{common.ErrUnderflow, codes.OutOfRange},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrAlreadyInitialized, codes.AlreadyExists},
	{common.ErrBurnFailed, codes.Unavailable},
	{common.ErrTransferFailed, codes.Unavailable},
}

// toStatus maps service errors to gRPC statuses. Known errors keep their
// message; anything else is logged and reported as Internal.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}
