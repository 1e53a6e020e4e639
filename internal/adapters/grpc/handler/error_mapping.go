package handler

import (
	"context"
	"errors"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, kpi.ErrInvalidUserID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, kpi.ErrNoBadgeEvents), errors.Is(err, kpi.ErrKPINotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, kpi.ErrInsufficientSampleData):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
