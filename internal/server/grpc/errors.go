package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to the gRPC status the caller sees.
// Internal details are logged and never returned.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	switch common.KindOf(err) {
	case common.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case common.KindDuplicate:
		var de *common.DuplicateError
		if errors.As(err, &de) {
			return status.Error(codes.AlreadyExists, de.Error())
		}
		return status.Error(codes.AlreadyExists, common.ErrorDuplicate.Error())
	case common.KindUnauthorized:
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case common.KindForbidden:
		return status.Error(codes.PermissionDenied, common.ErrorForbidden.Error())
	case common.KindNotFound:
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	default:
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
