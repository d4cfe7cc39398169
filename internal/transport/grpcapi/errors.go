// internal/transport/grpcapi/errors.go
package grpcapi

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/service"
)

// toStatus maps a service error onto a gRPC status. The offending field of a
// validation error travels as a Struct detail.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		st := status.New(codes.InvalidArgument, verr.Message)
		if verr.Field != "" {
			detail, derr := structpb.NewStruct(map[string]any{"field": verr.Field})
			if derr == nil {
				if withDetail, werr := st.WithDetails(detail); werr == nil {
					st = withDetail
				}
			}
		}
		return st.Err()
	case errors.Is(err, repository.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, repository.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, repository.ErrTaskNotFound):
		return status.Error(codes.NotFound, "task not found")
	case errors.Is(err, repository.ErrUserNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, repository.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, service.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// fromStatus turns a status returned by the server back into the error
// taxonomy so callers can use errors.Is and errors.As on it.
func fromStatus(err error, notFound error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()
	switch st.Code() {
	case codes.InvalidArgument:
		var field string
		for _, d := range st.Details() {
			if s, ok := d.(*structpb.Struct); ok {
				field = s.GetFields()["field"].GetStringValue()
			}
		}
		return models.NewValidationError(field, msg)
	case codes.Unauthenticated:
		return fmt.Errorf("%s: %w", msg, repository.ErrUnauthenticated)
	case codes.PermissionDenied:
		return fmt.Errorf("%s: %w", msg, repository.ErrPermissionDenied)
	case codes.NotFound:
		return fmt.Errorf("%s: %w", msg, notFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", msg, repository.ErrEmailTaken)
	case codes.FailedPrecondition:
		return fmt.Errorf("%s: %w", msg, service.ErrInvalidTransition)
	default:
		return err
	}
}
