package grpcserver

import (
	"context"
	"errors"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/repository"
	"github.com/alysesue/bookings-api-sub000/internal/service"
)

// toStatus переводит ошибки сервисов в gRPC-статусы.
// Нарушения расписания уходят в BadRequest: field — числовой код, description — текст.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var verr *calendar.ValidationError
	switch {
	case errors.As(err, &verr):
		st := status.New(codes.InvalidArgument, "schedule validation failed")
		br := &errdetails.BadRequest{}
		for _, v := range verr.Violations {
			desc := v.Message
			if v.Weekday != nil {
				desc = v.Weekday.String() + ": " + desc
			}
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       strconv.Itoa(int(v.Code)),
				Description: desc,
			})
		}
		if withDetails, derr := st.WithDetails(br); derr == nil {
			st = withDetails
		}
		return st.Err()
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrProviderNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrScheduleNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, repository.ErrSlotOverlap):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
