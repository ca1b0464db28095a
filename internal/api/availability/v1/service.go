package availabilityv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "availability.v1.AvailabilityService"

const (
	MethodListAvailability = "/" + ServiceName + "/ListAvailability"
	MethodSaveSchedule     = "/" + ServiceName + "/SaveSchedule"
	MethodGetSchedule      = "/" + ServiceName + "/GetSchedule"
	MethodCreateOneOffSlot = "/" + ServiceName + "/CreateOneOffSlot"
)

type AvailabilityServiceServer interface {
	ListAvailability(context.Context, *ListAvailabilityRequest) (*ListAvailabilityResponse, error)
	SaveSchedule(context.Context, *SaveScheduleRequest) (*SaveScheduleResponse, error)
	GetSchedule(context.Context, *GetScheduleRequest) (*GetScheduleResponse, error)
	CreateOneOffSlot(context.Context, *CreateOneOffSlotRequest) (*CreateOneOffSlotResponse, error)
}

func RegisterAvailabilityServiceServer(s grpc.ServiceRegistrar, srv AvailabilityServiceServer) {
	s.RegisterService(&AvailabilityService_ServiceDesc, srv)
}

var AvailabilityService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AvailabilityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListAvailability",
			Handler:    unaryHandler(MethodListAvailability, AvailabilityServiceServer.ListAvailability),
		},
		{
			MethodName: "SaveSchedule",
			Handler:    unaryHandler(MethodSaveSchedule, AvailabilityServiceServer.SaveSchedule),
		},
		{
			MethodName: "GetSchedule",
			Handler:    unaryHandler(MethodGetSchedule, AvailabilityServiceServer.GetSchedule),
		},
		{
			MethodName: "CreateOneOffSlot",
			Handler:    unaryHandler(MethodCreateOneOffSlot, AvailabilityServiceServer.CreateOneOffSlot),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "availability/v1/availability.proto",
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AvailabilityServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, req any) (any, error) {
			var typed Req
			if err := FromStruct(req.(*structpb.Struct), &typed); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			resp, err := call(srv.(AvailabilityServiceServer), ctx, &typed)
			if err != nil {
				return nil, err
			}
			out, err := ToStruct(resp)
			if err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			return out, nil
		}

		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}
