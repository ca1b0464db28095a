package availabilityv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// AvailabilityClient — типизированный клиент поверх Struct-сообщений.
type AvailabilityClient struct {
	cc grpc.ClientConnInterface
}

func NewAvailabilityClient(cc grpc.ClientConnInterface) *AvailabilityClient {
	return &AvailabilityClient{cc: cc}
}

func (c *AvailabilityClient) ListAvailability(ctx context.Context, in *ListAvailabilityRequest, opts ...grpc.CallOption) (*ListAvailabilityResponse, error) {
	return invoke[ListAvailabilityResponse](ctx, c.cc, MethodListAvailability, in, opts)
}

func (c *AvailabilityClient) SaveSchedule(ctx context.Context, in *SaveScheduleRequest, opts ...grpc.CallOption) (*SaveScheduleResponse, error) {
	return invoke[SaveScheduleResponse](ctx, c.cc, MethodSaveSchedule, in, opts)
}

func (c *AvailabilityClient) GetSchedule(ctx context.Context, in *GetScheduleRequest, opts ...grpc.CallOption) (*GetScheduleResponse, error) {
	return invoke[GetScheduleResponse](ctx, c.cc, MethodGetSchedule, in, opts)
}

func (c *AvailabilityClient) CreateOneOffSlot(ctx context.Context, in *CreateOneOffSlotRequest, opts ...grpc.CallOption) (*CreateOneOffSlotResponse, error) {
	return invoke[CreateOneOffSlotResponse](ctx, c.cc, MethodCreateOneOffSlot, in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	req, err := ToStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	var resp Resp
	if err := FromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
