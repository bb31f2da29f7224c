package grpc

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc"
)

type EventInfo struct {
	Event string              `json:"event"`
	Data  jsoniter.RawMessage `json:"data"`
}

type EventResponse struct {
	Handled bool `json:"handled"`
}

type EventServiceServer interface {
	BroadcastEvent(ctx context.Context, in *EventInfo) (*EventResponse, error)
}

const broadcastEventMethod = "/socialgraph.EventService/BroadcastEvent"

var EventServiceDesc = grpc.ServiceDesc{
	ServiceName: "socialgraph.EventService",
	HandlerType: (*EventServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "BroadcastEvent",
			Handler:    broadcastEventHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "socialgraph/events",
}

func broadcastEventHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EventInfo)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EventServiceServer).BroadcastEvent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: broadcastEventMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EventServiceServer).BroadcastEvent(ctx, req.(*EventInfo))
	}
	return interceptor(ctx, in, info, handler)
}

type EventServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEventServiceClient(cc grpc.ClientConnInterface) *EventServiceClient {
	return &EventServiceClient{cc: cc}
}

func (c *EventServiceClient) BroadcastEvent(ctx context.Context, in *EventInfo, opts ...grpc.CallOption) (*EventResponse, error) {
	out := new(EventResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, broadcastEventMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
