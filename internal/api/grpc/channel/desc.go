package channel

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "alarmbridge.v1.AlarmChannel"
	// InvokeMethod is the full method name of Invoke.
	InvokeMethod = "/" + ServiceName + "/Invoke"
)

// Request field names.
const (
	FieldMethod    = "method"
	FieldArguments = "arguments"
)

// AlarmChannelServer is the server API of the command channel.
type AlarmChannelServer interface {
	Invoke(ctx context.Context, request *structpb.Struct) (*wrapperspb.BoolValue, error)
}

// RegisterAlarmChannelServer registers srv on the gRPC server.
func RegisterAlarmChannelServer(registrar grpc.ServiceRegistrar, srv AlarmChannelServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // gRPC service descriptors are package-level by convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmChannelServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Invoke",
			Handler:    invokeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmbridge/v1/channel.proto",
}

func invokeHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	request := new(structpb.Struct)
	if err := dec(request); err != nil {
		return nil, err
	}

	server, _ := srv.(AlarmChannelServer)

	if interceptor == nil {
		return server.Invoke(ctx, request)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: InvokeMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		typed, _ := req.(*structpb.Struct)

		return server.Invoke(ctx, typed)
	}

	return interceptor(ctx, request, info, handler)
}

// AlarmChannelClient is the client API of the command channel.
type AlarmChannelClient interface {
	Invoke(ctx context.Context, request *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type alarmChannelClient struct {
	// cc carries the calls.
	cc grpc.ClientConnInterface
}

// NewAlarmChannelClient creates a client stub over the connection.
func NewAlarmChannelClient(cc grpc.ClientConnInterface) AlarmChannelClient {
	return &alarmChannelClient{cc: cc}
}

func (c *alarmChannelClient) Invoke(
	ctx context.Context,
	request *structpb.Struct,
	opts ...grpc.CallOption,
) (*wrapperspb.BoolValue, error) {
	response := new(wrapperspb.BoolValue)

	if err := c.cc.Invoke(ctx, InvokeMethod, request, response, opts...); err != nil {
		return nil, err
	}

	return response, nil
}
