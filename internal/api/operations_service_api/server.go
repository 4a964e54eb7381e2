// Package operations_service_api exposes the operation dispatcher over gRPC
// as flightbooking.v1.Operations/Execute.
package operations_service_api

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/operations"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName   = "flightbooking.v1.Operations"
	ExecuteMethod = "/" + ServiceName + "/Execute"
)

type OperationsServer interface {
	Execute(ctx context.Context, req *operations.Request) (*operations.Response, error)
}

type Executor interface {
	Execute(ctx context.Context, req operations.Request) (any, *operations.Error)
}

// Server implements OperationsServer on top of the dispatcher.
type Server struct {
	exec Executor
}

func NewServer(exec Executor) *Server {
	return &Server{exec: exec}
}

func (s *Server) Execute(ctx context.Context, req *operations.Request) (*operations.Response, error) {
	if req == nil || req.Operation == "" {
		return nil, status.Error(codes.InvalidArgument, "operation is required")
	}
	result, failure := s.exec.Execute(ctx, *req)
	if failure != nil {
		return nil, status.Error(Code(failure.Code), failure.Message)
	}
	return &operations.Response{Data: map[string]any{req.Operation: result}}, nil
}

// Code maps an operation failure kind to its gRPC status code.
func Code(kind operations.Kind) codes.Code {
	switch kind {
	case operations.KindUnauthenticated, operations.KindInvalidCredentials:
		return codes.Unauthenticated
	case operations.KindConflict:
		return codes.AlreadyExists
	case operations.KindNotFound:
		return codes.NotFound
	case operations.KindPermissionDenied:
		return codes.PermissionDenied
	case operations.KindValidation:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OperationsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Execute", Handler: executeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flightbooking/v1/operations",
}

func Register(s grpc.ServiceRegistrar, srv OperationsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(operations.Request)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OperationsServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ExecuteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OperationsServer).Execute(ctx, req.(*operations.Request))
	}
	return interceptor(ctx, in, info, handler)
}

// Invoke calls Execute on cc using the JSON codec.
func Invoke(ctx context.Context, cc grpc.ClientConnInterface, req *operations.Request, opts ...grpc.CallOption) (*operations.Response, error) {
	out := new(operations.Response)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, ExecuteMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ OperationsServer = (*Server)(nil)
