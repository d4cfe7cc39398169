// internal/transport/grpcapi/desc.go
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	TaskServiceName = "task.v1.TaskService"
	AuthServiceName = "auth.v1.AuthService"
)

const (
	TaskService_CreateTask_FullMethodName       = "/task.v1.TaskService/CreateTask"
	TaskService_ListTasks_FullMethodName        = "/task.v1.TaskService/ListTasks"
	TaskService_GetTask_FullMethodName          = "/task.v1.TaskService/GetTask"
	TaskService_UpdateTask_FullMethodName       = "/task.v1.TaskService/UpdateTask"
	TaskService_UpdateTaskStatus_FullMethodName = "/task.v1.TaskService/UpdateTaskStatus"
	TaskService_DeleteTask_FullMethodName       = "/task.v1.TaskService/DeleteTask"

	AuthService_SignUp_FullMethodName  = "/auth.v1.AuthService/SignUp"
	AuthService_SignIn_FullMethodName  = "/auth.v1.AuthService/SignIn"
	AuthService_Refresh_FullMethodName = "/auth.v1.AuthService/Refresh"
	AuthService_SignOut_FullMethodName = "/auth.v1.AuthService/SignOut"
	AuthService_GetMe_FullMethodName   = "/auth.v1.AuthService/GetMe"
)

// TaskServiceServer is the server API for task.v1.TaskService
type TaskServiceServer interface {
	CreateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTasks(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTaskStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTask(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// AuthServiceServer is the server API for auth.v1.AuthService
type AuthServiceServer interface {
	SignUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignOut(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetMe(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler the same
// way protoc-gen-go-grpc output does.
func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](fullMethod string, call func(srv any, ctx context.Context, in PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TaskService_ServiceDesc is the grpc.ServiceDesc for task.v1.TaskService
var TaskService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TaskServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateTask",
			Handler: unaryHandler(TaskService_CreateTask_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.(TaskServiceServer).CreateTask(ctx, in)
			}),
		},
		{
			MethodName: "ListTasks",
			Handler: unaryHandler(TaskService_ListTasks_FullMethodName, func(srv any, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return srv.(TaskServiceServer).ListTasks(ctx, in)
			}),
		},
		{
			MethodName: "GetTask",
			Handler: unaryHandler(TaskService_GetTask_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.(TaskServiceServer).GetTask(ctx, in)
			}),
		},
		{
			MethodName: "UpdateTask",
			Handler: unaryHandler(TaskService_UpdateTask_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.(TaskServiceServer).UpdateTask(ctx, in)
			}),
		},
		{
			MethodName: "UpdateTaskStatus",
			Handler: unaryHandler(TaskService_UpdateTaskStatus_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.(TaskServiceServer).UpdateTaskStatus(ctx, in)
			}),
		},
		{
			MethodName: "DeleteTask",
			Handler: unaryHandler(TaskService_DeleteTask_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
				return srv.(TaskServiceServer).DeleteTask(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for auth.v1.AuthService
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SignUp",
			Handler: unaryHandler(AuthService_SignUp_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.(AuthServiceServer).SignUp(ctx, in)
			}),
		},
		{
			MethodName: "SignIn",
			Handler: unaryHandler(AuthService_SignIn_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.(AuthServiceServer).SignIn(ctx, in)
			}),
		},
		{
			MethodName: "Refresh",
			Handler: unaryHandler(AuthService_Refresh_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.(AuthServiceServer).Refresh(ctx, in)
			}),
		},
		{
			MethodName: "SignOut",
			Handler: unaryHandler(AuthService_SignOut_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
				return srv.(AuthServiceServer).SignOut(ctx, in)
			}),
		},
		{
			MethodName: "GetMe",
			Handler: unaryHandler(AuthService_GetMe_FullMethodName, func(srv any, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return srv.(AuthServiceServer).GetMe(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskService_ServiceDesc, srv)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}
