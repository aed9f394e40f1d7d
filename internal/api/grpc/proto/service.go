// Package proto describes the toolmap.v1 gRPC services. Messages travel as
// JSON through Codec.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Auth_SignUp_FullMethodName = "/toolmap.v1.Auth/SignUp"
	Auth_SignIn_FullMethodName = "/toolmap.v1.Auth/SignIn"

	ToolMap_Load_FullMethodName           = "/toolmap.v1.ToolMap/Load"
	ToolMap_AddTool_FullMethodName        = "/toolmap.v1.ToolMap/AddTool"
	ToolMap_DeleteTool_FullMethodName     = "/toolmap.v1.ToolMap/DeleteTool"
	ToolMap_DeleteCategory_FullMethodName = "/toolmap.v1.ToolMap/DeleteCategory"
	ToolMap_Export_FullMethodName         = "/toolmap.v1.ToolMap/Export"
)

// AuthServer is the server API for the toolmap.v1.Auth service.
type AuthServer interface {
	SignUp(context.Context, *SignUpRequest) (*AuthResponse, error)
	SignIn(context.Context, *SignInRequest) (*AuthResponse, error)
}

// UnimplementedAuthServer can be embedded to have forward compatible implementations.
type UnimplementedAuthServer struct{}

func (UnimplementedAuthServer) SignUp(context.Context, *SignUpRequest) (*AuthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SignUp not implemented")
}

func (UnimplementedAuthServer) SignIn(context.Context, *SignInRequest) (*AuthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SignIn not implemented")
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&Auth_ServiceDesc, srv)
}

func _Auth_SignUp_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SignUpRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).SignUp(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Auth_SignUp_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuthServer).SignUp(ctx, req.(*SignUpRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Auth_SignIn_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SignInRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).SignIn(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Auth_SignIn_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuthServer).SignIn(ctx, req.(*SignInRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Auth_ServiceDesc is the grpc.ServiceDesc for the toolmap.v1.Auth service.
var Auth_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "toolmap.v1.Auth",
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: _Auth_SignUp_Handler},
		{MethodName: "SignIn", Handler: _Auth_SignIn_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "toolmap/v1/toolmap.proto",
}

// ToolMapServer is the server API for the toolmap.v1.ToolMap service.
type ToolMapServer interface {
	Load(context.Context, *LoadRequest) (*LoadResponse, error)
	AddTool(context.Context, *AddToolRequest) (*AddToolResponse, error)
	DeleteTool(context.Context, *DeleteToolRequest) (*DeleteToolResponse, error)
	DeleteCategory(context.Context, *DeleteCategoryRequest) (*DeleteCategoryResponse, error)
	Export(context.Context, *ExportRequest) (*ExportResponse, error)
}

// UnimplementedToolMapServer can be embedded to have forward compatible implementations.
type UnimplementedToolMapServer struct{}

func (UnimplementedToolMapServer) Load(context.Context, *LoadRequest) (*LoadResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Load not implemented")
}

func (UnimplementedToolMapServer) AddTool(context.Context, *AddToolRequest) (*AddToolResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddTool not implemented")
}

func (UnimplementedToolMapServer) DeleteTool(context.Context, *DeleteToolRequest) (*DeleteToolResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteTool not implemented")
}

func (UnimplementedToolMapServer) DeleteCategory(context.Context, *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteCategory not implemented")
}

func (UnimplementedToolMapServer) Export(context.Context, *ExportRequest) (*ExportResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Export not implemented")
}

func RegisterToolMapServer(s grpc.ServiceRegistrar, srv ToolMapServer) {
	s.RegisterService(&ToolMap_ServiceDesc, srv)
}

func _ToolMap_Load_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LoadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolMapServer).Load(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ToolMap_Load_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ToolMapServer).Load(ctx, req.(*LoadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ToolMap_AddTool_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AddToolRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolMapServer).AddTool(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ToolMap_AddTool_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ToolMapServer).AddTool(ctx, req.(*AddToolRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ToolMap_DeleteTool_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteToolRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolMapServer).DeleteTool(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ToolMap_DeleteTool_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ToolMapServer).DeleteTool(ctx, req.(*DeleteToolRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ToolMap_DeleteCategory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteCategoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolMapServer).DeleteCategory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ToolMap_DeleteCategory_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ToolMapServer).DeleteCategory(ctx, req.(*DeleteCategoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ToolMap_Export_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ExportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolMapServer).Export(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ToolMap_Export_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ToolMapServer).Export(ctx, req.(*ExportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ToolMap_ServiceDesc is the grpc.ServiceDesc for the toolmap.v1.ToolMap service.
var ToolMap_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "toolmap.v1.ToolMap",
	HandlerType: (*ToolMapServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Load", Handler: _ToolMap_Load_Handler},
		{MethodName: "AddTool", Handler: _ToolMap_AddTool_Handler},
		{MethodName: "DeleteTool", Handler: _ToolMap_DeleteTool_Handler},
		{MethodName: "DeleteCategory", Handler: _ToolMap_DeleteCategory_Handler},
		{MethodName: "Export", Handler: _ToolMap_Export_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "toolmap/v1/toolmap.proto",
}
