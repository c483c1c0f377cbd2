package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "billing.plans.v1.PlansService"

// PlansServiceServer is served with google.protobuf.Struct messages so that
// callers can send partial updates with explicit nulls.
type PlansServiceServer interface {
	CreatePlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeletePlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPlans(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(PlansServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var PlansServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlansServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreatePlan", Handler: unaryHandler("CreatePlan", PlansServiceServer.CreatePlan)},
		{MethodName: "GetPlan", Handler: unaryHandler("GetPlan", PlansServiceServer.GetPlan)},
		{MethodName: "UpdatePlan", Handler: unaryHandler("UpdatePlan", PlansServiceServer.UpdatePlan)},
		{MethodName: "DeletePlan", Handler: unaryHandler("DeletePlan", PlansServiceServer.DeletePlan)},
		{MethodName: "ListPlans", Handler: unaryHandler("ListPlans", PlansServiceServer.ListPlans)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "billing/plans/v1/plans.proto",
}

func RegisterPlansServiceServer(registrar grpc.ServiceRegistrar, srv PlansServiceServer) {
	registrar.RegisterService(&PlansServiceDesc, srv)
}

// FullMethod returns the wire name of a PlansService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PlansServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PlansServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
