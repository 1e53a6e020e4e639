// Package kpiv1 は badgeur.kpi.v1.KPIService の gRPC サービス定義です。
// リクエストは社員 ID を持つ wrapperspb.StringValue、レスポンスは structpb.Struct です。
package kpiv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "badgeur.kpi.v1.KPIService"

	GetUserKPIFullMethodName       = "/" + ServiceName + "/GetUserKPI"
	GetUserKPIReportFullMethodName = "/" + ServiceName + "/GetUserKPIReport"
)

// KPIServiceServer はサーバー側の実装が満たすインターフェースです。
type KPIServiceServer interface {
	GetUserKPI(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	GetUserKPIReport(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterKPIServiceServer は srv を s に登録します。
func RegisterKPIServiceServer(s grpc.ServiceRegistrar, srv KPIServiceServer) {
	s.RegisterService(&KPIServiceDesc, srv)
}

// KPIServiceDesc は KPIService のサービス記述子です。
var KPIServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KPIServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUserKPI", Handler: getUserKPIHandler},
		{MethodName: "GetUserKPIReport", Handler: getUserKPIReportHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "badgeur/kpi/v1/kpi.proto",
}

func getUserKPIHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KPIServiceServer).GetUserKPI(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetUserKPIFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KPIServiceServer).GetUserKPI(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getUserKPIReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KPIServiceServer).GetUserKPIReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetUserKPIReportFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KPIServiceServer).GetUserKPIReport(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// KPIServiceClient は KPIService のクライアントです。
type KPIServiceClient interface {
	GetUserKPI(ctx context.Context, userID string, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetUserKPIReport(ctx context.Context, userID string, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type kpiServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewKPIServiceClient は KPIServiceClient を生成します。
func NewKPIServiceClient(cc grpc.ClientConnInterface) KPIServiceClient {
	return &kpiServiceClient{cc: cc}
}

func (c *kpiServiceClient) GetUserKPI(ctx context.Context, userID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetUserKPIFullMethodName, wrapperspb.String(userID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kpiServiceClient) GetUserKPIReport(ctx context.Context, userID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetUserKPIReportFullMethodName, wrapperspb.String(userID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
