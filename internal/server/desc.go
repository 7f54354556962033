package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "healthsummary.v1.SummaryService"

const (
	methodSummarize      = "/" + ServiceName + "/Summarize"
	methodSubmitFeedback = "/" + ServiceName + "/SubmitFeedback"
	methodListHistory    = "/" + ServiceName + "/ListHistory"
	methodExportHistory  = "/" + ServiceName + "/ExportHistory"
)

// SummaryServiceServer is the server API. Requests and replies are
// google.protobuf.Struct documents; field names match the JSON summary.
type SummaryServiceServer interface {
	Summarize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterSummaryServiceServer(s grpc.ServiceRegistrar, srv SummaryServiceServer) {
	s.RegisterService(&SummaryServiceDesc, srv)
}

type unaryMethod func(SummaryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SummaryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SummaryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SummaryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SummaryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Summarize", Handler: unaryHandler(methodSummarize, SummaryServiceServer.Summarize)},
		{MethodName: "SubmitFeedback", Handler: unaryHandler(methodSubmitFeedback, SummaryServiceServer.SubmitFeedback)},
		{MethodName: "ListHistory", Handler: unaryHandler(methodListHistory, SummaryServiceServer.ListHistory)},
		{MethodName: "ExportHistory", Handler: unaryHandler(methodExportHistory, SummaryServiceServer.ExportHistory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "healthsummary/v1/summary.proto",
}

// SummaryServiceClient is the client API for SummaryService.
type SummaryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSummaryServiceClient(cc grpc.ClientConnInterface) *SummaryServiceClient {
	return &SummaryServiceClient{cc: cc}
}

func (c *SummaryServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SummaryServiceClient) Summarize(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodSummarize, in, opts...)
}

func (c *SummaryServiceClient) SubmitFeedback(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodSubmitFeedback, in, opts...)
}

func (c *SummaryServiceClient) ListHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodListHistory, in, opts...)
}

func (c *SummaryServiceClient) ExportHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodExportHistory, in, opts...)
}
