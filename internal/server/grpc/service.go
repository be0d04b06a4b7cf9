package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "examkeeper.v1.ExamService"

// ExamServiceServer is implemented by GRPCServer.
type ExamServiceServer interface {
	CreateToken(context.Context, *CreateTokenRequest) (*CreateTokenResponse, error)
	DeleteToken(context.Context, *DeleteTokenRequest) (*DeleteTokenResponse, error)
	RequestVoucher(context.Context, *RequestVoucherRequest) (*RequestVoucherResponse, error)
	CreateWorkbook(context.Context, *CreateWorkbookRequest) (*CreateWorkbookResponse, error)
	GetWorkbook(context.Context, *GetWorkbookRequest) (*GetWorkbookResponse, error)
	UpdateAssignment(context.Context, *UpdateAssignmentRequest) (*UpdateAssignmentResponse, error)
	UpdateWorkbookStatus(context.Context, *UpdateWorkbookStatusRequest) (*UpdateWorkbookStatusResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryMethod[Req, Resp any](name string, call func(ExamServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ExamServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ExamServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ExamServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExamServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateToken", ExamServiceServer.CreateToken),
		unaryMethod("DeleteToken", ExamServiceServer.DeleteToken),
		unaryMethod("RequestVoucher", ExamServiceServer.RequestVoucher),
		unaryMethod("CreateWorkbook", ExamServiceServer.CreateWorkbook),
		unaryMethod("GetWorkbook", ExamServiceServer.GetWorkbook),
		unaryMethod("UpdateAssignment", ExamServiceServer.UpdateAssignment),
		unaryMethod("UpdateWorkbookStatus", ExamServiceServer.UpdateWorkbookStatus),
		unaryMethod("Ping", ExamServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "examkeeper/v1/exam",
}

// ExamServiceClient calls the exam service over JSON-encoded gRPC.
type ExamServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewExamServiceClient(cc grpc.ClientConnInterface) *ExamServiceClient {
	return &ExamServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ExamServiceClient) CreateToken(ctx context.Context, in *CreateTokenRequest, opts ...grpc.CallOption) (*CreateTokenResponse, error) {
	return invoke[CreateTokenResponse](ctx, c.cc, "CreateToken", in, opts)
}

func (c *ExamServiceClient) DeleteToken(ctx context.Context, in *DeleteTokenRequest, opts ...grpc.CallOption) (*DeleteTokenResponse, error) {
	return invoke[DeleteTokenResponse](ctx, c.cc, "DeleteToken", in, opts)
}

func (c *ExamServiceClient) RequestVoucher(ctx context.Context, in *RequestVoucherRequest, opts ...grpc.CallOption) (*RequestVoucherResponse, error) {
	return invoke[RequestVoucherResponse](ctx, c.cc, "RequestVoucher", in, opts)
}

func (c *ExamServiceClient) CreateWorkbook(ctx context.Context, in *CreateWorkbookRequest, opts ...grpc.CallOption) (*CreateWorkbookResponse, error) {
	return invoke[CreateWorkbookResponse](ctx, c.cc, "CreateWorkbook", in, opts)
}

func (c *ExamServiceClient) GetWorkbook(ctx context.Context, in *GetWorkbookRequest, opts ...grpc.CallOption) (*GetWorkbookResponse, error) {
	return invoke[GetWorkbookResponse](ctx, c.cc, "GetWorkbook", in, opts)
}

func (c *ExamServiceClient) UpdateAssignment(ctx context.Context, in *UpdateAssignmentRequest, opts ...grpc.CallOption) (*UpdateAssignmentResponse, error) {
	return invoke[UpdateAssignmentResponse](ctx, c.cc, "UpdateAssignment", in, opts)
}

func (c *ExamServiceClient) UpdateWorkbookStatus(ctx context.Context, in *UpdateWorkbookStatusRequest, opts ...grpc.CallOption) (*UpdateWorkbookStatusResponse, error) {
	return invoke[UpdateWorkbookStatusResponse](ctx, c.cc, "UpdateWorkbookStatus", in, opts)
}

func (c *ExamServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}
