package grpc

import (
	"context"

	"google.golang.org/grpc"

	grpcpkg "github.com/JoeShih716/go-mem-atm/pkg/grpc"
)

// ServiceName 完整的 gRPC 服務名稱
const ServiceName = "atm.v1.ATMService"

// ATMServiceServer 是 ATM gRPC 服務要實作的介面
type ATMServiceServer interface {
	RegisterAccount(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Deposit(context.Context, *CashRequest) (*CashResponse, error)
	Withdraw(context.Context, *CashRequest) (*CashResponse, error)
	CheckBalance(context.Context, *AccountRequest) (*BalanceResponse, error)
	PrintLedger(context.Context, *PrintLedgerRequest) (*PrintLedgerResponse, error)
}

// ServiceDesc 手動宣告的服務描述，訊息走 JSON codec
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ATMServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterAccount", Handler: unaryHandler("RegisterAccount", ATMServiceServer.RegisterAccount)},
		{MethodName: "Deposit", Handler: unaryHandler("Deposit", ATMServiceServer.Deposit)},
		{MethodName: "Withdraw", Handler: unaryHandler("Withdraw", ATMServiceServer.Withdraw)},
		{MethodName: "CheckBalance", Handler: unaryHandler("CheckBalance", ATMServiceServer.CheckBalance)},
		{MethodName: "PrintLedger", Handler: unaryHandler("PrintLedger", ATMServiceServer.PrintLedger)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "atm/v1/atm.json",
}

// RegisterATMServiceServer 將實作註冊到 gRPC Server
func RegisterATMServiceServer(s grpc.ServiceRegistrar, srv ATMServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler 產生一個 unary 方法的 handler：解碼請求 -> (攔截器) -> 呼叫實作
func unaryHandler[Req, Resp any](method string, call func(ATMServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ATMServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ATMServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client 是 ATMService 的客戶端
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) RegisterAccount(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.invoke(ctx, "RegisterAccount", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Deposit(ctx context.Context, in *CashRequest, opts ...grpc.CallOption) (*CashResponse, error) {
	out := new(CashResponse)
	if err := c.invoke(ctx, "Deposit", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Withdraw(ctx context.Context, in *CashRequest, opts ...grpc.CallOption) (*CashResponse, error) {
	out := new(CashResponse)
	if err := c.invoke(ctx, "Withdraw", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckBalance(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	out := new(BalanceResponse)
	if err := c.invoke(ctx, "CheckBalance", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PrintLedger(ctx context.Context, in *PrintLedgerRequest, opts ...grpc.CallOption) (*PrintLedgerResponse, error) {
	out := new(PrintLedgerResponse)
	if err := c.invoke(ctx, "PrintLedger", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// invoke 一律帶上 JSON content-subtype，呼叫端的選項放後面可以覆蓋
func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(grpcpkg.CodecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, callOpts...)
}
