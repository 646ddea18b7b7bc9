package grpc

import (
	"context"
	"errors"
	"path/filepath"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-atm/internal/app/atm/domain"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/usecase"
)

// GrpcServer 將 gRPC 請求轉給 CoreUseCase
// handler 會被並發呼叫，序列化由 CoreUseCase 負責
type GrpcServer struct {
	core      *usecase.CoreUseCase
	ledgerDir string
}

// NewGrpcServer 建立 gRPC 服務
//
// 參數:
//
//	core: 核心業務邏輯
//	ledgerDir: PrintLedger 輸出檔案的根目錄
func NewGrpcServer(core *usecase.CoreUseCase, ledgerDir string) *GrpcServer {
	return &GrpcServer{
		core:      core,
		ledgerDir: ledgerDir,
	}
}

func (s *GrpcServer) RegisterAccount(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := s.core.RegisterAccount(ctx, req.Number, req.Pin, req.OwnerName, req.InitialBalance); err != nil {
		return nil, toStatus(err)
	}
	return &RegisterResponse{}, nil
}

func (s *GrpcServer) Deposit(ctx context.Context, req *CashRequest) (*CashResponse, error) {
	tran, err := s.core.Deposit(ctx, req.Number, req.Pin, req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return newCashResponse(tran), nil
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *CashRequest) (*CashResponse, error) {
	tran, err := s.core.Withdraw(ctx, req.Number, req.Pin, req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return newCashResponse(tran), nil
}

func (s *GrpcServer) CheckBalance(ctx context.Context, req *AccountRequest) (*BalanceResponse, error) {
	balance, err := s.core.Balance(ctx, req.Number, req.Pin)
	if err != nil {
		return nil, toStatus(err)
	}
	return &BalanceResponse{Balance: balance}, nil
}

// PrintLedger 帳本只能寫在 ledgerDir 底下
func (s *GrpcServer) PrintLedger(ctx context.Context, req *PrintLedgerRequest) (*PrintLedgerResponse, error) {
	if !filepath.IsLocal(req.Path) {
		return nil, toStatus(domain.ErrInvalidLedgerPath)
	}
	path := filepath.Join(s.ledgerDir, req.Path)
	if err := s.core.PrintLedger(ctx, path, req.Number, req.Pin); err != nil {
		return nil, toStatus(err)
	}
	return &PrintLedgerResponse{Path: path}, nil
}

func newCashResponse(tran domain.Transaction) *CashResponse {
	return &CashResponse{
		TransactionID:  tran.TransactionID.String(),
		CurrentBalance: tran.Balance,
		Line:           tran.Line(),
	}
}

// toStatus 將 domain 錯誤轉成 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateAccount):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ ATMServiceServer = (*GrpcServer)(nil)
