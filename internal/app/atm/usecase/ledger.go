package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-atm/internal/app/atm/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// RegisterAccount 開戶
	RegisterAccount(number, pin int, ownerName string, initialBalance decimal.Decimal) error
	// WithdrawCash 提款
	WithdrawCash(number, pin int, amount decimal.Decimal) (domain.Transaction, error)
	// DepositCash 存款
	DepositCash(number, pin int, amount decimal.Decimal) (domain.Transaction, error)
	// CheckBalance 查詢餘額
	CheckBalance(number, pin int) (decimal.Decimal, error)
	// PrintLedger 輸出帳本檔案
	PrintLedger(path string, number, pin int) error
}

// EventPublisher 對外發布已完成的交易
type EventPublisher interface {
	Publish(ctx context.Context, tran domain.Transaction) error
}
