package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType 交易類型
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdrawal TransactionType = 2
)

// String 回傳帳本上使用的交易名稱
func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdrawal:
		return "Withdrawal"
	default:
		return fmt.Sprintf("TransactionType(%d)", uint8(t))
	}
}

// Transaction 一筆已完成的存提款紀錄
// 不包含密碼，可以安全地送到帳戶以外的地方 (事件、RPC 回應)
type Transaction struct {
	// TransactionID: 外部追蹤號 (UUID)
	TransactionID uuid.UUID
	// Number: 帳號
	Number int
	// Amount: 交易金額
	Amount decimal.Decimal
	// Balance: 交易後餘額
	Balance decimal.Decimal
	// CreatedAt: 交易時間
	CreatedAt time.Time
	Type      TransactionType
}

func newTransaction(txType TransactionType, amount, balance decimal.Decimal) Transaction {
	return Transaction{
		TransactionID: uuid.New(),
		Amount:        amount,
		Balance:       balance,
		CreatedAt:     time.Now(),
		Type:          txType,
	}
}

// Line 產生交易紀錄的文字
// 例: "Withdrawal - Amount: $20.00, Updated Balance: $280.30"
func (t Transaction) Line() string {
	return fmt.Sprintf("%s - Amount: %s, Updated Balance: %s",
		t.Type, FormatCurrency(t.Amount), FormatCurrency(t.Balance))
}
