package grpc

import "github.com/shopspring/decimal"

// RPC 訊息，以 JSON codec 傳輸
// 金額以字串表示的 decimal 傳送，避免浮點誤差

type AccountRequest struct {
	Number int `json:"number"`
	Pin    int `json:"pin"`
}

type RegisterRequest struct {
	Number         int             `json:"number"`
	Pin            int             `json:"pin"`
	OwnerName      string          `json:"owner_name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type RegisterResponse struct{}

type CashRequest struct {
	Number int             `json:"number"`
	Pin    int             `json:"pin"`
	Amount decimal.Decimal `json:"amount"`
}

type CashResponse struct {
	TransactionID  string          `json:"transaction_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Line           string          `json:"line"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type PrintLedgerRequest struct {
	// Path 相對於伺服器 ledger 目錄的檔名
	Path   string `json:"path"`
	Number int    `json:"number"`
	Pin    int    `json:"pin"`
}

type PrintLedgerResponse struct {
	// Path 實際寫入的位置
	Path string `json:"path"`
}
