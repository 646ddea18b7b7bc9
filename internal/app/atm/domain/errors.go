package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument 參數錯誤 (錯誤類別)
	// 負數金額、重複開戶、找不到帳戶都屬於這一類，可用 errors.Is 判斷
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds 餘額不足，與 ErrInvalidArgument 不同類別
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeAmount 金額不可為負數
	ErrNegativeAmount = fmt.Errorf("%w: amount must not be negative", ErrInvalidArgument)

	// ErrAccountNotFound 找不到帳戶 (帳號與密碼組合不存在)
	ErrAccountNotFound = fmt.Errorf("%w: account not found", ErrInvalidArgument)

	// ErrDuplicateAccount 帳戶已存在
	ErrDuplicateAccount = fmt.Errorf("%w: account already exists", ErrInvalidArgument)

	// ErrInvalidLedgerPath 帳本輸出路徑不合法
	ErrInvalidLedgerPath = fmt.Errorf("%w: invalid ledger path", ErrInvalidArgument)
)
