package memory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-atm/internal/app/atm/domain"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/usecase"
	"github.com/JoeShih716/go-mem-atm/pkg/ledgerfile"
)

// ledgerSeparator 帳本表頭與交易紀錄之間的分隔線
const ledgerSeparator = "----------------------------"

// ATM 記憶體內的帳務服務
//
// 結構:
//
//	accounts: 帳戶資料 Map，key 為 (帳號, 密碼)
//
// 所有操作皆為同步處理，沒有鎖；需要並發存取時由呼叫端自行序列化
type ATM struct {
	accounts map[domain.AccountKey]*domain.Account
}

// NewATM 建立一個沒有任何帳戶的 ATM
func NewATM() *ATM {
	return &ATM{
		accounts: make(map[domain.AccountKey]*domain.Account),
	}
}

// RegisterAccount 開戶
//
// 參數:
//
//	number, pin: 帳號與密碼
//	ownerName: 戶名
//	initialBalance: 開戶金額，不可為負數
//
// 回傳:
//
//	error: ErrDuplicateAccount / ErrNegativeAmount
func (m *ATM) RegisterAccount(number, pin int, ownerName string, initialBalance decimal.Decimal) error {
	key := domain.AccountKey{Number: number, PIN: pin}
	if _, ok := m.accounts[key]; ok {
		return domain.ErrDuplicateAccount
	}
	if initialBalance.IsNegative() {
		return domain.ErrNegativeAmount
	}
	m.accounts[key] = domain.NewAccount(ownerName, initialBalance)
	return nil
}

// WithdrawCash 提款
//
// 回傳:
//
//	domain.Transaction: 完成的交易
//	error: ErrNegativeAmount / ErrAccountNotFound / ErrInsufficientFunds
func (m *ATM) WithdrawCash(number, pin int, amount decimal.Decimal) (domain.Transaction, error) {
	if amount.IsNegative() {
		return domain.Transaction{}, domain.ErrNegativeAmount
	}
	account, err := m.lookup(number, pin)
	if err != nil {
		return domain.Transaction{}, err
	}
	tran, err := account.Withdraw(amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	tran.Number = number
	return tran, nil
}

// DepositCash 存款
//
// 回傳:
//
//	domain.Transaction: 完成的交易
//	error: ErrNegativeAmount / ErrAccountNotFound
func (m *ATM) DepositCash(number, pin int, amount decimal.Decimal) (domain.Transaction, error) {
	if amount.IsNegative() {
		return domain.Transaction{}, domain.ErrNegativeAmount
	}
	account, err := m.lookup(number, pin)
	if err != nil {
		return domain.Transaction{}, err
	}
	tran, err := account.Deposit(amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	tran.Number = number
	return tran, nil
}

// CheckBalance 查詢餘額
func (m *ATM) CheckBalance(number, pin int) (decimal.Decimal, error) {
	account, err := m.lookup(number, pin)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// PrintLedger 將帳戶資訊與交易紀錄輸出到檔案 (覆蓋既有內容)
//
// 檔案格式:
//
//	Name: Sam Sepiol
//	Account Number: 12345678
//	Current Balance: $300.30
//	----------------------------
//	Withdrawal - Amount: $20.00, Updated Balance: $280.30
func (m *ATM) PrintLedger(path string, number, pin int) error {
	account, err := m.lookup(number, pin)
	if err != nil {
		return err
	}

	header := []string{
		"Name: " + account.OwnerName,
		fmt.Sprintf("Account Number: %d", number),
		"Current Balance: " + domain.FormatCurrency(account.Balance),
		ledgerSeparator,
	}
	return ledgerfile.Write(path, header, account.Transactions)
}

// GetAccounts 回傳帳戶資料表本身 (可讀寫)
func (m *ATM) GetAccounts() map[domain.AccountKey]*domain.Account {
	return m.accounts
}

// GetTransactions 回傳每個帳戶交易紀錄的指標 (可讀寫)
// 新增 key 不會建立帳戶，帳戶資料表仍是唯一來源
func (m *ATM) GetTransactions() map[domain.AccountKey]*domain.TransactionLog {
	logs := make(map[domain.AccountKey]*domain.TransactionLog, len(m.accounts))
	for key, account := range m.accounts {
		logs[key] = &account.Transactions
	}
	return logs
}

func (m *ATM) lookup(number, pin int) (*domain.Account, error) {
	account, ok := m.accounts[domain.AccountKey{Number: number, PIN: pin}]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

var _ usecase.Ledger = (*ATM)(nil)
