package domain

import "github.com/shopspring/decimal"

// AccountKey 帳號 + 密碼組成的複合鍵，可直接當 map key
type AccountKey struct {
	Number int
	PIN    int
}

// TransactionLog 帳戶的交易紀錄，只能往後追加
type TransactionLog []string

// Append 追加一筆紀錄
func (l *TransactionLog) Append(line string) {
	*l = append(*l, line)
}

// Account 帳戶
// 交易紀錄直接放在帳戶裡，帳戶存在就一定有對應的紀錄
type Account struct {
	OwnerName    string
	Balance      decimal.Decimal
	Transactions TransactionLog
}

func NewAccount(ownerName string, balance decimal.Decimal) *Account {
	return &Account{
		OwnerName:    ownerName,
		Balance:      balance,
		Transactions: TransactionLog{},
	}
}

// Deposit 存款
//
// 參數:
//
//	amount: 存款金額，不可為負數
//
// 回傳:
//
//	Transaction: 完成的交易，帳號由持有帳戶的一方填入
//	error: ErrNegativeAmount
func (a *Account) Deposit(amount decimal.Decimal) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, ErrNegativeAmount
	}

	a.Balance = a.Balance.Add(amount)
	tran := newTransaction(TransactionTypeDeposit, amount, a.Balance)
	a.Transactions.Append(tran.Line())
	return tran, nil
}

// Withdraw 提款
//
// 參數:
//
//	amount: 提款金額，不可為負數，也不可超過餘額
//
// 回傳:
//
//	Transaction: 完成的交易
//	error: ErrNegativeAmount 或 ErrInsufficientFunds
func (a *Account) Withdraw(amount decimal.Decimal) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, ErrNegativeAmount
	}

	if a.Balance.LessThan(amount) {
		return Transaction{}, ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	tran := newTransaction(TransactionTypeWithdrawal, amount, a.Balance)
	a.Transactions.Append(tran.Line())
	return tran, nil
}
