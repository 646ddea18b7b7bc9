package usecase

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/JoeShih716/go-mem-atm/internal/app/atm/domain"
	"github.com/JoeShih716/go-mem-atm/pkg/telemetry"
)

// CoreUseCase 是核心業務邏輯層
// 帳務交給 Ledger，成功的存提款再發布事件並記錄 metrics
//
// Ledger 不是執行緒安全的，mu 只包住 Ledger 呼叫
// 發布事件在解鎖後進行，慢的 broker 不會擋住其他請求
type CoreUseCase struct {
	mu        sync.Mutex
	ledger    Ledger
	publisher EventPublisher
	logger    *pterm.Logger

	transactions *telemetry.Counter
	rejections   *telemetry.Counter
}

// Option 定義 CoreUseCase 的配置選項函數
type Option func(*CoreUseCase)

// WithPublisher 設定交易事件的發布者
func WithPublisher(publisher EventPublisher) Option {
	return func(c *CoreUseCase) {
		c.publisher = publisher
	}
}

// WithLogger 設定 Logger
func WithLogger(logger *pterm.Logger) Option {
	return func(c *CoreUseCase) {
		c.logger = logger
	}
}

func NewCoreUseCase(ledger Ledger, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		ledger:       ledger,
		logger:       pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard),
		transactions: telemetry.NewCounter("atm.transactions", "Completed cash transactions"),
		rejections:   telemetry.NewCounter("atm.rejections", "Rejected ATM operations"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterAccount 開戶
func (c *CoreUseCase) RegisterAccount(ctx context.Context, number, pin int, ownerName string, initialBalance decimal.Decimal) error {
	c.mu.Lock()
	err := c.ledger.RegisterAccount(number, pin, ownerName, initialBalance)
	c.mu.Unlock()
	if err != nil {
		c.reject(ctx, "register", err)
		return err
	}
	c.logger.Info("account registered", c.logger.Args("number", number))
	return nil
}

// Deposit 存款
func (c *CoreUseCase) Deposit(ctx context.Context, number, pin int, amount decimal.Decimal) (domain.Transaction, error) {
	c.mu.Lock()
	tran, err := c.ledger.DepositCash(number, pin, amount)
	c.mu.Unlock()
	if err != nil {
		c.reject(ctx, "deposit", err)
		return domain.Transaction{}, err
	}
	c.complete(ctx, tran)
	return tran, nil
}

// Withdraw 提款
func (c *CoreUseCase) Withdraw(ctx context.Context, number, pin int, amount decimal.Decimal) (domain.Transaction, error) {
	c.mu.Lock()
	tran, err := c.ledger.WithdrawCash(number, pin, amount)
	c.mu.Unlock()
	if err != nil {
		c.reject(ctx, "withdraw", err)
		return domain.Transaction{}, err
	}
	c.complete(ctx, tran)
	return tran, nil
}

// Balance 查詢餘額
func (c *CoreUseCase) Balance(ctx context.Context, number, pin int) (decimal.Decimal, error) {
	c.mu.Lock()
	balance, err := c.ledger.CheckBalance(number, pin)
	c.mu.Unlock()
	if err != nil {
		c.reject(ctx, "balance", err)
		return decimal.Zero, err
	}
	return balance, nil
}

// PrintLedger 輸出帳本
func (c *CoreUseCase) PrintLedger(ctx context.Context, path string, number, pin int) error {
	c.mu.Lock()
	err := c.ledger.PrintLedger(path, number, pin)
	c.mu.Unlock()
	if err != nil {
		c.reject(ctx, "ledger", err)
		return err
	}
	c.logger.Info("ledger printed", c.logger.Args("number", number, "path", path))
	return nil
}

// complete 交易已經寫進帳本，發布失敗只記 log，不回滾
// 呼叫時不持有 mu
func (c *CoreUseCase) complete(ctx context.Context, tran domain.Transaction) {
	c.transactions.Add(ctx, 1, attribute.String("type", tran.Type.String()))
	c.logger.Debug("transaction completed", c.logger.Args(
		"id", tran.TransactionID.String(),
		"number", tran.Number,
		"line", tran.Line(),
	))

	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, tran); err != nil {
		c.logger.Warn("failed to publish transaction", c.logger.Args(
			"id", tran.TransactionID.String(),
			"error", err.Error(),
		))
	}
}

func (c *CoreUseCase) reject(ctx context.Context, op string, err error) {
	c.rejections.Add(ctx, 1,
		attribute.String("operation", op),
		attribute.String("reason", reason(err)),
	)
	c.logger.Debug("operation rejected", c.logger.Args("operation", op, "error", err.Error()))
}

// reason 將錯誤轉成低基數的 metrics 標籤
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrDuplicateAccount):
		return "duplicate_account"
	case errors.Is(err, domain.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}
