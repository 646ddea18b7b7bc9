package grpc

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/out/memory"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/domain"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/usecase"
)

// startServer 以 bufconn 啟動完整的 gRPC 服務，回傳客戶端、ledger 目錄與 log buffer
func startServer(t *testing.T, opts ...usecase.Option) (*Client, string, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	logger := pterm.DefaultLogger.WithWriter(&logs).WithFormatter(pterm.LogFormatterJSON)

	dir := t.TempDir()
	core := usecase.NewCoreUseCase(memory.NewATM(), opts...)

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	RegisterATMServiceServer(s, NewGrpcServer(core, dir))
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient err=%v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn), dir, &logs
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if got := status.Code(err); got != code {
		t.Fatalf("code=%s want=%s (err=%v)", got, code, err)
	}
}

func TestGrpcEndToEnd(t *testing.T) {
	c, dir, logs := startServer(t)
	ctx := context.Background()

	_, err := c.RegisterAccount(ctx, &RegisterRequest{
		Number: 12345678, Pin: 1234, OwnerName: "Sam Sepiol",
		InitialBalance: decimal.RequireFromString("300.30"),
	})
	if err != nil {
		t.Fatal(err)
	}

	w, err := c.Withdraw(ctx, &CashRequest{Number: 12345678, Pin: 1234, Amount: decimal.NewFromInt(20)})
	if err != nil {
		t.Fatal(err)
	}
	if !w.CurrentBalance.Equal(decimal.RequireFromString("280.30")) {
		t.Fatalf("balance=%s want=280.30", w.CurrentBalance)
	}
	if w.Line != "Withdrawal - Amount: $20.00, Updated Balance: $280.30" || w.TransactionID == "" {
		t.Fatalf("unexpected response %+v", w)
	}

	if _, err := c.Deposit(ctx, &CashRequest{Number: 12345678, Pin: 1234, Amount: decimal.RequireFromString("19.70")}); err != nil {
		t.Fatal(err)
	}

	b, err := c.CheckBalance(ctx, &AccountRequest{Number: 12345678, Pin: 1234})
	if err != nil {
		t.Fatal(err)
	}
	if !b.Balance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("balance=%s want=300", b.Balance)
	}

	p, err := c.PrintLedger(ctx, &PrintLedgerRequest{Path: "sam.txt", Number: 12345678, Pin: 1234})
	if err != nil {
		t.Fatal(err)
	}
	if p.Path != filepath.Join(dir, "sam.txt") {
		t.Fatalf("path=%s", p.Path)
	}
	content, err := os.ReadFile(p.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "Name: Sam Sepiol\n") {
		t.Fatalf("unexpected ledger:\n%s", content)
	}
	if !strings.Contains(string(content), "Deposit - Amount: $19.70, Updated Balance: $300.00") {
		t.Fatalf("missing deposit line:\n%s", content)
	}

	if !strings.Contains(logs.String(), "/atm.v1.ATMService/Withdraw") {
		t.Fatalf("interceptor did not log the call: %s", logs.String())
	}
}

func TestGrpcErrorCodes(t *testing.T) {
	c, _, _ := startServer(t)
	ctx := context.Background()

	if _, err := c.RegisterAccount(ctx, &RegisterRequest{Number: 1, Pin: 2, OwnerName: "Mallory", InitialBalance: decimal.NewFromInt(50)}); err != nil {
		t.Fatal(err)
	}

	_, err := c.RegisterAccount(ctx, &RegisterRequest{Number: 1, Pin: 2, OwnerName: "Again"})
	wantCode(t, err, codes.AlreadyExists)

	_, err = c.Withdraw(ctx, &CashRequest{Number: 1, Pin: 2, Amount: decimal.NewFromInt(100)})
	wantCode(t, err, codes.FailedPrecondition)

	_, err = c.Withdraw(ctx, &CashRequest{Number: 1, Pin: 2, Amount: decimal.NewFromInt(-1)})
	wantCode(t, err, codes.InvalidArgument)

	_, err = c.Deposit(ctx, &CashRequest{Number: 9, Pin: 9, Amount: decimal.NewFromInt(1)})
	wantCode(t, err, codes.NotFound)

	_, err = c.CheckBalance(ctx, &AccountRequest{Number: 1, Pin: 3})
	wantCode(t, err, codes.NotFound)

	for _, path := range []string{"../escape.txt", "/etc/passwd", ""} {
		_, err = c.PrintLedger(ctx, &PrintLedgerRequest{Path: path, Number: 1, Pin: 2})
		wantCode(t, err, codes.InvalidArgument)
	}
}

// blockingPublisher 收到事件後一直卡住，直到 release 被關閉
type blockingPublisher struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) Publish(ctx context.Context, _ domain.Transaction) error {
	close(p.entered)
	select {
	case <-p.release:
	case <-ctx.Done():
	}
	return nil
}

func TestSlowPublisherDoesNotBlockOtherCalls(t *testing.T) {
	pub := &blockingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	c, _, _ := startServer(t, usecase.WithPublisher(pub))
	ctx := context.Background()

	for _, n := range []int{1, 2} {
		if _, err := c.RegisterAccount(ctx, &RegisterRequest{Number: n, Pin: n, OwnerName: "Alice", InitialBalance: decimal.NewFromInt(10)}); err != nil {
			t.Fatal(err)
		}
	}

	depositDone := make(chan error, 1)
	go func() {
		_, err := c.Deposit(ctx, &CashRequest{Number: 1, Pin: 1, Amount: decimal.NewFromInt(5)})
		depositDone <- err
	}()

	select {
	case <-pub.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("deposit never reached the publisher")
	}

	// 發布卡住時，其他帳戶的查詢與存款都要能完成
	callCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	b, err := c.CheckBalance(callCtx, &AccountRequest{Number: 2, Pin: 2})
	if err != nil {
		t.Fatalf("CheckBalance blocked behind publish: %v", err)
	}
	if !b.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance=%s want=10", b.Balance)
	}
	// 帳本已經更新，發布還沒結束也看得到
	b, err = c.CheckBalance(callCtx, &AccountRequest{Number: 1, Pin: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !b.Balance.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("balance=%s want=15", b.Balance)
	}

	close(pub.release)
	if err := <-depositDone; err != nil {
		t.Fatalf("deposit err=%v", err)
	}
}
