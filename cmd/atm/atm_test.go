package main

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	atmgrpc "github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-atm/internal/config"
	"github.com/JoeShih716/go-mem-atm/internal/logging"
)

// startTestServer 在隨機 port 啟動完整服務，回傳位址與 ledger 目錄
func startTestServer(t *testing.T) (string, string) {
	t.Helper()

	cfg := config.NewDefault()
	cfg.Ledger.Dir = filepath.Join(t.TempDir(), "ledgers")
	logger := logging.New(config.LogConfig{Level: "off"}, io.Discard)

	s, cleanup, err := buildServer(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("buildServer err=%v", err)
	}
	t.Cleanup(cleanup)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	return lis.Addr().String(), cfg.Ledger.Dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestCommandsAgainstServer(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)
	t.Chdir(t.TempDir())

	addr, dir := startTestServer(t)
	base := []string{"--addr", addr}

	steps := [][]string{
		{"register", "-n", "12345678", "-p", "1234", "--owner", "Sam Sepiol", "--balance", "300.30"},
		{"withdraw", "-n", "12345678", "-p", "1234", "-a", "20"},
		{"deposit", "-n", "12345678", "-p", "1234", "-a", "$19.70"},
		{"balance", "-n", "12345678", "-p", "1234"},
		{"ledger", "-n", "12345678", "-p", "1234"},
	}
	for _, step := range steps {
		if err := execute(t, append(base, step...)...); err != nil {
			t.Fatalf("%s: %v", step[0], err)
		}
	}

	content, err := os.ReadFile(filepath.Join(dir, "12345678.txt"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Name: Sam Sepiol",
		"Current Balance: $300.00",
		"Withdrawal - Amount: $20.00, Updated Balance: $280.30",
		"Deposit - Amount: $19.70, Updated Balance: $300.00",
	} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("ledger missing %q:\n%s", want, content)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)
	t.Chdir(t.TempDir())

	addr, _ := startTestServer(t)
	base := []string{"--addr", addr}

	if err := execute(t, append(base, "register", "-n", "1", "-p", "2", "--owner", "Mallory", "--balance", "5")...); err != nil {
		t.Fatal(err)
	}

	err := execute(t, append(base, "withdraw", "-n", "1", "-p", "2", "-a", "10")...)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("err=%v want FailedPrecondition", err)
	}

	err = execute(t, append(base, "deposit", "-n", "1", "-p", "9", "-a", "10")...)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("err=%v want NotFound", err)
	}

	err = execute(t, append(base, "deposit", "-n", "1", "-p", "2", "-a", "ten")...)
	if err == nil || !strings.Contains(err.Error(), "invalid amount") {
		t.Fatalf("err=%v want invalid amount", err)
	}

	err = execute(t, append(base, "ledger", "-n", "1", "-p", "2", "--path", "../x.txt")...)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("err=%v want InvalidArgument", err)
	}
}

func TestRunLoad(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)
	t.Chdir(t.TempDir())

	addr, _ := startTestServer(t)
	a := &app{addr: addr}
	if err := a.init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.close() })

	c, err := a.client()
	if err != nil {
		t.Fatal(err)
	}

	opts := loadOptions{total: 200, concurrency: 20, number: 7, pin: 7, amount: "0.50", timeout: time.Minute}
	res, err := runLoad(context.Background(), c, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.failed != 0 || res.total != 200 {
		t.Fatalf("unexpected result %+v", res)
	}

	// 同一個帳戶再跑一次，AlreadyExists 不算錯
	if _, err := runLoad(context.Background(), c, opts); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := withTimeout(context.Background())
	defer cancel()
	resp, err := c.CheckBalance(ctx, &atmgrpc.AccountRequest{Number: 7, Pin: 7})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("balance=%s want=200", resp.Balance)
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"20":     "20",
		"$19.70": "19.7",
		" 0.005": "0.005",
		"-3":     "-3",
	}
	for in, want := range cases {
		got, err := parseAmount(in)
		if err != nil {
			t.Fatalf("parseAmount(%q) err=%v", in, err)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("parseAmount(%q)=%s want %s", in, got, want)
		}
	}
	if _, err := parseAmount("abc"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidatePIN(t *testing.T) {
	if err := validatePIN("1234"); err != nil {
		t.Fatal(err)
	}
	for _, bad := range []string{"", "  ", "12a4"} {
		if err := validatePIN(bad); err == nil {
			t.Fatalf("validatePIN(%q) should fail", bad)
		}
	}
}

func TestHandleError(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	if code := handleError(huh.ErrUserAborted); code != 0 {
		t.Fatalf("abort exit code=%d want 0", code)
	}
	if code := handleError(status.Error(codes.NotFound, "account not found")); code != 1 {
		t.Fatalf("exit code=%d want 1", code)
	}
	if got := capitalize("invalid amount"); got != "Invalid amount" {
		t.Fatalf("capitalize=%q", got)
	}
}

func TestBuildServerRegistersOnlyATMService(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Ledger.Dir = filepath.Join(t.TempDir(), "ledgers")
	logger := logging.New(config.LogConfig{Level: "off"}, io.Discard)

	s, cleanup, err := buildServer(context.Background(), cfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	defer s.Stop()

	info := s.GetServiceInfo()
	if len(info) != 1 {
		t.Fatalf("services=%v want only %s", info, atmgrpc.ServiceName)
	}
	if _, ok := info[atmgrpc.ServiceName]; !ok {
		t.Fatalf("services=%v missing %s", info, atmgrpc.ServiceName)
	}
}
