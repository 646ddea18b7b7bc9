package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	atmgrpc "github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/domain"
)

// accountFlags 帳號與密碼，每個帳戶操作都要
type accountFlags struct {
	number int
	pin    int
}

func (f *accountFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.number, "number", "n", 0, "account number")
	cmd.Flags().IntVarP(&f.pin, "pin", "p", 0, "account PIN (prompted when omitted)")
	_ = cmd.MarkFlagRequired("number")
}

// resolvePIN 沒給 --pin 就互動式詢問
func (f *accountFlags) resolvePIN(cmd *cobra.Command) error {
	if cmd.Flags().Changed("pin") {
		return nil
	}
	pin, err := promptPIN()
	if err != nil {
		return err
	}
	f.pin = pin
	return nil
}

func newRegisterCmd(a *app) *cobra.Command {
	var (
		acc     accountFlags
		owner   string
		balance string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Open a new account",
		Long: `Open a new account with an owner name and an opening balance.

Example: atm register -n 12345678 -p 1234 --owner "Sam Sepiol" --balance 300.30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := acc.resolvePIN(cmd); err != nil {
				return err
			}
			if owner == "" {
				var err error
				if owner, err = promptOwner(); err != nil {
					return err
				}
			}
			initial, err := parseAmount(balance)
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			if _, err := c.RegisterAccount(ctx, &atmgrpc.RegisterRequest{
				Number:         acc.number,
				Pin:            acc.pin,
				OwnerName:      owner,
				InitialBalance: initial,
			}); err != nil {
				return err
			}
			pterm.Success.Printfln("Account %d registered for %s with %s", acc.number, owner, domain.FormatCurrency(initial))
			return nil
		},
	}

	acc.bind(cmd)
	cmd.Flags().StringVarP(&owner, "owner", "o", "", "owner name (prompted when omitted)")
	cmd.Flags().StringVarP(&balance, "balance", "b", "0", "opening balance")
	return cmd
}

func newDepositCmd(a *app) *cobra.Command {
	return newCashCmd(a, "deposit", "Deposit cash into an account", (*atmgrpc.Client).Deposit)
}

func newWithdrawCmd(a *app) *cobra.Command {
	return newCashCmd(a, "withdraw", "Withdraw cash from an account", (*atmgrpc.Client).Withdraw)
}

// cashCall Deposit 與 Withdraw 的共同簽名
type cashCall func(*atmgrpc.Client, context.Context, *atmgrpc.CashRequest, ...grpc.CallOption) (*atmgrpc.CashResponse, error)

func newCashCmd(a *app, use, short string, call cashCall) *cobra.Command {
	var (
		acc    accountFlags
		amount string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := acc.resolvePIN(cmd); err != nil {
				return err
			}
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			resp, err := call(c, ctx, &atmgrpc.CashRequest{Number: acc.number, Pin: acc.pin, Amount: value})
			if err != nil {
				return err
			}
			pterm.Success.Println(resp.Line)
			return nil
		},
	}

	acc.bind(cmd)
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount of cash")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newBalanceCmd(a *app) *cobra.Command {
	var acc accountFlags

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := acc.resolvePIN(cmd); err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			resp, err := c.CheckBalance(ctx, &atmgrpc.AccountRequest{Number: acc.number, Pin: acc.pin})
			if err != nil {
				return err
			}
			pterm.Info.Printfln("Current Balance: %s", domain.FormatCurrency(resp.Balance))
			return nil
		},
	}

	acc.bind(cmd)
	return cmd
}

func newLedgerCmd(a *app) *cobra.Command {
	var (
		acc  accountFlags
		path string
	)

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Write the account ledger to a file on the server",
		Long: `Write the account header and transaction log to a file.
The path is relative to the server's ledger directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := acc.resolvePIN(cmd); err != nil {
				return err
			}
			if path == "" {
				path = fmt.Sprintf("%d.txt", acc.number)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			resp, err := c.PrintLedger(ctx, &atmgrpc.PrintLedgerRequest{Path: path, Number: acc.number, Pin: acc.pin})
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Ledger written to %s", resp.Path)
			return nil
		},
	}

	acc.bind(cmd)
	cmd.Flags().StringVar(&path, "path", "", "output file name (default <number>.txt)")
	return cmd
}
