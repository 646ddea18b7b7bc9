package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	atmgrpc "github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-atm/internal/config"
	grpcpkg "github.com/JoeShih716/go-mem-atm/pkg/grpc"
)

// requestTimeout 單次 RPC 的上限
const requestTimeout = 10 * time.Second

// app 所有子命令共用的狀態，在 PersistentPreRunE 初始化
type app struct {
	cfgFile string
	addr    string

	cfg  *config.Config
	pool *grpcpkg.Pool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "atm",
		Short:         "In-memory ATM service and client",
		Long:          `atm runs an in-memory ATM ledger as a gRPC service and talks to it from the command line.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "set the config file path")
	rootCmd.PersistentFlags().StringVar(&a.addr, "addr", "", "server address (overrides server.addr)")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newRegisterCmd(a))
	rootCmd.AddCommand(newDepositCmd(a))
	rootCmd.AddCommand(newWithdrawCmd(a))
	rootCmd.AddCommand(newBalanceCmd(a))
	rootCmd.AddCommand(newLedgerCmd(a))
	rootCmd.AddCommand(newInfoCmd(a))
	rootCmd.AddCommand(newLoadCmd(a))

	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.addr != "" {
		cfg.Server.Addr = a.addr
	}
	a.cfg = cfg
	a.pool = grpcpkg.NewPool()
	return nil
}

func (a *app) close() error {
	if a.pool == nil {
		return nil
	}
	return a.pool.Close()
}

// client 取得連到 server.addr 的客戶端
func (a *app) client() (*atmgrpc.Client, error) {
	conn, err := a.pool.GetConnection(a.cfg.Server.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", a.cfg.Server.Addr, err)
	}
	return atmgrpc.NewClient(conn), nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, requestTimeout)
}
