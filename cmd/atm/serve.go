package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	atmgrpc "github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/out/kafka"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/out/memory"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/usecase"
	"github.com/JoeShih716/go-mem-atm/internal/config"
	"github.com/JoeShih716/go-mem-atm/internal/logging"
	"github.com/JoeShih716/go-mem-atm/pkg/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ATM gRPC server",
		Long:  `Start the in-memory ATM ledger and serve it over gRPC until SIGINT or SIGTERM.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	logger := logging.New(a.cfg.Log, os.Stderr)

	s, cleanup, err := buildServer(ctx, a.cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	lis, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting gRPC server", logger.Args("addr", lis.Addr().String(), "ledger_dir", a.cfg.Ledger.Dir))
		errCh <- s.Serve(lis)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
		s.GracefulStop()
		logger.Info("server exited")
		return nil
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	}
}

// buildServer 依設定組裝 gRPC 服務
//
// 回傳:
//
//	*grpc.Server: 已註冊 ATM 服務，尚未開始監聽
//	func(): 釋放 Kafka、metrics 等資源
//	error: 初始化錯誤
func buildServer(ctx context.Context, cfg *config.Config, logger *pterm.Logger) (*grpc.Server, func(), error) {
	shutdownMetrics, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Interval:       cfg.Telemetry.Interval,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.Ledger.Dir, 0755); err != nil {
		_ = shutdownMetrics(ctx)
		return nil, nil, fmt.Errorf("failed to create ledger dir: %w", err)
	}

	opts := []usecase.Option{usecase.WithLogger(logger)}
	var publisher *kafka.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		opts = append(opts, usecase.WithPublisher(publisher))
		logger.Info("publishing transactions to kafka", logger.Args("topic", cfg.Kafka.Topic))
	}

	core := usecase.NewCoreUseCase(memory.NewATM(), opts...)

	s := grpc.NewServer(grpc.UnaryInterceptor(atmgrpc.LoggingInterceptor(logger)))
	atmgrpc.RegisterATMServiceServer(s, atmgrpc.NewGrpcServer(core, cfg.Ledger.Dir))

	cleanup := func() {
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close kafka writer", logger.Args("error", err.Error()))
			}
		}
		if err := shutdownMetrics(context.Background()); err != nil {
			logger.Warn("failed to flush metrics", logger.Args("error", err.Error()))
		}
	}
	return s, cleanup, nil
}
