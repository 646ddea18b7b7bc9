package grpc

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor 每個 RPC 記一行 log (方法、狀態碼、耗時)
// 請求內容含密碼，不記錄
func LoggingInterceptor(logger *pterm.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		args := logger.Args(
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start).String(),
		)
		if err != nil {
			logger.Warn("rpc failed", args)
		} else {
			logger.Info("rpc", args)
		}
		return resp, err
	}
}
