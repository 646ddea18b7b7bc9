package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	atmgrpc "github.com/JoeShih716/go-mem-atm/internal/app/atm/adapter/in/grpc"
)

type loadOptions struct {
	total       int
	concurrency int
	number      int
	pin         int
	amount      string
	timeout     time.Duration
}

type loadResult struct {
	total   int
	failed  int64
	elapsed time.Duration
}

func (r loadResult) tps() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.total) / r.elapsed.Seconds()
}

func newLoadCmd(a *app) *cobra.Command {
	opts := loadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Send concurrent deposits to measure server throughput",
		Long: `Register a load-test account (if needed) and fire concurrent deposits at it.

Example: atm load --total 100000 --concurrency 500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := runLoad(cmd.Context(), c, opts)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Completed %d requests in %v (%d failed)", res.total, res.elapsed, res.failed)
			pterm.Info.Printfln("TPS: %.2f", res.tps())
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.total, "total", 10000, "number of deposits")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 100, "in-flight requests")
	cmd.Flags().IntVarP(&opts.number, "number", "n", 99999999, "load-test account number")
	cmd.Flags().IntVarP(&opts.pin, "pin", "p", 0, "load-test account PIN")
	cmd.Flags().StringVarP(&opts.amount, "amount", "a", "1.00", "amount per deposit")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 120*time.Second, "overall deadline")
	return cmd
}

// runLoad 以 semaphore 控制並發量，持續送出存款
func runLoad(ctx context.Context, c *atmgrpc.Client, opts loadOptions) (loadResult, error) {
	if opts.total <= 0 || opts.concurrency <= 0 {
		return loadResult{}, errors.New("total and concurrency must be positive")
	}
	amount, err := parseAmount(opts.amount)
	if err != nil {
		return loadResult{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	// 帳戶已存在就直接沿用
	_, err = c.RegisterAccount(ctx, &atmgrpc.RegisterRequest{
		Number:    opts.number,
		Pin:       opts.pin,
		OwnerName: "load-" + uuid.NewString()[:8],
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return loadResult{}, fmt.Errorf("failed to register load account: %w", err)
	}

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	sem := make(chan struct{}, opts.concurrency)
	req := atmgrpc.CashRequest{Number: opts.number, Pin: opts.pin, Amount: amount}

	start := time.Now()
	for i := 0; i < opts.total; i++ {
		sem <- struct{}{}
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			r := req
			if _, err := c.Deposit(ctx, &r); err != nil {
				failed.Add(1)
				if idx%10000 == 0 {
					pterm.Warning.Printfln("Deposit %d failed: %v", idx, err)
				}
			}
		}(i)
	}
	wg.Wait()

	return loadResult{total: opts.total, failed: failed.Load(), elapsed: time.Since(start)}, nil
}

