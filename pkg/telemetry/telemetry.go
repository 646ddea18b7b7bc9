// Package telemetry 提供 OpenTelemetry metrics 的初始化與計數器工具
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InstrumentationName 本專案 Meter 的名稱
const InstrumentationName = "github.com/JoeShih716/go-mem-atm"

// Config metrics 設定
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	// Interval 匯出週期
	Interval time.Duration
}

// Setup 設定全域 MeterProvider
// 未啟用時不做任何事，otel 預設的 noop provider 會吃掉所有紀錄
//
// 回傳:
//
//	func(context.Context) error: 關閉函式，程式結束前呼叫以送出最後一批資料
//	error: 初始化錯誤
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return noop, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(provider)
	return provider.Shutdown, nil
}

// Counter 包裝 Int64Counter
// 建立失敗時退化成不做事的計數器
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter 從全域 MeterProvider 建立計數器
// 在 Setup 之前建立也沒問題，otel 的全域 provider 會在設定後轉接
func NewCounter(name, description string) *Counter {
	counter, err := otel.Meter(InstrumentationName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return &Counter{}
	}
	return &Counter{counter: counter}
}

// Add 累加
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	if c.counter != nil {
		c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
	}
}
