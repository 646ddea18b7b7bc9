// Package logging 依設定建立 pterm Logger
package logging

import (
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/JoeShih716/go-mem-atm/internal/config"
)

// New 建立 Logger
// 無法辨識的 level 退回 info，format 只認 json，其餘都是文字
func New(cfg config.LogConfig, w io.Writer) *pterm.Logger {
	level := parseLevel(cfg.Level)
	if level == pterm.LogLevelDisabled {
		w = io.Discard
	}
	logger := pterm.DefaultLogger.
		WithLevel(level).
		WithWriter(w)
	if strings.EqualFold(cfg.Format, "json") {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	return logger
}

func parseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(level) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}
