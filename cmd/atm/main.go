package main

import (
	"errors"
	"os"
	"unicode"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"google.golang.org/grpc/status"
)

func main() {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(handleError(err))
	}
}

// handleError 顯示錯誤並回傳 exit code，使用者取消不算失敗
func handleError(err error) int {
	if errors.Is(err, huh.ErrUserAborted) {
		pterm.Warning.Println("Operation Cancelled")
		return 0
	}
	// 伺服器回傳的錯誤只顯示訊息，不顯示 rpc error: code = ... 前綴
	if s, ok := status.FromError(err); ok {
		pterm.Error.Println(capitalize(s.Message()))
		return 1
	}
	pterm.Error.Println(capitalize(err.Error()))
	return 1
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
