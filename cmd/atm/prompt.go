package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// promptPIN 密碼輸入不回顯
func promptPIN() (int, error) {
	var raw string
	err := huh.NewInput().
		Title("PIN").
		EchoMode(huh.EchoModePassword).
		Validate(validatePIN).
		Value(&raw).
		Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func promptOwner() (string, error) {
	var owner string
	err := huh.NewInput().
		Title("Owner name").
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("owner name is required")
			}
			return nil
		}).
		Value(&owner).
		Run()
	return strings.TrimSpace(owner), err
}

func validatePIN(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("PIN is required")
	}
	if _, err := strconv.Atoi(s); err != nil {
		return errors.New("PIN must be numeric")
	}
	return nil
}

// parseAmount 金額用字串解析成 decimal，正負號交給伺服器檢查
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
