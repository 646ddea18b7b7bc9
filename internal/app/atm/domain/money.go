package domain

import "github.com/shopspring/decimal"

// CurrencyPlaces 金額輸出固定到小數點後 2 位
const CurrencyPlaces = 2

// FormatCurrency 將金額格式化為 "$280.30"
func FormatCurrency(d decimal.Decimal) string {
	return "$" + d.StringFixed(CurrencyPlaces)
}
