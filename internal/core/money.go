// Package core provides the revenue report domain: profile, monthly report,
// period keys and the arithmetic derived from them.
//
// This file contains amount parsing and the two-decimal formatting used for
// storage, export and on-screen display.
package core

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayPrinter = message.NewPrinter(language.BrazilianPortuguese)

// plainAmount matches a bounded decimal without exponent, e.g. -1234,56.
// Exponent forms like 1e100000000 would make rescaling allocate huge ints.
var plainAmount = regexp.MustCompile(`^-?\d{1,15}(?:[.,]\d{1,8})?$`)

// parsePlain returns the amount when s is a plain decimal.
func parsePlain(s string) (decimal.Decimal, bool) {
	if !plainAmount.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseAmount converts a decimal string to a Decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Empty,
// invalid or exponent input yields zero; it never fails.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34
//	ParseAmount("12,34") -> 12.34
//	ParseAmount("")      -> 0
//	ParseAmount("abc")   -> 0
//	ParseAmount("1e5")   -> 0
func ParseAmount(s string) decimal.Decimal {
	d, _ := parsePlain(strings.TrimSpace(s))
	return d
}

// ParseAmountStrict is like ParseAmount but reports invalid input. Used by
// the JSON API to reject malformed amounts before they reach the store.
func ParseAmountStrict(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, ok := parsePlain(s)
	if !ok {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d with exactly two decimals, e.g. "1234.50".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NormalizeAmount re-renders a decimal string with two decimals, e.g.
// "4,5" -> "4.50". Invalid input becomes "0.00".
func NormalizeAmount(s string) string {
	return FormatAmount(ParseAmount(s))
}

// CategoryTotal sums the without-document and with-document amounts of one
// category.
func CategoryTotal(withoutDoc, withDoc string) string {
	return FormatAmount(ParseAmount(withoutDoc).Add(ParseAmount(withDoc)))
}

// GrandTotal sums the three category totals.
func GrandTotal(comercio, industria, servicos string) string {
	sum := ParseAmount(comercio).Add(ParseAmount(industria)).Add(ParseAmount(servicos))
	return FormatAmount(sum)
}

// FormatCurrencyDisplay formats a decimal string for on-screen display using
// Brazilian grouping, e.g. "1234.5" -> "1.234,50".
func FormatCurrencyDisplay(value string) string {
	f, _ := ParseAmount(value).Round(2).Float64()
	return displayPrinter.Sprintf("%.2f", f)
}
