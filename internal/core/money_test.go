package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"1", "1.00"},
		{"1.23", "1.23"},
		{"1,23", "1.23"},
		{" 2.50 ", "2.50"},
		{"", "0.00"},
		{"abc", "0.00"},
		{"1.2.3", "0.00"},
		{"-5", "-5.00"},
		{"1e100000000", "0.00"},
		{"1E5", "0.00"},
		{"1234567890123456", "0.00"},
		{"1.123456789", "0.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount(ParseAmount(tc.in)); got != tc.out {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestParseAmountStrict(t *testing.T) {
	if _, err := ParseAmountStrict("12,5"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if _, err := ParseAmountStrict(""); err != nil {
		t.Fatalf("empty should be zero, got %v", err)
	}
	for _, in := range []string{"12a", "1e100000000", "1E5", "1,2,3", "1_000"} {
		if _, err := ParseAmountStrict(in); err != ErrInvalidAmount {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestCategoryTotal(t *testing.T) {
	cases := []struct {
		a, b, want string
	}{
		{"0.00", "0.00", "0.00"},
		{"2500.00", "5800.00", "8300.00"},
		{"", "10", "10.00"},
		{"x", "1.5", "1.50"},
		{"0.1", "0.2", "0.30"},
		{"1.005", "0", "1.01"},
		{"1e100000000", "0.00", "0.00"},
		{"1E5", "2", "2.00"},
	}
	for _, tc := range cases {
		if got := CategoryTotal(tc.a, tc.b); got != tc.want {
			t.Fatalf("CategoryTotal(%q,%q)=%s want %s", tc.a, tc.b, got, tc.want)
		}
		if got := CategoryTotal(tc.b, tc.a); got != tc.want {
			t.Fatalf("CategoryTotal not commutative for %q,%q: %s", tc.a, tc.b, got)
		}
	}
}

func TestGrandTotal(t *testing.T) {
	if got := GrandTotal("8300.00", "0.00", "4700.00"); got != "13000.00" {
		t.Fatalf("unexpected grand total %s", got)
	}
}

func TestNormalizeAmount(t *testing.T) {
	cases := map[string]string{
		"4,5":   "4.50",
		"10":    "10.00",
		"":      "0.00",
		"1e9":   "0.00",
		"-0,25": "-0.25",
	}
	for in, want := range cases {
		if got := NormalizeAmount(in); got != want {
			t.Fatalf("NormalizeAmount(%q)=%q want %q", in, got, want)
		}
	}
}

func TestFormatCurrencyDisplay(t *testing.T) {
	cases := map[string]string{
		"0":           "0,00",
		"1234.5":      "1.234,50",
		"13000.00":    "13.000,00",
		"invalid":     "0,00",
		"1234567.89":  "1.234.567,89",
		"1e100000000": "0,00",
	}
	for in, want := range cases {
		if got := FormatCurrencyDisplay(in); got != want {
			t.Fatalf("FormatCurrencyDisplay(%q)=%q want %q", in, got, want)
		}
	}
}
