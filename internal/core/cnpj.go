package core

import "strings"

const cnpjDigits = 14

// FormatCNPJ applies the ##.###.###/####-## mask to the digits found in s.
// Non-digits are dropped and digits beyond the fourteenth are ignored, so the
// mask can be re-applied on every keystroke.
func FormatCNPJ(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == cnpjDigits {
				break
			}
		}
	}
	d := b.String()
	switch n := len(d); {
	case n <= 2:
		return d
	case n <= 5:
		return d[:2] + "." + d[2:]
	case n <= 8:
		return d[:2] + "." + d[2:5] + "." + d[5:]
	case n <= 12:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:]
	default:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
}
