package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseWeight extracts the leading decimal number from free text such as
// "4.5kg" or " 12 KG ". Anything unparseable is zero. The parse is lenient:
// "1,5kg" reads as 1 and "kg 4" as 0.
func ParseWeight(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	prefix := strings.TrimSuffix(s[:end], ".")
	if prefix == "" {
		return decimal.Zero
	}
	if prefix[0] == '.' {
		prefix = "0" + prefix
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LineWeight is unit weight times quantity
func LineWeight(unitWeight string, quantity int) decimal.Decimal {
	return ParseWeight(unitWeight).Mul(decimal.NewFromInt(int64(quantity)))
}
