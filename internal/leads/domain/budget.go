package domain

import (
	"strconv"
	"strings"
)

// ParseBudget reads a budget written as a plain or formatted number
// ("1500000", "15,00,000", "₹ 20,00,000", "Rs. 5000000"). Only the leading
// numeric part counts. Anything unreadable is 0.
func ParseBudget(raw string) float64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range []string{"inr", "rs.", "rs", "₹", "$"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.NewReplacer(",", "", " ", "", "_", "").Replace(s)

	end := 0
	dot := false
	for end < len(s) {
		c := s[end]
		if c == '.' && !dot {
			dot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
