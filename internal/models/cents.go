package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents is a monetary amount in integer cents. Totals are computed and
// stored at write time; a later rate change never alters them.
type Cents int64

// ParseCents parses a decimal string ("100", "100.5", "100.456") into
// cents, rounding half-up at two decimal places.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var frac int64
	if fracPart != "" {
		for _, r := range fracPart {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("invalid amount %q", s)
			}
		}
		padded := fracPart + "000"
		frac, _ = strconv.ParseInt(padded[:2], 10, 64)
		if padded[2] >= '5' {
			frac++
		}
		if frac == 100 {
			whole++
			frac = 0
		}
	}
	total := whole*100 + frac
	if neg {
		total = -total
	}
	return Cents(total), nil
}

// String renders the amount with two decimal places.
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a decimal string, e.g. "500.00".
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
