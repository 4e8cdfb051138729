package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in euro cents.
type Money int64

// Euros converts a decimal euro amount to Money, rounding half away from zero.
func Euros(v float64) Money { return Money(math.Round(v * 100)) }

func (m Money) Float() float64 { return float64(m) / 100 }

// Mul multiplies by an integer count (nights, persons).
func (m Money) Mul(n int) Money { return m * Money(n) }

// Percent returns m × p/100 rounded half away from zero to the cent.
func (m Money) Percent(p float64) Money {
	return Money(math.Round(float64(m) * p / 100))
}

// Div splits m into n parts, rounded to the cent. n <= 0 yields zero.
func (m Money) Div(n int) Money {
	if n <= 0 {
		return 0
	}
	return Money(math.Round(float64(m) / float64(n)))
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON writes the shortest decimal form (112.5, 840, 0.05).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.Trim(s, `"`), 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Euros(f)
	return nil
}
