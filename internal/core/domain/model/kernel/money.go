package kernel

import (
	"fmt"
	"math"
	"math/bits"

	"orderengine/internal/pkg/errs"
)

// Money is a non-negative amount in minor currency units (cents, centavos).
// Every operation that would produce a negative amount yields zero instead, so a
// Money value can never describe a negative price, discount or total.
//
// Percentages are applied with floor division: 15% of 999 is 149. Results that
// do not fit in int64 saturate at MaxMoney.
type Money struct {
	minor int64
}

// Zero is the zero amount.
var Zero = Money{}

// MaxMoney is the largest representable amount.
var MaxMoney = Money{minor: math.MaxInt64}

// NewMoney returns an amount of minor units. Negative input is clamped to zero.
func NewMoney(minor int64) Money {
	if minor < 0 {
		return Zero
	}
	return Money{minor: minor}
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 {
	return m.minor
}

func (m Money) IsZero() bool {
	return m.minor == 0
}

// Add saturates at MaxMoney.
func (m Money) Add(other Money) Money {
	if other.minor > math.MaxInt64-m.minor {
		return MaxMoney
	}
	return Money{minor: m.minor + other.minor}
}

// Sub subtracts other, stopping at zero.
func (m Money) Sub(other Money) Money {
	if other.minor >= m.minor {
		return Zero
	}
	return Money{minor: m.minor - other.minor}
}

// Mul multiplies the amount by an item quantity, saturating at MaxMoney.
func (m Money) Mul(q Quantity) Money {
	hi, lo := bits.Mul64(uint64(m.minor), uint64(q.Int()))
	if hi != 0 || lo > math.MaxInt64 {
		return MaxMoney
	}
	return Money{minor: int64(lo)}
}

// Percent returns floor(m * percent / 100). Percent outside [0, 100] is clamped.
func (m Money) Percent(percent int) Money {
	switch {
	case percent <= 0:
		return Zero
	case percent >= 100:
		return m
	}
	// 128-bit product; hi < 100 because percent < 100, so Div64 cannot overflow.
	hi, lo := bits.Mul64(uint64(m.minor), uint64(percent))
	quo, _ := bits.Div64(hi, lo, 100)
	return Money{minor: int64(quo)}
}

// Min returns the smaller of the two amounts.
func (m Money) Min(other Money) Money {
	if other.minor < m.minor {
		return other
	}
	return m
}

func (m Money) LessThan(other Money) bool {
	return m.minor < other.minor
}

func (m Money) IsEqual(other Money) bool {
	return m.minor == other.minor
}

func (m Money) String() string {
	return fmt.Sprintf("%d", m.minor)
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MaxQuantity bounds a single line; larger counts are data-entry mistakes.
const MaxQuantity = 1000

// Quantity is an item count of at least one. The zero value is invalid.
type Quantity struct {
	value int
}

func NewQuantity(value int) (Quantity, error) {
	q := Quantity{value: value}
	if err := q.Validate(); err != nil {
		return Quantity{}, err
	}
	return q, nil
}

func (q Quantity) Int() int {
	return q.value
}

func (q Quantity) Validate() error {
	if q.value < 1 || q.value > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", q.value, 1, MaxQuantity)
	}
	return nil
}
