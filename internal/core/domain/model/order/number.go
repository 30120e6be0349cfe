package order

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"orderengine/internal/pkg/errs"

	"github.com/google/uuid"
)

const numberPrefix = "ORD"

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`)

// Number is the human-readable order identifier, ORD-YYYYMMDD-XXXXXX where the
// suffix is six upper-case hex digits.
type Number struct {
	value string
}

func ParseNumber(s string) (Number, error) {
	if !numberPattern.MatchString(s) {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q does not match %s", s, numberPattern))
	}
	return Number{value: s}, nil
}

func (n Number) String() string {
	return n.value
}

func (n Number) IsZero() bool {
	return n.value == ""
}

// NumberGenerator issues candidate order numbers. Candidates may collide; the
// store's unique index is the arbiter.
type NumberGenerator interface {
	Next(now time.Time) Number
}

// RandomNumberGenerator takes the suffix from a random UUID.
type RandomNumberGenerator struct{}

func (RandomNumberGenerator) Next(now time.Time) Number {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return Number{value: fmt.Sprintf("%s-%s-%s", numberPrefix, now.UTC().Format("20060102"), suffix)}
}

// NumberGeneratorFunc adapts a function to NumberGenerator.
type NumberGeneratorFunc func(now time.Time) Number

func (f NumberGeneratorFunc) Next(now time.Time) Number {
	return f(now)
}
