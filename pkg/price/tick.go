package price

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	errInvalidTickSize = errors.New("invalid tick size")
	errOffTick         = errors.New("price not on tick grid")
	errOutOfRange      = errors.New("price out of tick range")
)

// TickSize converts between external decimal prices and the integer ticks the
// engine matches on.
type TickSize struct {
	step decimal.Decimal
}

// Default is one tick per whole unit.
var Default = TickSize{step: decimal.NewFromInt(1)}

func NewTickSize(step string) (TickSize, error) {
	if step == "" {
		return Default, nil
	}
	d, err := decimal.NewFromString(step)
	if err != nil {
		return TickSize{}, fmt.Errorf("%w: %q: %v", errInvalidTickSize, step, err)
	}
	if !d.IsPositive() {
		return TickSize{}, fmt.Errorf("%w: %q must be > 0", errInvalidTickSize, step)
	}
	return TickSize{step: d}, nil
}

func (t TickSize) Step() decimal.Decimal {
	return t.step
}

// ToTicks rejects prices that are not a whole multiple of the step or whose
// tick count does not fit in an int64.
func (t TickSize) ToTicks(p decimal.Decimal) (int64, error) {
	q := p.Div(t.step)
	if !q.Equal(q.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s with step %s", errOffTick, p, t.step)
	}
	if !q.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s with step %s", errOutOfRange, p, t.step)
	}
	return q.IntPart(), nil
}

func (t TickSize) Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return t.ToTicks(d)
}

func (t TickSize) FromTicks(ticks int64) decimal.Decimal {
	return decimal.NewFromInt(ticks).Mul(t.step)
}

// Format renders ticks with the step's number of decimal places.
func (t TickSize) Format(ticks int64) string {
	places := -t.step.Exponent()
	if places < 0 {
		places = 0
	}
	return t.FromTicks(ticks).StringFixed(places)
}

func IsOffTick(err error) bool {
	return errors.Is(err, errOffTick)
}

func IsOutOfRange(err error) bool {
	return errors.Is(err, errOutOfRange)
}
