package budget

import (
	"github.com/shopspring/decimal"
)

// Thresholds, in ascending order. Evaluation walks them low to high so a
// single large expense that jumps past several thresholds fires one crossing
// per threshold in the same pass, never retroactively later.
var Thresholds = []int{50, 80, 100}

// SentFlags is the per-budget-period alert state. Monotonic: evaluation only
// flips flags from false to true; a new (category, month, year) row starts
// all-false.
type SentFlags struct {
	Sent50  bool
	Sent80  bool
	Sent100 bool
}

func (f SentFlags) sent(threshold int) bool {
	switch threshold {
	case 50:
		return f.Sent50
	case 80:
		return f.Sent80
	case 100:
		return f.Sent100
	}
	return false
}

func (f *SentFlags) mark(threshold int) {
	switch threshold {
	case 50:
		f.Sent50 = true
	case 80:
		f.Sent80 = true
	case 100:
		f.Sent100 = true
	}
}

// Crossing is one newly crossed threshold from a single evaluation pass.
type Crossing struct {
	Threshold int
	Ratio     decimal.Decimal
}

// Evaluate computes which thresholds spent/limit newly crosses given the
// current flags, and returns the updated flags. Pure: callers persist the
// flags and emit the alerts. A zero limit evaluates as ratio 0, so nothing
// ever fires on it.
func Evaluate(flags SentFlags, limit, spent decimal.Decimal) (SentFlags, []Crossing) {
	ratio := decimal.Zero
	if !limit.IsZero() {
		ratio = spent.Div(limit)
	}

	var crossings []Crossing
	for _, threshold := range Thresholds {
		if flags.sent(threshold) {
			continue
		}
		bar := decimal.NewFromInt(int64(threshold)).Div(decimal.NewFromInt(100))
		if ratio.GreaterThanOrEqual(bar) {
			flags.mark(threshold)
			crossings = append(crossings, Crossing{Threshold: threshold, Ratio: ratio})
		}
	}
	return flags, crossings
}
