package domain

import "time"

// MaxTimestamp is used as the "no upper bound" sentinel for time windows.
const MaxTimestamp = 1<<31 - 1

// TimeBlock is a from/to time window, with two shorthand modes: Asap
// widens an unset ToTime to a short grace period, Anytime widens it to
// the end of the from-day.
type TimeBlock struct {
	FromTime int64
	ToTime   *int64
	Asap     bool
	Anytime  bool
}

// EffectiveToTime resolves ToTime per the from/asap/anytime precedence:
// an explicit ToTime wins, then Asap (from+5min), then Anytime (next
// midnight minus one hour), else it collapses to FromTime.
func (t TimeBlock) EffectiveToTime() int64 {
	if t.ToTime != nil {
		return *t.ToTime
	}
	if t.Asap {
		return t.FromTime + 5*60
	}
	if t.Anytime {
		d := time.Unix(t.FromTime, 0).UTC().Add(24 * time.Hour).Unix()
		return d - (d % 86400) - 3600
	}
	return t.FromTime
}

func (t TimeBlock) ShiftBy(by int64) TimeBlock {
	shifted := t
	shifted.FromTime += by
	if t.ToTime != nil {
		v := *t.ToTime + by
		shifted.ToTime = &v
	}
	return shifted
}
