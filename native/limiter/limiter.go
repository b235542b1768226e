// Package limiter enforces the per-learner daily XP budget. The meter is keyed
// by a UTC day index and re-bases to zero whenever the day advances, so stale
// counters never leak into a new day.
package limiter

import (
	"errors"

	"academychain/native/common"
)

// SecondsPerDay fixes the day granularity shared with the streak engine.
const SecondsPerDay = 86400

var ErrDailyLimitExceeded = errors.New("limiter: daily xp limit exceeded")

// Meter captures the running XP total for a single learner and the day index
// it applies to.
type Meter struct {
	EarnedToday uint64
	Day         uint64
}

// DayIndex converts a unix timestamp to its day index.
func DayIndex(ts int64) uint64 {
	if ts <= 0 {
		return 0
	}
	return uint64(ts) / SecondsPerDay
}

// CheckAndReserve admits amount against the daily cap and returns the updated
// meter. A cap of zero disables the limit. The caller commits the returned
// meter atomically with its enclosing transition; on error the previous meter
// stands untouched.
func CheckAndReserve(prev Meter, nowDay uint64, amount uint64, dailyCap uint64) (Meter, error) {
	next := prev
	if nowDay > prev.Day {
		next = Meter{Day: nowDay}
	}
	total, err := common.AddU64(next.EarnedToday, amount)
	if err != nil {
		return prev, err
	}
	if dailyCap > 0 && total > dailyCap {
		return prev, ErrDailyLimitExceeded
	}
	next.EarnedToday = total
	return next, nil
}
