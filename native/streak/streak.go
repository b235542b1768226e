// Package streak tracks consecutive-activity-day counters with grace-day
// ("freeze") semantics. Day granularity is shared with the rate limiter:
// floor(timestamp/86400).
package streak

import "academychain/native/common"

// Milestones is the set of streak values that trigger a milestone signal.
var Milestones = []uint32{7, 30, 100, 365}

// State is the streak slice of a learner profile.
type State struct {
	Current         uint32
	Longest         uint32
	LastActivityDay uint64
	Freezes         uint8
}

// Outcome describes what Apply did, so callers can emit the matching events.
type Outcome struct {
	Advanced       bool
	FreezeConsumed bool
	Broken         bool
	PriorStreak    uint32
	Milestone      uint32
}

// Apply folds one qualifying activity on nowDay into the streak state.
//
// Same day: no change. Exactly one day later: increment. Exactly two days
// later with a freeze available: the freeze absorbs the missed day and the
// streak still increments. Any other gap resets the streak to 1 and reports
// the value it held before the reset.
func Apply(prev State, nowDay uint64) (State, Outcome, error) {
	next := prev
	out := Outcome{PriorStreak: prev.Current}

	if prev.Current == 0 {
		next.Current = 1
		next.LastActivityDay = nowDay
		out.Advanced = true
	} else {
		switch gap := nowDay - prev.LastActivityDay; {
		case nowDay <= prev.LastActivityDay:
			return prev, Outcome{PriorStreak: prev.Current}, nil
		case gap == 1:
			current, err := common.AddU32(prev.Current, 1)
			if err != nil {
				return prev, Outcome{}, err
			}
			next.Current = current
			out.Advanced = true
		case gap == 2 && prev.Freezes > 0:
			current, err := common.AddU32(prev.Current, 1)
			if err != nil {
				return prev, Outcome{}, err
			}
			next.Current = current
			next.Freezes = prev.Freezes - 1
			out.Advanced = true
			out.FreezeConsumed = true
		default:
			next.Current = 1
			out.Broken = true
		}
		next.LastActivityDay = nowDay
	}

	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	if out.Advanced {
		for _, milestone := range Milestones {
			if next.Current == milestone {
				out.Milestone = milestone
				break
			}
		}
	}
	return next, out, nil
}

// GrantFreezes adds count freezes, saturating at the counter maximum.
func GrantFreezes(prev State, count uint8) State {
	prev.Freezes = common.SaturatingAddU8(prev.Freezes, count)
	return prev
}
