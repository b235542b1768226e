package limiter

import (
	"errors"
	"math"
	"testing"

	"academychain/native/common"
)

func TestCheckAndReserveAccumulatesWithinCap(t *testing.T) {
	meter := Meter{}
	var err error
	for i := 0; i < 5; i++ {
		meter, err = CheckAndReserve(meter, 10, 100, 500)
		if err != nil {
			t.Fatalf("reserve %d failed: %v", i, err)
		}
	}
	if meter.EarnedToday != 500 {
		t.Fatalf("unexpected total: %d", meter.EarnedToday)
	}
	if _, err := CheckAndReserve(meter, 10, 1, 500); !errors.Is(err, ErrDailyLimitExceeded) {
		t.Fatalf("expected daily limit error, got %v", err)
	}
}

func TestCheckAndReserveResetsAfterDayBoundary(t *testing.T) {
	meter := Meter{EarnedToday: 500, Day: 10}
	if _, err := CheckAndReserve(meter, 10, 1, 500); !errors.Is(err, ErrDailyLimitExceeded) {
		t.Fatalf("expected same-day rejection, got %v", err)
	}
	next, err := CheckAndReserve(meter, 11, 300, 500)
	if err != nil {
		t.Fatalf("next-day reserve failed: %v", err)
	}
	if next.EarnedToday != 300 || next.Day != 11 {
		t.Fatalf("meter not re-based: %+v", next)
	}
}

func TestCheckAndReserveRejectsOverflow(t *testing.T) {
	meter := Meter{EarnedToday: math.MaxUint64, Day: 3}
	if _, err := CheckAndReserve(meter, 3, 1, 0); !errors.Is(err, common.ErrCounterOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

func TestZeroCapDisablesLimit(t *testing.T) {
	meter, err := CheckAndReserve(Meter{}, 1, 1_000_000, 0)
	if err != nil {
		t.Fatalf("uncapped reserve failed: %v", err)
	}
	if meter.EarnedToday != 1_000_000 {
		t.Fatalf("unexpected total: %d", meter.EarnedToday)
	}
}

func TestDayIndex(t *testing.T) {
	if DayIndex(0) != 0 || DayIndex(-5) != 0 {
		t.Fatalf("non-positive timestamps must map to day zero")
	}
	if DayIndex(SecondsPerDay-1) != 0 {
		t.Fatalf("expected day 0 just before the boundary")
	}
	if DayIndex(SecondsPerDay) != 1 {
		t.Fatalf("expected day 1 at the boundary")
	}
}
