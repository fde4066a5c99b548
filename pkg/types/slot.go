package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day names used as slot keys and optimal-time table keys, Monday first.
var DayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DayName returns the lowercase weekday name for t.
func DayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// SlotKey identifies a (day-of-week, hour-of-day) engagement bucket.
type SlotKey struct {
	Day  string // Lowercase weekday name.
	Hour int    // 0-23.
}

// SlotStat holds the aggregated engagement for one slot. Buckets with
// SampleCount below MinSlotSamples carry no signal and consumers fall
// back to the default base score.
type SlotStat struct {
	AvgEngagementScore float64
	SampleCount        int
}

// MinSlotSamples is the minimum observations before a bucket counts as data.
const MinSlotSamples = 2

// SlotsPerDay is the fixed number of optimal times kept per day.
const SlotsPerDay = 3

// DefaultSlots backfill days with too little history, in fill order.
var DefaultSlots = []string{"09:00", "14:00", "19:00"}

// OptimalTimeTable maps a day name to its ordered "hh:mm" publish slots,
// best first. Regenerated wholesale on each recompute; never patched.
type OptimalTimeTable map[string][]string

// Contains reports whether the day already lists the given "hh:mm" slot.
func (t OptimalTimeTable) Contains(day, hhmm string) bool {
	for _, s := range t[day] {
		if s == hhmm {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table.
func (t OptimalTimeTable) Clone() OptimalTimeTable {
	out := make(OptimalTimeTable, len(t))
	for day, slots := range t {
		cp := make([]string, len(slots))
		copy(cp, slots)
		out[day] = cp
	}
	return out
}

// ParseSlot splits an "hh:mm" slot into hour and minute.
// Returns ErrInvalidTimeSlot for malformed values.
func ParseSlot(hhmm string) (hour, minute int, err error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, hhmm)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, hhmm)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, hhmm)
	}
	return hour, minute, nil
}

// FormatSlot renders an hour as an "hh:00" slot string.
func FormatSlot(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
