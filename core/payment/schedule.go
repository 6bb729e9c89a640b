package payment

import (
	"time"

	"github.com/lanten/lanten/core"
)

// maxOccurrenceIterations caps occurrence generation so that a malformed
// window can never loop unbounded.
const maxOccurrenceIterations = 1000

// AddInterval returns the date n intervals after the anchor, using clamped
// calendar arithmetic: a monthly payment anchored on Jan 31 occurs on
// Feb 28 (29 in leap years), not Mar 2/3 as time.AddDate would normalize,
// and a yearly payment anchored on Feb 29 occurs on Feb 28 in non-leap
// years. Every occurrence is computed from the anchor, so a short month
// never shifts the day of later occurrences.
func AddInterval(anchor time.Time, interval Interval, n int) time.Time {
	anchor = core.UTCDate(anchor)
	if n <= 0 {
		return anchor
	}
	switch interval {
	case IntervalDaily:
		return anchor.AddDate(0, 0, n)
	case IntervalWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case IntervalMonthly:
		return addMonthsClamped(anchor, n)
	case IntervalYearly:
		return addMonthsClamped(anchor, 12*n)
	}
	return anchor
}

func addMonthsClamped(anchor time.Time, months int) time.Time {
	y, m, d := anchor.Date()
	total := int(m) - 1 + months
	ty, tm := y+total/12, time.Month(total%12+1)
	if last := daysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Occurrences expands a payment schedule into the concrete occurrence dates
// falling within [from, until], inclusive, in ascending order. The anchor
// itself is the first occurrence. Anchors far in the past are skipped over
// arithmetically rather than iterated through.
func Occurrences(anchor time.Time, interval Interval, from, until time.Time) []time.Time {
	anchor = core.UTCDate(anchor)
	from = core.UTCDate(from)
	until = core.UTCDate(until)
	if until.Before(from) || anchor.After(until) {
		return nil
	}

	if interval == "" || interval == IntervalNone {
		if anchor.Before(from) {
			return nil
		}
		return []time.Time{anchor}
	}

	n := intervalsUntil(anchor, interval, from)
	var dates []time.Time
	for i := 0; i < maxOccurrenceIterations; i++ {
		occ := AddInterval(anchor, interval, n)
		if occ.After(until) {
			break
		}
		if !occ.Before(from) {
			dates = append(dates, occ)
		}
		n++
	}
	return dates
}

// NextOccurrence returns the first occurrence on or after the given date,
// or the zero time when the schedule has ended (non-recurring payment whose
// anchor has passed).
func NextOccurrence(anchor time.Time, interval Interval, from time.Time) time.Time {
	anchor = core.UTCDate(anchor)
	from = core.UTCDate(from)
	if interval == "" || interval == IntervalNone {
		if anchor.Before(from) {
			return time.Time{}
		}
		return anchor
	}
	n := intervalsUntil(anchor, interval, from)
	for i := 0; i < maxOccurrenceIterations; i++ {
		if occ := AddInterval(anchor, interval, n); !occ.Before(from) {
			return occ
		}
		n++
	}
	return time.Time{}
}

// intervalsUntil estimates how many whole intervals fit between the anchor
// and the given date, never overshooting it. Clamped month arithmetic means
// the estimate can fall one short; callers step forward from it.
func intervalsUntil(anchor time.Time, interval Interval, from time.Time) int {
	if !anchor.Before(from) {
		return 0
	}
	days := daysBetween(anchor, from)
	var n int
	switch interval {
	case IntervalDaily:
		n = days
	case IntervalWeekly:
		n = days / 7
	case IntervalMonthly:
		n = (from.Year()-anchor.Year())*12 + int(from.Month()) - int(anchor.Month())
	case IntervalYearly:
		n = from.Year() - anchor.Year()
	}
	if n < 0 {
		return 0
	}
	// back off while the estimate overshoots
	for n > 0 && AddInterval(anchor, interval, n).After(from) {
		n--
	}
	return n
}

// daysBetween returns the number of calendar days from a to b. Computed from
// date components: a time.Duration tops out around 292 years, so Sub would
// saturate on very old anchors.
func daysBetween(a, b time.Time) int {
	return julianDayNumber(b) - julianDayNumber(a)
}

func julianDayNumber(t time.Time) int {
	y, m, d := t.Date()
	a := (14 - int(m)) / 12
	y += 4800 - a
	mm := int(m) + 12*a - 3
	return d + (153*mm+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// Matches reports whether a reminder with the given lead time fires on
// `today` for an occurrence on `occurrence`, compared as UTC calendar dates.
func Matches(occurrence time.Time, daysBefore int, today time.Time) bool {
	return core.UTCDate(occurrence).AddDate(0, 0, -daysBefore).Equal(core.UTCDate(today))
}
