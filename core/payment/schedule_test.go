package payment

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddInterval(t *testing.T) {
	tests := []struct {
		name     string
		anchor   time.Time
		interval Interval
		n        int
		want     time.Time
	}{
		{name: "zero intervals", anchor: date(2024, 1, 31), interval: IntervalMonthly, n: 0, want: date(2024, 1, 31)},
		{name: "daily", anchor: date(2024, 6, 10), interval: IntervalDaily, n: 3, want: date(2024, 6, 13)},
		{name: "weekly", anchor: date(2024, 6, 10), interval: IntervalWeekly, n: 2, want: date(2024, 6, 24)},
		{name: "monthly plain", anchor: date(2024, 3, 15), interval: IntervalMonthly, n: 1, want: date(2024, 4, 15)},
		{name: "monthly clamps to leap feb", anchor: date(2024, 1, 31), interval: IntervalMonthly, n: 1, want: date(2024, 2, 29)},
		{name: "monthly clamps to feb", anchor: date(2023, 1, 31), interval: IntervalMonthly, n: 1, want: date(2023, 2, 28)},
		{name: "monthly recovers day after short month", anchor: date(2024, 1, 31), interval: IntervalMonthly, n: 2, want: date(2024, 3, 31)},
		{name: "monthly clamps to april", anchor: date(2024, 1, 31), interval: IntervalMonthly, n: 3, want: date(2024, 4, 30)},
		{name: "monthly across year end", anchor: date(2023, 11, 30), interval: IntervalMonthly, n: 3, want: date(2024, 2, 29)},
		{name: "yearly", anchor: date(2022, 7, 1), interval: IntervalYearly, n: 2, want: date(2024, 7, 1)},
		{name: "yearly clamps feb 29", anchor: date(2024, 2, 29), interval: IntervalYearly, n: 1, want: date(2025, 2, 28)},
		{name: "yearly recovers feb 29 on leap year", anchor: date(2024, 2, 29), interval: IntervalYearly, n: 4, want: date(2028, 2, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddInterval(tt.anchor, tt.interval, tt.n); !got.Equal(tt.want) {
				t.Errorf("AddInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name     string
		anchor   time.Time
		interval Interval
		from     time.Time
		until    time.Time
		want     []time.Time
	}{
		{
			name:     "non-recurring within window",
			anchor:   date(2024, 6, 10),
			interval: IntervalNone,
			from:     date(2024, 6, 1),
			until:    date(2024, 6, 11),
			want:     []time.Time{date(2024, 6, 10)},
		},
		{
			name:     "non-recurring past anchor yields nothing",
			anchor:   date(2024, 6, 10),
			interval: IntervalNone,
			from:     date(2024, 6, 11),
			until:    date(2024, 6, 21),
		},
		{
			name:     "anchor after window yields nothing",
			anchor:   date(2024, 8, 1),
			interval: IntervalMonthly,
			from:     date(2024, 6, 1),
			until:    date(2024, 6, 11),
		},
		{
			name:     "daily fills the window",
			anchor:   date(2024, 6, 8),
			interval: IntervalDaily,
			from:     date(2024, 6, 10),
			until:    date(2024, 6, 12),
			want:     []time.Time{date(2024, 6, 10), date(2024, 6, 11), date(2024, 6, 12)},
		},
		{
			name:     "weekly from far-past anchor",
			anchor:   date(2000, 1, 3),
			interval: IntervalWeekly,
			from:     date(2024, 6, 10),
			until:    date(2024, 6, 20),
			want:     []time.Time{date(2024, 6, 10), date(2024, 6, 17)},
		},
		{
			name:     "monthly end-of-month from far-past anchor",
			anchor:   date(2020, 1, 31),
			interval: IntervalMonthly,
			from:     date(2024, 2, 20),
			until:    date(2024, 3, 1),
			want:     []time.Time{date(2024, 2, 29)},
		},
		{
			name:     "yearly from far-past anchor",
			anchor:   date(1990, 6, 15),
			interval: IntervalYearly,
			from:     date(2024, 6, 10),
			until:    date(2024, 6, 20),
			want:     []time.Time{date(2024, 6, 15)},
		},
		{
			name:     "daily from a year-one anchor",
			anchor:   date(1, 1, 1),
			interval: IntervalDaily,
			from:     date(2024, 6, 10),
			until:    date(2024, 6, 12),
			want:     []time.Time{date(2024, 6, 10), date(2024, 6, 11), date(2024, 6, 12)},
		},
		{
			name:     "weekly from an anchor centuries back",
			anchor:   date(1700, 1, 1),
			interval: IntervalWeekly,
			from:     date(2024, 6, 10),
			until:    date(2024, 6, 20),
			want:     []time.Time{date(2024, 6, 14)},
		},
		{
			name:     "anchor inside window is included",
			anchor:   date(2024, 6, 12),
			interval: IntervalMonthly,
			from:     date(2024, 6, 10),
			until:    date(2024, 6, 20),
			want:     []time.Time{date(2024, 6, 12)},
		},
		{
			name:     "inverted window yields nothing",
			anchor:   date(2024, 6, 1),
			interval: IntervalDaily,
			from:     date(2024, 6, 20),
			until:    date(2024, 6, 10),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Occurrences(tt.anchor, tt.interval, tt.from, tt.until)
			if len(got) != len(tt.want) {
				t.Fatalf("Occurrences() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("Occurrences()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name     string
		anchor   time.Time
		interval Interval
		from     time.Time
		want     time.Time
	}{
		{name: "non-recurring upcoming", anchor: date(2024, 6, 10), interval: IntervalNone, from: date(2024, 6, 1), want: date(2024, 6, 10)},
		{name: "non-recurring passed", anchor: date(2024, 6, 10), interval: IntervalNone, from: date(2024, 6, 11)},
		{name: "monthly on the day", anchor: date(2024, 1, 15), interval: IntervalMonthly, from: date(2024, 6, 15), want: date(2024, 6, 15)},
		{name: "monthly end-of-month", anchor: date(2024, 1, 31), interval: IntervalMonthly, from: date(2024, 2, 1), want: date(2024, 2, 29)},
		{name: "future anchor", anchor: date(2024, 9, 1), interval: IntervalWeekly, from: date(2024, 6, 1), want: date(2024, 9, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextOccurrence(tt.anchor, tt.interval, tt.from); !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	occurrence := date(2024, 2, 28)
	tests := []struct {
		name       string
		daysBefore int
		today      time.Time
		want       bool
	}{
		{name: "same day", daysBefore: 0, today: date(2024, 2, 28), want: true},
		{name: "three days before", daysBefore: 3, today: date(2024, 2, 25), want: true},
		{name: "max lead time", daysBefore: 7, today: date(2024, 2, 21), want: true},
		{name: "one day off", daysBefore: 3, today: date(2024, 2, 26), want: false},
		{name: "after the occurrence", daysBefore: 0, today: date(2024, 2, 29), want: false},
		{name: "ignores time of day", daysBefore: 0, today: time.Date(2024, 2, 28, 17, 45, 0, 0, time.UTC), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(occurrence, tt.daysBefore, tt.today); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
