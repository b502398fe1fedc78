package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFirstDueDate_WeeklyLandsOnSaturday(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"monday", date(2024, time.March, 4), date(2024, time.March, 9)},
		{"wednesday is three days before saturday", date(2024, time.March, 6), date(2024, time.March, 9)},
		{"thursday skips to next week", date(2024, time.March, 7), date(2024, time.March, 16)},
		{"saturday skips to next week", date(2024, time.March, 9), date(2024, time.March, 16)},
		{"sunday skips to next week", date(2024, time.March, 10), date(2024, time.March, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstDueDate(tt.start, FrequencyWeekly)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Saturday, got.Weekday())
		})
	}
}

func TestDueDates_WeeklyStepsSevenDays(t *testing.T) {
	dates := DueDates(date(2024, time.March, 6), FrequencyWeekly, 4)

	assert.Len(t, dates, 4)
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 0, 7), dates[i])
	}
}

func TestDueDates_MonthlyIsThirtyCalendarDays(t *testing.T) {
	start := date(2024, time.January, 31)

	dates := DueDates(start, FrequencyMonthly, 3)

	assert.Equal(t, date(2024, time.March, 1), dates[0])
	assert.Equal(t, date(2024, time.March, 31), dates[1])
	assert.Equal(t, date(2024, time.April, 30), dates[2])
}

func TestDueDates_BiweeklyClampsShortMonths(t *testing.T) {
	// February 2024 has 29 days, so its end-of-month due date is the 29th;
	// March clamps to the 30th.
	dates := DueDates(date(2024, time.February, 10), FrequencyBiweekly, 4)

	want := []time.Time{
		date(2024, time.February, 15),
		date(2024, time.February, 29),
		date(2024, time.March, 15),
		date(2024, time.March, 30),
	}
	assert.Equal(t, want, dates)
}

func TestNextBiweeklyDate_DecemberRollsToJanuary(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 15), NextBiweeklyDate(date(2024, time.December, 30)))
	assert.Equal(t, date(2024, time.December, 30), NextBiweeklyDate(date(2024, time.December, 15)))
}

func TestNextBiweeklyDate_NonLeapFebruary(t *testing.T) {
	assert.Equal(t, date(2023, time.February, 28), NextBiweeklyDate(date(2023, time.February, 15)))
	assert.Equal(t, date(2023, time.March, 15), NextBiweeklyDate(date(2023, time.February, 28)))
}

func TestDueDate_MatchesGeneratedSequence(t *testing.T) {
	start := date(2024, time.February, 10)

	dates := DueDates(start, FrequencyBiweekly, 6)
	for i := 1; i <= 6; i++ {
		assert.Equal(t, dates[i-1], DueDate(start, FrequencyBiweekly, i))
	}
}
