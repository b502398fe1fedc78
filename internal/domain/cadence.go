package domain

import "time"

// Due-date cadence rules, mirrored from the lending desk's collection calendar:
// weekly loans collect every Saturday, monthly loans every 30 calendar days, and
// biweekly loans alternate between the 15th and the end of the month, with the
// end of the month clamped to day 30 (or the true last day of short months).

// FirstDueDate returns the due date of installment 1 for a loan starting at
// start with the given frequency.
func FirstDueDate(start time.Time, frequency Frequency) time.Time {
	switch frequency {
	case FrequencyWeekly:
		// Monday=0 .. Sunday=6. Loans opened Wed-Sun skip to the Saturday
		// of the following week.
		weekday := (int(start.Weekday()) + 6) % 7
		offset := 5 - weekday
		if weekday > 2 {
			offset += 7
		}
		return start.AddDate(0, 0, offset)
	case FrequencyBiweekly:
		return NextBiweeklyDate(start)
	default:
		return start.AddDate(0, 0, 30)
	}
}

// NextDueDate returns the due date following d for the given frequency.
func NextDueDate(d time.Time, frequency Frequency) time.Time {
	switch frequency {
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return NextBiweeklyDate(d)
	default:
		return d.AddDate(0, 0, 30)
	}
}

// NextBiweeklyDate returns the biweekly due date strictly after d: the 15th of
// d's month when d falls before it, otherwise the clamped end-of-month day,
// rolling to the 15th of the next month (January for December) once d is at or
// past that day.
func NextBiweeklyDate(d time.Time) time.Time {
	if d.Day() < 15 {
		return time.Date(d.Year(), d.Month(), 15, 0, 0, 0, 0, d.Location())
	}
	end := clampedMonthEnd(d.Year(), d.Month())
	if d.Day() < end {
		return time.Date(d.Year(), d.Month(), end, 0, 0, 0, 0, d.Location())
	}
	if d.Month() == time.December {
		return time.Date(d.Year()+1, time.January, 15, 0, 0, 0, 0, d.Location())
	}
	return time.Date(d.Year(), d.Month()+1, 15, 0, 0, 0, 0, d.Location())
}

// clampedMonthEnd is day 30 for months with at least 30 days, else the month's
// true last day, so a due date never slips into the next month.
func clampedMonthEnd(year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if last >= 30 {
		return 30
	}
	return last
}

// DueDates generates the due dates of installments 1..n. The sequence is a
// pure function of (start, frequency, n) and is regenerated on every call.
func DueDates(start time.Time, frequency Frequency, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, n)
	d := FirstDueDate(start, frequency)
	for i := 0; i < n; i++ {
		dates = append(dates, d)
		d = NextDueDate(d, frequency)
	}
	return dates
}

// DueDate returns the due date of installment i (1-based).
func DueDate(start time.Time, frequency Frequency, i int) time.Time {
	d := FirstDueDate(start, frequency)
	for ; i > 1; i-- {
		d = NextDueDate(d, frequency)
	}
	return d
}
