// Package calendar provides the Brazilian business-day calendar used to
// anchor fixed-income projections: weekdays excluding national and B3
// holidays.
package calendar

import (
	"time"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// Brazil implements domain.Calendar. The holiday set is built once for a
// year span covering the projection horizon; all lookups are in-memory
type Brazil struct {
	holidays  map[time.Time]struct{}
	firstYear int
	lastYear  int
}

// NewBrazil builds the calendar for [firstYear, lastYear]
func NewBrazil(firstYear, lastYear int) *Brazil {
	b := &Brazil{
		holidays:  make(map[time.Time]struct{}),
		firstYear: firstYear,
		lastYear:  lastYear,
	}
	for year := firstYear; year <= lastYear; year++ {
		for _, h := range holidaysForYear(year) {
			b.holidays[h] = struct{}{}
		}
	}
	return b
}

// IsBusinessDay reports whether d is a weekday and not a holiday
func (b *Brazil) IsBusinessDay(d time.Time) bool {
	d = domain.DayOf(d)
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return false
	}
	_, holiday := b.holidays[d]
	return !holiday
}

// BusinessDaysBetween returns the ordered business days in [start, end)
func (b *Brazil) BusinessDaysBetween(start, end time.Time) []time.Time {
	start = domain.DayOf(start)
	end = domain.DayOf(end)

	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if b.IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// PreviousBusinessDay returns the business day immediately before d
func (b *Brazil) PreviousBusinessDay(d time.Time) time.Time {
	d = domain.DayOf(d).AddDate(0, 0, -1)
	for !b.IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// holidaysForYear lists the national and B3 holidays observed in the
// fixed-income market. Movable feasts hang off Easter Sunday
func holidaysForYear(year int) []time.Time {
	easter := easterSunday(year)

	holidays := []time.Time{
		domain.Day(year, time.January, 1),   // Confraternização Universal
		easter.AddDate(0, 0, -48),           // Carnival Monday
		easter.AddDate(0, 0, -47),           // Carnival Tuesday
		easter.AddDate(0, 0, -2),            // Good Friday
		domain.Day(year, time.April, 21),    // Tiradentes
		domain.Day(year, time.May, 1),       // Dia do Trabalho
		easter.AddDate(0, 0, 60),            // Corpus Christi
		domain.Day(year, time.September, 7), // Independência
		domain.Day(year, time.October, 12),  // Nossa Senhora Aparecida
		domain.Day(year, time.November, 2),  // Finados
		domain.Day(year, time.November, 15), // Proclamação da República
		domain.Day(year, time.December, 25), // Natal
	}

	// National holiday since 2024
	if year >= 2024 {
		holidays = append(holidays, domain.Day(year, time.November, 20)) // Consciência Negra
	}

	return holidays
}

// easterSunday computes Easter for a Gregorian year (Meeus algorithm)
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return domain.Day(year, time.Month(month), day)
}
