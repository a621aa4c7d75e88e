package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

func TestEasterSunday_KnownDates(t *testing.T) {
	assert.Equal(t, domain.Day(2024, time.March, 31), easterSunday(2024))
	assert.Equal(t, domain.Day(2025, time.April, 20), easterSunday(2025))
	assert.Equal(t, domain.Day(2026, time.April, 5), easterSunday(2026))
}

func TestBusinessDaysBetween_FirstWeekOf2024(t *testing.T) {
	cal := NewBrazil(2024, 2024)

	// Jan 1 is a holiday, Jan 6-7 a weekend; end date is exclusive
	days := cal.BusinessDaysBetween(domain.Day(2024, time.January, 1), domain.Day(2024, time.January, 8))

	require.Len(t, days, 4)
	assert.Equal(t, domain.Day(2024, time.January, 2), days[0])
	assert.Equal(t, domain.Day(2024, time.January, 5), days[3])
}

func TestBusinessDaysBetween_SkipsCarnival(t *testing.T) {
	cal := NewBrazil(2024, 2024)

	// Carnival 2024: Monday Feb 12 and Tuesday Feb 13
	days := cal.BusinessDaysBetween(domain.Day(2024, time.February, 9), domain.Day(2024, time.February, 15))

	require.Len(t, days, 2)
	assert.Equal(t, domain.Day(2024, time.February, 9), days[0])
	assert.Equal(t, domain.Day(2024, time.February, 14), days[1])
}

func TestPreviousBusinessDay(t *testing.T) {
	cal := NewBrazil(2024, 2024)

	// Monday after an ordinary weekend
	assert.Equal(t, domain.Day(2024, time.May, 31),
		cal.PreviousBusinessDay(domain.Day(2024, time.June, 3)))

	// Apr 1 2024 follows Good Friday (Mar 29) and the Easter weekend
	assert.Equal(t, domain.Day(2024, time.March, 28),
		cal.PreviousBusinessDay(domain.Day(2024, time.April, 1)))
}

func TestIsBusinessDay_FixedHolidays(t *testing.T) {
	cal := NewBrazil(2023, 2025)

	assert.False(t, cal.IsBusinessDay(domain.Day(2024, time.September, 7)))
	assert.False(t, cal.IsBusinessDay(domain.Day(2024, time.December, 25)))
	assert.False(t, cal.IsBusinessDay(domain.Day(2024, time.May, 30))) // Corpus Christi 2024

	// Consciência Negra is national only from 2024 on
	assert.False(t, cal.IsBusinessDay(domain.Day(2024, time.November, 20)))
	assert.True(t, cal.IsBusinessDay(domain.Day(2023, time.November, 20)))
}
