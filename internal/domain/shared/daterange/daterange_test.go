package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	dr, err := Parse("2025-06-01", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, 4, dr.Nights())
	assert.Equal(t, "2025-06-01..2025-06-05", dr.String())

	_, err = Parse("2025-06-05", "2025-06-05")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Parse("06/01/2025", "2025-06-05")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Parse("", "2025-06-05")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEachNight(t *testing.T) {
	dr, err := Parse("2025-06-30", "2025-07-02")
	require.NoError(t, err)
	var nights []string
	dr.EachNight(func(n time.Time) { nights = append(nights, n.Format(DayLayout)) })
	assert.Equal(t, []string{"2025-06-30", "2025-07-01"}, nights)
}

func TestNightsBetweenIgnoresClock(t *testing.T) {
	in := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 1, NightsBetween(in, out))
	assert.Equal(t, -1, NightsBetween(out, in))
	assert.Zero(t, NightsBetween(time.Time{}, out))
}

func TestDaysUntil(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), 7},
		{time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC), 6},
		{time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), -1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DaysUntil(tc.now, checkIn), tc.now.String())
	}
}

func TestOverlaps(t *testing.T) {
	a, _ := Parse("2025-06-01", "2025-06-05")
	b, _ := Parse("2025-06-03", "2025-06-07")
	c, _ := Parse("2025-06-05", "2025-06-08")
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
	assert.True(t, a.Adjacent(c))
	assert.True(t, a.ContainsDate(time.Date(2025, 6, 4, 18, 0, 0, 0, time.UTC)))
	assert.False(t, a.ContainsDate(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)))
}
