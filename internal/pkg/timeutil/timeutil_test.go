package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestWindowBounds_SameDay(t *testing.T) {
	loc := mustLoc(t, "Europe/Moscow")
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC)

	bounds := WindowBounds(date, start, end, loc)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, loc), bounds.Start)
	assert.Equal(t, time.Date(2025, 3, 10, 17, 0, 0, 0, loc), bounds.End)
	assert.Equal(t, 480, bounds.Minutes())
}

func TestWindowBounds_NextDayCheckout(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(0, 1, 1, 22, 0, 0, 0, time.UTC)
	end := time.Date(0, 1, 1, 6, 0, 0, 0, time.UTC)

	bounds := WindowBounds(date, start, end, loc)

	assert.Equal(t, time.Date(2025, 3, 11, 6, 0, 0, 0, loc), bounds.End)
	assert.Equal(t, 480, bounds.Minutes())
}

func TestClip(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	bounds := Interval{Start: base, End: base.Add(8 * time.Hour)}

	// Partially before the window.
	clipped, ok := Clip(Interval{Start: base.Add(-2 * time.Hour), End: base.Add(2 * time.Hour)}, bounds)
	require.True(t, ok)
	assert.Equal(t, base, clipped.Start)
	assert.Equal(t, 120, clipped.Minutes())

	// Entirely outside.
	_, ok = Clip(Interval{Start: base.Add(-3 * time.Hour), End: base.Add(-1 * time.Hour)}, bounds)
	assert.False(t, ok)

	// Touching the boundary only: zero overlap.
	_, ok = Clip(Interval{Start: base.Add(-1 * time.Hour), End: base}, bounds)
	assert.False(t, ok)
}

func TestOverlapMinutes(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	a := Interval{Start: base, End: base.Add(time.Hour)}
	b := Interval{Start: base.Add(30 * time.Minute), End: base.Add(2 * time.Hour)}

	assert.Equal(t, 30, OverlapMinutes(a, b))
	assert.Equal(t, 30, OverlapMinutes(b, a))
}

func TestFormatLateBy(t *testing.T) {
	assert.Equal(t, "late by 1h 30m", FormatLateBy(90*time.Minute))
	assert.Equal(t, "late by 0h 5m", FormatLateBy(5*time.Minute+30*time.Second))
	assert.Equal(t, "late by 0h 0m", FormatLateBy(-time.Minute))
}

func TestLoadLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
	assert.Equal(t, "Asia/Jakarta", LoadLocation("Asia/Jakarta").String())
}
