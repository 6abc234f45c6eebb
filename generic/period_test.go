package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tour-engine/generic"
)

func at(s string) time.Time { return generic.MustParseInstant(s) }

func tr(start, end string) generic.TimeRange {
	return generic.TimeRange{Start: at(start), End: at(end)}
}

// =============================================================================
// TIME RANGE OVERLAP
// =============================================================================

func TestTimeRange_Overlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b generic.TimeRange
		want bool
	}{
		{"partial", tr("2024-08-01T10:00:00Z", "2024-08-01T12:00:00Z"), tr("2024-08-01T11:00:00Z", "2024-08-01T13:00:00Z"), true},
		{"touching", tr("2024-08-01T10:00:00Z", "2024-08-01T11:00:00Z"), tr("2024-08-01T11:00:00Z", "2024-08-01T12:00:00Z"), false},
		{"contained", tr("2024-08-01T09:00:00Z", "2024-08-01T17:00:00Z"), tr("2024-08-01T12:00:00Z", "2024-08-01T13:00:00Z"), true},
		{"identical", tr("2024-08-01T09:00:00Z", "2024-08-01T10:00:00Z"), tr("2024-08-01T09:00:00Z", "2024-08-01T10:00:00Z"), true},
		{"disjoint", tr("2024-08-01T08:00:00Z", "2024-08-01T09:00:00Z"), tr("2024-08-01T15:00:00Z", "2024-08-01T16:00:00Z"), false},
		{"different days", tr("2024-08-01T10:00:00Z", "2024-08-01T12:00:00Z"), tr("2024-08-02T10:00:00Z", "2024-08-02T12:00:00Z"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, generic.RangesOverlap(tc.a, tc.b))
			// Overlap is symmetric
			assert.Equal(t, tc.want, generic.RangesOverlap(tc.b, tc.a))
		})
	}
}

func TestTimeRange_Hours_RoundedToTwoDecimals(t *testing.T) {
	r := tr("2024-08-01T10:00:00Z", "2024-08-01T11:20:00Z")
	assert.True(t, r.Hours().Equal(decimal.RequireFromString("1.33")), "got %s", r.Hours())
}

func TestTimeRange_Validate(t *testing.T) {
	require.NoError(t, tr("2024-08-01T10:00:00Z", "2024-08-01T11:00:00Z").Validate())

	err := tr("2024-08-01T10:00:00Z", "2024-08-01T10:00:00Z").Validate()
	assert.True(t, errors.Is(err, generic.ErrInvalidRange))
}

// =============================================================================
// DATE RANGE
// =============================================================================

func TestDateRange_Contains_Inclusive(t *testing.T) {
	r := generic.DateRange{
		Start: generic.NewDate(2024, time.July, 1),
		End:   generic.NewDate(2024, time.December, 31),
	}

	assert.True(t, r.Contains(generic.NewDate(2024, time.July, 1)), "start day included")
	assert.True(t, r.Contains(generic.NewDate(2024, time.December, 31)), "end day included")
	assert.True(t, r.Contains(generic.NewDate(2024, time.August, 1)))
	assert.False(t, r.Contains(generic.NewDate(2024, time.June, 30)))
	assert.False(t, r.Contains(generic.NewDate(2025, time.January, 1)))
}

func TestDateRange_Validate(t *testing.T) {
	ok := generic.DateRange{Start: generic.NewDate(2024, 1, 1), End: generic.NewDate(2024, 1, 1)}
	require.NoError(t, ok.Validate())

	inverted := generic.DateRange{Start: generic.NewDate(2024, 2, 1), End: generic.NewDate(2024, 1, 1)}
	assert.ErrorIs(t, inverted.Validate(), generic.ErrInvalidRange)
}

func TestDateRange_Days(t *testing.T) {
	r := generic.DateRange{Start: generic.NewDate(2024, 2, 27), End: generic.NewDate(2024, 3, 1)}
	days := r.Days()
	require.Len(t, days, 4) // leap year
	assert.Equal(t, "2024-02-29", days[2].String())
}
