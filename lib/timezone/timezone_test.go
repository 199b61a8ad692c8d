package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMinuteOfDay(t *testing.T) {
	testCases := []struct {
		now      time.Time
		expected int
	}{
		{
			now:      time.Date(2024, 9, 3, 0, 0, 0, 0, Location),
			expected: 0,
		},
		{
			now:      time.Date(2024, 9, 3, 14, 0, 0, 0, Location),
			expected: 840,
		},
		{
			now:      time.Date(2024, 9, 3, 23, 59, 0, 0, Location),
			expected: 1439,
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, MinuteOfDay(test.now))
	}
}

func TestMinuteOfDayConvertsZone(t *testing.T) {
	utc := time.Date(2024, 9, 3, 16, 30, 0, 0, time.UTC)
	local := utc.In(Location)
	require.Equal(t, local.Hour()*60+30, MinuteOfDay(utc))
}
