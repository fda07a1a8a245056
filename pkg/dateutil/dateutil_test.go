package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayHelpers(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)

	require.Equal(t, "2024-03-01", Day(now))
	require.Equal(t, "2024-02-29", Yesterday(now))

	require.True(t, IsSameDayOf("2024-03-01", now))
	require.False(t, IsSameDayOf("2024-02-29", now))

	require.True(t, IsYesterdayOf("2024-02-29", now))
	require.False(t, IsYesterdayOf("2024-02-28", now))
	require.False(t, IsYesterdayOf("", now))
}
