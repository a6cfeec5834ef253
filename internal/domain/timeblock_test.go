package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeBlockEffectiveToTime(t *testing.T) {
	explicit := int64(1000)

	cases := []struct {
		name string
		tb   TimeBlock
		want int64
	}{
		{"explicit to_time wins", TimeBlock{FromTime: 500, ToTime: &explicit, Asap: true}, 1000},
		{"asap adds five minutes", TimeBlock{FromTime: 500, Asap: true}, 800},
		{"plain from_time only", TimeBlock{FromTime: 500}, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.tb.EffectiveToTime())
		})
	}
}

func TestTimeBlockAnytimeEndsOfDayMinusHour(t *testing.T) {
	// 2026-01-01T10:00:00Z
	tb := TimeBlock{FromTime: 1767261600, Anytime: true}
	got := tb.EffectiveToTime()

	// Must land on 2026-01-01T23:00:00Z: that day's end minus one hour.
	require.Equal(t, int64(1767308400), got)
	require.GreaterOrEqual(t, got, tb.FromTime)
}

func TestTimeBlockShiftBy(t *testing.T) {
	to := int64(200)
	tb := TimeBlock{FromTime: 100, ToTime: &to}

	shifted := tb.ShiftBy(50)

	require.Equal(t, int64(150), shifted.FromTime)
	require.Equal(t, int64(250), *shifted.ToTime)
	require.Equal(t, int64(100), tb.FromTime, "original must not mutate")
}
