package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"9:00 AM":  540,
		"09:05 am": 545,
		"12:00 AM": 0,
		"12:30 PM": 750,
		"1:00 PM":  780,
		"11:59 PM": 1439,
		"4:15PM":   975,
	}
	for raw, want := range cases {
		got, err := ParseClock(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "9:00", "13:00 PM", "0:30 AM", "9:7 AM", "9:60 AM", "nine AM", "9-00 AM", "123:00 AM", "9:+5 AM", "+9:00 AM", "9:-0 AM", "-1:00 PM", "9 :00 AM"} {
		_, err := ParseClock(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrInvalidClock), raw)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "9:00 AM", FormatClock(540))
	assert.Equal(t, "12:00 PM", FormatClock(720))
	assert.Equal(t, "12:05 AM", FormatClock(5))
	assert.Equal(t, "1:00 PM", FormatClock(780))
	assert.Equal(t, "12:00 AM", FormatClock(minutesPerDay))
}

func TestClockRoundTrip(t *testing.T) {
	for m := 0; m < minutesPerDay; m += 7 {
		got, err := ParseClock(FormatClock(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}
