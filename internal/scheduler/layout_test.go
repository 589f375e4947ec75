package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-timetable-api/internal/models"
)

func settings(start, end string, duration, periods int, breaks ...models.BreakTime) models.Settings {
	return models.Settings{
		WorkingHours:    models.WorkingHours{StartTime: start, EndTime: end},
		PeriodDuration:  duration,
		NumberOfPeriods: periods,
		BreakTimes:      breaks,
	}
}

type span struct {
	kind      BlockKind
	number    int
	name      string
	start     string
	end       string
	durationM int
}

func spans(l Layout) []span {
	out := make([]span, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		out = append(out, span{kind: b.Kind, number: b.PeriodNumber, name: b.Name, start: b.StartTime, end: b.EndTime, durationM: b.Duration})
	}
	return out
}

func TestBuildLayoutLunchExample(t *testing.T) {
	s := settings("9:00 AM", "1:00 PM", 60, 4, models.BreakTime{Name: "Lunch", StartTime: "11:00 AM", EndTime: "11:30 AM", Enabled: true})

	layout, err := BuildLayout(s)
	require.NoError(t, err)

	assert.Equal(t, []span{
		{KindPeriod, 1, "", "9:00 AM", "10:00 AM", 60},
		{KindPeriod, 2, "", "10:00 AM", "11:00 AM", 60},
		{KindBreak, 0, "Lunch", "11:00 AM", "11:30 AM", 30},
		{KindPeriod, 3, "", "11:30 AM", "12:30 PM", 60},
		{KindPeriod, 4, "", "12:30 PM", "1:00 PM", 30},
	}, spans(layout))
	assert.Equal(t, Shortfall{Requested: 4, Fitted: 4}, layout.Shortfall())
}

func TestBuildLayoutWithoutBreaksIsContiguous(t *testing.T) {
	cases := []struct {
		start, end string
		duration   int
		periods    int
		want       int
	}{
		{"9:00 AM", "4:00 PM", 60, 5, 5},
		{"9:00 AM", "12:00 PM", 60, 8, 3},
		{"8:00 AM", "10:00 AM", 40, 3, 3},
		{"8:00 AM", "10:00 AM", 30, 10, 4},
	}
	for _, tc := range cases {
		layout, err := BuildLayout(settings(tc.start, tc.end, tc.duration, tc.periods))
		require.NoError(t, err)

		periods := layout.Periods()
		require.Len(t, periods, tc.want)
		start, _ := ParseClock(tc.start)
		for i, p := range periods {
			assert.Equal(t, i+1, p.PeriodNumber)
			assert.Equal(t, start, p.StartMinute)
			assert.Equal(t, tc.duration, p.Duration)
			start = p.EndMinute
		}
	}
}

func TestBuildLayoutDropsShortLeadIn(t *testing.T) {
	// Break starts 15 minutes into the second period.
	s := settings("9:00 AM", "1:00 PM", 60, 6, models.BreakTime{Name: "Tea", StartTime: "10:15 AM", EndTime: "10:30 AM", Enabled: true})

	layout, err := BuildLayout(s)
	require.NoError(t, err)

	got := spans(layout)
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, span{KindPeriod, 1, "", "9:00 AM", "10:00 AM", 60}, got[0])
	assert.Equal(t, span{KindBreak, 0, "Tea", "10:15 AM", "10:30 AM", 15}, got[1])
	assert.Equal(t, span{KindPeriod, 2, "", "10:30 AM", "11:30 AM", 60}, got[2])

	base, err := BuildLayout(settings("9:00 AM", "1:00 PM", 60, 6))
	require.NoError(t, err)
	assert.Equal(t, len(base.Blocks)+1, len(layout.Blocks))
}

func TestBuildLayoutKeepsLongLeadIn(t *testing.T) {
	s := settings("9:00 AM", "1:00 PM", 60, 6, models.BreakTime{Name: "Tea", StartTime: "10:20 AM", EndTime: "10:40 AM", Enabled: true})

	layout, err := BuildLayout(s)
	require.NoError(t, err)

	got := spans(layout)
	assert.Equal(t, span{KindPeriod, 2, "", "10:00 AM", "10:20 AM", 20}, got[1])
	assert.Equal(t, span{KindBreak, 0, "Tea", "10:20 AM", "10:40 AM", 20}, got[2])
	assert.Equal(t, span{KindPeriod, 3, "", "10:40 AM", "11:40 AM", 60}, got[3])
	assert.LessOrEqual(t, layout.PeriodCount(), 6)
}

func TestBuildLayoutIgnoresDisabledBreaks(t *testing.T) {
	s := settings("9:00 AM", "12:00 PM", 60, 3,
		models.BreakTime{Name: "Off", StartTime: "10:00 AM", EndTime: "10:30 AM", Enabled: false},
		models.BreakTime{Name: "Broken", StartTime: "whenever", EndTime: "", Enabled: false},
	)

	layout, err := BuildLayout(s)
	require.NoError(t, err)

	for _, b := range layout.Blocks {
		assert.Equal(t, KindPeriod, b.Kind)
	}
	assert.Equal(t, 3, layout.PeriodCount())
}

func TestBuildLayoutSortsBreaksAndFiresEachOnce(t *testing.T) {
	s := settings("9:00 AM", "2:00 PM", 60, 8,
		models.BreakTime{Name: "Lunch", StartTime: "12:00 PM", EndTime: "12:30 PM", Enabled: true},
		models.BreakTime{Name: "Morning", StartTime: "10:00 AM", EndTime: "10:15 AM", Enabled: true},
	)

	layout, err := BuildLayout(s)
	require.NoError(t, err)

	var names []string
	for _, b := range layout.Blocks {
		if b.Kind == KindBreak {
			names = append(names, b.Name)
		}
	}
	assert.Equal(t, []string{"Morning", "Lunch"}, names)
}

func TestBuildLayoutReportsShortfall(t *testing.T) {
	s := settings("9:00 AM", "11:00 AM", 60, 5, models.BreakTime{Name: "Assembly", StartTime: "9:00 AM", EndTime: "9:30 AM", Enabled: true})

	layout, err := BuildLayout(s)
	require.NoError(t, err)

	short := layout.Shortfall()
	assert.True(t, short.Any())
	assert.Equal(t, 5, short.Requested)
	assert.Equal(t, 2, short.Fitted)
	assert.Equal(t, 3, short.Missing)
}

func TestBuildLayoutPreservesBreaksOutsideWindow(t *testing.T) {
	s := settings("9:00 AM", "10:00 AM", 60, 2, models.BreakTime{Name: "Late", StartTime: "9:30 AM", EndTime: "11:00 AM", Enabled: true})

	layout, err := BuildLayout(s)
	require.NoError(t, err)

	last := layout.Blocks[len(layout.Blocks)-1]
	assert.Equal(t, KindBreak, last.Kind)
	assert.Equal(t, "11:00 AM", last.EndTime)
}

func TestBuildLayoutRejectsMalformedSettings(t *testing.T) {
	cases := []models.Settings{
		settings("nine", "1:00 PM", 60, 4),
		settings("1:00 PM", "9:00 AM", 60, 4),
		settings("9:00 AM", "1:00 PM", 0, 4),
		settings("9:00 AM", "1:00 PM", 60, 0),
		settings("9:00 AM", "1:00 PM", 60, 4, models.BreakTime{Name: "Lunch", StartTime: "11:00", EndTime: "11:30 AM", Enabled: true}),
		settings("9:00 AM", "1:00 PM", 60, 4, models.BreakTime{Name: "Lunch", StartTime: "11:30 AM", EndTime: "11:00 AM", Enabled: true}),
	}
	for i, s := range cases {
		_, err := BuildLayout(s)
		require.Error(t, err, i)
		assert.True(t, errors.Is(err, ErrInvalidSettings), i)
	}
}
