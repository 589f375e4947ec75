// Package scheduler turns timetable settings into a daily slot layout and fills a
// department's weekly grid with faculty. Everything here is pure and synchronous.
package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/faculty-timetable-api/internal/models"
)

// MinLeadInMinutes is the shortest period kept when a break cuts into it.
const MinLeadInMinutes = 20

// BlockKind tags a Block as a period or a break.
type BlockKind string

const (
	KindPeriod BlockKind = "period"
	KindBreak  BlockKind = "break"
)

// Block is one contiguous window of the school day.
type Block struct {
	Kind         BlockKind `json:"type"`
	PeriodNumber int       `json:"periodNumber,omitempty"`
	Name         string    `json:"name,omitempty"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Duration     int       `json:"duration"`
	StartMinute  int       `json:"-"`
	EndMinute    int       `json:"-"`
}

// Shortfall reports how many requested periods did not fit into the working window.
type Shortfall struct {
	Requested int `json:"requested"`
	Fitted    int `json:"fitted"`
	Missing   int `json:"missing"`
}

// Any reports whether at least one requested period is missing.
func (s Shortfall) Any() bool { return s.Missing > 0 }

// Layout is the ordered block sequence derived from one settings snapshot.
type Layout struct {
	Blocks    []Block `json:"blocks"`
	Requested int     `json:"requestedPeriods"`
}

// Periods returns only the schedulable blocks in emission order.
func (l Layout) Periods() []Block {
	periods := make([]Block, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		if b.Kind == KindPeriod {
			periods = append(periods, b)
		}
	}
	return periods
}

// PeriodCount is the number of periods that fit.
func (l Layout) PeriodCount() int {
	n := 0
	for _, b := range l.Blocks {
		if b.Kind == KindPeriod {
			n++
		}
	}
	return n
}

// Shortfall compares fitted periods against the requested count.
func (l Layout) Shortfall() Shortfall {
	fitted := l.PeriodCount()
	missing := l.Requested - fitted
	if missing < 0 {
		missing = 0
	}
	return Shortfall{Requested: l.Requested, Fitted: fitted, Missing: missing}
}

type pendingBreak struct {
	name       string
	start, end int
}

// BuildLayout walks the working window from its start, emitting periods of
// PeriodDuration minutes and inserting each enabled break once, at the first step
// whose period it would interrupt. A period cut short by a break is kept only when it
// lasts at least MinLeadInMinutes. Breaks are taken verbatim and may extend past the
// working window.
func BuildLayout(s models.Settings) (Layout, error) {
	start, end, err := workingWindow(s)
	if err != nil {
		return Layout{}, err
	}
	pending, err := enabledBreaks(s.BreakTimes)
	if err != nil {
		return Layout{}, err
	}

	layout := Layout{Requested: s.NumberOfPeriods}
	current, number := start, 1
	for current < end && number <= s.NumberOfPeriods {
		idx := -1
		for i, b := range pending {
			if b.start >= current && b.start < current+s.PeriodDuration {
				idx = i
				break
			}
		}

		if idx >= 0 {
			brk := pending[idx]
			if brk.start-current >= MinLeadInMinutes {
				layout.Blocks = append(layout.Blocks, periodBlock(number, current, brk.start))
				number++
			}
			layout.Blocks = append(layout.Blocks, Block{
				Kind:        KindBreak,
				Name:        brk.name,
				StartTime:   FormatClock(brk.start),
				EndTime:     FormatClock(brk.end),
				Duration:    brk.end - brk.start,
				StartMinute: brk.start,
				EndMinute:   brk.end,
			})
			current = brk.end
			pending = append(pending[:idx:idx], pending[idx+1:]...)
			continue
		}

		periodEnd := current + s.PeriodDuration
		if periodEnd > end {
			periodEnd = end
		}
		if periodEnd <= current {
			break
		}
		layout.Blocks = append(layout.Blocks, periodBlock(number, current, periodEnd))
		number++
		current = periodEnd
	}

	return layout, nil
}

func periodBlock(number, start, end int) Block {
	return Block{
		Kind:         KindPeriod,
		PeriodNumber: number,
		StartTime:    FormatClock(start),
		EndTime:      FormatClock(end),
		Duration:     end - start,
		StartMinute:  start,
		EndMinute:    end,
	}
}

func workingWindow(s models.Settings) (int, int, error) {
	start, err := ParseClock(s.WorkingHours.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: working hours start: %v", ErrInvalidSettings, err)
	}
	end, err := ParseClock(s.WorkingHours.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: working hours end: %v", ErrInvalidSettings, err)
	}
	if start >= end {
		return 0, 0, fmt.Errorf("%w: working hours must start before they end", ErrInvalidSettings)
	}
	if s.PeriodDuration <= 0 {
		return 0, 0, fmt.Errorf("%w: period duration must be positive", ErrInvalidSettings)
	}
	if s.NumberOfPeriods <= 0 {
		return 0, 0, fmt.Errorf("%w: number of periods must be positive", ErrInvalidSettings)
	}
	return start, end, nil
}

func enabledBreaks(breaks models.BreakTimes) ([]pendingBreak, error) {
	pending := make([]pendingBreak, 0, len(breaks))
	for _, b := range breaks {
		if !b.Enabled {
			continue
		}
		name := strings.TrimSpace(b.Name)
		start, err := ParseClock(b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: break %q start: %v", ErrInvalidSettings, name, err)
		}
		end, err := ParseClock(b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: break %q end: %v", ErrInvalidSettings, name, err)
		}
		if start >= end {
			return nil, fmt.Errorf("%w: break %q must start before it ends", ErrInvalidSettings, name)
		}
		pending = append(pending, pendingBreak{name: name, start: start, end: end})
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].start < pending[j].start })
	return pending, nil
}
