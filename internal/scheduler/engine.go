package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/faculty-timetable-api/internal/models"
)

// Week is the fixed teaching week in grid order.
var Week = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// CanonicalDay maps a case-insensitive day name onto its Week spelling.
func CanonicalDay(day string) (string, bool) {
	trimmed := strings.TrimSpace(day)
	for _, d := range Week {
		if strings.EqualFold(d, trimmed) {
			return d, true
		}
	}
	return "", false
}

// Slot is a filled timetable cell.
type Slot struct {
	SubjectName string `json:"subjectName"`
	FacultyName string `json:"facultyName"`
	FacultyID   string `json:"facultyId"`
}

// Grid maps day -> period number -> slot. A nil slot is an unfilled cell.
type Grid map[string]map[int]*Slot

// Cells counts every cell in the grid.
func (g Grid) Cells() int {
	n := 0
	for _, periods := range g {
		n += len(periods)
	}
	return n
}

type occupancyKey struct {
	facultyID string
	day       string
	period    int
}

// Occupancy records which faculty member is committed to which (day, period) cell during
// one generation run. It is not safe for concurrent use.
type Occupancy struct {
	claimed map[occupancyKey]string
}

// NewOccupancy returns an empty occupancy set.
func NewOccupancy() *Occupancy {
	return &Occupancy{claimed: make(map[occupancyKey]string)}
}

// Claimed reports whether facultyID is already placed at (day, period) and for which department.
func (o *Occupancy) Claimed(facultyID, day string, period int) (string, bool) {
	dept, ok := o.claimed[occupancyKey{facultyID, day, period}]
	return dept, ok
}

// Claim marks facultyID as placed at (day, period) for departmentID.
func (o *Occupancy) Claim(facultyID, day string, period int, departmentID string) {
	o.claimed[occupancyKey{facultyID, day, period}] = departmentID
}

// Len is the number of claimed keys.
func (o *Occupancy) Len() int { return len(o.claimed) }

// NormalizeAvailability canonicalises day names, checks every period against
// numberOfPeriods and collapses duplicates into sorted sets. Days are returned in Week order.
func NormalizeAvailability(av models.Availability, numberOfPeriods int) (models.Availability, error) {
	byDay := make(map[string]map[int]struct{}, len(av))
	for _, entry := range av {
		day, ok := CanonicalDay(entry.Day)
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidAvailability, entry.Day)
		}
		set, exists := byDay[day]
		if !exists {
			set = make(map[int]struct{}, len(entry.Periods))
			byDay[day] = set
		}
		for _, p := range entry.Periods {
			if p < 1 || p > numberOfPeriods {
				return nil, fmt.Errorf("%w: period %d on %s outside 1..%d", ErrInvalidAvailability, p, day, numberOfPeriods)
			}
			set[p] = struct{}{}
		}
	}

	out := make(models.Availability, 0, len(byDay))
	for _, day := range Week {
		set, ok := byDay[day]
		if !ok {
			continue
		}
		periods := make([]int, 0, len(set))
		for p := range set {
			periods = append(periods, p)
		}
		sort.Ints(periods)
		out = append(out, models.DayAvailability{Day: day, Periods: periods})
	}
	return out, nil
}

// Result is the outcome of one department's assignment.
type Result struct {
	DepartmentID string `json:"departmentId"`
	Grid         Grid   `json:"timetable"`
	Filled       int    `json:"filledCells"`
	Unfilled     int    `json:"unfilledCells"`
}

type candidate struct {
	faculty models.Faculty
	cells   map[string]map[int]struct{}
}

// Assign fills departmentID's grid from roster in day then period order. Each cell takes
// the first faculty member in roster order who is available and not already claimed in occ
// for that cell. Cells without a candidate stay nil. A nil occ starts a fresh run.
func Assign(departmentID string, roster []models.Faculty, layout Layout, occ *Occupancy) (*Result, error) {
	if occ == nil {
		occ = NewOccupancy()
	}

	candidates := make([]candidate, 0, len(roster))
	for _, f := range roster {
		if f.DepartmentID != departmentID {
			continue
		}
		av, err := NormalizeAvailability(f.Availability, layout.Requested)
		if err != nil {
			return nil, fmt.Errorf("faculty %s: %w", f.ID, err)
		}
		cells := make(map[string]map[int]struct{}, len(av))
		for _, d := range av {
			set := make(map[int]struct{}, len(d.Periods))
			for _, p := range d.Periods {
				set[p] = struct{}{}
			}
			cells[d.Day] = set
		}
		candidates = append(candidates, candidate{faculty: f, cells: cells})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFaculty, departmentID)
	}

	periods := layout.Periods()
	result := &Result{DepartmentID: departmentID, Grid: make(Grid, len(Week))}
	for _, day := range Week {
		row := make(map[int]*Slot, len(periods))
		for _, p := range periods {
			row[p.PeriodNumber] = pick(candidates, occ, departmentID, day, p.PeriodNumber)
			if row[p.PeriodNumber] == nil {
				result.Unfilled++
			} else {
				result.Filled++
			}
		}
		result.Grid[day] = row
	}
	return result, nil
}

func pick(candidates []candidate, occ *Occupancy, departmentID, day string, period int) *Slot {
	for _, c := range candidates {
		if _, ok := c.cells[day][period]; !ok {
			continue
		}
		if _, taken := occ.Claimed(c.faculty.ID, day, period); taken {
			continue
		}
		occ.Claim(c.faculty.ID, day, period, departmentID)
		return &Slot{
			SubjectName: c.faculty.SubjectName,
			FacultyName: c.faculty.Name,
			FacultyID:   c.faculty.ID,
		}
	}
	return nil
}
