// Package export renders a weekly timetable grid into downloadable documents.
package export

import "fmt"

const (
	ContentTypeCSV = "text/csv"
	ContentTypePDF = "application/pdf"
)

// Row is one line of the grid. Banner rows (breaks) carry a single label spanning every day column.
type Row struct {
	Label  string
	Cells  []string
	Banner string
}

// Table is a timetable laid out as time rows by day columns.
type Table struct {
	Title   string
	Headers []string
	Rows    []Row
}

func (t Table) validate() error {
	if len(t.Headers) < 2 {
		return fmt.Errorf("table requires a label header and at least one column")
	}
	for i, row := range t.Rows {
		if row.Banner == "" && len(row.Cells) != len(t.Headers)-1 {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row.Cells), len(t.Headers)-1)
		}
	}
	return nil
}

// Renderer turns a Table into bytes of a fixed content type.
type Renderer interface {
	Render(Table) ([]byte, error)
	ContentType() string
	Extension() string
}
