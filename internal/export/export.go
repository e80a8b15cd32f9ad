// Package export renders case lists for printing.
package export

import (
	"time"

	"github.com/Ashfaaq98/docket-console/internal/model"
)

// Column is one printed (and displayed) case column.
type Column struct {
	Header string
	Width  float64 // relative width in the PDF layout
	Value  func(model.Case) string
}

// Columns are the case list columns, in order.
var Columns = []Column{
	{Header: "Case No", Width: 1.1, Value: func(c model.Case) string { return c.CaseNo }},
	{Header: "Court", Width: 1.4, Value: func(c model.Case) string { return c.Court }},
	{Header: "Police Station", Width: 1.2, Value: func(c model.Case) string { return c.PoliceStation }},
	{Header: "1st Party", Width: 1.3, Value: func(c model.Case) string { return c.FirstParty }},
	{Header: "2nd Party", Width: 1.3, Value: func(c model.Case) string { return c.SecondParty }},
	{Header: "Appointed By", Width: 1.1, Value: func(c model.Case) string { return c.AppointedBy }},
	{Header: "Law & Section", Width: 1.2, Value: func(c model.Case) string { return c.LawSection }},
	{Header: "Fixed For", Width: 0.9, Value: func(c model.Case) string { return model.DisplayDate(c.FixedFor) }},
	{Header: "Status", Width: 0.8, Value: func(c model.Case) string { return string(c.Status) }},
}

// Report is a printable case list.
type Report struct {
	Title       string
	Subtitle    string // active search and filters, if any
	GeneratedAt time.Time
	Cases       []model.Case
}

func (r Report) generated() string {
	t := r.GeneratedAt
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("02 Jan 2006 15:04")
}

func (r Report) title() string {
	if r.Title == "" {
		return "Cases"
	}
	return r.Title
}

// Row returns the cell values of c in column order.
func Row(c model.Case) []string {
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = col.Value(c)
	}
	return row
}
