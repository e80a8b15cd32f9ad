package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/dashboard"
	"github.com/Ashfaaq98/docket-console/internal/listview"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/Ashfaaq98/docket-console/internal/store"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestPageWindowText(t *testing.T) {
	assert.Equal(t, "", pageWindowText(1, 0, 0))
	assert.Equal(t, "Page 2 of 3: 1 [2] 3 (20 cases)", pageWindowText(2, 3, 20))
	assert.Equal(t, "Page 5 of 10: 1 ... 4 [5] 6 ... 10", pageWindowText(5, 10, 0))
}

func TestResolvePathRelativeToBase(t *testing.T) {
	base := filepath.Join("/srv", "docket")
	assert.Equal(t, filepath.Join(base, "data", "state.db"), resolvePathRelativeToBase(base, "./data/state.db"))
	assert.Equal(t, "/var/lib/state.db", resolvePathRelativeToBase(base, "/var/lib/state.db"))
	assert.Equal(t, ":memory:", resolvePathRelativeToBase(base, ":memory:"))
	assert.Equal(t, "", resolvePathRelativeToBase(base, ""))
}

func TestPrintCases(t *testing.T) {
	var buf bytes.Buffer
	printCases(&buf, "Running Cases", 1, listview.Result[model.Case]{
		Items:      []model.Case{{ID: "c1", CaseNo: "CR-12/2024", Court: "District Court", Status: model.StatusRunning}},
		TotalPages: 1,
		Total:      1,
	})
	out := buf.String()
	assert.Contains(t, out, "Running Cases")
	assert.Contains(t, out, "1. CR-12/2024  Running")
	assert.Contains(t, out, "District Court")
	assert.Contains(t, out, "Page 1 of 1: [1] (1 cases)")

	buf.Reset()
	printCases(&buf, "All Cases", 1, listview.Result[model.Case]{})
	assert.Contains(t, buf.String(), "No cases found.")
}

func TestPrintReadingsCountsFailures(t *testing.T) {
	var buf bytes.Buffer
	failed := printReadings(&buf, []dashboard.Reading{
		{Card: dashboard.Card{Title: "All Cases"}, Count: 42},
		{Card: dashboard.Card{Title: "All Notes"}, Err: errors.New("timeout")},
	})
	assert.Equal(t, 1, failed)
	assert.Contains(t, buf.String(), "42")
	assert.Contains(t, buf.String(), dashboard.Placeholder+"  timeout")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	assert.Equal(t, "No changes recorded.\n", buf.String())

	buf.Reset()
	printHistory(&buf, []store.AuditEntry{{
		Entity: "case", Action: "delete", Outcome: store.OutcomeFailure, Actor: "rahim",
		RecordID: "c9", Details: map[string]string{"status": "500", "error": "boom"},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local),
	}})
	out := buf.String()
	assert.Contains(t, out, "2024-05-01 10:00:00")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "c9")
	assert.Contains(t, out, "error=boom status=500")
}

func TestExportSubtitle(t *testing.T) {
	assert.Equal(t, "", exportSubtitle(listview.Query{}))
	q := listview.Query{Search: "khan", Filters: listview.Filters{Company: "Acme Ltd"}}
	assert.Equal(t, "search: khan  company: Acme Ltd", exportSubtitle(q))
}
