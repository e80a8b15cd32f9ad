package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(n int) Report {
	r := Report{
		Title:       "Running Cases",
		Subtitle:    "search: khan",
		GeneratedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	for i := 0; i < n; i++ {
		r.Cases = append(r.Cases, model.Case{
			CaseNo:     "C-" + strings.Repeat("1", i%3+1),
			Court:      "District Judge Court, a very long court name that needs trimming",
			FirstParty: "Rahim & Sons",
			FixedFor:   "2024-05-10",
			Status:     model.StatusRunning,
		})
	}
	return r
}

func TestRow(t *testing.T) {
	row := Row(model.Case{CaseNo: "C-9", FixedFor: "2024-05-10T00:00:00.000Z", Status: model.StatusPending})
	require.Len(t, row, len(Columns))
	assert.Equal(t, "C-9", row[0])
	assert.Equal(t, "10 May 2024", row[7])
	assert.Equal(t, "Pending", row[8])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleReport(2)))
	out := buf.String()

	assert.Contains(t, out, "<title>Running Cases</title>")
	assert.Contains(t, out, "01 May 2024 09:30")
	assert.Contains(t, out, "Law &amp; Section")
	assert.Contains(t, out, "Rahim &amp; Sons")
	assert.Equal(t, 2, strings.Count(out, "<td>Running</td>"))
}

func TestWriteHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Report{}))
	assert.Contains(t, buf.String(), "No cases found.")
	assert.Contains(t, buf.String(), "<title>Cases</title>")
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.pdf")
	require.NoError(t, WritePDF(path, sampleReport(60)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestColumnWidths(t *testing.T) {
	var sum float64
	for _, w := range columnWidths(277) {
		sum += w
	}
	assert.InDelta(t, 277, sum, 0.001)
}
