package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []string
	}{
		{"single page", 1, 1, []string{"1"}},
		{"flat at threshold", 4, 5, []string{"1", "2", "3", "4", "5"}},
		{"first page of ten", 1, 10, []string{"1", "2", "3", "...", "10"}},
		{"third page of ten", 3, 10, []string{"1", "2", "3", "...", "10"}},
		{"last page of ten", 10, 10, []string{"1", "...", "8", "9", "10"}},
		{"third from last", 8, 10, []string{"1", "...", "8", "9", "10"}},
		{"middle of ten", 6, 10, []string{"1", "...", "5", "6", "7", "...", "10"}},
		{"fourth of six is near end", 4, 6, []string{"1", "...", "4", "5", "6"}},
		{"out of range clamps", 42, 10, []string{"1", "...", "8", "9", "10"}},
		{"no pages", 1, 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Labels(PageWindow(tt.current, tt.total)))
		})
	}
}

func TestPageWindowFlatForSmallTotals(t *testing.T) {
	for total := 1; total <= 5; total++ {
		for current := 1; current <= total; current++ {
			links := PageWindow(current, total)
			assert.Len(t, links, total)
			for i, l := range links {
				assert.False(t, l.Gap)
				assert.Equal(t, i+1, l.Number)
			}
		}
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "1 ... 5 [6] 7 ... 10", Render(6, 10))
	assert.Equal(t, "[1] 2", Render(1, 2))
	assert.Equal(t, "", Render(1, 0))
}

func TestLocationRoundTrip(t *testing.T) {
	loc, err := ParseLocation("/cases/all?page=2&search=khan")
	assert.NoError(t, err)
	assert.Equal(t, Location{Path: "/cases/all", Page: 2, Search: "khan"}, loc)
	assert.Equal(t, "/cases/all?page=2&search=khan", loc.String())

	assert.Equal(t, "/cases/all", Location{Path: "/cases/all", Page: 1}.String())
	assert.Equal(t, "/cases/all?search=a+b", Location{Path: "/cases/all", Page: 1, Search: "a b"}.String())

	bad, err := ParseLocation("/cases/all?page=zero")
	assert.NoError(t, err)
	assert.Equal(t, 1, bad.Page)
}
