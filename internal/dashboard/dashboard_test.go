package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCards(t *testing.T) {
	cards := DefaultCards()
	require.Len(t, cards, 8)
	assert.Equal(t, "Not Updated Cases", cards[7].Title)
	assert.Equal(t, "pending-cases-count", cards[7].Endpoint)
}

// newBackend answers every counter with the length of its endpoint name.
func newBackend(t *testing.T, failing string) *api.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/dashboard/")
		if name == failing {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"count": len(name)})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := api.New(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestPollerIndependentCards(t *testing.T) {
	client := newBackend(t, "running-cases-count")
	p := NewPoller(client, nil, 20*time.Millisecond, nil)

	assert.Equal(t, Placeholder, p.Display("All Cases"))

	updates := make(chan Card, 64)
	p.OnUpdate(func(c Card, n int) {
		select {
		case updates <- c:
		default:
		}
	})

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		_, a := p.Count("All Cases")
		_, b := p.Count("Not Updated Cases")
		return a && b
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "15", p.Display("All Cases"))
	assert.Equal(t, Placeholder, p.Display("Running Cases"), "failing card keeps the placeholder")
	assert.NotEmpty(t, updates)
}

type countingCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingCounter) Count(ctx context.Context, endpoint string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[endpoint]++
	return c.calls[endpoint], nil
}

func (c *countingCounter) get(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[endpoint]
}

func TestPollerRepeatsAndStops(t *testing.T) {
	counter := &countingCounter{calls: map[string]int{}}
	cards := []Card{{Title: "All Notes", Endpoint: "all-notes-count"}}
	p := NewPoller(counter, cards, 10*time.Millisecond, nil)

	p.Start(context.Background())
	require.Eventually(t, func() bool { return counter.get("all-notes-count") >= 3 }, time.Second, 5*time.Millisecond)
	p.Stop()

	after := counter.get("all-notes-count")
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, counter.get("all-notes-count"))
}

func TestSnapshot(t *testing.T) {
	client := newBackend(t, "todays-notes-count")
	readings := Snapshot(context.Background(), client, nil)
	require.Len(t, readings, 8)
	assert.Equal(t, "All Cases", readings[0].Card.Title)
	assert.Equal(t, len("all-cases-count"), readings[0].Count)
	assert.Error(t, readings[6].Err)
}
