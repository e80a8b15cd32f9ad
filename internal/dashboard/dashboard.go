// Package dashboard polls the backend counters shown on the home screen.
package dashboard

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Placeholder is shown for a card until its first successful poll.
const Placeholder = "..."

const DefaultInterval = 10 * time.Second

// Card is one counter on the dashboard.
type Card struct {
	Title    string
	Endpoint string
	// Route is the list the card opens, if any.
	Route string
}

// DefaultCards returns the eight home screen counters.
func DefaultCards() []Card {
	return []Card{
		{Title: "All Cases", Endpoint: "all-cases-count", Route: "/cases/all"},
		{Title: "Running Cases", Endpoint: "running-cases-count", Route: "/cases/running"},
		{Title: "Today's Cases", Endpoint: "todays-cases-count", Route: "/cases/today"},
		{Title: "Tomorrow's Cases", Endpoint: "tomorrows-cases-count", Route: "/cases/tomorrow"},
		{Title: "Complete Cases", Endpoint: "completed-cases-count", Route: "/cases/completed"},
		{Title: "All Notes", Endpoint: "all-notes-count", Route: "/notes"},
		{Title: "Today's Notes", Endpoint: "todays-notes-count", Route: "/notes"},
		{Title: "Not Updated Cases", Endpoint: "pending-cases-count", Route: "/cases/pending"},
	}
}

// Counter reads one counter.
type Counter interface {
	Count(ctx context.Context, endpoint string) (int, error)
}

// Poller refreshes every card on its own ticker. Cards do not coordinate:
// a failing card keeps its last value (or the placeholder) and the failure
// is only logged.
type Poller struct {
	counter  Counter
	cards    []Card
	interval time.Duration
	logger   *zap.SugaredLogger

	mu       sync.RWMutex
	counts   map[string]int
	onUpdate func(Card, int)

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewPoller(counter Counter, cards []Card, interval time.Duration, logger *zap.SugaredLogger) *Poller {
	if len(cards) == 0 {
		cards = DefaultCards()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Poller{
		counter:  counter,
		cards:    cards,
		interval: interval,
		logger:   logger,
		counts:   make(map[string]int),
	}
}

// OnUpdate registers a callback run after each successful poll. It is
// called from poller goroutines.
func (p *Poller) OnUpdate(fn func(Card, int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = fn
}

func (p *Poller) Cards() []Card { return p.cards }

// Start launches one goroutine per card. Each polls immediately and then
// every interval until ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.mu.Unlock()

	for _, card := range p.cards {
		p.wg.Add(1)
		go p.run(ctx, card)
	}
}

// Stop cancels every card's ticker and waits for them to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context, card Card) {
	defer p.wg.Done()

	p.poll(ctx, card)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, card)
		}
	}
}

func (p *Poller) poll(ctx context.Context, card Card) {
	n, err := p.counter.Count(ctx, card.Endpoint)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warnw("dashboard poll failed", "card", card.Title, "endpoint", card.Endpoint, "error", err)
		}
		return
	}
	p.mu.Lock()
	p.counts[card.Title] = n
	fn := p.onUpdate
	p.mu.Unlock()
	if fn != nil {
		fn(card, n)
	}
}

// Count returns the last polled value of a card.
func (p *Poller) Count(title string) (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n, ok := p.counts[title]
	return n, ok
}

// Display returns the card value as text, or Placeholder before the first
// successful poll.
func (p *Poller) Display(title string) string {
	if n, ok := p.Count(title); ok {
		return strconv.Itoa(n)
	}
	return Placeholder
}

// Reading is one card's value from a one-shot Snapshot.
type Reading struct {
	Card  Card
	Count int
	Err   error
}

// Snapshot reads every card once, concurrently, preserving card order.
func Snapshot(ctx context.Context, counter Counter, cards []Card) []Reading {
	if len(cards) == 0 {
		cards = DefaultCards()
	}
	out := make([]Reading, len(cards))
	var wg sync.WaitGroup
	for i, card := range cards {
		wg.Add(1)
		go func(i int, card Card) {
			defer wg.Done()
			n, err := counter.Count(ctx, card.Endpoint)
			out[i] = Reading{Card: card, Count: n, Err: err}
		}(i, card)
	}
	wg.Wait()
	return out
}
