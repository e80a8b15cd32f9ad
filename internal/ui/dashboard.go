package ui

import (
	"fmt"

	"github.com/Ashfaaq98/docket-console/internal/dashboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const dashboardColumns = 4

// dashboardScreen shows the counter cards, each refreshed on its own.
type dashboardScreen struct {
	ui     *UI
	grid   *tview.Grid
	cards  []*tview.TextView
	poller *dashboard.Poller
}

func newDashboardScreen(ui *UI) *dashboardScreen {
	s := &dashboardScreen{ui: ui}
	s.poller = dashboard.NewPoller(ui.api, dashboard.DefaultCards(), ui.opts.PollInterval, ui.logger)
	cards := s.poller.Cards()

	rows := (len(cards) + dashboardColumns - 1) / dashboardColumns
	rowSizes := make([]int, rows)
	colSizes := make([]int, dashboardColumns)
	s.grid = tview.NewGrid().SetRows(rowSizes...).SetColumns(colSizes...).SetGap(1, 2)
	s.grid.SetBorder(true)
	s.grid.SetTitle(" Dashboard ")
	s.grid.SetTitleAlign(tview.AlignLeft)
	s.grid.SetInputCapture(s.handleKey)

	for i, c := range cards {
		tv := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
		tv.SetBorder(true)
		tv.SetTitle(fmt.Sprintf(" %d ", i+1))
		s.cards = append(s.cards, tv)
		s.grid.AddItem(tv, i/dashboardColumns, i%dashboardColumns, 1, 1, 0, 0, false)
		s.renderCard(i, c)
	}

	s.poller.OnUpdate(func(c dashboard.Card, _ int) {
		ui.update(func() {
			for i, card := range s.poller.Cards() {
				if card.Title == c.Title {
					s.renderCard(i, card)
				}
			}
		})
	})
	s.poller.Start(ui.ctx)
	return s
}

func (s *dashboardScreen) primitive() tview.Primitive   { return s.grid }
func (s *dashboardScreen) focusTarget() tview.Primitive { return s.grid }
func (s *dashboardScreen) title() string                { return "Dashboard" }

// close stops polling. Stop waits for in-flight polls whose callbacks
// queue UI updates, so it must not block the UI goroutine.
func (s *dashboardScreen) close() { go s.poller.Stop() }

func (s *dashboardScreen) applyTheme() {
	t := s.ui.theme
	s.grid.SetBackgroundColor(t.Surface)
	s.grid.SetBordersColor(t.Border)
	s.grid.SetBorderColor(t.Border)
	s.grid.SetTitleColor(t.Accent)
	for i, c := range s.poller.Cards() {
		s.cards[i].SetBackgroundColor(t.Surface)
		s.cards[i].SetBorderColor(t.Border)
		s.cards[i].SetTitleColor(t.TextMuted)
		s.renderCard(i, c)
	}
}

func (s *dashboardScreen) renderCard(i int, c dashboard.Card) {
	t := s.ui.theme
	value := s.poller.Display(c.Title)
	tag := t.TagAccent
	if value == dashboard.Placeholder {
		tag = t.TagMuted
	}
	s.cards[i].SetText(fmt.Sprintf("\n[%s::b]%s[-::-]\n\n[%s]%s[-]", tag, value, t.TagTextPrimary, c.Title))
}

func (s *dashboardScreen) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	r := ev.Rune()
	if r < '1' || r > '9' {
		return ev
	}
	cards := s.poller.Cards()
	i := int(r - '1')
	if i >= len(cards) || cards[i].Route == "" {
		return nil
	}
	if err := s.ui.Navigate(cards[i].Route); err != nil {
		s.ui.notifyError("Navigation failed", err)
	}
	return nil
}
