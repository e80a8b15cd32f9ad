package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/dashboard"
	"github.com/Ashfaaq98/docket-console/internal/listview"
	"github.com/Ashfaaq98/docket-console/internal/lookup"
	"github.com/Ashfaaq98/docket-console/internal/notes"
	"github.com/Ashfaaq98/docket-console/internal/store"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const appName = "Docket Console"

// Deps are the services the console drives. Store and Bus may be nil.
type Deps struct {
	API     *api.Client
	Lookups *lookup.Service
	Notes   *notes.Service
	Store   *store.Store
	Bus     bus.Bus
	Logger  *zap.SugaredLogger
}

// Options tune the console.
type Options struct {
	Theme         string
	PageSize      int
	PollInterval  time.Duration
	StartLocation string
	// ExportDir receives files written by the export action.
	ExportDir string
}

// screen is one routed view mounted in the main panel.
type screen interface {
	primitive() tview.Primitive
	focusTarget() tview.Primitive
	title() string
	applyTheme()
	close()
}

// UI represents the terminal user interface
type UI struct {
	app     *tview.Application
	api     *api.Client
	lookups *lookup.Service
	notes   *notes.Service
	store   *store.Store
	bus     bus.Bus
	logger  *zap.SugaredLogger
	opts    Options

	// Layout components
	layout    *tview.Flex
	appTitle  *tview.TextView
	sidebar   *tview.List
	main      *tview.Pages
	statusBar *tview.TextView

	// Theme state
	theme     Theme
	themeName string

	// Navigation
	location string
	active   screen
	lastList string // location of the most recent case list

	// Runtime
	running    bool
	helpActive bool
	lastFocus  tview.Primitive
	statusSeq  int

	globalInputCapture func(*tcell.EventKey) *tcell.EventKey

	// dispatch runs network work off the UI goroutine.
	dispatch func(func())
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

type navItem struct {
	label    string
	location string
	shortcut rune
}

var navItems = []navItem{
	{"Dashboard", "/", 'h'},
	{"All Cases", "/cases/all", 0},
	{"Running Cases", "/cases/running", 0},
	{"Today's Cases", "/cases/today", 0},
	{"Tomorrow's Cases", "/cases/tomorrow", 0},
	{"Completed Cases", "/cases/completed", 0},
	{"Not Updated Cases", "/cases/pending", 0},
	{"Add Case", "/cases/add", 0},
	{"Notes", "/notes", 0},
	{"Courts", lookup.Court.Route, 0},
	{"Case Types", lookup.CaseType.Route, 0},
	{"Police Stations", lookup.PoliceStation.Route, 0},
	{"Companies", lookup.Company.Route, 0},
}

// NewUI builds the console. Nothing is fetched until Start or Navigate.
func NewUI(ctx context.Context, deps Deps, opts Options) *UI {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Bus == nil {
		deps.Bus = bus.NewNullBus(deps.Logger)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = listview.DefaultPageSize
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = dashboard.DefaultInterval
	}
	if opts.StartLocation == "" {
		opts.StartLocation = "/"
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	uiCtx, cancel := context.WithCancel(ctx)
	ui := &UI{
		app:      tview.NewApplication(),
		api:      deps.API,
		lookups:  deps.Lookups,
		notes:    deps.Notes,
		store:    deps.Store,
		bus:      deps.Bus,
		logger:   deps.Logger,
		opts:     opts,
		dispatch: func(f func()) { go f() },
		now:      time.Now,
		ctx:      uiCtx,
		cancel:   cancel,
	}
	ui.theme, ui.themeName = themeByName(opts.Theme)

	ui.setupLayout()
	ui.setupKeybindings()
	ui.applyTheme()
	return ui
}

// Start opens the start location (or the last one saved) and runs the
// application until it is stopped or ctx is done.
func (ui *UI) Start(ctx context.Context) error {
	ui.logger.Infow("starting console", "location", ui.opts.StartLocation)

	start := ui.opts.StartLocation
	if start == "/" && ui.store != nil {
		if last, err := ui.store.LastLocation(ui.ctx); err == nil && last != "" {
			start = last
		}
	}
	// Updates queued before Run are drained once the event loop starts.
	ui.running = true
	if err := ui.Navigate(start); err != nil {
		ui.logger.Warnw("start location rejected", "location", start, "error", err)
		_ = ui.Navigate("/")
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-ui.ctx.Done():
		}
		ui.cancel()
		ui.app.Stop()
	}()

	err := ui.app.Run()
	ui.running = false
	if ui.active != nil {
		ui.active.close()
	}
	ui.logger.Infow("console stopped", "error", err)
	return err
}

// Stop stops the TUI application
func (ui *UI) Stop() {
	ui.running = false
	ui.cancel()
	ui.app.Stop()
}

// Location returns the address of the current view.
func (ui *UI) Location() string { return ui.location }

// SetTheme switches to the named theme (used by config hot reload).
func (ui *UI) SetTheme(name string) {
	ui.update(func() { ui.setTheme(name) })
}

// update runs fn on the UI goroutine when the application is running and
// directly otherwise.
func (ui *UI) update(fn func()) {
	if ui.running {
		ui.app.QueueUpdateDraw(fn)
		return
	}
	fn()
}

func (ui *UI) setupLayout() {
	ui.appTitle = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	ui.sidebar = tview.NewList()
	ui.sidebar.SetTitle(" Navigate ")
	ui.sidebar.SetBorder(true)
	ui.sidebar.SetTitleAlign(tview.AlignLeft)
	ui.sidebar.ShowSecondaryText(false)
	for _, item := range navItems {
		loc := item.location
		ui.sidebar.AddItem(item.label, loc, item.shortcut, func() {
			if err := ui.Navigate(loc); err != nil {
				ui.notifyError("Navigation failed", err)
			}
		})
	}

	ui.main = tview.NewPages()

	ui.statusBar = tview.NewTextView()
	ui.statusBar.SetDynamicColors(true)

	leftCol := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.appTitle, 1, 0, false).
		AddItem(ui.sidebar, 0, 1, true)

	ui.layout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(leftCol, 26, 0, true).
		AddItem(ui.main, 0, 1, false)

	ui.restoreMainLayout()
	ui.app.SetFocus(ui.sidebar)
}

func (ui *UI) setupKeybindings() {
	ui.globalInputCapture = func(ev *tcell.EventKey) *tcell.EventKey {
		if ui.isDialogActive() {
			return ev
		}
		switch ev.Key() {
		case tcell.KeyTab:
			ui.cycleFocus()
			return nil
		case tcell.KeyEsc:
			ui.app.SetFocus(ui.sidebar)
			ui.highlightFocus(ui.sidebar)
			return nil
		case tcell.KeyCtrlC:
			ui.Stop()
			return nil
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				ui.Stop()
				return nil
			case ':':
				ui.showGotoPrompt()
				return nil
			case 't':
				ui.cycleTheme()
				return nil
			case '?':
				ui.showHelp()
				return nil
			}
		}
		return ev
	}
	ui.app.SetInputCapture(ui.globalInputCapture)
}

// Navigate opens location through the route table. A bare list path
// reopens the page and search last used for that list.
func (ui *UI) Navigate(location string) error {
	loc, err := listview.ParseLocation(location)
	if err != nil {
		return err
	}
	r, params, ok := matchRoute(loc.Path)
	if !ok {
		return fmt.Errorf("no view at %q", loc.Path)
	}

	target := location
	if r.list && !strings.Contains(location, "?") && ui.store != nil {
		if saved, err := ui.store.LoadLocation(ui.ctx, loc.Path); err == nil && saved != "" {
			target = saved
		}
	}

	next, err := r.build(ui, params, target)
	if err != nil {
		return err
	}
	if ui.active != nil {
		ui.active.close()
	}
	ui.active = next
	ui.main.AddAndSwitchToPage("main", next.primitive(), true)
	next.applyTheme()
	ui.selectNav(loc.Path)
	if r.list {
		ui.lastList = target
	}
	ui.setLocation(target)
	ui.app.SetFocus(next.focusTarget())
	ui.highlightFocus(next.focusTarget())
	ui.setStatusDirect("[%s]%s[-]", ui.theme.TagAccent, next.title())
	return nil
}

// setLocation records the current address and persists it.
func (ui *UI) setLocation(location string) {
	if location == ui.location {
		return
	}
	ui.location = location
	ui.refreshTitle()
	if ui.store == nil {
		return
	}
	loc, err := listview.ParseLocation(location)
	if err != nil {
		return
	}
	if err := ui.store.SaveLocation(ui.ctx, loc.Path, location); err != nil {
		ui.logger.Warnw("failed to save location", "location", location, "error", err)
	}
}

func (ui *UI) selectNav(path string) {
	for i, item := range navItems {
		if item.location == path {
			ui.sidebar.SetCurrentItem(i)
			return
		}
	}
}

// back returns to the last case list, or the dashboard.
func (ui *UI) back() {
	target := ui.lastList
	if target == "" {
		target = "/"
	}
	if err := ui.Navigate(target); err != nil {
		ui.notifyError("Navigation failed", err)
	}
}

// HandleChange reacts to a mutation made elsewhere (another console or an import).
func (ui *UI) HandleChange(msg bus.ChangeMessage) {
	ui.update(func() {
		if msg.Entity != "case" && msg.Entity != "note" {
			if k, err := lookup.ParseKind(msg.Entity); err == nil && ui.lookups != nil {
				ui.lookups.Invalidate(ui.ctx, k)
			}
		}
		if r, ok := ui.active.(interface{ remoteChange(bus.ChangeMessage) }); ok {
			r.remoteChange(msg)
		}
		ui.setStatusDirect("[%s]change received: %s %s[-]", ui.theme.TagMuted, msg.Entity, msg.Action)
	})
}

// recordChange journals a mutation locally and, when it succeeded,
// announces it on the change feed.
func (ui *UI) recordChange(entity, action, recordID string, err error) {
	entry := store.AuditEntry{Entity: entity, RecordID: recordID, Action: action, Outcome: store.OutcomeSuccess}
	if err != nil {
		entry.Outcome = store.OutcomeFailure
		entry.Details = map[string]string{"error": err.Error()}
	}
	if ui.store != nil {
		if jerr := ui.store.AddAuditEntry(ui.ctx, entry); jerr != nil {
			ui.logger.Warnw("failed to journal change", "entity", entity, "error", jerr)
		}
	}
	if err != nil {
		return
	}
	if perr := ui.bus.PublishChange(ui.ctx, bus.ChangeMessage{Entity: entity, Action: action, RecordID: recordID}); perr != nil {
		ui.logger.Debugw("change publish failed", "error", perr)
	}
}

// showModal displays a modal dialog
func (ui *UI) showModal(title, text string) {
	modal := tview.NewModal()
	modal.SetText(text)
	modal.SetTitle(fmt.Sprintf(" %s ", title))
	modal.AddButtons([]string{"Close"})
	ui.styleModal(modal)
	modal.SetDoneFunc(func(int, string) {
		ui.restoreMainLayout()
	})
	ui.lastFocus = ui.app.GetFocus()
	ui.app.SetRoot(modal, true)
	ui.app.SetFocus(modal)
}

// confirm asks a yes/no question and runs onYes on confirmation.
func (ui *UI) confirm(title, text string, onYes func()) {
	modal := tview.NewModal()
	modal.SetText(text)
	modal.SetTitle(fmt.Sprintf(" %s ", title))
	modal.AddButtons([]string{"Cancel", "Confirm"})
	ui.styleModal(modal)
	modal.SetDoneFunc(func(_ int, label string) {
		ui.restoreMainLayout()
		if label == "Confirm" {
			onYes()
		}
	})
	ui.lastFocus = ui.app.GetFocus()
	ui.app.SetRoot(modal, true)
	ui.app.SetFocus(modal)
}

func (ui *UI) styleModal(modal *tview.Modal) {
	modal.SetBackgroundColor(ui.theme.Surface)
	modal.SetTextColor(ui.theme.TextPrimary)
	modal.SetBorderColor(ui.theme.FocusBorder)
	modal.SetButtonBackgroundColor(ui.theme.SelectionBg)
	modal.SetButtonTextColor(ui.theme.SelectionFg)
}

// showForm centers a bordered form over the layout.
func (ui *UI) showForm(form *tview.Form, width, height int) {
	ui.styleForm(form)
	centered := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
	form.SetCancelFunc(ui.restoreMainLayout)
	ui.lastFocus = ui.app.GetFocus()
	ui.app.SetRoot(centered, true)
	ui.app.SetFocus(form)
}

func (ui *UI) styleForm(form *tview.Form) {
	form.SetBorder(true)
	form.SetBackgroundColor(ui.theme.Surface)
	form.SetBorderColor(ui.theme.FocusBorder)
	form.SetTitleColor(ui.theme.Accent)
	form.SetLabelColor(ui.theme.TextPrimary)
	form.SetFieldBackgroundColor(ui.theme.SelectionBg)
	form.SetFieldTextColor(ui.theme.TextPrimary)
	form.SetButtonBackgroundColor(ui.theme.SelectionBg)
	form.SetButtonTextColor(ui.theme.SelectionFg)
}

// restoreMainLayout restores the main layout after closing a modal or form
func (ui *UI) restoreMainLayout() {
	ui.helpActive = false
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.layout, 0, 1, true).
		AddItem(ui.statusBar, 1, 0, false)
	ui.app.SetRoot(root, true)

	if ui.globalInputCapture != nil {
		ui.app.SetInputCapture(ui.globalInputCapture)
	}

	target := ui.lastFocus
	if target == nil {
		target = ui.sidebar
	}
	ui.app.SetFocus(target)
	ui.highlightFocus(target)
}

func (ui *UI) showGotoPrompt() {
	form := tview.NewForm()
	form.SetTitle(" Go to ")
	form.AddInputField("Location", ui.location, 48, nil, nil)
	form.AddButton("Open", func() {
		loc := strings.TrimSpace(form.GetFormItemByLabel("Location").(*tview.InputField).GetText())
		ui.restoreMainLayout()
		if err := ui.goTo(loc); err != nil {
			ui.notifyError("Cannot open "+loc, err)
		}
	})
	form.AddButton("Cancel", ui.restoreMainLayout)
	ui.showForm(form, 64, 7)
}

// goTo applies an explicitly typed location. When it addresses the list
// already on screen, the list is re-driven in place.
func (ui *UI) goTo(location string) error {
	loc, err := listview.ParseLocation(location)
	if err != nil {
		return err
	}
	if cl, ok := ui.active.(*caseListScreen); ok && cl.variant.Path == loc.Path {
		_, err := cl.ctrl.ApplyLocation(location)
		return err
	}
	return ui.Navigate(location)
}

func (ui *UI) showHelp() {
	help := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	help.SetBorder(true).SetTitle(" Help ")
	help.SetBackgroundColor(ui.theme.Surface)
	help.SetBorderColor(ui.theme.FocusBorder)
	help.SetText(fmt.Sprintf(`[%[1]s]Global[-]
  Tab      switch between navigation and view
  Esc      back to navigation
  :        go to a location, e.g. /cases/all?page=2&search=khan
  t        cycle theme
  q        quit

[%[1]s]Case lists[-]
  /        search            f  filters       x  clear filters
  [ ]      previous/next page                 r  refresh
  Enter    details           e  edit          c  mark complete
  d        delete            a  add date      p  export page

[%[1]s]Reference lists and notes[-]
  a  add    e/Enter  edit    d  delete

Press any key to close.`, ui.theme.TagAccent))
	help.SetInputCapture(func(*tcell.EventKey) *tcell.EventKey {
		ui.restoreMainLayout()
		return nil
	})
	ui.helpActive = true
	ui.lastFocus = ui.app.GetFocus()
	ui.app.SetRoot(help, true)
	ui.app.SetFocus(help)
}

func (ui *UI) cycleFocus() {
	if ui.app.GetFocus() == ui.sidebar && ui.active != nil {
		target := ui.active.focusTarget()
		ui.app.SetFocus(target)
		ui.highlightFocus(target)
		return
	}
	ui.app.SetFocus(ui.sidebar)
	ui.highlightFocus(ui.sidebar)
}

func (ui *UI) highlightFocus(focused tview.Primitive) {
	if focused == ui.sidebar {
		ui.sidebar.SetBorderColor(ui.theme.FocusBorder)
	} else {
		ui.sidebar.SetBorderColor(ui.theme.Border)
	}
}

// isDialogActive returns true when a dialog or text input is focused so
// global shortcuts do not steal keystrokes.
func (ui *UI) isDialogActive() bool {
	if ui.helpActive {
		return true
	}
	focused := ui.app.GetFocus()
	if focused == nil {
		return false
	}
	switch focused.(type) {
	case *tview.Form,
		*tview.Modal,
		*tview.InputField,
		*tview.TextArea,
		*tview.DropDown,
		*tview.Button:
		return true
	default:
		return false
	}
}

// notify shows a transient message; it is replaced by the key hints after
// a few seconds.
func (ui *UI) notify(tag, message string) {
	ui.setStatusDirect("[%s]%s[-]", tag, message)
	if !ui.running {
		return
	}
	ui.statusSeq++
	seq := ui.statusSeq
	time.AfterFunc(5*time.Second, func() {
		ui.app.QueueUpdateDraw(func() {
			if seq == ui.statusSeq {
				ui.setStatusDirect("")
			}
		})
	})
}

func (ui *UI) notifySuccess(message string) { ui.notify(ui.theme.TagSuccess, message) }

func (ui *UI) notifyError(message string, err error) {
	if err != nil {
		ui.logger.Warnw(message, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			message += ": " + apiErr.Message
		}
	}
	ui.notify(ui.theme.TagError, message)
}

// setStatusDirect updates the status bar. Call it from the UI goroutine.
func (ui *UI) setStatusDirect(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	statusText := fmt.Sprintf("[%s]%s[-] [%s]|[-] %s [%s]|[-] %s",
		ui.theme.TagMuted, ui.now().Format("15:04:05"),
		ui.theme.TagMuted,
		message,
		ui.theme.TagMuted,
		ui.shortcutHints())
	ui.statusBar.SetText(statusText)
}

// statusText returns the status bar without color tags.
func (ui *UI) statusText() string {
	return ui.statusBar.GetText(true)
}

func (ui *UI) shortcutHints() string {
	hint := func(k, v string) string {
		return fmt.Sprintf("[%s]%s[-]:%s", ui.theme.TagAccent, k, v)
	}
	parts := []string{hint("Tab", "focus"), hint(":", "go to"), hint("?", "help"), hint("q", "quit")}
	if _, ok := ui.active.(*caseListScreen); ok {
		parts = append([]string{hint("/", "search"), hint("[ ]", "page"), hint("e/c/d/a", "actions")}, parts...)
	}
	return strings.Join(parts, " ")
}

func (ui *UI) refreshTitle() {
	ui.appTitle.SetText(fmt.Sprintf(" [%s]%s[-] [%s]%s[-]", ui.theme.TagAccent, appName, ui.theme.TagMuted, ui.location))
}

// applyTheme pushes theme colors to widgets
func (ui *UI) applyTheme() {
	ui.sidebar.SetMainTextColor(ui.theme.TextPrimary)
	ui.sidebar.SetSecondaryTextColor(ui.theme.TextMuted)
	ui.sidebar.SetSelectedTextColor(ui.theme.SelectionFg)
	ui.sidebar.SetSelectedBackgroundColor(ui.theme.SelectionBg)
	ui.sidebar.SetShortcutColor(ui.theme.Accent)
	ui.sidebar.SetBorderColor(ui.theme.Border)
	ui.sidebar.SetBackgroundColor(ui.theme.Surface)

	ui.appTitle.SetBackgroundColor(ui.theme.Surface)
	ui.appTitle.SetTextColor(ui.theme.TextPrimary)
	ui.refreshTitle()

	ui.main.SetBackgroundColor(ui.theme.Surface)
	ui.statusBar.SetTextColor(ui.theme.TextPrimary)
	ui.statusBar.SetBackgroundColor(ui.theme.Surface)

	if ui.active != nil {
		ui.active.applyTheme()
	}
	ui.highlightFocus(ui.app.GetFocus())
}

func (ui *UI) cycleTheme() {
	ui.setTheme(nextThemeName(ui.themeName))
}

func (ui *UI) setTheme(name string) {
	ui.theme, ui.themeName = themeByName(name)
	ui.applyTheme()
	ui.setStatusDirect("[%s]Theme: %s[-]", ui.theme.TagAccent, ui.themeName)
}

// exportPath returns a file name in the export directory for the current
// list, e.g. cases-running-20240501-0930.pdf.
func (ui *UI) exportPath(name, ext string) string {
	file := fmt.Sprintf("cases-%s-%s.%s", name, ui.now().Format("20060102-1504"), ext)
	if err := os.MkdirAll(ui.opts.ExportDir, 0755); err != nil {
		ui.logger.Warnw("export directory", "error", err)
	}
	return filepath.Join(ui.opts.ExportDir, file)
}
