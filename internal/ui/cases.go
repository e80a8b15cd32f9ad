package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/export"
	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/listview"
	"github.com/Ashfaaq98/docket-console/internal/lookup"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const noCases = "No cases found."

// caseListScreen is one server-paginated case list variant.
type caseListScreen struct {
	ui      *UI
	variant listview.Variant
	ctrl    *listview.Controller[model.Case]

	root    *tview.Flex
	search  *tview.InputField
	filters *tview.TextView
	table   *tview.Table
	pager   *tview.TextView

	snap listview.Snapshot[model.Case]
}

func newCaseListScreen(ui *UI, v listview.Variant, location string) (*caseListScreen, error) {
	s := &caseListScreen{ui: ui, variant: v}
	s.ctrl = listview.New(ui.ctx, v.Path, listview.CaseFetcher(ui.api, v, ui.now), listview.Options{
		PageSize: ui.opts.PageSize,
		Dispatch: ui.dispatch,
		Logger:   ui.logger,
	})
	if err := s.ctrl.Seed(location); err != nil {
		return nil, err
	}
	s.snap = s.ctrl.Snapshot()

	s.search = tview.NewInputField().
		SetLabel("Search: ").
		SetText(s.snap.Query.Search)
	s.search.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			s.ctrl.SetSearch(strings.TrimSpace(s.search.GetText()))
		case tcell.KeyEsc:
			s.search.SetText(s.ctrl.Snapshot().Query.Search)
		}
		ui.app.SetFocus(s.table)
	})

	s.filters = tview.NewTextView().SetDynamicColors(true)

	s.table = tview.NewTable()
	s.table.SetBorder(true)
	s.table.SetTitle(fmt.Sprintf(" %s ", v.Title))
	s.table.SetTitleAlign(tview.AlignLeft)
	s.table.SetSelectable(true, false)
	s.table.SetFixed(1, 0)
	s.table.SetSelectedFunc(func(row, _ int) {
		if c, ok := s.caseAt(row); ok {
			s.openDetails(c)
		}
	})
	s.table.SetInputCapture(s.handleKey)

	s.pager = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)

	header := tview.NewFlex().
		AddItem(s.search, 0, 2, false).
		AddItem(s.filters, 0, 3, false)

	s.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(s.table, 0, 1, true).
		AddItem(s.pager, 1, 0, false)

	s.ctrl.OnChange(func(snap listview.Snapshot[model.Case]) {
		ui.update(func() { s.render(snap) })
	})
	s.render(s.snap)
	s.ctrl.Start()
	return s, nil
}

func (s *caseListScreen) primitive() tview.Primitive   { return s.root }
func (s *caseListScreen) focusTarget() tview.Primitive { return s.table }
func (s *caseListScreen) title() string                { return s.variant.Title }
func (s *caseListScreen) close()                       { s.ctrl.Close() }

func (s *caseListScreen) applyTheme() {
	t := s.ui.theme
	s.table.SetBackgroundColor(t.Surface)
	s.table.SetBorderColor(t.Border)
	s.table.SetTitleColor(t.Accent)
	s.table.SetSelectedStyle(tcell.StyleDefault.Background(t.SelectionBg).Foreground(t.SelectionFg))
	s.search.SetBackgroundColor(t.Surface)
	s.search.SetLabelColor(t.TextMuted)
	s.search.SetFieldBackgroundColor(t.SelectionBg)
	s.search.SetFieldTextColor(t.TextPrimary)
	s.filters.SetBackgroundColor(t.Surface)
	s.pager.SetBackgroundColor(t.Surface)
	s.render(s.snap)
}

func (s *caseListScreen) remoteChange(msg bus.ChangeMessage) {
	if msg.Entity == "case" {
		s.ctrl.Refetch()
	}
}

// render redraws the table from snap. Call it on the UI goroutine.
func (s *caseListScreen) render(snap listview.Snapshot[model.Case]) {
	// Listeners run outside the controller lock, so a finished older
	// request can arrive after the next one started.
	if snap.Seq < s.snap.Seq {
		return
	}
	s.snap = snap
	t := s.ui.theme

	if s.ui.app.GetFocus() != s.search {
		s.search.SetText(snap.Query.Search)
	}

	s.table.Clear()
	for col, c := range export.Columns {
		s.table.SetCell(0, col, tview.NewTableCell(c.Header).
			SetTextColor(t.TableHeader).
			SetBackgroundColor(t.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}

	switch {
	case len(snap.Items) > 0:
		for i, c := range snap.Items {
			bg := t.TableZebra1
			if i%2 == 1 {
				bg = t.TableZebra2
			}
			for col, v := range export.Row(c) {
				cell := tview.NewTableCell(tview.Escape(v)).
					SetTextColor(t.TableRow).
					SetBackgroundColor(bg).
					SetExpansion(1).
					SetReference(c.ID)
				if col == len(export.Columns)-1 {
					cell.SetTextColor(t.statusColor(c.Status))
				}
				s.table.SetCell(i+1, col, cell)
			}
		}
	case snap.State == listview.StateLoading || snap.State == listview.StateIdle:
		s.table.SetCell(1, 0, tview.NewTableCell("Loading...").SetTextColor(t.TableRowMuted).SetSelectable(false))
	case snap.State == listview.StateLoaded:
		s.table.SetCell(1, 0, tview.NewTableCell(noCases).SetTextColor(t.TableRowMuted).SetSelectable(false))
	}

	s.renderFilters(snap)
	s.renderPager(snap)

	if snap.State == listview.StateError && snap.Err != nil {
		s.ui.notifyError("Failed to load cases", snap.Err)
	}
	if snap.State == listview.StateLoaded {
		s.ui.setLocation(snap.Location)
	}
}

func (s *caseListScreen) renderFilters(snap listview.Snapshot[model.Case]) {
	t := s.ui.theme
	f := snap.Query.Filters
	if f.IsZero() {
		s.filters.SetText(fmt.Sprintf("[%s]f: filters[-]", t.TagMuted))
		return
	}
	s.filters.SetText(fmt.Sprintf("[%s]Filters:[-] %s [%s](x clears)[-]", t.TagWarning, describeFilters(f), t.TagMuted))
}

func describeFilters(f listview.Filters) string {
	var parts []string
	if f.StartDate != "" || f.EndDate != "" {
		parts = append(parts, fmt.Sprintf("%s..%s", f.StartDate, f.EndDate))
	}
	if f.Company != "" {
		parts = append(parts, "company="+f.Company)
	}
	return strings.Join(parts, " ")
}

func (s *caseListScreen) renderPager(snap listview.Snapshot[model.Case]) {
	t := s.ui.theme
	if snap.TotalPages <= 0 {
		s.pager.SetText("")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]<[-] ", t.TagMuted)
	for _, link := range listview.PageWindow(snap.Query.Page, snap.TotalPages) {
		switch {
		case link.Gap:
			fmt.Fprintf(&b, "[%s]...[-] ", t.TagMuted)
		case link.Number == snap.Query.Page:
			fmt.Fprintf(&b, "[%s::b][%d][-::-] ", t.TagAccent, link.Number)
		default:
			fmt.Fprintf(&b, "%d ", link.Number)
		}
	}
	fmt.Fprintf(&b, "[%s]>[-]", t.TagMuted)
	if snap.Total > 0 {
		fmt.Fprintf(&b, "  [%s]%d cases[-]", t.TagMuted, snap.Total)
	}
	if snap.State == listview.StateLoading {
		fmt.Fprintf(&b, "  [%s]loading[-]", t.TagWarning)
	}
	s.pager.SetText(b.String())
}

func (s *caseListScreen) caseAt(row int) (model.Case, bool) {
	if row < 1 || row-1 >= len(s.snap.Items) {
		return model.Case{}, false
	}
	return s.snap.Items[row-1], true
}

func (s *caseListScreen) selected() (model.Case, bool) {
	row, _ := s.table.GetSelection()
	return s.caseAt(row)
}

func (s *caseListScreen) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	switch ev.Rune() {
	case '/':
		s.ui.app.SetFocus(s.search)
	case ']', 'n':
		s.ctrl.NextPage()
	case '[', 'b':
		s.ctrl.PrevPage()
	case 'r':
		s.ctrl.Refetch()
	case 'f':
		s.showFilterForm()
	case 'x':
		s.ctrl.ClearFilters()
	case 'p':
		s.showExportForm()
	case 'e', 'c', 'd', 'a':
		c, ok := s.selected()
		if !ok {
			return nil
		}
		switch ev.Rune() {
		case 'e':
			s.showEditForm(c)
		case 'c':
			s.ui.confirm("Mark complete", fmt.Sprintf("Mark case %s as completed?", c.CaseNo), func() { s.markComplete(c) })
		case 'd':
			s.ui.confirm("Delete case", fmt.Sprintf("Delete case %s? This cannot be undone.", c.CaseNo), func() { s.deleteCase(c) })
		case 'a':
			s.showAddDateForm(c)
		}
	default:
		return ev
	}
	return nil
}

func (s *caseListScreen) openDetails(c model.Case) {
	if err := s.ui.Navigate("/cases/detail/" + c.ID); err != nil {
		s.ui.notifyError("Cannot open case", err)
	}
}

// mutate runs fn off the UI goroutine through the controller, which
// refetches once on success, and reports the outcome.
func (s *caseListScreen) mutate(action, recordID, ok, failed string, fn func(ctx context.Context) error) {
	s.ui.dispatch(func() {
		err := s.ctrl.Mutate(s.ui.ctx, fn)
		s.ui.recordChange("case", action, recordID, err)
		s.ui.update(func() {
			if err != nil {
				s.ui.notifyError(failed, err)
				return
			}
			s.ui.notifySuccess(ok)
		})
	})
}

func (s *caseListScreen) deleteCase(c model.Case) {
	s.mutate("delete", c.ID, "Case deleted", "Failed to delete", func(ctx context.Context) error {
		_, err := s.ui.api.DeleteCase(ctx, c.ID)
		return err
	})
}

func (s *caseListScreen) markComplete(c model.Case) {
	s.mutate("complete", c.ID, "Case marked as completed", "Failed to update", func(ctx context.Context) error {
		_, err := s.ui.api.PatchCase(ctx, c.ID, map[string]interface{}{"status": model.StatusCompleted})
		return err
	})
}

// updateCase sends only the edited fields; the rest of the document stays
// as the backend has it.
func (s *caseListScreen) updateCase(id string, fields map[string]interface{}) {
	s.mutate("update", id, "Case updated", "Failed to update", func(ctx context.Context) error {
		_, err := s.ui.api.PatchCase(ctx, id, fields)
		return err
	})
}

// addDate patches the row with the case the server returns instead of
// refetching the page. Without a returned document the case is re-read.
func (s *caseListScreen) addDate(c model.Case, date string) {
	s.ui.dispatch(func() {
		err := s.ctrl.MutateAndPatch(s.ui.ctx, func(ctx context.Context) (model.Case, error) {
			return addCaseDate(ctx, s.ui, c.ID, date)
		}, listview.SameCase(c.ID))
		s.ui.recordChange("case", "add_date", c.ID, err)
		s.ui.update(func() {
			if err != nil {
				s.ui.notifyError("Failed to add date", err)
				return
			}
			s.ui.notifySuccess("Date added")
		})
	})
}

func addCaseDate(ctx context.Context, ui *UI, id, date string) (model.Case, error) {
	updated, err := ui.api.AddCaseDate(ctx, id, date)
	if err != nil {
		return model.Case{}, err
	}
	if updated != nil {
		return *updated, nil
	}
	return ui.api.GetCase(ctx, id)
}

func (s *caseListScreen) showEditForm(c model.Case) {
	s.ui.showForm(s.editForm(c), 72, 11)
}

func (s *caseListScreen) editForm(c model.Case) *tview.Form {
	form := tview.NewForm()
	form.SetTitle(fmt.Sprintf(" Edit case %s ", c.CaseNo))
	form.AddInputField("Case No", c.CaseNo, 32, nil, nil)
	court := tview.NewDropDown().SetLabel("Court")
	form.AddFormItem(court)
	s.ui.loadDropDown(court, lookup.Court, false, c.Court)
	statuses := make([]string, len(model.Statuses))
	for i, st := range model.Statuses {
		statuses[i] = string(st)
	}
	statuses = dropDownOptions(statuses, false, string(c.Status))
	form.AddDropDown("Status", statuses, indexOf(statuses, string(c.Status)), nil)
	form.AddButton("Save", func() { s.saveEdit(form, c.ID) })
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	return form
}

// saveEdit patches the three fields the edit form owns.
func (s *caseListScreen) saveEdit(form *tview.Form, id string) {
	caseNo := strings.TrimSpace(formValue(form, "Case No"))
	court := formValue(form, "Court")
	invalid := false
	if caseNo == "" {
		s.ui.markField(form, "Case No", forms.MsgRequired)
		invalid = true
	}
	if court == "" {
		s.ui.markField(form, "Court", forms.MsgRequired)
		invalid = true
	}
	if invalid {
		return
	}
	s.ui.restoreMainLayout()
	s.updateCase(id, map[string]interface{}{
		"caseNo": caseNo,
		"court":  court,
		"status": formValue(form, "Status"),
	})
}

func (s *caseListScreen) showAddDateForm(c model.Case) {
	form := tview.NewForm()
	form.SetTitle(fmt.Sprintf(" Add date to %s ", c.CaseNo))
	form.AddInputField("Date (YYYY-MM-DD)", s.ui.now().Format("2006-01-02"), 12, nil, nil)
	form.AddButton("Add", func() {
		date := strings.TrimSpace(form.GetFormItemByLabel("Date (YYYY-MM-DD)").(*tview.InputField).GetText())
		if _, ok := model.ParseDate(date); !ok {
			s.ui.restoreMainLayout()
			s.ui.notifyError("Invalid date "+date, nil)
			return
		}
		s.ui.restoreMainLayout()
		s.addDate(c, date)
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 50, 7)
}

func (s *caseListScreen) showFilterForm() {
	s.ui.showForm(s.filterForm(), 56, 11)
}

func (s *caseListScreen) filterForm() *tview.Form {
	f := s.ctrl.Snapshot().Query.Filters

	form := tview.NewForm()
	form.SetTitle(" Filter cases ")
	form.AddInputField("Start date", f.StartDate, 12, nil, nil)
	form.AddInputField("End date", f.EndDate, 12, nil, nil)
	company := tview.NewDropDown().SetLabel("Company")
	form.AddFormItem(company)
	s.ui.loadDropDown(company, lookup.Company, true, f.Company)
	form.AddButton("Apply", func() {
		next := listview.Filters{
			StartDate: strings.TrimSpace(form.GetFormItemByLabel("Start date").(*tview.InputField).GetText()),
			EndDate:   strings.TrimSpace(form.GetFormItemByLabel("End date").(*tview.InputField).GetText()),
		}
		_, next.Company = form.GetFormItemByLabel("Company").(*tview.DropDown).GetCurrentOption()
		s.ui.restoreMainLayout()
		s.ctrl.SetFilters(next)
	})
	form.AddButton("Clear", func() {
		s.ui.restoreMainLayout()
		s.ctrl.ClearFilters()
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	return form
}

func (s *caseListScreen) showExportForm() {
	modal := tview.NewModal()
	modal.SetText("Export the current page")
	modal.SetTitle(" Export ")
	modal.AddButtons([]string{"HTML", "PDF", "Cancel"})
	s.ui.styleModal(modal)
	modal.SetDoneFunc(func(_ int, label string) {
		s.ui.restoreMainLayout()
		switch label {
		case "HTML":
			s.export("html")
		case "PDF":
			s.export("pdf")
		}
	})
	s.ui.lastFocus = s.ui.app.GetFocus()
	s.ui.app.SetRoot(modal, true)
	s.ui.app.SetFocus(modal)
}

// export writes the visible page in format and returns the file path.
func (s *caseListScreen) export(format string) string {
	snap := s.ctrl.Snapshot()
	report := export.Report{
		Title:       s.variant.Title,
		GeneratedAt: s.ui.now(),
		Cases:       snap.Items,
	}
	var sub []string
	if snap.Query.Search != "" {
		sub = append(sub, "search: "+snap.Query.Search)
	}
	if !snap.Query.Filters.IsZero() {
		sub = append(sub, describeFilters(snap.Query.Filters))
	}
	sub = append(sub, fmt.Sprintf("page %d of %d", snap.Query.Page, snap.TotalPages))
	report.Subtitle = strings.Join(sub, "  ")

	path := s.ui.exportPath(s.variant.Name, format)
	var err error
	switch format {
	case "pdf":
		err = export.WritePDF(path, report)
	default:
		var f *os.File
		if f, err = os.Create(path); err == nil {
			err = export.WriteHTML(f, report)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if err != nil {
		s.ui.notifyError("Export failed", err)
		return ""
	}
	s.ui.notifySuccess("Exported to " + path)
	return path
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}
