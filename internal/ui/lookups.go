package ui

import (
	"errors"
	"fmt"

	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/lookup"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// lookupScreen lists and edits one reference list.
type lookupScreen struct {
	ui    *UI
	kind  lookup.Kind
	table *tview.Table

	items   []model.LookupItem
	loading bool
}

func newLookupScreen(ui *UI, k lookup.Kind) *lookupScreen {
	s := &lookupScreen{ui: ui, kind: k}
	s.table = tview.NewTable()
	s.table.SetBorder(true)
	s.table.SetTitle(fmt.Sprintf(" %s ", k.Title))
	s.table.SetTitleAlign(tview.AlignLeft)
	s.table.SetSelectable(true, false)
	s.table.SetFixed(1, 0)
	s.table.SetSelectedFunc(func(row, _ int) {
		if it, ok := s.itemAt(row); ok {
			s.showNameForm(&it)
		}
	})
	s.table.SetInputCapture(s.handleKey)
	s.render()
	s.reload()
	return s
}

func (s *lookupScreen) primitive() tview.Primitive   { return s.table }
func (s *lookupScreen) focusTarget() tview.Primitive { return s.table }
func (s *lookupScreen) title() string                { return s.kind.Title }
func (s *lookupScreen) close()                       {}

func (s *lookupScreen) applyTheme() {
	t := s.ui.theme
	s.table.SetBackgroundColor(t.Surface)
	s.table.SetBorderColor(t.Border)
	s.table.SetTitleColor(t.Accent)
	s.table.SetSelectedStyle(tcell.StyleDefault.Background(t.SelectionBg).Foreground(t.SelectionFg))
	s.render()
}

func (s *lookupScreen) remoteChange(msg bus.ChangeMessage) {
	if msg.Entity == s.kind.Name {
		s.reload()
	}
}

func (s *lookupScreen) reload() {
	s.loading = true
	s.ui.dispatch(func() {
		items, err := s.ui.lookups.List(s.ui.ctx, s.kind)
		s.ui.update(func() {
			s.loading = false
			if err != nil {
				s.ui.notifyError("Failed to load "+s.kind.Title, err)
			} else {
				s.items = items
			}
			s.render()
		})
	})
}

func (s *lookupScreen) render() {
	t := s.ui.theme
	s.table.Clear()
	s.table.SetCell(0, 0, tview.NewTableCell("#").SetTextColor(t.TableHeader).SetBackgroundColor(t.TableHeaderBg).SetSelectable(false))
	s.table.SetCell(0, 1, tview.NewTableCell("Name").SetTextColor(t.TableHeader).SetBackgroundColor(t.TableHeaderBg).
		SetExpansion(1).SetSelectable(false))
	if len(s.items) == 0 {
		msg := "No entries. Press a to add one."
		if s.loading {
			msg = "Loading..."
		}
		s.table.SetCell(1, 1, tview.NewTableCell(msg).SetTextColor(t.TableRowMuted).SetSelectable(false))
		return
	}
	for i, it := range s.items {
		bg := t.TableZebra1
		if i%2 == 1 {
			bg = t.TableZebra2
		}
		s.table.SetCell(i+1, 0, tview.NewTableCell(fmt.Sprintf("%d", i+1)).SetTextColor(t.TableRowMuted).SetBackgroundColor(bg))
		s.table.SetCell(i+1, 1, tview.NewTableCell(tview.Escape(it.Name)).SetTextColor(t.TableRow).SetBackgroundColor(bg).SetExpansion(1))
	}
}

func (s *lookupScreen) itemAt(row int) (model.LookupItem, bool) {
	if row < 1 || row-1 >= len(s.items) {
		return model.LookupItem{}, false
	}
	return s.items[row-1], true
}

func (s *lookupScreen) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	switch ev.Rune() {
	case 'a':
		s.showNameForm(nil)
	case 'r':
		s.ui.lookups.Invalidate(s.ui.ctx, s.kind)
		s.reload()
	case 'e', 'd':
		row, _ := s.table.GetSelection()
		it, ok := s.itemAt(row)
		if !ok {
			return nil
		}
		if ev.Rune() == 'e' {
			s.showNameForm(&it)
			return nil
		}
		s.ui.confirm("Delete", fmt.Sprintf("Delete %q?", it.Name), func() { s.remove(it) })
	default:
		return ev
	}
	return nil
}

// showNameForm adds a new entry when item is nil and renames it otherwise.
func (s *lookupScreen) showNameForm(item *model.LookupItem) {
	title, current := " Add ", ""
	if item != nil {
		title, current = " Rename ", item.Name
	}
	form := tview.NewForm()
	form.SetTitle(title)
	form.AddInputField("Name", current, 40, nil, nil)
	form.AddButton("Save", func() {
		name := formValue(form, "Name")
		if _, err := forms.ValidateName(name); err != nil {
			s.ui.markField(form, "Name", forms.MsgRequired)
			return
		}
		s.ui.restoreMainLayout()
		if item == nil {
			s.save("create", "", name)
		} else {
			s.save("update", item.ID, name)
		}
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 56, 7)
}

// save creates (id empty) or renames an entry. Empty names are rejected
// by the service before any request is made.
func (s *lookupScreen) save(action, id, name string) {
	s.ui.dispatch(func() {
		var (
			res model.MutationResult
			err error
		)
		if id == "" {
			res, err = s.ui.lookups.Add(s.ui.ctx, s.kind, name)
			id = res.InsertedID
		} else {
			res, err = s.ui.lookups.Rename(s.ui.ctx, s.kind, id, name)
		}
		s.finish(action, id, err)
	})
}

func (s *lookupScreen) remove(it model.LookupItem) {
	s.ui.dispatch(func() {
		_, err := s.ui.lookups.Delete(s.ui.ctx, s.kind, it.ID)
		s.finish("delete", it.ID, err)
	})
}

func (s *lookupScreen) finish(action, id string, err error) {
	if errors.Is(err, forms.ErrNameRequired) {
		s.ui.update(func() { s.ui.notifyError(err.Error(), nil) })
		return
	}
	s.ui.recordChange(s.kind.Name, action, id, err)
	s.ui.update(func() {
		if err != nil {
			s.ui.notifyError(fmt.Sprintf("Failed to %s entry", action), err)
			return
		}
		s.ui.notifySuccess("Saved")
		s.reload()
	})
}
