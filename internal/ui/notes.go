package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type notesScreen struct {
	ui    *UI
	root  *tview.Flex
	list  *tview.List
	entry *tview.InputField

	notes   []model.Note
	loading bool
}

func newNotesScreen(ui *UI) *notesScreen {
	s := &notesScreen{ui: ui}

	s.entry = tview.NewInputField().SetLabel("New note: ")
	s.entry.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			s.add(s.entry.GetText())
		}
		ui.app.SetFocus(s.list)
	})

	s.list = tview.NewList().ShowSecondaryText(true)
	s.list.SetBorder(true)
	s.list.SetTitle(" Notes ")
	s.list.SetTitleAlign(tview.AlignLeft)
	s.list.SetInputCapture(s.handleKey)
	s.list.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		if i < len(s.notes) {
			s.showEditForm(s.notes[i])
		}
	})

	s.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.entry, 1, 0, false).
		AddItem(s.list, 0, 1, true)

	s.render()
	s.reload()
	return s
}

func (s *notesScreen) primitive() tview.Primitive   { return s.root }
func (s *notesScreen) focusTarget() tview.Primitive { return s.list }
func (s *notesScreen) title() string                { return "Notes" }
func (s *notesScreen) close()                       {}

func (s *notesScreen) applyTheme() {
	t := s.ui.theme
	s.list.SetBackgroundColor(t.Surface)
	s.list.SetBorderColor(t.Border)
	s.list.SetTitleColor(t.Accent)
	s.list.SetMainTextColor(t.TextPrimary)
	s.list.SetSecondaryTextColor(t.TextMuted)
	s.list.SetSelectedBackgroundColor(t.SelectionBg)
	s.list.SetSelectedTextColor(t.SelectionFg)
	s.entry.SetBackgroundColor(t.Surface)
	s.entry.SetLabelColor(t.TextMuted)
	s.entry.SetFieldBackgroundColor(t.SelectionBg)
	s.entry.SetFieldTextColor(t.TextPrimary)
}

func (s *notesScreen) remoteChange(msg bus.ChangeMessage) {
	if msg.Entity == "note" {
		s.reload()
	}
}

func (s *notesScreen) reload() {
	s.loading = true
	s.ui.dispatch(func() {
		notes, err := s.ui.notes.List(s.ui.ctx)
		s.ui.update(func() {
			s.loading = false
			if err != nil {
				s.ui.notifyError("Failed to load notes", err)
			} else {
				s.notes = notes
			}
			s.render()
		})
	})
}

func (s *notesScreen) render() {
	current := s.list.GetCurrentItem()
	s.list.Clear()
	if len(s.notes) == 0 {
		msg := "No notes yet. Press a to write one."
		if s.loading {
			msg = "Loading..."
		}
		s.list.AddItem(msg, "", 0, nil)
		return
	}
	for _, n := range s.notes {
		s.list.AddItem(tview.Escape(firstLine(n.Note)), model.DisplayDate(n.Date), 0, nil)
	}
	if current < len(s.notes) {
		s.list.SetCurrentItem(current)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func (s *notesScreen) selected() (model.Note, bool) {
	i := s.list.GetCurrentItem()
	if i < 0 || i >= len(s.notes) {
		return model.Note{}, false
	}
	return s.notes[i], true
}

func (s *notesScreen) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	switch ev.Rune() {
	case 'a':
		s.ui.app.SetFocus(s.entry)
	case 'r':
		s.reload()
	case 'e':
		if n, ok := s.selected(); ok {
			s.showEditForm(n)
		}
	case 'd':
		if n, ok := s.selected(); ok {
			s.ui.confirm("Delete note", fmt.Sprintf("Delete note %q?", firstLine(n.Note)), func() { s.remove(n) })
		}
	default:
		return ev
	}
	return nil
}

// add posts a new note. An empty entry is reported without a request.
func (s *notesScreen) add(text string) {
	s.ui.dispatch(func() {
		res, err := s.ui.notes.Add(s.ui.ctx, text)
		s.finish("create", res.InsertedID, "Note added", err, func() { s.entry.SetText("") })
	})
}

func (s *notesScreen) showEditForm(n model.Note) {
	form := tview.NewForm()
	form.SetTitle(" Edit note ")
	form.AddTextArea("Note", n.Note, 60, 5, 0, nil)
	form.AddButton("Save", func() {
		text := formValue(form, "Note")
		if strings.TrimSpace(text) == "" {
			s.ui.markField(form, "Note", forms.ErrNoteEmpty.Error())
			return
		}
		s.ui.restoreMainLayout()
		s.ui.dispatch(func() {
			_, err := s.ui.notes.Edit(s.ui.ctx, n.ID, text)
			s.finish("update", n.ID, "Note updated", err, nil)
		})
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 76, 11)
}

func (s *notesScreen) remove(n model.Note) {
	s.ui.dispatch(func() {
		err := s.ui.notes.Delete(s.ui.ctx, n.ID)
		s.finish("delete", n.ID, "Note deleted", err, nil)
	})
}

// finish journals the change and reports it. onSuccess runs on the UI
// goroutine before the list reloads.
func (s *notesScreen) finish(action, id, ok string, err error, onSuccess func()) {
	if errors.Is(err, forms.ErrNoteRequired) || errors.Is(err, forms.ErrNoteEmpty) {
		s.ui.update(func() { s.ui.notifyError(err.Error(), nil) })
		return
	}
	s.ui.recordChange("note", action, id, err)
	s.ui.update(func() {
		if err != nil {
			s.ui.notifyError(noteFailure(action), err)
			return
		}
		if onSuccess != nil {
			onSuccess()
		}
		s.ui.notifySuccess(ok)
		s.reload()
	})
}

func noteFailure(action string) string {
	switch action {
	case "create":
		return "Failed to add note"
	case "delete":
		return "Failed to delete note"
	}
	return "Failed to update note"
}
