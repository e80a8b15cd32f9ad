package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/lookup"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/rivo/tview"
)

// caseField is one input of the add-case form.
type caseField struct {
	key      string // JSON name, as used in field errors
	label    string
	required bool
	lookup   *lookup.Kind
	set      func(in *model.CaseInput, v string)
}

var caseFields = []caseField{
	{key: "fileNo", label: "File No", required: true, set: func(in *model.CaseInput, v string) { in.FileNo = v }},
	{key: "caseNo", label: "Case No", required: true, set: func(in *model.CaseInput, v string) { in.CaseNo = v }},
	{key: "date", label: "Date", required: true, set: func(in *model.CaseInput, v string) { in.Date = v }},
	{key: "court", label: "Court", required: true, lookup: &lookup.Court, set: func(in *model.CaseInput, v string) { in.Court = v }},
	{key: "firstParty", label: "First Party", required: true, set: func(in *model.CaseInput, v string) { in.FirstParty = v }},
	{key: "secondParty", label: "Second Party", set: func(in *model.CaseInput, v string) { in.SecondParty = v }},
	{key: "company", label: "Company", lookup: &lookup.Company, set: func(in *model.CaseInput, v string) { in.Company = v }},
	{key: "appointedBy", label: "Appointed By", set: func(in *model.CaseInput, v string) { in.AppointedBy = v }},
	{key: "caseType", label: "Case Type", lookup: &lookup.CaseType, set: func(in *model.CaseInput, v string) { in.CaseType = v }},
	{key: "policeStation", label: "Police Station", lookup: &lookup.PoliceStation, set: func(in *model.CaseInput, v string) { in.PoliceStation = v }},
	{key: "fixedFor", label: "Fixed For", set: func(in *model.CaseInput, v string) { in.FixedFor = v }},
	{key: "mobileNo", label: "Mobile No", set: func(in *model.CaseInput, v string) { in.MobileNo = v }},
	{key: "lawSection", label: "Law & Section", set: func(in *model.CaseInput, v string) { in.LawSection = v }},
	{key: "comments", label: "Comments", set: func(in *model.CaseInput, v string) { in.Comments = v }},
}

func (f caseField) formLabel() string {
	if f.required {
		return f.label + " *"
	}
	return f.label
}

// caseFormScreen is the add-case form mounted in the main panel.
type caseFormScreen struct {
	ui   *UI
	form *tview.Form

	// errors currently shown, by JSON field name
	errors forms.FieldErrors
	// submitting blocks a second submit while a create is in flight
	submitting bool
}

func newCaseFormScreen(ui *UI) *caseFormScreen {
	s := &caseFormScreen{ui: ui}
	s.form = tview.NewForm()
	s.form.SetBorder(true)
	s.form.SetTitle(" Add Case ")
	s.form.SetTitleAlign(tview.AlignLeft)

	for _, f := range caseFields {
		switch {
		case f.lookup != nil:
			dd := tview.NewDropDown().SetLabel(f.formLabel())
			s.form.AddFormItem(dd)
			ui.loadDropDown(dd, *f.lookup, true, "")
		case f.key == "date":
			s.form.AddInputField(f.formLabel(), ui.now().Format("2006-01-02"), 12, nil, nil)
		case f.key == "comments":
			s.form.AddTextArea(f.formLabel(), "", 48, 3, 0, nil)
		default:
			s.form.AddInputField(f.formLabel(), "", 40, nil, nil)
		}
	}
	s.form.AddButton("Submit", s.submit)
	s.form.AddButton("Reset", s.reset)
	s.form.AddButton("Cancel", ui.back)
	return s
}

func (s *caseFormScreen) primitive() tview.Primitive   { return s.form }
func (s *caseFormScreen) focusTarget() tview.Primitive { return s.form }
func (s *caseFormScreen) title() string                { return "Add Case" }
func (s *caseFormScreen) close()                       {}

func (s *caseFormScreen) applyTheme() {
	s.ui.styleForm(s.form)
	s.showErrors(s.errors)
}

// input reads the form into a payload. Values are sent as typed; the
// required check trims them on its own.
func (s *caseFormScreen) input() model.CaseInput {
	var in model.CaseInput
	for _, f := range caseFields {
		f.set(&in, formValue(s.form, f.formLabel()))
	}
	in.Status = model.StatusPending
	return in
}

// submit validates locally and only then posts the case. Local failures
// never reach the backend.
func (s *caseFormScreen) submit() {
	if s.submitting {
		return
	}
	in := s.input()
	if fe := forms.ValidateCase(in); len(fe) > 0 {
		s.showErrors(fe)
		s.ui.notifyError("Please fill in the required fields", nil)
		return
	}
	s.showErrors(nil)
	s.submitting = true

	s.ui.dispatch(func() {
		ctx, cancel := context.WithTimeout(s.ui.ctx, 30*time.Second)
		defer cancel()
		res, err := s.ui.api.CreateCase(ctx, in)
		s.ui.recordChange("case", "create", res.InsertedID, err)
		s.ui.update(func() {
			s.submitting = false
			if err != nil {
				s.showErrors(forms.Merge(nil, api.FieldErrors(err)))
				s.ui.notifyError("Failed to add case", err)
				return
			}
			s.ui.logger.Infow("case created", "id", res.InsertedID, "caseNo", in.CaseNo)
			s.reset()
			s.ui.notifySuccess("Case added")
		})
	})
}

// showErrors marks the labels of errored fields and clears the others.
func (s *caseFormScreen) showErrors(fe forms.FieldErrors) {
	s.errors = fe
	for _, f := range caseFields {
		item := findItem(s.form, f.formLabel())
		if item == nil {
			continue
		}
		setItemLabel(item, f.formLabel())
		if msg, ok := fe[f.key]; ok {
			setItemLabel(item, errorLabel(f.formLabel(), msg, s.ui.theme.TagError))
		}
	}
}

func (s *caseFormScreen) reset() {
	s.showErrors(nil)
	for _, f := range caseFields {
		item := findItem(s.form, f.formLabel())
		switch it := item.(type) {
		case *tview.InputField:
			if f.key == "date" {
				it.SetText(s.ui.now().Format("2006-01-02"))
			} else {
				it.SetText("")
			}
		case *tview.DropDown:
			it.SetCurrentOption(0)
		case *tview.TextArea:
			it.SetText("", false)
		}
	}
	s.form.SetFocus(0)
}

func errorLabel(label, msg, tag string) string {
	return fmt.Sprintf("%s [%s](%s)[-]", label, tag, msg)
}

// findItem locates a form item by its base label, ignoring any error
// suffix added by markField.
func findItem(form *tview.Form, label string) tview.FormItem {
	for i := 0; i < form.GetFormItemCount(); i++ {
		item := form.GetFormItem(i)
		l := item.GetLabel()
		if l == label || strings.HasPrefix(l, label+" [") {
			return item
		}
	}
	return nil
}

func setItemLabel(item tview.FormItem, label string) {
	switch it := item.(type) {
	case *tview.InputField:
		it.SetLabel(label)
	case *tview.DropDown:
		it.SetLabel(label)
	case *tview.TextArea:
		it.SetLabel(label)
	case *tview.Checkbox:
		it.SetLabel(label)
	}
}

// formValue returns the raw value of the item labelled label.
func formValue(form *tview.Form, label string) string {
	switch it := findItem(form, label).(type) {
	case *tview.InputField:
		return it.GetText()
	case *tview.DropDown:
		_, v := it.GetCurrentOption()
		return v
	case *tview.TextArea:
		return it.GetText()
	}
	return ""
}

// markField flags one input of a modal form with msg.
func (ui *UI) markField(form *tview.Form, label, msg string) {
	if item := findItem(form, label); item != nil {
		setItemLabel(item, errorLabel(label, msg, ui.theme.TagError))
	}
}

// loadDropDown offers the names of a reference list in dd. The list is read
// off the UI goroutine; until it arrives dd holds only the blank entry (when
// blank is set) and current. Whatever is selected when the names land stays
// selected.
func (ui *UI) loadDropDown(dd *tview.DropDown, k lookup.Kind, blank bool, current string) {
	initial := dropDownOptions(nil, blank, current)
	dd.SetOptions(initial, nil)
	dd.SetCurrentOption(indexOf(initial, current))
	if ui.lookups == nil {
		return
	}
	ui.dispatch(func() {
		ctx, cancel := context.WithTimeout(ui.ctx, 5*time.Second)
		names, err := ui.lookups.Names(ctx, k)
		cancel()
		ui.update(func() {
			if err != nil {
				ui.notifyError("Failed to load "+strings.ToLower(k.Title), err)
				return
			}
			_, selected := dd.GetCurrentOption()
			opts := dropDownOptions(names, blank, current)
			dd.SetOptions(opts, nil)
			dd.SetCurrentOption(indexOf(opts, selected))
		})
	})
}

// dropDownOptions keeps current as an option even when it has since been
// removed from the list.
func dropDownOptions(names []string, blank bool, current string) []string {
	var opts []string
	if blank {
		opts = append(opts, "")
	}
	if current != "" && indexOf(names, current) < 0 {
		opts = append(opts, current)
	}
	return append(opts, names...)
}
