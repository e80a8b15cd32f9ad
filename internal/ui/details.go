package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var errMissingID = errors.New("record has no id")

// caseDetail is everything shown on the detail screen.
type caseDetail struct {
	Case     model.Case
	Details  model.CaseDetails
	Parties  []model.Party
	Payments []model.Payment
	// HasDetails is false until a details document exists on the backend.
	HasDetails bool
}

type caseDetailScreen struct {
	ui   *UI
	id   string
	view *tview.TextView

	loaded bool
	data   caseDetail
	err    error
	seq    int
}

func newCaseDetailScreen(ui *UI, id string) *caseDetailScreen {
	s := &caseDetailScreen{ui: ui, id: id}
	s.view = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true).SetScrollable(true)
	s.view.SetBorder(true)
	s.view.SetTitleAlign(tview.AlignLeft)
	s.view.SetTitle(" Case ")
	s.view.SetInputCapture(s.handleKey)
	s.render()
	s.load()
	return s
}

func (s *caseDetailScreen) primitive() tview.Primitive   { return s.view }
func (s *caseDetailScreen) focusTarget() tview.Primitive { return s.view }
func (s *caseDetailScreen) close()                       {}

func (s *caseDetailScreen) title() string {
	if s.loaded && s.data.Case.CaseNo != "" {
		return "Case " + s.data.Case.CaseNo
	}
	return "Case"
}

func (s *caseDetailScreen) applyTheme() {
	t := s.ui.theme
	s.view.SetBackgroundColor(t.Surface)
	s.view.SetTextColor(t.TextPrimary)
	s.view.SetBorderColor(t.Border)
	s.view.SetTitleColor(t.Accent)
	s.render()
}

func (s *caseDetailScreen) remoteChange(msg bus.ChangeMessage) {
	if msg.Entity == "case" && msg.RecordID == s.id {
		s.load()
	}
}

// load fetches the case and its sub-resources. Only the newest load is
// applied.
func (s *caseDetailScreen) load() {
	s.seq++
	seq := s.seq
	s.ui.dispatch(func() {
		data, err := fetchCaseDetail(s.ui.ctx, s.ui.api, s.id)
		s.ui.update(func() {
			if seq != s.seq {
				return
			}
			s.loaded = true
			s.err = err
			if err == nil {
				s.data = data
			} else {
				s.ui.notifyError("Failed to load case", err)
			}
			s.render()
		})
	})
}

func fetchCaseDetail(ctx context.Context, client *api.Client, id string) (caseDetail, error) {
	var out caseDetail
	c, err := client.GetCase(ctx, id)
	if err != nil {
		return out, err
	}
	out.Case = c

	d, err := client.GetCaseDetails(ctx, id)
	switch {
	case err == nil:
		out.Details = d
		out.HasDetails = true
	case api.IsNotFound(err):
	default:
		return out, err
	}
	if out.Parties, err = client.ListParties(ctx, id); err != nil && !api.IsNotFound(err) {
		return out, err
	}
	if out.Payments, err = client.ListPayments(ctx, id); err != nil && !api.IsNotFound(err) {
		return out, err
	}
	return out, nil
}

func (s *caseDetailScreen) render() {
	t := s.ui.theme
	s.view.SetTitle(fmt.Sprintf(" %s ", s.title()))
	if !s.loaded {
		s.view.SetText(fmt.Sprintf("[%s]Loading...[-]", t.TagMuted))
		return
	}
	if s.err != nil && s.data.Case.ID == "" {
		s.view.SetText(fmt.Sprintf("[%s]Case could not be loaded.[-]\n\n[%s]r: retry  b: back[-]", t.TagError, t.TagMuted))
		return
	}

	c := s.data.Case
	var b strings.Builder
	section := func(name string) { fmt.Fprintf(&b, "\n[%s::b]%s[-::-]\n", t.TagAccent, name) }
	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "  [%s]%-16s[-] %s\n", t.TagMuted, label, tview.Escape(value))
	}

	section("Basic Info")
	field("File No", c.FileNo)
	field("Case No", c.CaseNo)
	field("Date", model.DisplayDate(c.Date))
	field("Court", c.Court)
	field("Case Type", c.CaseType)
	field("Police Station", c.PoliceStation)
	field("Law & Section", c.LawSection)
	field("Fixed For", model.DisplayDate(c.FixedFor))
	field("Status", string(c.Status))
	field("Comments", c.Comments)

	section("Case Details")
	description, laws := s.data.Details.Description, s.data.Details.Laws
	if description == "" {
		description = c.Description
	}
	if laws == "" {
		laws = c.Laws
	}
	field("Description", description)
	field("Laws", laws)

	section("Appointed Party")
	field("First Party", c.FirstParty)
	field("Second Party", c.SecondParty)
	field("Appointed By", c.AppointedBy)
	field("Company", c.Company)
	field("Mobile No", c.MobileNo)

	section("Opposite Advocate")
	field("Name", c.OppositeAdvocate)
	field("Phone", c.OppositeAdvocatePhone)

	section("Payment")
	fees := s.fees()
	field("Payable", fees.Payable.String())
	field("Paid", fees.Paid.String())
	fmt.Fprintf(&b, "  [%s]%-16s[-] [%s]%s[-]\n", t.TagMuted, "Due", dueTag(t, fees), fees.Due().String())

	section("Previous Dates")
	if len(c.PreviousDates) == 0 {
		fmt.Fprintf(&b, "  [%s]none[-]\n", t.TagMuted)
	}
	for _, d := range c.PreviousDates {
		fmt.Fprintf(&b, "  %s\n", model.DisplayDate(string(d)))
	}

	section("Parties")
	if len(s.data.Parties) == 0 {
		fmt.Fprintf(&b, "  [%s]none[-]\n", t.TagMuted)
	}
	for _, p := range s.data.Parties {
		fmt.Fprintf(&b, "  %s", tview.Escape(p.Name))
		if p.Role != "" {
			fmt.Fprintf(&b, " [%s](%s)[-]", t.TagMuted, tview.Escape(p.Role))
		}
		if p.Phone != "" {
			fmt.Fprintf(&b, "  %s", tview.Escape(p.Phone))
		}
		b.WriteString("\n")
	}

	section("Payments")
	if len(s.data.Payments) == 0 {
		fmt.Fprintf(&b, "  [%s]none[-]\n", t.TagMuted)
	}
	for _, p := range s.data.Payments {
		fmt.Fprintf(&b, "  %-12s %10s  %s\n", model.DisplayDate(p.Date), p.Amount.String(), tview.Escape(p.Method))
	}

	fmt.Fprintf(&b, "\n[%s]e: edit details  o: opposite advocate  a: add date  p/P: add/change party  m/M: add/change payment  r: reload  b: back[-]", t.TagMuted)
	s.view.SetText(b.String())
	s.view.ScrollToBeginning()
}

// fees prefers the details document and falls back to the fees embedded
// in the case.
func (s *caseDetailScreen) fees() *model.Fees {
	if s.data.HasDetails {
		f := s.data.Details.Fees
		return &f
	}
	if s.data.Case.Fees != nil {
		return s.data.Case.Fees
	}
	return &model.Fees{}
}

func dueTag(t Theme, f *model.Fees) string {
	if f.Due() > 0 {
		return t.TagWarning
	}
	return t.TagSuccess
}

func (s *caseDetailScreen) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2 {
		s.ui.back()
		return nil
	}
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	switch ev.Rune() {
	case 'b':
		s.ui.back()
	case 'r':
		s.load()
	case 'e', 'o', 'a', 'p', 'P', 'm', 'M':
		if !s.loaded || s.data.Case.ID == "" {
			return nil
		}
		switch ev.Rune() {
		case 'e':
			s.showDetailsForm()
		case 'o':
			s.showAdvocateForm()
		case 'a':
			s.showAddDateForm()
		case 'p':
			s.showPartyForm(nil)
		case 'P':
			s.showPartyPicker()
		case 'm':
			s.showPaymentForm(nil)
		case 'M':
			s.showPaymentPicker()
		}
	default:
		return ev
	}
	return nil
}

// write runs fn off the UI goroutine, journals it and reloads on success.
func (s *caseDetailScreen) write(action, ok, failed string, fn func(ctx context.Context) error) {
	s.ui.dispatch(func() {
		err := fn(s.ui.ctx)
		s.ui.recordChange("case", action, s.id, err)
		s.ui.update(func() {
			if err != nil {
				s.ui.notifyError(failed, err)
				return
			}
			s.ui.notifySuccess(ok)
			s.load()
		})
	})
}

func (s *caseDetailScreen) showDetailsForm() {
	d := s.data.Details
	if !s.data.HasDetails && s.data.Case.Fees != nil {
		d.Fees = *s.data.Case.Fees
	}
	form := tview.NewForm()
	form.SetTitle(" Case details ")
	form.AddTextArea("Description", d.Description, 50, 3, 0, nil)
	form.AddInputField("Laws", d.Laws, 40, nil, nil)
	form.AddInputField("Payable", d.Fees.Payable.String(), 12, tview.InputFieldFloat, nil)
	form.AddInputField("Paid", d.Fees.Paid.String(), 12, tview.InputFieldFloat, nil)
	form.AddButton("Save", func() {
		next := d
		next.Description = strings.TrimSpace(formValue(form, "Description"))
		next.Laws = strings.TrimSpace(formValue(form, "Laws"))
		var bad bool
		for _, f := range []struct {
			label string
			dst   *model.Amount
		}{{"Payable", &next.Fees.Payable}, {"Paid", &next.Fees.Paid}} {
			v, ok := parseAmount(formValue(form, f.label))
			if !ok {
				s.ui.markField(form, f.label, "Enter a number")
				bad = true
				continue
			}
			*f.dst = v
		}
		if bad {
			return
		}
		s.ui.restoreMainLayout()
		exists := s.data.HasDetails
		s.write("update_details", "Details saved", "Failed to save details", func(ctx context.Context) error {
			if exists {
				_, err := s.ui.api.UpdateCaseDetails(ctx, s.id, next)
				if !api.IsNotFound(err) {
					return err
				}
			}
			_, err := s.ui.api.CreateCaseDetails(ctx, s.id, next)
			return err
		})
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 70, 15)
}

func parseAmount(v string) (model.Amount, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return model.Amount(f), true
}

func (s *caseDetailScreen) showAddDateForm() {
	const label = "Date (YYYY-MM-DD)"
	form := tview.NewForm()
	form.SetTitle(" Add date ")
	form.AddInputField(label, s.ui.now().Format("2006-01-02"), 12, nil, nil)
	form.AddButton("Add", func() {
		date := strings.TrimSpace(formValue(form, label))
		if _, ok := model.ParseDate(date); !ok {
			s.ui.markField(form, label, "Invalid date")
			return
		}
		s.ui.restoreMainLayout()
		s.write("add_date", "Date added", "Failed to add date", func(ctx context.Context) error {
			_, err := addCaseDate(ctx, s.ui, s.id, date)
			return err
		})
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 50, 7)
}

// showAdvocateForm edits the opposite advocate. The whole case is written
// back, so it goes out exactly as it was read apart from these two fields.
func (s *caseDetailScreen) showAdvocateForm() {
	c := s.data.Case
	form := tview.NewForm()
	form.SetTitle(" Opposite advocate ")
	form.AddInputField("Name", c.OppositeAdvocate, 36, nil, nil)
	form.AddInputField("Phone", c.OppositeAdvocatePhone, 18, nil, nil)
	form.AddButton("Save", func() {
		c.OppositeAdvocate = strings.TrimSpace(formValue(form, "Name"))
		c.OppositeAdvocatePhone = strings.TrimSpace(formValue(form, "Phone"))
		s.ui.restoreMainLayout()
		s.saveCase(c)
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 60, 9)
}

func (s *caseDetailScreen) saveCase(c model.Case) {
	s.write("update", "Case updated", "Failed to update", func(ctx context.Context) error {
		_, err := s.ui.api.UpdateCase(ctx, s.id, c)
		return err
	})
}

// pickerForm lets the user choose one row of a sub-resource to change or
// remove.
func (s *caseDetailScreen) pickerForm(title, label string, options []string, edit, remove func(int)) *tview.Form {
	form := tview.NewForm()
	form.SetTitle(title)
	form.AddDropDown(label, options, 0, nil)
	pick := func(fn func(int)) func() {
		return func() {
			i, _ := form.GetFormItemByLabel(label).(*tview.DropDown).GetCurrentOption()
			s.ui.restoreMainLayout()
			if i >= 0 {
				fn(i)
			}
		}
	}
	form.AddButton("Edit", pick(edit))
	form.AddButton("Delete", pick(remove))
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	return form
}

func (s *caseDetailScreen) showPartyPicker() {
	if len(s.data.Parties) == 0 {
		s.ui.notify(s.ui.theme.TagWarning, "No parties on this case")
		return
	}
	s.ui.showForm(s.partyPicker(), 64, 7)
}

func (s *caseDetailScreen) partyPicker() *tview.Form {
	parties := s.data.Parties
	labels := make([]string, len(parties))
	for i, p := range parties {
		labels[i] = p.Name
		if p.Role != "" {
			labels[i] += " (" + p.Role + ")"
		}
	}
	return s.pickerForm(" Parties ", "Party", labels, func(i int) {
		p := parties[i]
		s.showPartyForm(&p)
	}, func(i int) {
		p := parties[i]
		s.ui.confirm("Delete party", fmt.Sprintf("Remove %s from this case?", p.Name), func() {
			s.deleteParty(p)
		})
	})
}

// showPartyForm adds a party, or edits existing when it is not nil.
func (s *caseDetailScreen) showPartyForm(existing *model.Party) {
	var p model.Party
	title, button := " Add party ", "Add"
	if existing != nil {
		p = *existing
		title, button = " Edit party ", "Save"
	}
	form := tview.NewForm()
	form.SetTitle(title)
	form.AddInputField("Name", p.Name, 36, nil, nil)
	form.AddInputField("Role", p.Role, 24, nil, nil)
	form.AddInputField("Phone", p.Phone, 18, nil, nil)
	form.AddInputField("Address", p.Address, 40, nil, nil)
	form.AddButton(button, func() {
		p.Name = strings.TrimSpace(formValue(form, "Name"))
		p.Role = strings.TrimSpace(formValue(form, "Role"))
		p.Phone = strings.TrimSpace(formValue(form, "Phone"))
		p.Address = strings.TrimSpace(formValue(form, "Address"))
		if p.Name == "" {
			s.ui.markField(form, "Name", forms.MsgRequired)
			return
		}
		s.ui.restoreMainLayout()
		if existing != nil {
			s.updateParty(p)
			return
		}
		s.addParty(p)
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 64, 13)
}

func (s *caseDetailScreen) addParty(p model.Party) {
	s.write("add_party", "Party added", "Failed to add party", func(ctx context.Context) error {
		_, err := s.ui.api.AddParty(ctx, s.id, p)
		return err
	})
}

func (s *caseDetailScreen) updateParty(p model.Party) {
	s.write("update_party", "Party updated", "Failed to update party", func(ctx context.Context) error {
		if p.ID == "" {
			return errMissingID
		}
		_, err := s.ui.api.UpdateParty(ctx, s.id, p.ID, p)
		return err
	})
}

func (s *caseDetailScreen) deleteParty(p model.Party) {
	s.write("delete_party", "Party removed", "Failed to remove party", func(ctx context.Context) error {
		if p.ID == "" {
			return errMissingID
		}
		_, err := s.ui.api.DeleteParty(ctx, s.id, p.ID)
		return err
	})
}

func (s *caseDetailScreen) showPaymentPicker() {
	if len(s.data.Payments) == 0 {
		s.ui.notify(s.ui.theme.TagWarning, "No payments on this case")
		return
	}
	s.ui.showForm(s.paymentPicker(), 64, 7)
}

func (s *caseDetailScreen) paymentPicker() *tview.Form {
	payments := s.data.Payments
	labels := make([]string, len(payments))
	for i, p := range payments {
		labels[i] = fmt.Sprintf("%s  %s", model.DisplayDate(p.Date), p.Amount.String())
		if p.Method != "" {
			labels[i] += "  " + p.Method
		}
	}
	return s.pickerForm(" Payments ", "Payment", labels, func(i int) {
		p := payments[i]
		s.showPaymentForm(&p)
	}, func(i int) {
		p := payments[i]
		s.ui.confirm("Delete payment", fmt.Sprintf("Delete the payment of %s?", p.Amount.String()), func() {
			s.deletePayment(p)
		})
	})
}

// showPaymentForm records a payment, or edits existing when it is not nil.
func (s *caseDetailScreen) showPaymentForm(existing *model.Payment) {
	p := model.Payment{Date: s.ui.now().Format("2006-01-02")}
	title, button, amount := " Add payment ", "Add", ""
	if existing != nil {
		p = *existing
		title, button, amount = " Edit payment ", "Save", p.Amount.String()
	}
	form := tview.NewForm()
	form.SetTitle(title)
	form.AddInputField("Amount", amount, 12, tview.InputFieldFloat, nil)
	form.AddInputField("Date", p.Date, 12, nil, nil)
	form.AddInputField("Method", p.Method, 20, nil, nil)
	form.AddInputField("Note", p.Note, 40, nil, nil)
	form.AddButton(button, func() {
		v, ok := parseAmount(formValue(form, "Amount"))
		if !ok || v <= 0 {
			s.ui.markField(form, "Amount", "Enter an amount")
			return
		}
		p.Amount = v
		p.Date = strings.TrimSpace(formValue(form, "Date"))
		p.Method = strings.TrimSpace(formValue(form, "Method"))
		p.Note = strings.TrimSpace(formValue(form, "Note"))
		s.ui.restoreMainLayout()
		if existing != nil {
			s.updatePayment(p)
			return
		}
		s.addPayment(p)
	})
	form.AddButton("Cancel", s.ui.restoreMainLayout)
	s.ui.showForm(form, 60, 13)
}

func (s *caseDetailScreen) addPayment(p model.Payment) {
	s.write("add_payment", "Payment added", "Failed to add payment", func(ctx context.Context) error {
		_, err := s.ui.api.AddPayment(ctx, s.id, p)
		return err
	})
}

func (s *caseDetailScreen) updatePayment(p model.Payment) {
	s.write("update_payment", "Payment updated", "Failed to update payment", func(ctx context.Context) error {
		if p.ID == "" {
			return errMissingID
		}
		_, err := s.ui.api.UpdatePayment(ctx, s.id, p.ID, p)
		return err
	})
}

func (s *caseDetailScreen) deletePayment(p model.Payment) {
	s.write("delete_payment", "Payment deleted", "Failed to delete payment", func(ctx context.Context) error {
		if p.ID == "" {
			return errMissingID
		}
		_, err := s.ui.api.DeletePayment(ctx, s.id, p.ID)
		return err
	})
}
