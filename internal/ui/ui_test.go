package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/cache"
	"github.com/Ashfaaq98/docket-console/internal/listview"
	"github.com/Ashfaaq98/docket-console/internal/lookup"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/Ashfaaq98/docket-console/internal/notes"
	"github.com/Ashfaaq98/docket-console/internal/store"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a minimal case-management server.
type backend struct {
	mu         sync.Mutex
	cases      []model.Case
	docs       map[string]string
	courts     []model.LookupItem
	parties    []model.Party
	payments   []model.Payment
	hits       map[string]int
	bodies     map[string]string
	queries    []url.Values
	posted     []model.CaseInput
	failDelete bool
	failLookup bool
}

func newBackend() *backend {
	return &backend{hits: map[string]int{}, bodies: map[string]string{}, docs: map[string]string{}}
}

// body returns the last request body sent to key.
func (b *backend) body(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *backend) lastQuery() url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queries) == 0 {
		return nil
	}
	return b.queries[len(b.queries)-1]
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	if strings.HasPrefix(r.URL.Path, "/cases/") && r.Method != http.MethodGet {
		key = r.Method + " /cases/:id"
	}
	b.hits[key]++
	body, _ := io.ReadAll(r.Body)
	if r.Method != http.MethodGet {
		b.bodies[key] = string(body)
	}

	reply := func(status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	ack := model.MutationResult{Acknowledged: true, ModifiedCount: 1}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/cases":
		b.queries = append(b.queries, r.URL.Query())
		reply(http.StatusOK, model.CasePage{Cases: b.cases, TotalPages: 1, Total: len(b.cases)})
	case r.Method == http.MethodPost && r.URL.Path == "/cases":
		var in model.CaseInput
		_ = json.Unmarshal(body, &in)
		b.posted = append(b.posted, in)
		reply(http.StatusOK, model.MutationResult{Acknowledged: true, InsertedID: "new-1"})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/cases/"):
		if b.failDelete {
			reply(http.StatusInternalServerError, map[string]string{"message": "database unavailable"})
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/cases/")
		kept := b.cases[:0]
		for _, c := range b.cases {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		b.cases = kept
		reply(http.StatusOK, model.MutationResult{Acknowledged: true, DeletedCount: 1})
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/cases/"),
		r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/update-case/"):
		reply(http.StatusOK, ack)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/cases/"):
		id := strings.TrimPrefix(r.URL.Path, "/cases/")
		if doc, ok := b.docs[id]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, doc)
			return
		}
		for _, c := range b.cases {
			if c.ID == id {
				reply(http.StatusOK, c)
				return
			}
		}
		reply(http.StatusNotFound, map[string]string{"message": "case not found"})
	case b.failLookup && r.Method == http.MethodGet &&
		(r.URL.Path == lookup.Court.Endpoint || r.URL.Path == lookup.Company.Endpoint):
		reply(http.StatusServiceUnavailable, map[string]string{"message": "lookup store offline"})
	case r.URL.Path == lookup.Court.Endpoint && r.Method == http.MethodGet:
		reply(http.StatusOK, b.courts)
	case r.URL.Path == lookup.Court.Endpoint && r.Method == http.MethodPost:
		reply(http.StatusOK, model.MutationResult{Acknowledged: true, InsertedID: "court-9"})
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/parties"):
		reply(http.StatusOK, nonNil(b.parties))
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/payments"):
		reply(http.StatusOK, nonNil(b.payments))
	case strings.Contains(r.URL.Path, "/parties"), strings.Contains(r.URL.Path, "/payments"):
		reply(http.StatusOK, ack)
	default:
		reply(http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func newTestUI(t *testing.T, b *backend) *UI {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := api.New(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ui := NewUI(ctx, Deps{
		API:     client,
		Lookups: lookup.NewService(client, cache.NewMemoryCache(100), time.Minute, nil),
		Notes:   notes.NewService(client, nil),
		Store:   st,
		Bus:     bus.NewNullBus(nil),
	}, Options{ExportDir: t.TempDir()})
	ui.dispatch = func(f func()) { f() }
	ui.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return ui
}

func sampleCases() []model.Case {
	return []model.Case{
		{ID: "c1", CaseNo: "C-101", Court: "District Court", FirstParty: "Rahman", Status: model.StatusRunning},
		{ID: "c2", CaseNo: "C-102", Court: "High Court", FirstParty: "Khan", Status: model.StatusRunning},
	}
}

func activeList(t *testing.T, ui *UI) *caseListScreen {
	t.Helper()
	s, ok := ui.active.(*caseListScreen)
	require.True(t, ok, "active screen is %T", ui.active)
	return s
}

func TestMatchRoute(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		params map[string]string
	}{
		{"/", "/", map[string]string{}},
		{"", "/", map[string]string{}},
		{"/notes", "/notes", map[string]string{}},
		{"/cases/add", "/cases/add", map[string]string{}},
		{"/cases/running", "/cases/:variant", map[string]string{"variant": "running"}},
		{"/cases/all/", "/cases/:variant", map[string]string{"variant": "all"}},
		{"/cases/detail/abc", "/cases/detail/:id", map[string]string{"id": "abc"}},
		{"/setup/court", "/setup/:kind", map[string]string{"kind": "court"}},
	}
	for _, tt := range tests {
		r, params, ok := matchRoute(tt.path)
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.want, r.pattern, tt.path)
		assert.Equal(t, tt.params, params, tt.path)
	}

	for _, p := range []string{"/nope", "/cases", "/cases/detail/", "/setup/court/extra"} {
		_, _, ok := matchRoute(p)
		assert.False(t, ok, p)
	}
}

func TestNavigateRejectsUnknownViews(t *testing.T) {
	ui := newTestUI(t, newBackend())

	assert.Error(t, ui.Navigate("/nowhere"))
	assert.Error(t, ui.Navigate("/cases/archived"))
	assert.Error(t, ui.Navigate("/setup/planets"))
}

func TestCaseListRendersRows(t *testing.T) {
	b := newBackend()
	b.cases = sampleCases()
	ui := newTestUI(t, b)

	require.NoError(t, ui.Navigate("/cases/running"))
	s := activeList(t, ui)

	q := b.lastQuery()
	require.NotNil(t, q)
	assert.Equal(t, "Running", q.Get("status"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "8", q.Get("limit"))

	assert.Equal(t, "Case No", s.table.GetCell(0, 0).Text)
	assert.Equal(t, "C-101", s.table.GetCell(1, 0).Text)
	assert.Equal(t, "C-102", s.table.GetCell(2, 0).Text)
	assert.Equal(t, "/cases/running", ui.Location())
}

func TestCaseListEmpty(t *testing.T) {
	ui := newTestUI(t, newBackend())

	require.NoError(t, ui.Navigate("/cases/all"))
	s := activeList(t, ui)
	assert.Equal(t, noCases, s.table.GetCell(1, 0).Text)
}

func TestDeleteRefetchesOnce(t *testing.T) {
	b := newBackend()
	b.cases = sampleCases()
	ui := newTestUI(t, b)

	require.NoError(t, ui.Navigate("/cases/all"))
	s := activeList(t, ui)
	require.Equal(t, 1, b.count("GET /cases"))

	s.deleteCase(s.snap.Items[0])

	assert.Equal(t, 1, b.count("DELETE /cases/:id"))
	assert.Equal(t, 2, b.count("GET /cases"))
	assert.Contains(t, ui.statusText(), "Case deleted")
	assert.Equal(t, "C-102", s.table.GetCell(1, 0).Text)

	entries, err := ui.store.ListAuditEntries(context.Background(), "case", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "delete", entries[0].Action)
	assert.Equal(t, store.OutcomeSuccess, entries[0].Outcome)
}

func TestFailedDeleteDoesNotRefetch(t *testing.T) {
	b := newBackend()
	b.cases = sampleCases()
	b.failDelete = true
	ui := newTestUI(t, b)

	require.NoError(t, ui.Navigate("/cases/all"))
	s := activeList(t, ui)

	s.deleteCase(s.snap.Items[0])

	assert.Equal(t, 1, b.count("GET /cases"))
	assert.Contains(t, ui.statusText(), "Failed to delete")
	assert.Contains(t, ui.statusText(), "database unavailable")
	assert.Equal(t, "C-101", s.table.GetCell(1, 0).Text)

	entries, err := ui.store.ListAuditEntries(context.Background(), "case", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, store.OutcomeFailure, entries[0].Outcome)
}

func TestListLocationRestoredFromStore(t *testing.T) {
	b := newBackend()
	ui := newTestUI(t, b)
	require.NoError(t, ui.store.SaveLocation(context.Background(), "/cases/all", "/cases/all?page=3&search=khan"))

	require.NoError(t, ui.Navigate("/cases/all"))

	q := b.lastQuery()
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "khan", q.Get("search"))
	assert.Equal(t, "/cases/all?page=3&search=khan", ui.Location())
	assert.Equal(t, "khan", activeList(t, ui).search.GetText())
}

func TestGoToReusesActiveList(t *testing.T) {
	b := newBackend()
	ui := newTestUI(t, b)
	require.NoError(t, ui.Navigate("/cases/all"))
	before := activeList(t, ui)

	require.NoError(t, ui.goTo("/cases/all?page=2"))

	assert.Same(t, before, activeList(t, ui))
	assert.Equal(t, "2", b.lastQuery().Get("page"))
	assert.Equal(t, 2, b.count("GET /cases"))
}

func TestRemoteCaseChangeRefetches(t *testing.T) {
	b := newBackend()
	ui := newTestUI(t, b)
	require.NoError(t, ui.Navigate("/cases/all"))

	ui.HandleChange(bus.ChangeMessage{Entity: "case", Action: "delete", RecordID: "c1"})
	assert.Equal(t, 2, b.count("GET /cases"))

	ui.HandleChange(bus.ChangeMessage{Entity: "note", Action: "create"})
	assert.Equal(t, 2, b.count("GET /cases"))
}

func TestAddCaseFormMarksMissingFields(t *testing.T) {
	b := newBackend()
	b.courts = []model.LookupItem{{ID: "1", Name: "District Court"}}
	ui := newTestUI(t, b)

	require.NoError(t, ui.Navigate("/cases/add"))
	s, ok := ui.active.(*caseFormScreen)
	require.True(t, ok)

	findItem(s.form, "Case No *").(*tview.InputField).SetText("C-200")
	s.submit()

	assert.Equal(t, []string{"court", "fileNo", "firstParty"}, s.errors.Fields())
	assert.Contains(t, findItem(s.form, "File No *").GetLabel(), "This field is required")
	assert.Equal(t, "Case No *", findItem(s.form, "Case No *").GetLabel())
	assert.Equal(t, 0, b.count("POST /cases"))

	findItem(s.form, "File No *").(*tview.InputField).SetText("F-1")
	findItem(s.form, "First Party *").(*tview.InputField).SetText("Rahman")
	court := findItem(s.form, "Court *").(*tview.DropDown)
	court.SetCurrentOption(1)
	s.submit()

	assert.Empty(t, s.errors)
	require.Equal(t, 1, b.count("POST /cases"))
	assert.Equal(t, "District Court", b.posted[0].Court)
	assert.Equal(t, "2024-05-01", b.posted[0].Date)
	assert.Equal(t, model.StatusPending, b.posted[0].Status)
	assert.Contains(t, ui.statusText(), "Case added")
	assert.Empty(t, formValue(s.form, "Case No *"), "form is reset after a create")
}

func TestWhitespaceOnlyRequiredFieldsAreMissing(t *testing.T) {
	b := newBackend()
	ui := newTestUI(t, b)
	require.NoError(t, ui.Navigate("/cases/add"))
	s := ui.active.(*caseFormScreen)

	for _, label := range []string{"File No *", "Case No *", "First Party *"} {
		findItem(s.form, label).(*tview.InputField).SetText("   ")
	}
	findItem(s.form, "Date *").(*tview.InputField).SetText("")
	s.submit()

	assert.Equal(t, []string{"caseNo", "court", "date", "fileNo", "firstParty"}, s.errors.Fields())
	assert.Equal(t, 0, b.count("POST /cases"))
}

func TestLookupEmptyNameMakesNoRequest(t *testing.T) {
	b := newBackend()
	ui := newTestUI(t, b)
	require.NoError(t, ui.Navigate(lookup.Court.Route))
	s, ok := ui.active.(*lookupScreen)
	require.True(t, ok)

	s.save("create", "", "   ")
	assert.Equal(t, 0, b.count("POST /courts"))
	assert.Contains(t, ui.statusText(), "name is required")

	s.save("create", "", "Sessions Court")
	assert.Equal(t, 1, b.count("POST /courts"))
	assert.Contains(t, ui.statusText(), "Saved")

	entries, err := ui.store.ListAuditEntries(context.Background(), "court", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "court-9", entries[0].RecordID)
}

func TestCaseDetailWithoutDetailsDocument(t *testing.T) {
	b := newBackend()
	b.cases = []model.Case{{ID: "c1", CaseNo: "C-101", Court: "District Court",
		Fees: &model.Fees{Payable: 5000, Paid: 2000}, PreviousDates: []model.DateEntry{"2024-04-01"}}}
	ui := newTestUI(t, b)

	require.NoError(t, ui.Navigate("/cases/detail/c1"))
	s, ok := ui.active.(*caseDetailScreen)
	require.True(t, ok)

	text := s.view.GetText(true)
	assert.True(t, s.loaded)
	assert.False(t, s.data.HasDetails)
	assert.Contains(t, text, "Basic Info")
	assert.Contains(t, text, "C-101")
	assert.Contains(t, text, "3000")
	assert.Contains(t, text, "01 Apr 2024")
	assert.Equal(t, "Case C-101", s.title())
}

func TestEditCasePatchesOnlyEditedFields(t *testing.T) {
	b := newBackend()
	b.cases = sampleCases()
	b.courts = []model.LookupItem{{ID: "1", Name: "District Court"}, {ID: "2", Name: "Sessions Court"}}
	ui := newTestUI(t, b)
	require.NoError(t, ui.Navigate("/cases/all"))
	s := activeList(t, ui)

	form := s.editForm(s.snap.Items[0])
	assert.Equal(t, "District Court", formValue(form, "Court"))
	findItem(form, "Case No").(*tview.InputField).SetText(" C-101A ")
	findItem(form, "Court").(*tview.DropDown).SetCurrentOption(1)
	s.saveEdit(form, "c1")

	require.Equal(t, 1, b.count("PATCH /cases/:id"))
	assert.Equal(t, 0, b.count("PUT /update-case/c1"))
	assert.JSONEq(t, `{"caseNo":"C-101A","court":"Sessions Court","status":"Running"}`, b.body("PATCH /cases/:id"))
	assert.Equal(t, 2, b.count("GET /cases"))
	assert.Contains(t, ui.statusText(), "Case updated")
}

func TestEditFormOpensWhenCourtsFail(t *testing.T) {
	b := newBackend()
	b.cases = sampleCases()
	b.failLookup = true
	ui := newTestUI(t, b)
	require.NoError(t, ui.Navigate("/cases/all"))
	s := activeList(t, ui)

	form := s.editForm(s.snap.Items[1])
	assert.Equal(t, "High Court", formValue(form, "Court"))
	assert.Contains(t, ui.statusText(), "Failed to load courts")
	assert.Contains(t, ui.statusText(), "lookup store offline")

	filters := s.filterForm()
	assert.Equal(t, "", formValue(filters, "Company"))
	assert.Contains(t, ui.statusText(), "Failed to load companies")
}

func TestDropDownFilledAfterLoad(t *testing.T) {
	b := newBackend()
	b.courts = []model.LookupItem{{ID: "1", Name: "District Court"}, {ID: "2", Name: "Sessions Court"}}
	ui := newTestUI(t, b)
	var pending []func()
	ui.dispatch = func(f func()) { pending = append(pending, f) }

	dd := tview.NewDropDown()
	ui.loadDropDown(dd, lookup.Court, true, "Old Court")
	assert.Equal(t, 2, dd.GetOptionCount())
	_, current := dd.GetCurrentOption()
	assert.Equal(t, "Old Court", current)
	assert.Equal(t, 0, b.count("GET /courts"), "names are read off the calling goroutine")

	dd.SetCurrentOption(0)
	require.Len(t, pending, 1)
	pending[0]()

	assert.Equal(t, 1, b.count("GET /courts"))
	assert.Equal(t, 4, dd.GetOptionCount())
	i, current := dd.GetCurrentOption()
	assert.Equal(t, 0, i)
	assert.Equal(t, "", current)
}

func TestStaleSnapshotDoesNotRewindLocation(t *testing.T) {
	b := newBackend()
	ui := newTestUI(t, b)
	require.NoError(t, ui.Navigate("/cases/all"))
	s := activeList(t, ui)
	require.NoError(t, ui.goTo("/cases/all?page=2"))
	require.Equal(t, "/cases/all?page=2", ui.Location())

	s.render(listview.Snapshot[model.Case]{
		State:    listview.StateLoaded,
		Seq:      1,
		Location: "/cases/all",
		Items:    sampleCases(),
	})

	assert.Equal(t, "/cases/all?page=2", ui.Location())
	assert.Equal(t, noCases, s.table.GetCell(1, 0).Text)
}

func openDetail(t *testing.T, ui *UI, id string) *caseDetailScreen {
	t.Helper()
	require.NoError(t, ui.Navigate("/cases/detail/"+id))
	s, ok := ui.active.(*caseDetailScreen)
	require.True(t, ok, "active screen is %T", ui.active)
	require.True(t, s.loaded)
	return s
}

func TestDetailPartyChanges(t *testing.T) {
	b := newBackend()
	b.cases = []model.Case{{ID: "c1", CaseNo: "C-101"}}
	b.parties = []model.Party{{ID: "p1", Name: "Karim", Role: "Witness"}}
	ui := newTestUI(t, b)
	s := openDetail(t, ui, "c1")
	require.Len(t, s.data.Parties, 1)

	p := s.data.Parties[0]
	p.Phone = "01711000000"
	s.updateParty(p)
	require.Equal(t, 1, b.count("PUT /caseParty/c1/parties/p1"))
	assert.JSONEq(t, `{"_id":"p1","name":"Karim","role":"Witness","phone":"01711000000"}`, b.body("PUT /caseParty/c1/parties/p1"))
	assert.Contains(t, ui.statusText(), "Party updated")
	assert.Equal(t, 2, b.count("GET /cases/c1"))

	picker := s.partyPicker()
	picker.GetButton(1).InputHandler()(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), func(tview.Primitive) {})
	assert.Equal(t, 0, b.count("DELETE /caseParty/c1/parties/p1"), "delete waits for confirmation")
	btn, ok := ui.app.GetFocus().(*tview.Button)
	require.True(t, ok, "focus is %T", ui.app.GetFocus())
	assert.Equal(t, "Cancel", btn.GetLabel())

	s.deleteParty(s.data.Parties[0])
	assert.Equal(t, 1, b.count("DELETE /caseParty/c1/parties/p1"))
	assert.Contains(t, ui.statusText(), "Party removed")
	assert.Equal(t, 3, b.count("GET /cases/c1"))

	s.updateParty(model.Party{Name: "No Id"})
	assert.Contains(t, ui.statusText(), "Failed to update party")

	entries, err := ui.store.ListAuditEntries(context.Background(), "case", 10)
	require.NoError(t, err)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.ElementsMatch(t, []string{"update_party", "delete_party", "update_party"}, actions)
}

func TestDetailPaymentChanges(t *testing.T) {
	b := newBackend()
	b.cases = []model.Case{{ID: "c1", CaseNo: "C-101"}}
	b.payments = []model.Payment{{ID: "m1", Amount: 1500, Date: "2024-04-02", Method: "cash"}}
	ui := newTestUI(t, b)
	s := openDetail(t, ui, "c1")
	require.Len(t, s.data.Payments, 1)
	assert.Contains(t, s.view.GetText(true), "1500")

	p := s.data.Payments[0]
	p.Amount = 2000
	s.updatePayment(p)
	require.Equal(t, 1, b.count("PUT /casePayments/c1/payments/m1"))
	assert.JSONEq(t, `{"_id":"m1","amount":2000,"date":"2024-04-02","method":"cash"}`, b.body("PUT /casePayments/c1/payments/m1"))
	assert.Contains(t, ui.statusText(), "Payment updated")

	s.deletePayment(s.data.Payments[0])
	assert.Equal(t, 1, b.count("DELETE /casePayments/c1/payments/m1"))
	assert.Contains(t, ui.statusText(), "Payment deleted")
	assert.Equal(t, 3, b.count("GET /cases/c1"))
}

func TestAdvocateSaveKeepsCaseDocument(t *testing.T) {
	b := newBackend()
	b.cases = []model.Case{{ID: "c1", CaseNo: "C-101"}}
	b.docs["c1"] = `{"_id":"c1","caseNo":"C-101","mobileNo":1712345678,` +
		`"fees":{"payable":"1000","paid":200,"currency":"BDT"},` +
		`"previousDates":[{"date":"2024-01-02","note":"adjourned"}],"assignedDesk":"B-4"}`
	ui := newTestUI(t, b)
	s := openDetail(t, ui, "c1")
	assert.Equal(t, "1712345678", s.data.Case.MobileNo)

	c := s.data.Case
	c.OppositeAdvocate = "Alam"
	s.saveCase(c)

	require.Equal(t, 1, b.count("PUT /update-case/c1"))
	assert.JSONEq(t, `{"_id":"c1","caseNo":"C-101","mobileNo":1712345678,`+
		`"fees":{"payable":"1000","paid":200,"currency":"BDT"},`+
		`"previousDates":[{"date":"2024-01-02","note":"adjourned"}],"assignedDesk":"B-4",`+
		`"oppositeAdvocate":"Alam"}`, b.body("PUT /update-case/c1"))
	assert.Contains(t, ui.statusText(), "Case updated")
}

func TestCycleTheme(t *testing.T) {
	ui := newTestUI(t, newBackend())
	assert.Equal(t, "dark", ui.themeName)

	for _, want := range []string{"light", "neon", "cb-safe", "high-contrast", "dark"} {
		ui.cycleTheme()
		assert.Equal(t, want, ui.themeName)
	}

	ui.setTheme("no-such-theme")
	assert.Equal(t, "dark", ui.themeName)
}
