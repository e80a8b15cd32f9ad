// Package ingest bulk-creates cases from JSON and JSONL files.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/Ashfaaq98/docket-console/internal/store"
	"go.uber.org/zap"
)

// CaseCreator is the part of the API client the importer needs.
type CaseCreator interface {
	CreateCase(ctx context.Context, in model.CaseInput) (model.MutationResult, error)
}

// Journal records imported cases locally. *store.Store satisfies it.
type Journal interface {
	AddAuditEntry(ctx context.Context, entry store.AuditEntry) error
}

// Report summarizes an import run.
type Report struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

func (r *Report) add(o Report) {
	r.Imported += o.Imported
	r.Failed += o.Failed
	r.Errors = append(r.Errors, o.Errors...)
}

// Importer validates records and creates them on the backend.
type Importer struct {
	api     CaseCreator
	journal Journal
	bus     bus.Bus
	logger  *zap.SugaredLogger

	mu     sync.Mutex
	report Report
}

// NewImporter builds an importer. journal and b may be nil.
func NewImporter(api CaseCreator, journal Journal, b bus.Bus, logger *zap.SugaredLogger) *Importer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if b == nil {
		b = bus.NewNullBus(logger)
	}
	return &Importer{api: api, journal: journal, bus: b, logger: logger}
}

// Report returns the totals accumulated so far.
func (im *Importer) Report() Report {
	im.mu.Lock()
	defer im.mu.Unlock()
	r := im.report
	r.Errors = append([]string(nil), im.report.Errors...)
	return r
}

// ImportJSON imports a single object or an array of objects.
func (im *Importer) ImportJSON(ctx context.Context, source string, data []byte) (Report, error) {
	trim := bytes.TrimSpace(data)
	if len(trim) == 0 {
		return Report{}, nil
	}

	var raws []json.RawMessage
	if trim[0] == '[' {
		if err := json.Unmarshal(trim, &raws); err != nil {
			return Report{}, fmt.Errorf("%s: %w", source, err)
		}
	} else {
		raws = []json.RawMessage{trim}
	}

	var rep Report
	for i, raw := range raws {
		rep.add(im.importRecord(ctx, fmt.Sprintf("%s[%d]", source, i), raw))
	}
	return rep, nil
}

// ImportRecord imports one JSON object. label identifies it in errors.
func (im *Importer) ImportRecord(ctx context.Context, label string, raw []byte) Report {
	return im.importRecord(ctx, label, raw)
}

func (im *Importer) importRecord(ctx context.Context, label string, raw []byte) Report {
	rep := im.create(ctx, label, raw)
	im.mu.Lock()
	im.report.add(rep)
	im.mu.Unlock()
	return rep
}

func (im *Importer) create(ctx context.Context, label string, raw []byte) Report {
	fail := func(msg string) Report {
		im.logger.Warnw("import record rejected", "record", label, "reason", msg)
		return Report{Failed: 1, Errors: []string{label + ": " + msg}}
	}

	var in model.CaseInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fail(err.Error())
	}
	in.FileNo = strings.TrimSpace(in.FileNo)
	in.CaseNo = strings.TrimSpace(in.CaseNo)
	in.Court = strings.TrimSpace(in.Court)
	in.FirstParty = strings.TrimSpace(in.FirstParty)
	if in.Status == "" {
		in.Status = model.StatusPending
	}

	if fe := forms.ValidateCase(in); len(fe) > 0 {
		return fail("missing " + strings.Join(fe.Fields(), ", "))
	}

	res, err := im.api.CreateCase(ctx, in)
	if err != nil {
		im.journalEntry(ctx, store.AuditEntry{
			Entity: "case", Action: "import", Outcome: store.OutcomeFailure,
			Details: map[string]string{"caseNo": in.CaseNo, "error": err.Error()},
		})
		return fail(err.Error())
	}

	im.journalEntry(ctx, store.AuditEntry{
		Entity: "case", RecordID: res.InsertedID, Action: "import",
		Details: map[string]string{"caseNo": in.CaseNo, "source": label},
	})
	if err := im.bus.PublishChange(ctx, bus.ChangeMessage{Entity: "case", Action: "create", RecordID: res.InsertedID}); err != nil {
		im.logger.Debugw("change publish failed", "error", err)
	}
	im.logger.Debugw("imported case", "record", label, "id", res.InsertedID)
	return Report{Imported: 1}
}

func (im *Importer) journalEntry(ctx context.Context, e store.AuditEntry) {
	if im.journal == nil {
		return
	}
	if err := im.journal.AddAuditEntry(ctx, e); err != nil {
		im.logger.Warnw("failed to journal import", "error", err)
	}
}
