// Package notes wraps the daily-notes endpoints with the checks the console
// applies before and after each call.
package notes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"go.uber.org/zap"
)

var ErrNotDeleted = errors.New("note was not deleted")

type API interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	CreateNote(ctx context.Context, note, date string) (model.MutationResult, error)
	UpdateNote(ctx context.Context, id, note string) (model.MutationResult, error)
	DeleteNote(ctx context.Context, id string) (model.MutationResult, error)
}

type Service struct {
	api    API
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewService(api API, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{api: api, now: time.Now, logger: logger}
}

// List returns notes newest first.
func (s *Service) List(ctx context.Context) ([]model.Note, error) {
	notes, err := s.api.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		ti, _ := model.ParseDate(notes[i].Date)
		tj, _ := model.ParseDate(notes[j].Date)
		return ti.After(tj)
	})
	return notes, nil
}

// Add creates a note stamped with the current time.
func (s *Service) Add(ctx context.Context, text string) (model.MutationResult, error) {
	text, err := forms.ValidateNote(text)
	if err != nil {
		return model.MutationResult{}, err
	}
	res, err := s.api.CreateNote(ctx, text, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return res, fmt.Errorf("add note: %w", err)
	}
	s.logger.Debugw("note added", "id", res.InsertedID)
	return res, nil
}

// Edit replaces a note's text.
func (s *Service) Edit(ctx context.Context, id, text string) (model.MutationResult, error) {
	text, err := forms.ValidateNoteEdit(text)
	if err != nil {
		return model.MutationResult{}, err
	}
	res, err := s.api.UpdateNote(ctx, id, text)
	if err != nil {
		return res, fmt.Errorf("edit note %s: %w", id, err)
	}
	if res.ModifiedCount == 0 && res.Acknowledged {
		s.logger.Debugw("note unchanged", "id", id)
	}
	return res, nil
}

// Delete removes a note; a zero deletedCount is reported as ErrNotDeleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.api.DeleteNote(ctx, id)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotDeleted
	}
	return nil
}

// Today returns the notes dated on the current local day.
func (s *Service) Today(ctx context.Context) ([]model.Note, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	y, m, d := s.now().Date()
	var out []model.Note
	for _, n := range all {
		t, ok := model.ParseDate(n.Date)
		if !ok {
			continue
		}
		ny, nm, nd := t.In(s.now().Location()).Date()
		if ny == y && nm == m && nd == d {
			out = append(out, n)
		}
	}
	return out, nil
}
