// Package forms holds the client-side checks run before a form is submitted.
package forms

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/go-playground/validator/v10"
)

const MsgRequired = "This field is required"

var (
	ErrNameRequired = errors.New("name is required")
	ErrNoteRequired = errors.New("Please write a note before submitting")
	ErrNoteEmpty    = errors.New("Note cannot be empty")
)

// FieldErrors maps a JSON field name to the message shown under its input.
type FieldErrors map[string]string

// Fields returns the errored field names, sorted.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Merge overlays server-reported field errors onto local ones.
func Merge(local, server map[string]string) FieldErrors {
	out := FieldErrors{}
	for k, v := range local {
		out[k] = v
	}
	for k, v := range server {
		if v == "" {
			v = "Invalid value"
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCase checks the add-case payload. Whitespace-only values count as
// empty. It returns nil when the payload can be submitted.
func ValidateCase(in model.CaseInput) FieldErrors {
	trimmed := in
	trimmed.FileNo = strings.TrimSpace(in.FileNo)
	trimmed.CaseNo = strings.TrimSpace(in.CaseNo)
	trimmed.Date = strings.TrimSpace(in.Date)
	trimmed.Court = strings.TrimSpace(in.Court)
	trimmed.FirstParty = strings.TrimSpace(in.FirstParty)

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	fe := FieldErrors{}
	for _, e := range verrs {
		fe[e.Field()] = MsgRequired
	}
	return fe
}

// ValidateName rejects empty lookup names.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

// ValidateNote rejects an empty new note.
func ValidateNote(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoteRequired
	}
	return text, nil
}

// ValidateNoteEdit rejects clearing an existing note.
func ValidateNoteEdit(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoteEmpty
	}
	return text, nil
}
