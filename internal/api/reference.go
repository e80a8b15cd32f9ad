package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/model"
)

// Lookup endpoints take the collection path, e.g. "/courts".

func (c *Client) ListLookups(ctx context.Context, endpoint string) ([]model.LookupItem, error) {
	var out []model.LookupItem
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLookup(ctx context.Context, endpoint, name string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPost, endpoint, nil, model.LookupItem{Name: name}, &res)
	return res, err
}

func (c *Client) RenameLookup(ctx context.Context, endpoint, id, name string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPatch, endpoint+"/"+escape(id), nil, model.LookupItem{Name: name}, &res)
	return res, err
}

func (c *Client) DeleteLookup(ctx context.Context, endpoint, id string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodDelete, endpoint+"/"+escape(id), nil, nil, &res)
	return res, err
}

const notesPath = "/daily-notes"

func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	var out []model.Note
	if err := c.do(ctx, http.MethodGet, notesPath, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateNote(ctx context.Context, note, date string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPost, notesPath, nil, model.Note{Note: note, Date: date}, &res)
	return res, err
}

func (c *Client) UpdateNote(ctx context.Context, id, note string) (model.MutationResult, error) {
	var res model.MutationResult
	body := map[string]string{"note": note}
	err := c.do(ctx, http.MethodPatch, notesPath+"/"+escape(id), nil, body, &res)
	return res, err
}

func (c *Client) DeleteNote(ctx context.Context, id string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodDelete, notesPath+"/"+escape(id), nil, nil, &res)
	return res, err
}

// Count reads one dashboard counter, e.g. "running-cases-count".
func (c *Client) Count(ctx context.Context, endpoint string) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	path := "/dashboard/" + strings.TrimPrefix(endpoint, "/")
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &body); err != nil {
		return 0, err
	}
	return body.Count, nil
}

// Ping checks that the backend answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Count(ctx, "all-cases-count")
	return err
}
