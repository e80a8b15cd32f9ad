package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Ashfaaq98/docket-console/internal/model"
)

// CaseQuery selects one page of cases.
type CaseQuery struct {
	Page      int
	Limit     int
	Search    string
	StartDate string
	EndDate   string
	Company   string
	// Fixed carries variant parameters such as status or fixedFor.
	Fixed map[string]string
}

// Values encodes the query; empty parameters are left out.
func (q CaseQuery) Values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", q.Search)
	set("startDate", q.StartDate)
	set("endDate", q.EndDate)
	set("company", q.Company)
	for k, val := range q.Fixed {
		set(k, val)
	}
	return v
}

func (c *Client) ListCases(ctx context.Context, q CaseQuery) (model.CasePage, error) {
	var page model.CasePage
	if err := c.do(ctx, http.MethodGet, "/cases", q.Values(), nil, &page); err != nil {
		return model.CasePage{}, err
	}
	if page.Cases == nil {
		page.Cases = []model.Case{}
	}
	return page, nil
}

func (c *Client) GetCase(ctx context.Context, id string) (model.Case, error) {
	var cs model.Case
	err := c.do(ctx, http.MethodGet, "/cases/"+escape(id), nil, nil, &cs)
	return cs, err
}

func (c *Client) CreateCase(ctx context.Context, in model.CaseInput) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPost, "/cases", nil, in, &res)
	return res, err
}

// UpdateCase replaces the whole case document.
func (c *Client) UpdateCase(ctx context.Context, id string, cs model.Case) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPut, "/update-case/"+escape(id), nil, cs, &res)
	return res, err
}

// PatchCase sends only the given fields.
func (c *Client) PatchCase(ctx context.Context, id string, fields map[string]interface{}) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPatch, "/cases/"+escape(id), nil, fields, &res)
	return res, err
}

func (c *Client) DeleteCase(ctx context.Context, id string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodDelete, "/cases/"+escape(id), nil, nil, &res)
	return res, err
}

// AddCaseDate records a hearing date. When the backend answers with the
// updated case document it is returned; otherwise the result is nil and the
// caller decides how to refresh.
func (c *Client) AddCaseDate(ctx context.Context, id, date string) (*model.Case, error) {
	var raw json.RawMessage
	body := map[string]string{"date": date}
	if err := c.do(ctx, http.MethodPost, "/caseDates/"+escape(id)+"/dates", nil, body, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("decode add-date response: %w", err)
	}
	doc := raw
	if nested, ok := top["case"]; ok {
		doc = nested
	} else if _, ok := top["_id"]; !ok {
		return nil, nil
	}
	var cs model.Case
	if err := json.Unmarshal(doc, &cs); err != nil {
		return nil, fmt.Errorf("decode add-date case: %w", err)
	}
	return &cs, nil
}

func detailsPath(caseID string) string { return "/casesDetails/" + escape(caseID) + "/details" }

func (c *Client) GetCaseDetails(ctx context.Context, caseID string) (model.CaseDetails, error) {
	var d model.CaseDetails
	err := c.do(ctx, http.MethodGet, detailsPath(caseID), nil, nil, &d)
	return d, err
}

func (c *Client) CreateCaseDetails(ctx context.Context, caseID string, d model.CaseDetails) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPost, detailsPath(caseID), nil, d, &res)
	return res, err
}

func (c *Client) UpdateCaseDetails(ctx context.Context, caseID string, d model.CaseDetails) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPut, detailsPath(caseID), nil, d, &res)
	return res, err
}

func partiesPath(caseID string) string { return "/caseParty/" + escape(caseID) + "/parties" }

func (c *Client) ListParties(ctx context.Context, caseID string) ([]model.Party, error) {
	var out []model.Party
	err := c.do(ctx, http.MethodGet, partiesPath(caseID), nil, nil, &out)
	return out, err
}

func (c *Client) AddParty(ctx context.Context, caseID string, p model.Party) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPost, partiesPath(caseID), nil, p, &res)
	return res, err
}

func (c *Client) UpdateParty(ctx context.Context, caseID, partyID string, p model.Party) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPut, partiesPath(caseID)+"/"+escape(partyID), nil, p, &res)
	return res, err
}

func (c *Client) DeleteParty(ctx context.Context, caseID, partyID string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodDelete, partiesPath(caseID)+"/"+escape(partyID), nil, nil, &res)
	return res, err
}

func paymentsPath(caseID string) string { return "/casePayments/" + escape(caseID) + "/payments" }

func (c *Client) ListPayments(ctx context.Context, caseID string) ([]model.Payment, error) {
	var out []model.Payment
	err := c.do(ctx, http.MethodGet, paymentsPath(caseID), nil, nil, &out)
	return out, err
}

func (c *Client) AddPayment(ctx context.Context, caseID string, p model.Payment) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPost, paymentsPath(caseID), nil, p, &res)
	return res, err
}

func (c *Client) UpdatePayment(ctx context.Context, caseID, paymentID string, p model.Payment) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPut, paymentsPath(caseID)+"/"+escape(paymentID), nil, p, &res)
	return res, err
}

func (c *Client) DeletePayment(ctx context.Context, caseID, paymentID string) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodDelete, paymentsPath(caseID)+"/"+escape(paymentID), nil, nil, &res)
	return res, err
}
