package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCasePreservesUnknownFields(t *testing.T) {
	raw := `{"_id":"c1","caseNo":"12/2024","status":"Running","assignedDesk":"B-4","fees":{"payable":"1500","paid":500}}`

	var c Case
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, StatusRunning, c.Status)
	require.NotNil(t, c.Fees)
	assert.Equal(t, Amount(1500), c.Fees.Payable)
	assert.Equal(t, Amount(1000), c.Fees.Due())

	extra, ok := c.Extra("assignedDesk")
	require.True(t, ok)
	assert.JSONEq(t, `"B-4"`, string(extra))

	c.Court = "District Court"
	out, err := json.Marshal(c)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "B-4", back["assignedDesk"])
	assert.Equal(t, "District Court", back["court"])
}

func TestPreviousDatesAcceptsStringsAndObjects(t *testing.T) {
	var c Case
	require.NoError(t, json.Unmarshal([]byte(`{"previousDates":["2024-01-02",{"date":"2024-02-03"}]}`), &c))
	assert.Equal(t, []DateEntry{"2024-01-02", "2024-02-03"}, c.PreviousDates)
}

func TestCaseRoundTripKeepsNestedDocument(t *testing.T) {
	raw := `{"_id":"c1","court":"Old Court","fees":{"payable":"1000","paid":200,"currency":"BDT"},"previousDates":[{"date":"2024-01-02","note":"adjourned"}]}`

	var c Case
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, []DateEntry{"2024-01-02"}, c.PreviousDates)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))

	c.Court = "District Court"
	c.Fees.Paid = 300
	out, err = json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"c1","court":"District Court","fees":{"payable":"1000","paid":300,"currency":"BDT"},"previousDates":[{"date":"2024-01-02","note":"adjourned"}]}`, string(out))

	c.Court = ""
	out, err = json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"court"`)
}

func TestCasePageToleratesOffTypeFields(t *testing.T) {
	raw := `{"cases":[{"_id":"1","caseNo":"A-1","mobileNo":1712345678},{"_id":"2","caseNo":"A-2","date":["2024-01-01"],"fees":"n/a"}],"totalPages":1}`

	var page CasePage
	require.NoError(t, json.Unmarshal([]byte(raw), &page))
	require.Len(t, page.Cases, 2)
	assert.Equal(t, "1712345678", page.Cases[0].MobileNo)
	assert.Equal(t, "A-1", page.Cases[0].CaseNo)
	assert.Equal(t, "A-2", page.Cases[1].CaseNo)
	assert.Equal(t, "", page.Cases[1].Date)
	assert.Nil(t, page.Cases[1].Fees)

	first, err := json.Marshal(page.Cases[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"1","caseNo":"A-1","mobileNo":1712345678}`, string(first))

	second, err := json.Marshal(page.Cases[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"2","caseNo":"A-2","date":["2024-01-01"],"fees":"n/a"}`, string(second))
}

func TestAmountReadsUnparseableAsZero(t *testing.T) {
	var f Fees
	require.NoError(t, json.Unmarshal([]byte(`{"payable":"1,000","paid":true}`), &f))
	assert.Equal(t, Amount(0), f.Payable)
	assert.Equal(t, Amount(0), f.Paid)

	require.NoError(t, json.Unmarshal([]byte(`{"payable":" 250.5 ","paid":null}`), &f))
	assert.Equal(t, Amount(250.5), f.Payable)
}

func TestDetailsKeepUnknownFeeKeys(t *testing.T) {
	var d CaseDetails
	require.NoError(t, json.Unmarshal([]byte(`{"description":"d","laws":"l","fees":{"payable":500,"paid":0,"currency":"BDT"},"updatedBy":"rahim"}`), &d))
	d.Fees.Paid = 100
	d.Laws = "s.302"
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"d","laws":"s.302","fees":{"payable":500,"paid":100,"currency":"BDT"},"updatedBy":"rahim"}`, string(out))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "05 Mar 2024", DisplayDate("2024-03-05"))
	assert.Equal(t, "05 Mar 2024", DisplayDate("2024-03-05T10:00:00.000Z"))
	assert.Equal(t, "-", DisplayDate(" "))
	assert.Equal(t, "next week", DisplayDate("next week"))
}

func TestIsCompleted(t *testing.T) {
	assert.True(t, Case{Status: "completed"}.IsCompleted())
	assert.False(t, Case{Status: StatusRunning}.IsCompleted())
}
