package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a case as reported by the backend.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusRunning   Status = "Running"
	StatusCompleted Status = "Completed"
)

// Statuses lists the values offered in edit forms, in display order.
var Statuses = []Status{StatusPending, StatusRunning, StatusCompleted}

// Case is a legal matter record. The backend owns the document; fields the
// console does not know about are kept and written back untouched.
type Case struct {
	ID                    string      `json:"_id,omitempty"`
	FileNo                string      `json:"fileNo,omitempty"`
	CaseNo                string      `json:"caseNo,omitempty"`
	Date                  string      `json:"date,omitempty"`
	Company               string      `json:"company,omitempty"`
	FirstParty            string      `json:"firstParty,omitempty"`
	SecondParty           string      `json:"secondParty,omitempty"`
	AppointedBy           string      `json:"appointedBy,omitempty"`
	CaseType              string      `json:"caseType,omitempty"`
	Court                 string      `json:"court,omitempty"`
	PoliceStation         string      `json:"policeStation,omitempty"`
	FixedFor              string      `json:"fixedFor,omitempty"`
	MobileNo              string      `json:"mobileNo,omitempty"`
	LawSection            string      `json:"lawSection,omitempty"`
	Comments              string      `json:"comments,omitempty"`
	Status                Status      `json:"status,omitempty"`
	CreatedAt             string      `json:"createdAt,omitempty"`
	Description           string      `json:"description,omitempty"`
	Laws                  string      `json:"laws,omitempty"`
	Fees                  *Fees       `json:"fees,omitempty"`
	OppositeAdvocate      string      `json:"oppositeAdvocate,omitempty"`
	OppositeAdvocatePhone string      `json:"oppositeAdvocatePhone,omitempty"`
	PreviousDates         []DateEntry `json:"previousDates,omitempty"`

	doc document
}

// Fees holds the payable and paid amounts of a case.
type Fees struct {
	Payable Amount `json:"payable"`
	Paid    Amount `json:"paid"`
}

// Due returns the outstanding amount, never negative.
func (f *Fees) Due() Amount {
	if f == nil || f.Paid >= f.Payable {
		return 0
	}
	return f.Payable - f.Paid
}

// Amount accepts both JSON numbers and numeric strings. Forms on the
// backend side have been seen to store either. Anything else reads as zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = Amount(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*a = Amount(v)
	}
	return nil
}

func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

// DateEntry is one element of a case's previous dates. The backend stores
// either bare date strings or objects carrying a "date" key.
type DateEntry string

func (d *DateEntry) UnmarshalJSON(data []byte) error {
	*d = ""
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		data = obj["date"]
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DateEntry(s)
	}
	return nil
}

type caseAlias Case

func (c *Case) UnmarshalJSON(data []byte) error {
	var a caseAlias
	doc, err := decodeObject(data, &a)
	if err != nil {
		return err
	}
	*c = Case(a)
	c.doc = doc
	return nil
}

// MarshalJSON writes the case back as it was received, with the fields
// changed since decoding applied on top.
func (c Case) MarshalJSON() ([]byte, error) {
	return c.doc.encode(caseAlias(c))
}

// Extra returns a field the console does not model, if the backend sent it.
func (c Case) Extra(key string) (json.RawMessage, bool) {
	if caseKeys[key] {
		return nil, false
	}
	return c.doc.field(key)
}

var caseKeys = func() map[string]bool {
	t := reflect.TypeOf(caseAlias{})
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			keys[name] = true
		}
	}
	return keys
}()

// IsCompleted reports whether the case no longer needs a "mark complete" action.
func (c Case) IsCompleted() bool {
	return strings.EqualFold(string(c.Status), string(StatusCompleted))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// ParseDate parses the date formats the backend emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayDate renders a backend date as "02 Jan 2006"; unparseable input is
// returned unchanged and empty input becomes "-".
func DisplayDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	if t, ok := ParseDate(s); ok {
		return t.Format("02 Jan 2006")
	}
	return s
}
