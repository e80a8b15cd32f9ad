package model

// CaseInput is the payload of the add-case form.
type CaseInput struct {
	FileNo        string `json:"fileNo" validate:"required"`
	CaseNo        string `json:"caseNo" validate:"required"`
	Date          string `json:"date" validate:"required"`
	Court         string `json:"court" validate:"required"`
	FirstParty    string `json:"firstParty" validate:"required"`
	Company       string `json:"company,omitempty"`
	SecondParty   string `json:"secondParty,omitempty"`
	AppointedBy   string `json:"appointedBy,omitempty"`
	CaseType      string `json:"caseType,omitempty"`
	PoliceStation string `json:"policeStation,omitempty"`
	FixedFor      string `json:"fixedFor,omitempty"`
	MobileNo      string `json:"mobileNo,omitempty"`
	LawSection    string `json:"lawSection,omitempty"`
	Comments      string `json:"comments,omitempty"`
	Status        Status `json:"status,omitempty"`
}

// CasePage is one server page of cases.
type CasePage struct {
	Cases      []Case `json:"cases"`
	TotalPages int    `json:"totalPages"`
	Total      int    `json:"total,omitempty"`
}

// CaseDetails is the free-text and fee section of a case.
type CaseDetails struct {
	Description string `json:"description"`
	Laws        string `json:"laws"`
	Fees        Fees   `json:"fees"`

	doc document
}

type detailsAlias CaseDetails

func (d *CaseDetails) UnmarshalJSON(data []byte) error {
	var a detailsAlias
	doc, err := decodeObject(data, &a)
	if err != nil {
		return err
	}
	*d = CaseDetails(a)
	d.doc = doc
	return nil
}

func (d CaseDetails) MarshalJSON() ([]byte, error) {
	return d.doc.encode(detailsAlias(d))
}

type Party struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	doc document
}

type partyAlias Party

func (p *Party) UnmarshalJSON(data []byte) error {
	var a partyAlias
	doc, err := decodeObject(data, &a)
	if err != nil {
		return err
	}
	*p = Party(a)
	p.doc = doc
	return nil
}

func (p Party) MarshalJSON() ([]byte, error) {
	return p.doc.encode(partyAlias(p))
}

type Payment struct {
	ID     string `json:"_id,omitempty"`
	Amount Amount `json:"amount"`
	Date   string `json:"date,omitempty"`
	Method string `json:"method,omitempty"`
	Note   string `json:"note,omitempty"`

	doc document
}

type paymentAlias Payment

func (p *Payment) UnmarshalJSON(data []byte) error {
	var a paymentAlias
	doc, err := decodeObject(data, &a)
	if err != nil {
		return err
	}
	*p = Payment(a)
	p.doc = doc
	return nil
}

func (p Payment) MarshalJSON() ([]byte, error) {
	return p.doc.encode(paymentAlias(p))
}

// Note is a daily note.
type Note struct {
	ID   string `json:"_id,omitempty"`
	Note string `json:"note"`
	Date string `json:"date,omitempty"`
}

// LookupItem is an element of a reference list (court, company, ...).
type LookupItem struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// MutationResult mirrors the acknowledgement documents the backend returns
// for writes.
type MutationResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	InsertedID    string `json:"insertedId,omitempty"`
	ModifiedCount int    `json:"modifiedCount,omitempty"`
	DeletedCount  int    `json:"deletedCount,omitempty"`
}
