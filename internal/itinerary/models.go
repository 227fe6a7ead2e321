package itinerary

type EventType string

const (
	TypeFlight    EventType = "flight"
	TypeHotel     EventType = "hotel"
	TypeActivity  EventType = "activity"
	TypeFood      EventType = "food"
	TypeTransport EventType = "transport"
)

func (t EventType) Valid() bool {
	switch t {
	case TypeFlight, TypeHotel, TypeActivity, TypeFood, TypeTransport:
		return true
	}
	return false
}

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusConfirmed EventStatus = "confirmed"
)

// EventSource records how an event's data originated.
type EventSource string

const (
	SourceManual     EventSource = "manual"
	SourceUserChat   EventSource = "user_chat"
	SourceFileParsed EventSource = "file_parsed"
)

const DefaultCurrency = "USD"

type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	Status        EventStatus `json:"status"`
	Title         string      `json:"title"`
	Location      string      `json:"location"`
	AttachmentURL string      `json:"attachment_url,omitempty"`
	Start         string      `json:"datetime_start"`
	End           string      `json:"datetime_end,omitempty"`
	Notes         string      `json:"notes"`
	Source        EventSource `json:"source"`
	CostEstimated *float64    `json:"cost_estimated,omitempty"`
	CostActual    *float64    `json:"cost_actual,omitempty"`
	Currency      string      `json:"currency,omitempty"`
}

type Day struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

type Country struct {
	Name      string `json:"country"`
	Flag      string `json:"flag"`
	DateRange string `json:"dateRange"`
	Days      []Day  `json:"days"`
}

// Draft is a partially specified event. Zero values are filled with defaults
// by Store.AddEvent.
type Draft struct {
	Type          EventType   `json:"type"`
	Status        EventStatus `json:"status"`
	Title         string      `json:"title"`
	Location      string      `json:"location"`
	AttachmentURL string      `json:"attachment_url"`
	Start         string      `json:"datetime_start"`
	End           string      `json:"datetime_end"`
	Notes         string      `json:"notes"`
	Source        EventSource `json:"source"`
	CostEstimated *float64    `json:"cost_estimated"`
	Currency      string      `json:"currency"`
}

// Patch carries field overwrites; nil fields are left untouched.
type Patch struct {
	Type          *EventType   `json:"type,omitempty"`
	Status        *EventStatus `json:"status,omitempty"`
	Title         *string      `json:"title,omitempty"`
	Location      *string      `json:"location,omitempty"`
	AttachmentURL *string      `json:"attachment_url,omitempty"`
	Start         *string      `json:"datetime_start,omitempty"`
	End           *string      `json:"datetime_end,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	Source        *EventSource `json:"source,omitempty"`
	CostEstimated *float64     `json:"cost_estimated,omitempty"`
	CostActual    *float64     `json:"cost_actual,omitempty"`
	Currency      *string      `json:"currency,omitempty"`
}

func (p Patch) apply(e Event) Event {
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.AttachmentURL != nil {
		e.AttachmentURL = *p.AttachmentURL
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.Source != nil {
		e.Source = *p.Source
	}
	if p.CostEstimated != nil {
		v := *p.CostEstimated
		e.CostEstimated = &v
	}
	if p.CostActual != nil {
		v := *p.CostActual
		e.CostActual = &v
	}
	if p.Currency != nil {
		e.Currency = *p.Currency
	}
	return e
}
