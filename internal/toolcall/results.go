package toolcall

import (
	"encoding/json"
	"errors"
	"fmt"

	"backend-honeymoonhq/internal/itinerary"
)

const (
	NameCreateEvent        = "create_event"
	NameShowTimeline       = "show_timeline"
	NameSuggestExperiences = "suggest_experiences"
)

var ErrUnknownTool = errors.New("unknown tool")

// Result is the payload of one completed tool call. The set of implementations
// is closed: CreateEvent, ShowTimeline and SuggestExperiences.
type Result interface {
	ToolName() string
	isResult()
}

// Call is a completed tool invocation attached to an assistant message.
type Call struct {
	Name string `json:"name"`
	Data Result `json:"data"`
}

func (c *Call) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := Decode(raw.Name, raw.Data)
	if err != nil {
		return err
	}
	c.Name, c.Data = raw.Name, data
	return nil
}

type CreateEvent struct {
	Type          itinerary.EventType `json:"type"`
	Title         string              `json:"title"`
	Location      string              `json:"location"`
	Country       string              `json:"country"`
	Start         string              `json:"datetime_start"`
	End           string              `json:"datetime_end,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	CostEstimated *float64            `json:"cost_estimated,omitempty"`
	Currency      string              `json:"currency,omitempty"`
}

func (CreateEvent) ToolName() string { return NameCreateEvent }
func (CreateEvent) isResult()        {}

// Draft converts the call into a chat-sourced draft event.
func (c CreateEvent) Draft() itinerary.Draft {
	return itinerary.Draft{
		Type:          typeOrDefault(c.Type),
		Status:        itinerary.StatusDraft,
		Title:         c.Title,
		Location:      c.Location,
		Start:         c.Start,
		End:           c.End,
		Notes:         c.Notes,
		Source:        itinerary.SourceUserChat,
		CostEstimated: c.CostEstimated,
		Currency:      currencyOrDefault(c.Currency),
	}
}

type ShowTimeline struct {
	Date    string `json:"date"`
	Country string `json:"country,omitempty"`
}

func (ShowTimeline) ToolName() string { return NameShowTimeline }
func (ShowTimeline) isResult()        {}

type Suggestion struct {
	Title         string              `json:"title"`
	Type          itinerary.EventType `json:"type"`
	Location      string              `json:"location"`
	Description   string              `json:"description"`
	CostEstimated *float64            `json:"cost_estimated,omitempty"`
	Currency      string              `json:"currency,omitempty"`
	Emoji         string              `json:"emoji"`
	Country       string              `json:"country"`
	Start         string              `json:"datetime_start"`
}

// Draft converts an accepted suggestion into a chat-sourced draft event. The
// description becomes the event notes.
func (s Suggestion) Draft() itinerary.Draft {
	return itinerary.Draft{
		Type:          typeOrDefault(s.Type),
		Status:        itinerary.StatusDraft,
		Title:         s.Title,
		Location:      s.Location,
		Start:         s.Start,
		Notes:         s.Description,
		Source:        itinerary.SourceUserChat,
		CostEstimated: s.CostEstimated,
		Currency:      currencyOrDefault(s.Currency),
	}
}

type SuggestExperiences struct {
	Suggestions []Suggestion `json:"suggestions"`
}

func (SuggestExperiences) ToolName() string { return NameSuggestExperiences }
func (SuggestExperiences) isResult()        {}

// Decode builds the typed payload for the named tool from its JSON arguments.
func Decode(name string, raw []byte) (Result, error) {
	var (
		res Result
		err error
	)
	switch name {
	case NameCreateEvent:
		var v CreateEvent
		err = json.Unmarshal(raw, &v)
		res = v
	case NameShowTimeline:
		var v ShowTimeline
		err = json.Unmarshal(raw, &v)
		res = v
	case NameSuggestExperiences:
		var v SuggestExperiences
		err = json.Unmarshal(raw, &v)
		res = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return res, nil
}

// typeOrDefault maps a type the model made up to an activity.
func typeOrDefault(t itinerary.EventType) itinerary.EventType {
	if !t.Valid() {
		return itinerary.TypeActivity
	}
	return t
}

func currencyOrDefault(c string) string {
	if c == "" {
		return itinerary.DefaultCurrency
	}
	return c
}
