package itinerary

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// LocalLayout is the zone-less timestamp format used across the itinerary.
const LocalLayout = "2006-01-02T15:04"

var (
	nowFn   = time.Now
	newIDFn = uuid.NewString
)

// Store owns the country -> day -> event tree. Every mutation builds a new
// top-level slice and new slices along the changed path, so a snapshot handed
// out earlier is never modified. Callers must treat snapshots as read-only.
type Store struct {
	mu        sync.Mutex
	countries []Country
	observers []func([]Country)
}

// NewStore takes ownership of seed. Days are sorted and date ranges
// recomputed so hand-written seed data obeys the same invariants.
func NewStore(seed []Country) *Store {
	countries := make([]Country, 0, len(seed))
	for _, c := range seed {
		days := append([]Day(nil), c.Days...)
		sortDays(days)
		c.Days = days
		if c.Flag == "" {
			c.Flag = FlagFor(c.Name)
		}
		c.DateRange = DateRangeLabel(days)
		countries = append(countries, c)
	}
	return &Store{countries: countries}
}

// OnChange registers fn to receive every new snapshot. fn runs outside the
// store lock.
func (s *Store) OnChange(fn func([]Country)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) Snapshot() []Country {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countries
}

func (s *Store) Event(id string) (Event, bool) {
	for _, c := range s.Snapshot() {
		for _, d := range c.Days {
			for _, e := range d.Events {
				if e.ID == id {
					return e, true
				}
			}
		}
	}
	return Event{}, false
}

// AddEvent fills defaults on draft, files the event under countryName
// (creating the country on first use) and returns the stored event.
// countryName is assumed to be non-empty.
func (s *Store) AddEvent(draft Draft, countryName string) Event {
	event := newEvent(draft)
	date := DatePart(event.Start)

	s.mu.Lock()
	next := append([]Country(nil), s.countries...)
	idx := indexOfCountry(next, countryName)
	if idx < 0 {
		next = append(next, Country{Name: countryName, Flag: FlagFor(countryName)})
		idx = len(next) - 1
	}

	country := next[idx]
	days := append([]Day(nil), country.Days...)
	placed := false
	for i, d := range days {
		if d.Date == date {
			events := make([]Event, 0, len(d.Events)+1)
			events = append(events, d.Events...)
			days[i] = Day{Date: d.Date, Events: append(events, event)}
			placed = true
			break
		}
	}
	if !placed {
		days = append(days, Day{Date: date, Events: []Event{event}})
	}
	sortDays(days)

	country.Days = days
	country.DateRange = DateRangeLabel(days)
	next[idx] = country
	s.countries = next
	observers := s.observers
	s.mu.Unlock()

	notify(observers, next)
	return event
}

// UpdateEvent overwrites the fields set in patch on the event with the given
// id. It reports whether the event was found; unknown ids are a no-op.
func (s *Store) UpdateEvent(id string, patch Patch) bool {
	return s.ModifyEvent(id, func(Event) Patch { return patch })
}

// ModifyEvent builds the patch from the current event while holding the
// store lock, so no other update lands between the read and the write.
// build must not call back into the store.
func (s *Store) ModifyEvent(id string, build func(Event) Patch) bool {
	s.mu.Lock()
	found := false
	next := make([]Country, len(s.countries))
	for ci, c := range s.countries {
		next[ci] = c
		if found {
			continue
		}
		for di, d := range c.Days {
			ei := indexOfEvent(d.Events, id)
			if ei < 0 {
				continue
			}
			events := append([]Event(nil), d.Events...)
			events[ei] = build(events[ei]).apply(events[ei])
			days := append([]Day(nil), c.Days...)
			days[di] = Day{Date: d.Date, Events: events}
			c.Days = days
			next[ci] = c
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return false
	}
	s.countries = next
	observers := s.observers
	s.mu.Unlock()

	notify(observers, next)
	return true
}

// UpdateEventStatus sets status and, when attachmentURL is non-empty, the
// attachment reference.
func (s *Store) UpdateEventStatus(id string, status EventStatus, attachmentURL string) bool {
	patch := Patch{Status: &status}
	if attachmentURL != "" {
		patch.AttachmentURL = &attachmentURL
	}
	return s.UpdateEvent(id, patch)
}

// Timeline lists the events on date, optionally restricted to one country,
// ordered by start time.
func (s *Store) Timeline(date, countryName string) []Event {
	var events []Event
	for _, c := range s.Snapshot() {
		if countryName != "" && !sameCountry(c.Name, countryName) {
			continue
		}
		for _, d := range c.Days {
			if d.Date == date {
				events = append(events, d.Events...)
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})
	return events
}

func newEvent(d Draft) Event {
	e := Event{
		ID:            newIDFn(),
		Type:          d.Type,
		Status:        d.Status,
		Title:         d.Title,
		Location:      d.Location,
		AttachmentURL: d.AttachmentURL,
		Start:         d.Start,
		End:           d.End,
		Notes:         d.Notes,
		Source:        d.Source,
		CostEstimated: d.CostEstimated,
		Currency:      d.Currency,
	}
	if e.Type == "" {
		e.Type = TypeActivity
	}
	if e.Status == "" {
		e.Status = StatusDraft
	}
	if e.Source == "" {
		e.Source = SourceUserChat
	}
	if e.Currency == "" {
		e.Currency = DefaultCurrency
	}
	if e.Start == "" {
		e.Start = nowFn().Format(LocalLayout)
	}
	return e
}

// DatePart returns the calendar date of an ISO timestamp.
func DatePart(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

func sortDays(days []Day) {
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
}

func indexOfCountry(countries []Country, name string) int {
	for i, c := range countries {
		if sameCountry(c.Name, name) {
			return i
		}
	}
	return -1
}

func indexOfEvent(events []Event, id string) int {
	for i, e := range events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// sameCountry matches names by Unicode case folding only; accents are
// significant.
func sameCountry(a, b string) bool {
	return foldName(a) == foldName(b)
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

func notify(observers []func([]Country), snapshot []Country) {
	for _, fn := range observers {
		fn(snapshot)
	}
}
