package chat

import (
	"backend-honeymoonhq/internal/itinerary"
	"backend-honeymoonhq/internal/toolcall"
)

type EventAdder interface {
	AddEvent(draft itinerary.Draft, countryName string) itinerary.Event
}

// ApplyResults files every create_event call of a turn as a draft event.
// Other tools only affect how the message is rendered.
func ApplyResults(adder EventAdder, calls []toolcall.Call) []itinerary.Event {
	var created []itinerary.Event
	for _, call := range calls {
		ce, ok := call.Data.(toolcall.CreateEvent)
		if !ok {
			continue
		}
		created = append(created, adder.AddEvent(ce.Draft(), ce.Country))
	}
	return created
}

func AcceptSuggestion(adder EventAdder, s toolcall.Suggestion) itinerary.Event {
	return adder.AddEvent(s.Draft(), s.Country)
}
