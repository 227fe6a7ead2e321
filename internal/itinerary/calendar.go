package itinerary

import (
	"fmt"

	ics "github.com/arran4/golang-ical"
)

// Calendar renders the itinerary as an iCalendar feed. Events whose start
// cannot be parsed are left out.
func Calendar(countries []Country) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//honeymoonhq//itinerary//ES")

	stamp := nowFn().UTC()
	for _, c := range countries {
		for _, d := range c.Days {
			for _, e := range d.Events {
				start, err := ParseTimestamp(e.Start)
				if err != nil {
					continue
				}
				ev := cal.AddEvent(e.ID)
				ev.SetDtStampTime(stamp)
				ev.SetStartAt(start)
				if end, err := ParseTimestamp(e.End); err == nil {
					ev.SetEndAt(end)
				}
				ev.SetSummary(fmt.Sprintf("%s %s", c.Flag, e.Title))
				ev.SetLocation(e.Location)
				if e.Notes != "" {
					ev.SetDescription(e.Notes)
				}
				if e.Status == StatusConfirmed {
					ev.SetStatus(ics.ObjectStatusConfirmed)
				} else {
					ev.SetStatus(ics.ObjectStatusTentative)
				}
			}
		}
	}
	return cal.Serialize()
}
