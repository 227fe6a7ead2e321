package itinerary

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func stubIDs(t *testing.T) {
	t.Helper()
	origID, origNow := newIDFn, nowFn
	n := 0
	newIDFn = func() string {
		n++
		return fmt.Sprintf("ev-%d", n)
	}
	nowFn = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() {
		newIDFn, nowFn = origID, origNow
	})
}

func TestAddEventCreatesCountryWithFallbackFlag(t *testing.T) {
	stubIDs(t)
	store := NewStore(nil)

	ev := store.AddEvent(Draft{Title: "Castillo de Cair Paravel", Start: "2026-05-01T10:00"}, "Narnia")

	snap := store.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected one country, got %d", len(snap))
	}
	c := snap[0]
	if c.Name != "Narnia" || c.Flag != FallbackFlag || c.DateRange != "1 May" {
		t.Fatalf("unexpected country: %+v", c)
	}
	if len(c.Days) != 1 || c.Days[0].Date != "2026-05-01" || c.Days[0].Events[0].ID != ev.ID {
		t.Fatalf("unexpected days: %+v", c.Days)
	}
	if ev.ID != "ev-1" || ev.Type != TypeActivity || ev.Status != StatusDraft || ev.Source != SourceUserChat || ev.Currency != "USD" {
		t.Fatalf("defaults not applied: %+v", ev)
	}
}

func TestAddEventKnownCountryGetsFlag(t *testing.T) {
	stubIDs(t)
	store := NewStore(nil)
	store.AddEvent(Draft{Title: "Mezquita", Start: "2026-03-12T09:00"}, "Dubái")
	if got := store.Snapshot()[0].Flag; got != "🇦🇪" {
		t.Fatalf("flag = %q", got)
	}
}

func TestAddEventDefaultsStartToNow(t *testing.T) {
	stubIDs(t)
	store := NewStore(nil)
	ev := store.AddEvent(Draft{Title: "Sin fecha"}, "Grecia")
	if ev.Start != "2026-03-01T09:30" {
		t.Fatalf("start = %q", ev.Start)
	}
	if got := store.Snapshot()[0].Days[0].Date; got != "2026-03-01" {
		t.Fatalf("day = %q", got)
	}
}

func TestAddEventOrdersDaysAndRecomputesRange(t *testing.T) {
	stubIDs(t)
	store := NewStore(nil)
	for _, start := range []string{"2026-03-07T10:00", "2026-03-03T08:00", "2026-03-05T12:00", "2026-03-03T20:00"} {
		store.AddEvent(Draft{Title: start, Start: start}, "Grecia")
	}

	c := store.Snapshot()[0]
	var dates []string
	for _, d := range c.Days {
		dates = append(dates, d.Date)
	}
	if strings.Join(dates, ",") != "2026-03-03,2026-03-05,2026-03-07" {
		t.Fatalf("days out of order: %v", dates)
	}
	if len(c.Days[0].Events) != 2 {
		t.Fatalf("expected two events on first day, got %d", len(c.Days[0].Events))
	}
	if c.DateRange != "3 - 7 Mar" {
		t.Fatalf("date range = %q", c.DateRange)
	}
}

func TestAddEventMatchesCountryIgnoringCase(t *testing.T) {
	stubIDs(t)
	store := NewStore(Seed())
	before := len(store.Snapshot())

	store.AddEvent(Draft{Title: "Meteora", Start: "2026-03-09T09:00"}, "GRECIA")

	snap := store.Snapshot()
	if len(snap) != before {
		t.Fatalf("country duplicated: %d != %d", len(snap), before)
	}
	if snap[0].Name != "Grecia" || snap[0].DateRange != "3 - 9 Mar" {
		t.Fatalf("unexpected country: %s %s", snap[0].Name, snap[0].DateRange)
	}
}

func TestAddEventAccentsAreSignificant(t *testing.T) {
	stubIDs(t)
	store := NewStore(Seed())
	before := len(store.Snapshot())
	store.AddEvent(Draft{Title: "Sushi", Start: "2026-04-09T19:00"}, "Japon")
	if len(store.Snapshot()) != before+1 {
		t.Fatalf("expected a new country for unaccented name")
	}
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	stubIDs(t)
	store := NewStore(Seed())
	old := store.Snapshot()
	oldDays := len(old[0].Days)
	oldEvents := len(old[0].Days[0].Events)
	oldTitle := old[0].Days[0].Events[0].Title

	store.AddEvent(Draft{Title: "Extra", Start: "2026-03-03T12:00"}, "Grecia")
	store.AddEvent(Draft{Title: "Nuevo día", Start: "2026-03-08T12:00"}, "Grecia")
	title := "Cambiado"
	store.UpdateEvent("g1", Patch{Title: &title})

	if len(old[0].Days) != oldDays || len(old[0].Days[0].Events) != oldEvents {
		t.Fatalf("old snapshot changed shape")
	}
	if old[0].Days[0].Events[0].Title != oldTitle {
		t.Fatalf("old snapshot event mutated")
	}
	ev, _ := store.Event("g1")
	if ev.Title != "Cambiado" {
		t.Fatalf("update not visible: %q", ev.Title)
	}
}

func TestUpdateEventUnknownIDIsNoop(t *testing.T) {
	store := NewStore(Seed())
	calls := 0
	store.OnChange(func([]Country) { calls++ })
	title := "x"
	if store.UpdateEvent("missing", Patch{Title: &title}) {
		t.Fatalf("expected not found")
	}
	if calls != 0 {
		t.Fatalf("observers notified on no-op")
	}
}

func TestModifyEventIsAtomic(t *testing.T) {
	store := NewStore(Seed())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.ModifyEvent("g3", func(e Event) Patch {
				notes := e.Notes + "x"
				return Patch{Notes: &notes}
			})
		}()
	}
	wg.Wait()

	ev, _ := store.Event("g3")
	if !strings.HasSuffix(ev.Notes, strings.Repeat("x", 50)) {
		t.Fatalf("lost updates: %q", ev.Notes)
	}
	if store.ModifyEvent("missing", func(Event) Patch { return Patch{} }) {
		t.Fatalf("expected not found")
	}
}

func TestUpdateEventDoesNotRebucket(t *testing.T) {
	store := NewStore(Seed())
	start := "2026-03-09T10:00"
	if !store.UpdateEvent("g3", Patch{Start: &start}) {
		t.Fatalf("g3 not found")
	}
	for _, d := range store.Snapshot()[0].Days {
		for _, e := range d.Events {
			if e.ID == "g3" && d.Date != "2026-03-04" {
				t.Fatalf("event moved to %s", d.Date)
			}
		}
	}
}

func TestUpdateEventStatus(t *testing.T) {
	store := NewStore(Seed())
	var seen []Country
	store.OnChange(func(c []Country) { seen = c })

	if !store.UpdateEventStatus("g3", StatusConfirmed, "g3/1.pdf") {
		t.Fatalf("g3 not found")
	}
	ev, _ := store.Event("g3")
	if ev.Status != StatusConfirmed || ev.AttachmentURL != "g3/1.pdf" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if seen == nil {
		t.Fatalf("observer not notified")
	}

	store.UpdateEventStatus("g3", StatusDraft, "")
	ev, _ = store.Event("g3")
	if ev.AttachmentURL != "g3/1.pdf" {
		t.Fatalf("empty url must keep attachment, got %q", ev.AttachmentURL)
	}
}

func TestNewStoreNormalisesSeed(t *testing.T) {
	store := NewStore([]Country{{
		Name: "Grecia",
		Days: []Day{{Date: "2026-03-10"}, {Date: "2026-03-03"}},
	}})
	c := store.Snapshot()[0]
	if c.Flag != "🇬🇷" || c.DateRange != "3 - 10 Mar" || c.Days[0].Date != "2026-03-03" {
		t.Fatalf("seed not normalised: %+v", c)
	}
}

func TestTimeline(t *testing.T) {
	store := NewStore(Seed())
	events := store.Timeline("2026-03-07", "")
	if len(events) != 2 || events[0].ID != "g6" || events[1].ID != "g7" {
		t.Fatalf("unexpected timeline: %+v", events)
	}
	if got := store.Timeline("2026-03-07", "japón"); len(got) != 0 {
		t.Fatalf("country filter ignored: %+v", got)
	}
}

func TestConcurrentAdds(t *testing.T) {
	store := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.AddEvent(Draft{Title: "x", Start: fmt.Sprintf("2026-03-%02dT10:00", i%28+1)}, "Grecia")
		}(i)
	}
	wg.Wait()

	total := 0
	for _, d := range store.Snapshot()[0].Days {
		total += len(d.Events)
	}
	if total != 50 {
		t.Fatalf("lost updates: %d", total)
	}
}

func TestDateRangeLabel(t *testing.T) {
	cases := []struct {
		days []Day
		want string
	}{
		{nil, ""},
		{[]Day{{Date: "2026-03-05"}}, "5 Mar"},
		{[]Day{{Date: "2026-03-03"}, {Date: "2026-03-10"}}, "3 - 10 Mar"},
		{[]Day{{Date: "2026-03-28"}, {Date: "2026-04-02"}}, "28 Mar - 2 Abr"},
	}
	for _, tc := range cases {
		if got := DateRangeLabel(tc.days); got != tc.want {
			t.Fatalf("DateRangeLabel(%v) = %q, want %q", tc.days, got, tc.want)
		}
	}
}
