package itinerary

import (
	"strings"
	"testing"
	"time"
)

func TestComputeStats(t *testing.T) {
	countries := []Country{
		{Name: "Grecia", Days: []Day{{Date: "2026-03-03", Events: []Event{
			{ID: "a", Status: StatusConfirmed, CostEstimated: cost(100), CostActual: cost(80)},
			{ID: "b", Status: StatusDraft, CostEstimated: cost(50.5)},
		}}}},
		{Name: "Japón", Days: []Day{{Date: "2026-04-08", Events: []Event{
			{ID: "c", Status: StatusConfirmed, CostEstimated: cost(0.1)},
			{ID: "d", Status: StatusDraft},
		}}}},
	}

	stats := ComputeStats(countries)
	if stats.EventsCount != 4 || stats.CountriesCount != 2 {
		t.Fatalf("counts: %+v", stats)
	}
	if stats.BudgetEstimated != 150.6 {
		t.Fatalf("estimated = %v", stats.BudgetEstimated)
	}
	if stats.BudgetSpent != 80.1 {
		t.Fatalf("spent = %v", stats.BudgetSpent)
	}
	if stats.PercentConfirmed != 50 {
		t.Fatalf("percent = %d", stats.PercentConfirmed)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestCalendar(t *testing.T) {
	orig := nowFn
	nowFn = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFn = orig }()

	out := Calendar([]Country{{Name: "Grecia", Flag: "🇬🇷", Days: []Day{{Date: "2026-03-03", Events: []Event{
		{ID: "g1", Status: StatusConfirmed, Title: "Vuelo", Start: "2026-03-03T08:00", End: "2026-03-03T22:00"},
		{ID: "g2", Status: StatusDraft, Title: "Hotel", Start: "2026-03-03T23:00"},
		{ID: "bad", Title: "Sin fecha", Start: "pronto"},
	}}}}})

	for _, want := range []string{"BEGIN:VCALENDAR", "UID:g1", "UID:g2", "STATUS:CONFIRMED", "STATUS:TENTATIVE", "SUMMARY:🇬🇷 Vuelo"} {
		if !strings.Contains(out, want) {
			t.Fatalf("calendar missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "UID:bad") {
		t.Fatalf("unparseable event exported")
	}
}
