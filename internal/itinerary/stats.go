package itinerary

import "github.com/shopspring/decimal"

// Stats summarises the itinerary for the header. TotalDays and DaysRemaining
// come from the trip config and are filled in by the caller.
type Stats struct {
	TotalDays        int     `json:"totalDays"`
	DaysRemaining    int     `json:"daysRemaining"`
	BudgetEstimated  float64 `json:"budgetEstimated"`
	BudgetSpent      float64 `json:"budgetSpent"`
	PercentConfirmed int     `json:"percentConfirmed"`
	CountriesCount   int     `json:"countriesCount"`
	EventsCount      int     `json:"eventsCount"`
}

// ComputeStats sums costs as decimals so repeated additions of prices like
// 0.1 do not drift. Spent counts confirmed events only, preferring the actual
// cost from a parsed receipt over the estimate. Currencies are not converted.
func ComputeStats(countries []Country) Stats {
	estimated := decimal.Zero
	spent := decimal.Zero
	confirmed := 0
	events := 0

	for _, c := range countries {
		for _, d := range c.Days {
			for _, e := range d.Events {
				events++
				if e.CostEstimated != nil {
					estimated = estimated.Add(decimal.NewFromFloat(*e.CostEstimated))
				} else if e.CostActual != nil {
					estimated = estimated.Add(decimal.NewFromFloat(*e.CostActual))
				}
				if e.Status != StatusConfirmed {
					continue
				}
				confirmed++
				switch {
				case e.CostActual != nil:
					spent = spent.Add(decimal.NewFromFloat(*e.CostActual))
				case e.CostEstimated != nil:
					spent = spent.Add(decimal.NewFromFloat(*e.CostEstimated))
				}
			}
		}
	}

	stats := Stats{
		BudgetEstimated: estimated.InexactFloat64(),
		BudgetSpent:     spent.InexactFloat64(),
		CountriesCount:  len(countries),
		EventsCount:     events,
	}
	if events > 0 {
		stats.PercentConfirmed = int(decimal.NewFromInt(int64(confirmed)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(events))).
			Round(0).
			IntPart())
	}
	return stats
}
