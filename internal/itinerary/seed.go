package itinerary

func cost(v float64) *float64 { return &v }

func seedEvent(id string, typ EventType, status EventStatus, title, location, start, end, notes string, source EventSource, estimated *float64, currency string) Event {
	return Event{
		ID:            id,
		Type:          typ,
		Status:        status,
		Title:         title,
		Location:      location,
		Start:         start,
		End:           end,
		Notes:         notes,
		Source:        source,
		CostEstimated: estimated,
		Currency:      currency,
	}
}

// Seed returns the honeymoon itinerary the planner starts from.
func Seed() []Country {
	return []Country{
		{
			Name: "Grecia",
			Days: []Day{
				{Date: "2026-03-03", Events: []Event{
					seedEvent("g1", TypeFlight, StatusConfirmed, "Vuelo Santiago → Atenas", "Aeropuerto SCL → ATH", "2026-03-03T08:00", "2026-03-03T22:00", "Escala en Madrid. LATAM + Aegean", SourceManual, cost(1800), "USD"),
					seedEvent("g2", TypeHotel, StatusConfirmed, "Hotel Grande Bretagne", "Atenas, Plaza Syntagma", "2026-03-03T23:00", "2026-03-06T12:00", "Suite con vista a la Acrópolis", SourceManual, cost(1200), "USD"),
				}},
				{Date: "2026-03-04", Events: []Event{
					seedEvent("g3", TypeActivity, StatusDraft, "Tour Acrópolis y Partenón", "Atenas", "2026-03-04T09:00", "2026-03-04T13:00", "Guía privado reservado", SourceUserChat, cost(150), "EUR"),
					seedEvent("g4", TypeFood, StatusDraft, "Almuerzo en Strofi", "Rovertou Galli 25, Atenas", "2026-03-04T14:00", "2026-03-04T15:30", "Terraza con vista a la Acrópolis", SourceUserChat, cost(80), "EUR"),
				}},
				{Date: "2026-03-07", Events: []Event{
					seedEvent("g6", TypeTransport, StatusConfirmed, "Ferry a Santorini", "Puerto de Pireo → Santorini", "2026-03-07T07:30", "2026-03-07T12:30", "Blue Star Ferries - Business Class", SourceManual, cost(120), "EUR"),
					seedEvent("g7", TypeHotel, StatusDraft, "Katikies Hotel Santorini", "Oia, Santorini", "2026-03-07T14:00", "2026-03-10T12:00", "Cave suite con piscina infinita", SourceUserChat, cost(2400), "EUR"),
				}},
			},
		},
		{
			Name: "Dubái",
			Days: []Day{
				{Date: "2026-03-11", Events: []Event{
					seedEvent("d1", TypeFlight, StatusConfirmed, "Vuelo Atenas → Dubái", "ATH → DXB", "2026-03-11T06:00", "2026-03-11T12:30", "Emirates directo", SourceManual, cost(600), "USD"),
					seedEvent("d2", TypeHotel, StatusDraft, "Atlantis The Royal", "Palm Jumeirah, Dubái", "2026-03-11T15:00", "2026-03-16T12:00", "Royal suite con vista al mar", SourceUserChat, cost(3500), "USD"),
				}},
				{Date: "2026-03-13", Events: []Event{
					seedEvent("d3", TypeFood, StatusDraft, "Cena en At.mosphere", "Burj Khalifa, Piso 122", "2026-03-13T20:00", "2026-03-13T23:00", "Reserva para 2 - Menú degustación", SourceUserChat, cost(500), "USD"),
				}},
			},
		},
		{
			Name: "Maldivas",
			Days: []Day{
				{Date: "2026-03-17", Events: []Event{
					seedEvent("m1", TypeFlight, StatusDraft, "Vuelo Dubái → Malé", "DXB → MLE", "2026-03-17T09:00", "2026-03-17T14:30", "Emirates", SourceUserChat, cost(450), "USD"),
					seedEvent("m3", TypeHotel, StatusDraft, "Soneva Fushi", "Baa Atoll, Maldivas", "2026-03-17T17:00", "2026-03-23T12:00", "Water villa con piscina privada", SourceUserChat, cost(5600), "USD"),
				}},
			},
		},
		{
			Name: "China",
			Days: []Day{
				{Date: "2026-03-24", Events: []Event{
					seedEvent("c1", TypeFlight, StatusDraft, "Vuelo Malé → Shanghái", "MLE → PVG", "2026-03-24T06:00", "2026-03-24T18:00", "Escala en Singapur", SourceUserChat, cost(800), "USD"),
					seedEvent("c2", TypeHotel, StatusDraft, "The Peninsula Shanghai", "The Bund, Shanghái", "2026-03-24T20:00", "2026-03-27T12:00", "Deluxe River Suite", SourceUserChat, cost(1500), "USD"),
				}},
			},
		},
		{
			Name: "Corea del Sur",
			Days: []Day{
				{Date: "2026-04-01", Events: []Event{
					seedEvent("k1", TypeFlight, StatusDraft, "Vuelo Pekín → Seúl", "PEK → ICN", "2026-04-01T10:00", "2026-04-01T13:30", "Korean Air", SourceUserChat, cost(350), "USD"),
					seedEvent("k2", TypeHotel, StatusDraft, "Josun Palace Seoul", "Gangnam, Seúl", "2026-04-01T15:00", "2026-04-04T12:00", "Grand Deluxe", SourceUserChat, cost(900), "USD"),
				}},
			},
		},
		{
			Name: "Japón",
			Days: []Day{
				{Date: "2026-04-08", Events: []Event{
					seedEvent("j1", TypeFlight, StatusDraft, "Vuelo Seúl → Tokio", "ICN → NRT", "2026-04-08T09:00", "2026-04-08T11:30", "ANA", SourceUserChat, cost(280), "USD"),
					seedEvent("j2", TypeHotel, StatusConfirmed, "Aman Tokyo", "Otemachi, Tokio", "2026-04-08T15:00", "2026-04-12T12:00", "Premier Room con vista al jardín imperial", SourceManual, cost(3200), "USD"),
				}},
				{Date: "2026-04-12", Events: []Event{
					seedEvent("j5", TypeTransport, StatusDraft, "Shinkansen Tokio → Kioto", "Estación de Tokio → Kioto", "2026-04-12T08:00", "2026-04-12T10:15", "Nozomi - Green Car (Primera clase)", SourceUserChat, cost(130), "USD"),
				}},
				{Date: "2026-04-16", Events: []Event{
					seedEvent("j7", TypeFlight, StatusDraft, "Vuelo Osaka → Santiago", "KIX → SCL", "2026-04-16T14:00", "2026-04-17T08:00", "Regreso a casa ✈️ Escala en Dallas", SourceUserChat, cost(1900), "USD"),
				}},
			},
		},
	}
}
