package toolcall

// Tool is a function definition offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Countries are the destinations the assistant may file events under.
var Countries = []string{"Grecia", "Dubái", "Maldivas", "China", "Corea del Sur", "Japón"}

func str(description string) map[string]any {
	m := map[string]any{"type": "string"}
	if description != "" {
		m["description"] = description
	}
	return m
}

func enum(description string, values ...string) map[string]any {
	m := str(description)
	m["enum"] = values
	return m
}

func num(description string) map[string]any {
	m := map[string]any{"type": "number"}
	if description != "" {
		m["description"] = description
	}
	return m
}

// Schemas returns the chat tools in the order they are offered.
func Schemas() []Tool {
	return []Tool{
		{
			Name:        NameCreateEvent,
			Description: "Crea un nuevo evento en el itinerario de viaje. Usa esto cuando el usuario quiera agregar vuelos, hoteles, restaurantes, actividades o transporte.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type":           enum("Tipo de evento", "flight", "hotel", "activity", "food", "transport"),
					"title":          str("Título descriptivo del evento"),
					"location":       str("Ubicación del evento"),
					"country":        enum("País del destino", Countries...),
					"datetime_start": str("Fecha y hora de inicio ISO 8601 (ej: 2026-03-05T19:00)"),
					"datetime_end":   str("Fecha y hora de fin ISO 8601 (opcional)"),
					"notes":          str("Notas o detalles adicionales"),
					"cost_estimated": num("Costo estimado (opcional)"),
					"currency":       str("Moneda (USD, EUR, etc.)"),
				},
				"required":             []string{"type", "title", "location", "country", "datetime_start"},
				"additionalProperties": false,
			},
		},
		{
			Name:        NameShowTimeline,
			Description: "Muestra visualmente los eventos de un día o rango de fechas en formato timeline bonito. Usa esto cuando pregunten qué hay planeado.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date":    str("Fecha a mostrar (YYYY-MM-DD)"),
					"country": str("País para filtrar (opcional)"),
				},
				"required":             []string{"date"},
				"additionalProperties": false,
			},
		},
		{
			Name:        NameSuggestExperiences,
			Description: "Sugiere experiencias románticas con tarjetas visuales interactivas. Usa esto para proponer restaurantes, actividades, tours.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"suggestions": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"title":          str(""),
								"type":           enum("", "food", "activity", "hotel", "transport"),
								"location":       str(""),
								"description":    str(""),
								"cost_estimated": num(""),
								"currency":       str(""),
								"emoji":          str(""),
								"country":        str(""),
								"datetime_start": str(""),
							},
							"required":             []string{"title", "type", "location", "description", "emoji", "country", "datetime_start"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []string{"suggestions"},
				"additionalProperties": false,
			},
		},
	}
}
