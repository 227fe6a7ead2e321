package gateway

import (
	"fmt"
	"strings"
)

const systemPrompt = `Eres un asistente de viajes de élite para una luna de miel de 45 días (3 marzo - 16 abril, 2026).
Países: Grecia, Dubai, Maldivas, China, Corea del Sur, Japón.

Tu trabajo:
- Interpretar las ideas del usuario y estructurarlas como eventos del itinerario.
- Ser proactivo: si ves espacios vacíos, sugiere opciones románticas (restaurantes, experiencias, tours).
- Si el usuario menciona un vuelo, hotel o actividad, SIEMPRE usa la herramienta create_event para agregarlo al itinerario.
- Cuando el usuario pregunta "qué hacemos" en una fecha, usa show_timeline para mostrar visualmente los eventos de ese día.
- Cuando sugieras experiencias, usa suggest_experiences para mostrar tarjetas interactivas.
- Responde siempre en español, con un tono cálido, profesional y entusiasta.
- Usa emojis con moderación para dar calidez (✨💕🌟🍽️✈️🏨).
- Mantén respuestas concisas pero completas.
- IMPORTANTE: Cuando crees eventos o muestres timelines, ADEMÁS del tool call, da una respuesta textual breve y cálida confirmando la acción.
- Cuando muestres sugerencias, haz 2-4 opciones con descripciones románticas y emojis.
- Los países válidos son exactamente: Grecia, Dubái, Maldivas, China, Corea del Sur, Japón`

const extractionPrompt = `Eres un experto en extraer datos de comprobantes de viaje (reservas de hotel, boletos de avión, confirmaciones de tours, reservas de restaurantes).

Analiza la imagen o documento proporcionado y extrae la siguiente información:

Responde SIEMPRE usando la herramienta extract_receipt_data, incluso si no puedes leer todos los campos.
Si no puedes determinar un campo, usa null.
Para fechas usa formato ISO 8601 (YYYY-MM-DDTHH:mm:ss).
Para precios usa solo el número sin símbolo de moneda.`

const extractionInstruction = "Extrae los datos de este comprobante de viaje. Analiza cuidadosamente todos los detalles visibles."

const receiptToolName = "extract_receipt_data"

var receiptToolParameters = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{
			"type":        "string",
			"description": "Title or name of the booking (e.g. 'Vuelo LATAM LA601', 'Hotel Ritz Carlton')",
		},
		"type": map[string]any{
			"type":        "string",
			"enum":        []string{"flight", "hotel", "activity", "food", "transport"},
			"description": "Type of travel event",
		},
		"location": map[string]any{
			"type":        "string",
			"description": "Location or venue name",
		},
		"datetime_start": map[string]any{
			"type":        "string",
			"description": "Start date/time in ISO 8601 format (YYYY-MM-DDTHH:mm:ss)",
		},
		"datetime_end": map[string]any{
			"type":        "string",
			"description": "End date/time in ISO 8601 format, if applicable",
		},
		"cost": map[string]any{
			"type":        "number",
			"description": "Total cost/price as a number",
		},
		"currency": map[string]any{
			"type":        "string",
			"description": "Currency code (USD, EUR, CLP, etc.)",
		},
		"confirmation_code": map[string]any{
			"type":        "string",
			"description": "Booking/confirmation reference code if visible",
		},
		"notes": map[string]any{
			"type":        "string",
			"description": "Any additional relevant details extracted",
		},
	},
	"required":             []string{"title", "type"},
	"additionalProperties": false,
}

// TripContext is the optional trip description sent by the planner.
type TripContext struct {
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	CoupleNames []string `json:"coupleNames"`
}

func buildSystemPrompt(tc *TripContext) string {
	if tc == nil {
		return systemPrompt
	}
	var lines []string
	if tc.StartDate != "" && tc.EndDate != "" {
		lines = append(lines, fmt.Sprintf("- Fechas configuradas: %s a %s", tc.StartDate, tc.EndDate))
	}
	var names []string
	for _, n := range tc.CoupleNames {
		if strings.TrimSpace(n) != "" {
			names = append(names, n)
		}
	}
	if len(names) > 0 {
		lines = append(lines, "- Viajeros: "+strings.Join(names, " y "))
	}
	if len(lines) == 0 {
		return systemPrompt
	}
	return systemPrompt + "\n\nContexto del viaje:\n" + strings.Join(lines, "\n")
}
