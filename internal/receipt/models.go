package receipt

import (
	"context"
	"fmt"
	"io"

	"backend-honeymoonhq/internal/itinerary"
)

type State string

const (
	StateIdle      State = "idle"
	StateUploading State = "uploading"
	StateAnalyzing State = "analyzing"
	StateDone      State = "done"
)

// Update is published on every pipeline state change.
type Update struct {
	EventID string `json:"eventId"`
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// BlobStore keeps uploaded proof documents.
type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	PublicURL(path string) (string, error)
}

type Extractor interface {
	Extract(ctx context.Context, imageURL, fileType string) (Extraction, error)
}

// Events is the part of the itinerary store the pipeline mutates.
type Events interface {
	Event(id string) (itinerary.Event, bool)
	UpdateEvent(id string, patch itinerary.Patch) bool
	ModifyEvent(id string, build func(itinerary.Event) itinerary.Patch) bool
}

// Extraction is the structured data read off a receipt. Empty strings and nil
// cost mean the field was not found.
type Extraction struct {
	Title            string              `json:"title"`
	Type             itinerary.EventType `json:"type"`
	Location         string              `json:"location,omitempty"`
	Start            string              `json:"datetime_start,omitempty"`
	End              string              `json:"datetime_end,omitempty"`
	Cost             *float64            `json:"cost,omitempty"`
	Currency         string              `json:"currency,omitempty"`
	ConfirmationCode string              `json:"confirmation_code,omitempty"`
	Notes            string              `json:"notes,omitempty"`
}

const (
	msgUploaded    = "¡Comprobante subido! Evento confirmado ✓"
	msgExtracted   = "Datos del comprobante aplicados ✨"
	msgUploadError = "Error al subir el comprobante"
	msgRateLimited = "Demasiadas solicitudes, intenta en unos segundos."
	msgQuota       = "Créditos de IA agotados."
	msgUnreadable  = "No se pudieron extraer datos del documento"
	msgExtractFail = "Error al analizar el comprobante"
)

// ExtractionError is a failed call to the extraction endpoint. Status is the
// HTTP status returned by the endpoint, or 0 when no response was received.
type ExtractionError struct {
	Status int
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("receipt extraction failed with status %d", e.Status)
	}
	return fmt.Sprintf("receipt extraction failed with status %d: %s", e.Status, e.Detail)
}

// Message is the user-facing text for the failure.
func (e *ExtractionError) Message() string {
	switch e.Status {
	case 429:
		return msgRateLimited
	case 402:
		return msgQuota
	case 422:
		return msgUnreadable
	default:
		return msgExtractFail
	}
}
