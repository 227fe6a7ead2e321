package receipt

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"backend-honeymoonhq/internal/itinerary"
)

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write([]byte(content))
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestReceiptRoute(t *testing.T) {
	store := draftStore("Guía privado")
	blobs := &fakeBlobs{}
	cost := 150.0
	p := NewPipeline(blobs, &fakeExtractor{result: Extraction{Cost: &cost, ConfirmationCode: "ACR-9"}}, store, quickOptions())

	app := fiber.New()
	RegisterRoutes(app.Group("/api/itinerary"), p)

	body, ct := multipartBody(t, "voucher.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/itinerary/events/e1/receipt", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status: %v %d", err, resp.StatusCode)
	}

	var out struct {
		Event     itinerary.Event `json:"event"`
		Extracted bool            `json:"extracted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Extracted || out.Event.Notes != "Ref: ACR-9. Guía privado" || out.Event.Status != itinerary.StatusConfirmed {
		t.Fatalf("unexpected response: %+v", out)
	}
	if blobs.body != "png-bytes" {
		t.Fatalf("stored %q", blobs.body)
	}
}

func TestReceiptRouteErrors(t *testing.T) {
	p := NewPipeline(&fakeBlobs{}, &fakeExtractor{}, draftStore(""), quickOptions())
	app := fiber.New()
	RegisterRoutes(app.Group("/api/itinerary"), p)

	req := httptest.NewRequest(http.MethodPost, "/api/itinerary/events/e1/receipt", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing file: %d", resp.StatusCode)
	}

	body, ct := multipartBody(t, "voucher.png", "x")
	req = httptest.NewRequest(http.MethodPost, "/api/itinerary/events/missing/receipt", body)
	req.Header.Set("Content-Type", ct)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown event: %d", resp.StatusCode)
	}
}
