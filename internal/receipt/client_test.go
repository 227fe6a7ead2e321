package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPExtractorSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["imageUrl"] != "https://files.test/r.jpg" || body["fileType"] != "image/jpeg" {
			t.Errorf("unexpected request: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"title":"Hotel","type":"hotel","cost":350.5,"currency":"EUR","confirmation_code":null}}`))
	}))
	defer srv.Close()

	ex, err := NewHTTPExtractor(srv.URL, srv.Client()).Extract(context.Background(), "https://files.test/r.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ex.Title != "Hotel" || ex.Cost == nil || *ex.Cost != 350.5 || ex.ConfirmationCode != "" {
		t.Fatalf("unexpected extraction: %+v", ex)
	}
}

func TestHTTPExtractorStatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"upstream said no"}`))
		}))

		_, err := NewHTTPExtractor(srv.URL, nil).Extract(context.Background(), "u", "image/png")
		srv.Close()

		var exErr *ExtractionError
		if !errors.As(err, &exErr) || exErr.Status != status || exErr.Detail != "upstream said no" {
			t.Fatalf("status %d: unexpected error %v", status, err)
		}
	}
}

func TestHTTPExtractorMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	_, err := NewHTTPExtractor(srv.URL, nil).Extract(context.Background(), "u", "image/png")
	var exErr *ExtractionError
	if !errors.As(err, &exErr) || exErr.Message() != msgUnreadable {
		t.Fatalf("expected unreadable error, got %v", err)
	}
}
