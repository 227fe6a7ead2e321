package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPExtractor calls a remote extraction endpoint that accepts
// {imageUrl, fileType} and answers {success, data} or {error}.
type HTTPExtractor struct {
	url    string
	client *http.Client
}

func NewHTTPExtractor(url string, client *http.Client) *HTTPExtractor {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPExtractor{url: url, client: client}
}

func (e *HTTPExtractor) Extract(ctx context.Context, imageURL, fileType string) (Extraction, error) {
	body, err := json.Marshal(map[string]string{"imageUrl": imageURL, "fileType": fileType})
	if err != nil {
		return Extraction{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Extraction{}, &ExtractionError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Extraction{}, &ExtractionError{Status: resp.StatusCode, Detail: err.Error()}
	}

	var payload struct {
		Success bool        `json:"success"`
		Data    *Extraction `json:"data"`
		Error   string      `json:"error"`
	}
	decodeErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Extraction{}, &ExtractionError{Status: resp.StatusCode, Detail: payload.Error}
	}
	if decodeErr != nil {
		return Extraction{}, &ExtractionError{Status: resp.StatusCode, Detail: fmt.Sprintf("decode response: %v", decodeErr)}
	}
	if !payload.Success || payload.Data == nil {
		return Extraction{}, &ExtractionError{Status: http.StatusUnprocessableEntity, Detail: payload.Error}
	}
	return *payload.Data, nil
}
