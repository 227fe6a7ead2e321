package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// HTTPStreamer posts turns to a chat streaming endpoint and hands back the
// event-stream body.
type HTTPStreamer struct {
	url    string
	client *http.Client
}

func NewHTTPStreamer(url string, client *http.Client) *HTTPStreamer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStreamer{url: url, client: client}
}

func (h *HTTPStreamer) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)
		return nil, &StatusError{Status: resp.StatusCode, Message: payload.Error}
	}
	return resp.Body, nil
}
