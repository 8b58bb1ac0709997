package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/lerhino/rhino-be/types"
)

var ErrWebhookNotConfigured = errors.New("webhook URL not configured")

// RelayError carries the upstream HTTP status and the best-effort parsed
// response body of a failed relay call.
type RelayError struct {
	Status int
	Body   json.RawMessage
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.Status)
}

// RelayResult is the verbatim webhook answer. Interpretation of the body is
// the caller's job.
type RelayResult struct {
	Status int
	Body   json.RawMessage
}

// WebhookService forwards chat payloads to the configured n8n webhook. One
// POST per send, no retries.
type WebhookService struct {
	url    string
	client *http.Client
}

func NewWebhookService(url string) *WebhookService {
	return &WebhookService{
		url:    url,
		client: http.DefaultClient,
	}
}

func (s *WebhookService) Send(ctx context.Context, payload types.WebhookPayload) (*RelayResult, error) {
	if s.url == "" {
		log.Println("[webhook] relay skipped: no URL configured")
		return nil, ErrWebhookNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending to webhook: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[webhook] relay failed with status %d: %s", resp.StatusCode, raw)
		return nil, &RelayError{Status: resp.StatusCode, Body: normalizeBody(raw)}
	}

	return &RelayResult{Status: resp.StatusCode, Body: normalizeBody(raw)}, nil
}

// normalizeBody guarantees callers always hold valid JSON: a non-JSON body is
// re-encoded as a JSON string.
func normalizeBody(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}
