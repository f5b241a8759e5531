package httpexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
)

var _ secondary.EnvelopeSender = &HTTPSender{}

// HTTPSender POSTs the dispatch request to the envelope's resolved URI.
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender creates a new sender.
func NewHTTPSender(client *http.Client) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSender{client: client}
}

func (s *HTTPSender) Send(ctx context.Context, env secondary.DispatchEnvelope) error {
	body, err := json.Marshal(env.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, env.URI, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver dispatch to %s: %w", env.URI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("executor at %s returned status %d", env.URI, resp.StatusCode)
	}
	return nil
}
