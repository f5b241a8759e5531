// Package httpexec talks to the external executor over HTTP: endpoint
// resolution via a discovery URL (or a static address) and delivery of
// dispatch envelopes.
package httpexec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"gitlab.com/golfhub-2025.net/internal/config"
	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

var _ secondary.EndpointResolver = &CachedResolver{}

// CachedResolver resolves the executor endpoint once and caches it until
// Invalidate is called. The executor's address is not statically known
// in every deployment, so resolution happens through a discovery URL
// returning {"url": "..."}; a configured static address short-circuits
// the lookup.
type CachedResolver struct {
	cfg    *config.DispatcherConfig
	client *http.Client
	logger primary.Logger

	mu     sync.Mutex
	cached string
}

// NewCachedResolver creates a new resolver.
func NewCachedResolver(cfg *config.DispatcherConfig, client *http.Client, logger primary.Logger) *CachedResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &CachedResolver{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

func (r *CachedResolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached, nil
	}
	if r.cfg.ExecutorURL != "" {
		r.cached = r.cfg.ExecutorURL
		return r.cached, nil
	}
	if r.cfg.ExecutorDiscoveryURL == "" {
		return "", fmt.Errorf("%w: no executor address configured", errs.ResolveFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.ExecutorDiscoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ResolveFailed, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ResolveFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: discovery returned status %d", errs.ResolveFailed, resp.StatusCode)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ResolveFailed, err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("%w: discovery returned empty url", errs.ResolveFailed)
	}

	r.cached = payload.URL
	r.logger.Info("Executor endpoint resolved", "uri", payload.URL)
	return r.cached, nil
}

func (r *CachedResolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = ""
}
