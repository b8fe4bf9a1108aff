package runner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// APIRunner issues the HTTP request described by a block's modifiers.
//
// Modifiers:
//   - url (required)
//   - method: HTTP method, default GET (POST when the block has content)
//   - content_type: request Content-Type, default application/json
//   - header_<Name>: additional request headers
//
// The resolved block content is the request body. The response body is
// the result on 2xx; anything else fails.
type APIRunner struct {
	client *http.Client
}

// NewAPIRunner creates an API runner. A nil client means http.DefaultClient.
func NewAPIRunner(client *http.Client) *APIRunner {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIRunner{client: client}
}

// CanExecute implements Runner.
func (r *APIRunner) CanExecute(b *block.Block) bool {
	return b.Kind == block.KindAPI
}

// Run implements Runner.
func (r *APIRunner) Run(ctx context.Context, name string, b *block.Block, content string, _ *block.State) (string, error) {
	url, ok := b.Modifier("url")
	if !ok || url == "" {
		return "", fmt.Errorf("api %s: url modifier is required", name)
	}

	method := http.MethodGet
	if content != "" {
		method = http.MethodPost
	}
	if m, ok := b.Modifier("method"); ok && m != "" {
		method = strings.ToUpper(strings.TrimSpace(m))
	}

	var body io.Reader
	if content != "" {
		body = strings.NewReader(content)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return "", fmt.Errorf("api %s: create request: %w", name, err)
	}

	if body != nil {
		contentType := "application/json"
		if ct, ok := b.Modifier("content_type"); ok && ct != "" {
			contentType = ct
		}
		req.Header.Set("Content-Type", contentType)
	}
	for _, mod := range b.Mods.Rest {
		if after, ok := strings.CutPrefix(mod.Key, "header_"); ok && after != "" {
			req.Header.Set(after, mod.Value)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api %s: %w", name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("api %s: read response: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("api %s: HTTP %d: %s", name, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return string(respBody), nil
}
