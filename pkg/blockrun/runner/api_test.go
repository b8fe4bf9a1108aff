package runner

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

func apiBlock(name, url string, extra ...block.Modifier) *block.Block {
	mods := append([]block.Modifier{{Key: "url", Value: url}}, extra...)
	return block.New("api", name, mods, "")
}

// TestAPIRunner_Get tests a bodyless block defaults to GET.
func TestAPIRunner_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		io.WriteString(w, "payload")
	}))
	defer srv.Close()

	r := NewAPIRunner(srv.Client())
	got, err := r.Run(context.Background(), "fetch", apiBlock("fetch", srv.URL), "", block.NewState())

	require.NoError(t, err)
	assert.Equal(t, "payload", got)
}

// TestAPIRunner_PostWithBody tests content becomes the body and defaults
// the method to POST with a JSON content type.
func TestAPIRunner_PostWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"q":1}`, string(body))
		io.WriteString(w, "created")
	}))
	defer srv.Close()

	r := NewAPIRunner(srv.Client())
	got, err := r.Run(context.Background(), "submit", apiBlock("submit", srv.URL), `{"q":1}`, block.NewState())

	require.NoError(t, err)
	assert.Equal(t, "created", got)
}

// TestAPIRunner_MethodAndHeaders tests explicit method, content_type, and
// header_ modifiers.
func TestAPIRunner_MethodAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	b := apiBlock("update", srv.URL,
		block.Modifier{Key: "method", Value: "put"},
		block.Modifier{Key: "content_type", Value: "text/plain"},
		block.Modifier{Key: "header_Authorization", Value: "token-1"},
	)

	r := NewAPIRunner(srv.Client())
	got, err := r.Run(context.Background(), "update", b, "text body", block.NewState())

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

// TestAPIRunner_Non2xx tests status and body appear in the error.
func TestAPIRunner_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewAPIRunner(srv.Client())
	_, err := r.Run(context.Background(), "fetch", apiBlock("fetch", srv.URL), "", block.NewState())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not here")
}

// TestAPIRunner_MissingURL tests the url modifier is required.
func TestAPIRunner_MissingURL(t *testing.T) {
	r := NewAPIRunner(nil)
	b := block.New("api", "fetch", nil, "")

	_, err := r.Run(context.Background(), "fetch", b, "", block.NewState())

	assert.Error(t, err)
}

// TestAPIRunner_CanExecute tests kind matching.
func TestAPIRunner_CanExecute(t *testing.T) {
	r := NewAPIRunner(nil)

	assert.True(t, r.CanExecute(block.New("api", "a", nil, "")))
	assert.True(t, r.CanExecute(block.New("http", "a", nil, "")))
	assert.False(t, r.CanExecute(block.New("shell", "a", nil, "")))
}
