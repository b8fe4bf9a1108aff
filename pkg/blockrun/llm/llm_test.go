package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLIClient_BuildArgs tests argument construction from a request.
func TestCLIClient_BuildArgs(t *testing.T) {
	c := NewCLIClient(WithModel("default-model"))

	args := c.buildArgs(Request{
		SystemPrompt: "be brief",
		MaxTokens:    128,
		Prompt:       "  hello  ",
	})

	assert.Equal(t, []string{
		"--print",
		"--system-prompt", "be brief",
		"--model", "default-model",
		"--max-tokens", "128",
		"-p", "hello",
	}, args)
}

// TestCLIClient_BuildArgs_RequestModelWins tests model precedence.
func TestCLIClient_BuildArgs_RequestModelWins(t *testing.T) {
	c := NewCLIClient(WithModel("default-model"))

	args := c.buildArgs(Request{Model: "override", Prompt: "p"})

	assert.Equal(t, []string{"--print", "--model", "override", "-p", "p"}, args)
}

// TestCLIClient_BuildArgs_Minimal tests empty fields are omitted.
func TestCLIClient_BuildArgs_Minimal(t *testing.T) {
	args := NewCLIClient().buildArgs(Request{})
	assert.Equal(t, []string{"--print"}, args)
}

// TestCLIClient_Complete runs against /bin/echo as a stand-in binary.
func TestCLIClient_Complete(t *testing.T) {
	c := NewCLIClient(WithPath("/bin/echo"))

	got, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "--print -p hi", got)
}

// TestCLIClient_CompleteFailure tests exit status surfaces as *Error.
func TestCLIClient_CompleteFailure(t *testing.T) {
	c := NewCLIClient(WithPath("/bin/false"))

	_, err := c.Complete(context.Background(), Request{Provider: "cli", Prompt: "hi"})
	require.Error(t, err)

	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "complete", lerr.Op)
	assert.Equal(t, "cli", lerr.Provider)
}

// TestCLIClient_CanceledContext tests cancellation wins over exit status.
func TestCLIClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCLIClient(WithPath("/bin/echo"))
	_, err := c.Complete(ctx, Request{Prompt: "hi"})

	assert.ErrorIs(t, err, context.Canceled)
}

// TestHTTPClient_Complete tests the happy path against a test server.
func TestHTTPClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-x", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "ping", req.Messages[1].Content)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  pong  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithHTTPClient(srv.Client()))

	got, err := c.Complete(context.Background(), Request{
		Model:        "gpt-x",
		SystemPrompt: "be brief",
		APIKey:       "sk-test",
		Prompt:       "ping",
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
}

// TestHTTPClient_MissingAPIKey tests the credential sentinel.
func TestHTTPClient_MissingAPIKey(t *testing.T) {
	c := NewHTTPClient("http://unused.invalid")

	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

// TestHTTPClient_HTTPError tests non-200 responses surface with the body.
func TestHTTPClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Complete(context.Background(), Request{APIKey: "k", Prompt: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

// TestHTTPClient_ProviderError tests a 200 with an error payload.
func TestHTTPClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Complete(context.Background(), Request{APIKey: "k", Prompt: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

// TestHTTPClient_EmptyChoices tests an empty choices list is an error.
func TestHTTPClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Complete(context.Background(), Request{APIKey: "k", Prompt: "hi"})

	assert.Error(t, err)
}

// TestError_Format tests the error string with and without provider.
func TestError_Format(t *testing.T) {
	withProvider := &Error{Op: "complete", Provider: "openai", Err: errors.New("boom")}
	assert.Equal(t, "llm complete (openai): boom", withProvider.Error())

	bare := &Error{Op: "complete", Err: errors.New("boom")}
	assert.Equal(t, "llm complete: boom", bare.Error())
}

// TestMock tests call recording and scripted failures.
func TestMock(t *testing.T) {
	m := &Mock{Response: "answer"}

	got, err := m.Complete(context.Background(), Request{Prompt: "q1"})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)

	m.Err = errors.New("down")
	_, err = m.Complete(context.Background(), Request{Prompt: "q2"})
	assert.Error(t, err)

	assert.Equal(t, 2, m.CallCount())
	assert.Equal(t, "q1", m.Calls[0].Prompt)
	assert.Equal(t, "q2", m.Calls[1].Prompt)
}
