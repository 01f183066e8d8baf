package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_GenerateRequest(t *testing.T) {
	var got map[string]any
	var gotPath, gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"response": "ok", "done": true}`)
	}))
	defer server.Close()

	client := NewOllama(server.URL+"/", "llama3")
	out := client.Generate(context.Background(), "tell me a joke", map[string]any{
		"prompt":      "hijacked",
		"model":       "mistral",
		"temperature": 0.2,
	})

	require.True(t, out.Ok())
	assert.Equal(t, "/api/generate", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "tell me a joke", got["prompt"])
	assert.Equal(t, "mistral", got["model"])
	assert.Equal(t, false, got["stream"])
	assert.Equal(t, 0.2, got["temperature"])
}

func TestOllama_GenerateOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantOk   bool
		wantText string
		wantKind core.FailureKind
	}{
		{
			name:     "trimmed success",
			status:   http.StatusOK,
			body:     `{"response": "  hello  "}`,
			wantOk:   true,
			wantText: "hello",
		},
		{
			name:     "unicode passes through",
			status:   http.StatusOK,
			body:     `{"response": "\nпривет 👋\n"}`,
			wantOk:   true,
			wantText: "привет 👋",
		},
		{
			name:     "empty response is still success",
			status:   http.StatusOK,
			body:     `{"response": "   "}`,
			wantOk:   true,
			wantText: "",
		},
		{
			name:     "not json",
			status:   http.StatusOK,
			body:     `<html>bad gateway</html>`,
			wantKind: core.FailureMalformedResponse,
		},
		{
			name:     "truncated json",
			status:   http.StatusOK,
			body:     `{"response": "hel`,
			wantKind: core.FailureMalformedResponse,
		},
		{
			name:     "missing response field",
			status:   http.StatusOK,
			body:     `{"done": true}`,
			wantKind: core.FailureUnexpectedShape,
		},
		{
			name:     "non textual response",
			status:   http.StatusOK,
			body:     `{"response": 42}`,
			wantKind: core.FailureUnexpectedShape,
		},
		{
			name:     "array body",
			status:   http.StatusOK,
			body:     `["response"]`,
			wantKind: core.FailureUnexpectedShape,
		},
		{
			name:     "ollama error payload",
			status:   http.StatusNotFound,
			body:     `{"error": "model 'nope' not found"}`,
			wantKind: core.FailureUnexpectedShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			out := NewOllama(server.URL, "llama3").Generate(context.Background(), "hi", nil)

			assert.Equal(t, tt.wantOk, out.Ok())
			if tt.wantOk {
				assert.Equal(t, tt.wantText, out.Text())
				assert.NoError(t, out.Err())
				return
			}
			assert.Equal(t, tt.wantKind, out.Kind())
			assert.Error(t, out.Err())
			assert.Empty(t, out.Text())
		})
	}
}

func TestOllama_ErrorDetailKept(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": "model 'nope' not found"}`)
	}))
	defer server.Close()

	out := NewOllama(server.URL, "nope").Generate(context.Background(), "hi", nil)
	require.False(t, out.Ok())
	assert.Contains(t, out.Err().Error(), "model 'nope' not found")
}

func TestOllama_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	out := NewOllama(url, "llama3").Generate(context.Background(), "hi", nil)
	assert.False(t, out.Ok())
	assert.Equal(t, core.FailureUnreachable, out.Kind())
}

func TestOllama_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := &Ollama{baseProvider: newBaseProvider(server.URL, "llama3", 50*time.Millisecond)}

	start := time.Now()
	out := client.Generate(context.Background(), "hi", nil)

	assert.Equal(t, core.FailureUnreachable, out.Kind())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestOllama_GenerateTimeoutIsBounded(t *testing.T) {
	client := NewOllama("http://localhost:11434", "llama3")
	assert.Equal(t, 30*time.Second, client.client.Timeout)
	assert.Equal(t, "llama3", client.Model())
}

func TestOllama_Models(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"models": [{"name": "llama3:latest", "size": 4661224676}, {"name": "qwen2.5:7b"}]}`)
	}))
	defer server.Close()

	models, err := NewOllama(server.URL, "").Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3:latest", models[0].Name)
	assert.Equal(t, int64(4661224676), models[0].Size)
}

func TestOllama_ModelsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewOllama(server.URL, "").Models(context.Background())
	assert.ErrorContains(t, err, "status 500")
}

func TestOllama_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"response": "%s"}`, strings.Repeat("a", maxResponseSize))
	}))
	defer server.Close()

	out := NewOllama(server.URL, "llama3").Generate(context.Background(), "hi", nil)

	require.False(t, out.Ok())
	assert.Equal(t, core.FailureMalformedResponse, out.Kind())
	assert.ErrorIs(t, out.Err(), ErrResponseTooLarge)
}

func TestOllama_ResponseAtLimit(t *testing.T) {
	prefix, suffix := `{"response": "`, `"}`
	body := prefix + strings.Repeat("a", maxResponseSize-len(prefix)-len(suffix)) + suffix

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	out := NewOllama(server.URL, "llama3").Generate(context.Background(), "hi", nil)

	require.True(t, out.Ok())
	assert.Len(t, out.Text(), maxResponseSize-len(prefix)-len(suffix))
}
