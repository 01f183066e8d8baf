package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/pkg/log"
)

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"

	GenerateTimeout = 30 * time.Second
	modelsTimeout   = 5 * time.Second

	maxResponseSize = 4 << 20
)

// ErrResponseTooLarge marks a body cut off at maxResponseSize.
var ErrResponseTooLarge = errors.New("response too large")

var _ core.Generator = (*Ollama)(nil)

// Ollama talks to the /api/generate endpoint of an Ollama server. It keeps
// no conversational state and makes exactly one attempt per call.
type Ollama struct {
	baseProvider
}

func NewOllama(baseURL, model string) *Ollama {
	return &Ollama{
		baseProvider: newBaseProvider(baseURL, model, GenerateTimeout),
	}
}

// Generate sends prompt to the model. Options are merged over the defaults
// but can never replace the prompt itself.
func (o *Ollama) Generate(ctx context.Context, prompt string, options map[string]any) core.GenerationOutcome {
	logger := log.FromCtx(ctx)

	payload := map[string]any{
		"model":  o.model,
		"stream": false,
	}
	for k, v := range options {
		payload[k] = v
	}
	payload["prompt"] = prompt

	start := time.Now()
	resp, err := o.doRequest(ctx, http.MethodPost, generatePath, payload)
	if err != nil {
		return core.Failed(core.FailureUnreachable, fmt.Errorf("ollama %s: %w", o.baseURL, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return core.Failed(core.FailureUnreachable, fmt.Errorf("read body: %w", err))
	}
	if len(data) > maxResponseSize {
		logger.Warn().Int("limit", maxResponseSize).Msg("ollama response exceeds size limit")
		return core.Failed(core.FailureMalformedResponse,
			fmt.Errorf("http %d: %w: over %d bytes", resp.StatusCode, ErrResponseTooLarge, maxResponseSize))
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("prompt_len", len(prompt)).
		Dur("elapsed", time.Since(start)).
		Msg("ollama generate finished")

	return parseGenerateResponse(resp.StatusCode, data)
}

func parseGenerateResponse(status int, data []byte) core.GenerationOutcome {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return core.Failed(core.FailureMalformedResponse, fmt.Errorf("http %d: decode: %w", status, err))
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return core.Failed(core.FailureUnexpectedShape, fmt.Errorf("http %d: body is %T, not an object", status, parsed))
	}

	text, ok := obj["response"].(string)
	if !ok {
		// ollama reports unknown models and the like as {"error": "..."}
		if msg, isStr := obj["error"].(string); isStr {
			return core.Failed(core.FailureUnexpectedShape, fmt.Errorf("http %d: %s", status, msg))
		}
		return core.Failed(core.FailureUnexpectedShape, fmt.Errorf("http %d: no textual response field", status))
	}

	return core.Generated(strings.TrimSpace(text))
}

type Model struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Models lists the models pulled on the server.
func (o *Ollama) Models(ctx context.Context) ([]Model, error) {
	ctx, cancel := context.WithTimeout(ctx, modelsTimeout)
	defer cancel()

	resp, err := o.doRequest(ctx, http.MethodGet, tagsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var result struct {
		Models []Model `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return result.Models, nil
}

func (o *Ollama) Model() string {
	return o.model
}
