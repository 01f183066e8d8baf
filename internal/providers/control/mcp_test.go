package control

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/deskpilot/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToolClient struct {
	req    mcpproto.CallToolRequest
	calls  int
	closed bool
	result *mcpproto.CallToolResult
	err    error
}

func (f *fakeToolClient) CallTool(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	f.calls++
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeToolClient) Close() error {
	f.closed = true
	return nil
}

func newTestMCP(t *testing.T, connect connectFunc) *MCP {
	t.Helper()
	m, err := NewMCP("http://desk.local:8080/mcp")
	require.NoError(t, err)
	m.connect = connect
	m.retrier = retry.NewRetrier(&retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
	return m
}

func TestNewMCP_Validation(t *testing.T) {
	tests := []struct {
		endpoint string
		wantErr  bool
	}{
		{endpoint: "http://127.0.0.1:8080/mcp"},
		{endpoint: "https://desk.example.com/sse"},
		{endpoint: "ftp://desk.local", wantErr: true},
		{endpoint: "desk.local:8080", wantErr: true},
		{endpoint: "http://", wantErr: true},
		{endpoint: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			_, err := NewMCP(tt.endpoint)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMCP_DispatchSuccess(t *testing.T) {
	cli := &fakeToolClient{result: mcpproto.NewToolResultText("queued")}
	m := newTestMCP(t, func(ctx context.Context, endpoint *url.URL) (toolClient, error) {
		return cli, nil
	})

	err := m.Dispatch(context.Background(), Envelope{
		ID:      "id-1",
		Command: CommandOpenApplication,
		Payload: map[string]string{"application": "notepad"},
	})

	require.NoError(t, err)
	assert.Equal(t, "open_application", cli.req.Params.Name)
	assert.Equal(t, map[string]any{"application": "notepad"}, cli.req.Params.Arguments)
	assert.True(t, cli.closed)
}

func TestMCP_ToolError(t *testing.T) {
	cli := &fakeToolClient{result: mcpproto.NewToolResultError("no such application")}
	m := newTestMCP(t, func(ctx context.Context, endpoint *url.URL) (toolClient, error) {
		return cli, nil
	})

	err := m.Dispatch(context.Background(), Envelope{Command: CommandOpenApplication})

	assert.ErrorContains(t, err, "no such application")
	assert.True(t, cli.closed)
}

func TestMCP_CallErrorNotRetried(t *testing.T) {
	cli := &fakeToolClient{err: errors.New("broken pipe")}
	connects := 0
	m := newTestMCP(t, func(ctx context.Context, endpoint *url.URL) (toolClient, error) {
		connects++
		return cli, nil
	})

	err := m.Dispatch(context.Background(), Envelope{Command: CommandRunShellCommand})

	assert.ErrorContains(t, err, "broken pipe")
	assert.Equal(t, 1, connects)
	assert.Equal(t, 1, cli.calls)
	assert.True(t, cli.closed)
}

func TestMCP_ConnectRetried(t *testing.T) {
	cli := &fakeToolClient{result: mcpproto.NewToolResultText("ok")}
	connects := 0
	m := newTestMCP(t, func(ctx context.Context, endpoint *url.URL) (toolClient, error) {
		connects++
		if connects < 3 {
			return nil, errors.New("connection refused")
		}
		return cli, nil
	})

	require.NoError(t, m.Dispatch(context.Background(), Envelope{Command: CommandCaptureScreenshot}))
	assert.Equal(t, 3, connects)
}

func TestMCP_ConnectGivesUp(t *testing.T) {
	connects := 0
	m := newTestMCP(t, func(ctx context.Context, endpoint *url.URL) (toolClient, error) {
		connects++
		return nil, errors.New("connection refused")
	})

	err := m.Dispatch(context.Background(), Envelope{Command: CommandCaptureScreenshot})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 3, connects)
}

func TestMCP_PermanentConnectError(t *testing.T) {
	connects := 0
	m := newTestMCP(t, func(ctx context.Context, endpoint *url.URL) (toolClient, error) {
		connects++
		return nil, retry.Permanent(errors.New("bad transport"))
	})

	assert.Error(t, m.Dispatch(context.Background(), Envelope{Command: CommandCaptureScreenshot}))
	assert.Equal(t, 1, connects)
}

func TestMCP_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL + "/mcp"
	server.Close()

	m, err := NewMCP(endpoint)
	require.NoError(t, err)

	result := NewFacade(m, WithTimeout(5*time.Second)).CaptureScreenshot(context.Background())
	assert.Equal(t, "error", string(result.Status))
}
