package control

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcptransport "github.com/mark3labs/mcp-go/client/transport"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/pkg/log"
	"github.com/sandevgo/deskpilot/pkg/retry"
)

type toolClient interface {
	CallTool(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error)
	Close() error
}

type connectFunc func(ctx context.Context, endpoint *url.URL) (toolClient, error)

// MCP dispatches each command as a tool call on a remote MCP server. Every
// dispatch opens its own session and closes it before returning.
type MCP struct {
	endpoint *url.URL
	connect  connectFunc
	retrier  *retry.Retrier
}

func NewMCP(endpoint string) (*MCP, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid control endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid control endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid control endpoint %q: missing host", endpoint)
	}

	return &MCP{
		endpoint: u,
		connect:  connectMCP,
		retrier:  retry.NewRetrier(retry.NewConnectConfig()),
	}, nil
}

func (m *MCP) Dispatch(ctx context.Context, env Envelope) error {
	logger := log.FromCtx(ctx)

	// only the session setup is retried, a tool call must not run twice
	var cli toolClient
	err := m.retrier.Do(ctx, func() error {
		c, err := m.connect(ctx, m.endpoint)
		if err != nil {
			logger.Debug().Err(err).Str("endpoint", m.endpoint.Redacted()).Msg("control connect attempt failed")
			return err
		}
		cli = c
		return nil
	})
	if err != nil {
		return fmt.Errorf("connect %s: %w", m.endpoint.Redacted(), err)
	}
	defer func() {
		if err := cli.Close(); err != nil {
			logger.Debug().Err(err).Msg("failed to close control session")
		}
	}()

	args := make(map[string]any, len(env.Payload))
	for k, v := range env.Payload {
		args[k] = v
	}

	req := mcpproto.CallToolRequest{}
	req.Params.Name = env.Command
	req.Params.Arguments = args

	res, err := cli.CallTool(ctx, req)
	if err != nil {
		return fmt.Errorf("call %s: %w", env.Command, err)
	}

	if res.IsError {
		return fmt.Errorf("%s rejected: %s", env.Command, strings.TrimSpace(resultText(res)))
	}
	return nil
}

func resultText(res *mcpproto.CallToolResult) string {
	var output string
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			output += text.Text + "\n"
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			output += textPtr.Text + "\n"
		}
	}
	return output
}

// session is one MCP client plus the HTTP client it dials with. Close
// releases both so no pooled connection outlives the dispatch.
type session struct {
	*client.Client
	httpClient *http.Client
}

func (s *session) Close() error {
	err := s.Client.Close()
	s.httpClient.CloseIdleConnections()
	return err
}

// connectMCP opens an SSE session for endpoints ending in /sse and a
// streamable HTTP session otherwise.
func connectMCP(ctx context.Context, endpoint *url.URL) (toolClient, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DisableKeepAlives:     true,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	var (
		cli *client.Client
		err error
	)
	if strings.HasSuffix(strings.TrimRight(endpoint.Path, "/"), "/sse") {
		cli, err = client.NewSSEMCPClient(
			endpoint.String(),
			mcptransport.WithHTTPClient(httpClient),
		)
	} else {
		cli, err = client.NewStreamableHttpClient(
			endpoint.String(),
			mcptransport.WithHTTPBasicClient(httpClient),
		)
	}
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to create client: %w", err))
	}
	sess := &session{Client: cli, httpClient: httpClient}

	if err = cli.Start(ctx); err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("failed to start client: %w", err)
	}

	req := mcpproto.InitializeRequest{}
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.Capabilities = mcpproto.ClientCapabilities{}
	req.Params.ClientInfo = mcpproto.Implementation{
		Name:    core.DeskName,
		Version: core.DeskVersion,
	}

	if _, err := cli.Initialize(ctx, req); err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	return sess, nil
}
