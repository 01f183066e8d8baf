package core

const (
	DeskName          = "DeskPilot"
	DeskUserAgent     = "DeskPilot/0.1"
	DeskRepositoryURL = "https://github.com/sandevgo/deskpilot"
	DeskVersion       = "0.1.0"
)

// IncomingMessage is a single inbound chat message as delivered by a transport.
type IncomingMessage struct {
	Text     string
	SenderID string
}

type Status string

const (
	StatusQueued Status = "queued"
	StatusError  Status = "error"
)

// CommandResult is a dispatch acknowledgment from the control backend.
// Queued means the request was accepted, not that it ran.
type CommandResult struct {
	Status  Status            `json:"status"`
	Command string            `json:"command"`
	Payload map[string]string `json:"payload"`
}

func (r CommandResult) Queued() bool {
	return r.Status == StatusQueued
}

type ReplyFormat int

const (
	// FormatPlain replies are sent verbatim.
	FormatPlain ReplyFormat = iota
	// FormatMarkdown replies come from the generation backend and are rendered.
	FormatMarkdown
)

// Reply is the single outbound message produced for an IncomingMessage.
type Reply struct {
	Text   string
	Format ReplyFormat
}
