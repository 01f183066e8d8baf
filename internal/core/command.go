package core

type CommandName string

const (
	CmdStart      CommandName = "/start"
	CmdHelp       CommandName = "/help"
	CmdOpen       CommandName = "/open"
	CmdShell      CommandName = "/shell"
	CmdScreenshot CommandName = "/screenshot"
)

// ParsedCommand is a message split on its first whitespace run.
// Argument is empty when the message carries nothing after the token.
type ParsedCommand struct {
	Name     CommandName
	Argument string
}

type CommandSpec struct {
	Name        CommandName
	ArgHint     string
	Description string
}

// RouterConfig is built once at startup and never mutated.
type RouterConfig struct {
	Commands          []CommandSpec
	GenerationEnabled bool
}
