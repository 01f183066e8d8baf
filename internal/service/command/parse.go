package command

import (
	"strings"
	"unicode"

	"github.com/sandevgo/deskpilot/internal/core"
)

var vocabulary = []core.CommandSpec{
	{Name: core.CmdStart, Description: "Show usage"},
	{Name: core.CmdHelp, Description: "Show usage"},
	{Name: core.CmdOpen, ArgHint: "<app>", Description: "Open an application"},
	{Name: core.CmdShell, ArgHint: "<command>", Description: "Queue a shell command"},
	{Name: core.CmdScreenshot, Description: "Capture a screenshot"},
}

// Parse splits text on its first whitespace run. The token is matched
// case-sensitively; ok is false when it is not a known command. Leading
// whitespace on the argument is dropped and an all-whitespace argument is
// treated as absent.
func Parse(text string) (core.ParsedCommand, bool) {
	token, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		token, rest = text[:i], text[i:]
	}

	// group chats address commands as /open@SomeBot
	if strings.HasPrefix(token, "/") {
		token, _, _ = strings.Cut(token, "@")
	}

	name := core.CommandName(token)
	if !known(name) {
		return core.ParsedCommand{}, false
	}

	arg := strings.TrimLeftFunc(rest, unicode.IsSpace)
	return core.ParsedCommand{Name: name, Argument: arg}, true
}

func known(name core.CommandName) bool {
	switch name {
	case core.CmdStart, core.CmdHelp, core.CmdOpen, core.CmdShell, core.CmdScreenshot:
		return true
	}
	return false
}
