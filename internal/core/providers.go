package core

import "context"

type Controller interface {
	OpenApplication(ctx context.Context, name string) CommandResult
	RunShellCommand(ctx context.Context, command string) CommandResult
	CaptureScreenshot(ctx context.Context) CommandResult
}

type Generator interface {
	Generate(ctx context.Context, prompt string, options map[string]any) GenerationOutcome
}
