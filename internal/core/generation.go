package core

import "fmt"

type FailureKind string

const (
	FailureUnreachable       FailureKind = "unreachable"
	FailureMalformedResponse FailureKind = "malformed-response"
	FailureUnexpectedShape   FailureKind = "unexpected-shape"
)

// GenerationOutcome is either a generated text or a typed failure, never both.
// Build it with Generated or Failed.
type GenerationOutcome struct {
	text  string
	kind  FailureKind
	cause error
}

func Generated(text string) GenerationOutcome {
	return GenerationOutcome{text: text}
}

func Failed(kind FailureKind, cause error) GenerationOutcome {
	if cause == nil {
		cause = fmt.Errorf("generation failed: %s", kind)
	}
	return GenerationOutcome{kind: kind, cause: cause}
}

func (o GenerationOutcome) Ok() bool {
	return o.kind == ""
}

func (o GenerationOutcome) Text() string {
	return o.text
}

func (o GenerationOutcome) Kind() FailureKind {
	return o.kind
}

// Err carries operator-facing detail. It is nil on success.
func (o GenerationOutcome) Err() error {
	return o.cause
}
