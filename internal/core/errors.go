package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTemplates is returned when the reporting capability has no template
// options for the supplied context.
var ErrNoTemplates = errors.New("no templates available for provided context")

// ValidationError reports input that fails a tool's schema contract. It is
// surfaced before any remote call, state mutation, or telemetry.
type ValidationError struct {
	Tool       string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Tool, strings.Join(e.Violations, "; "))
}

// PreconditionError reports that a required prior workflow step has not
// completed for the session. Missing names the unmet prerequisites.
type PreconditionError struct {
	Tool    string
	Missing []string
	Reasons []string
}

func (e *PreconditionError) Error() string {
	return strings.Join(e.Reasons, " ")
}

// RemoteError reports a non-success outcome from the reporting capability.
// The orchestrator does not interpret upstream error codes; it carries the
// status and response body text through verbatim.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("draftworx api request failed: %d %s", e.Status, e.Body)
}

// UnknownToolError reports an operation name with no registered handler.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}
