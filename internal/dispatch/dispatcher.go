// Package dispatch resolves incoming tool calls to handlers, applies the
// precondition gate, and shapes handler results into the externally visible
// payload.
package dispatch

import (
	"context"

	"github.com/rs/zerolog"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/session"
)

// DefaultSessionID is used when a call carries no session identifier.
const DefaultSessionID = "default"

// Handler executes one workflow tool for a session.
type Handler interface {
	Name() string
	Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error)
}

// CallRequest is the shape of an incoming tool call at the invocation
// boundary.
type CallRequest struct {
	Name      string         `json:"name"`
	SessionID string         `json:"sessionId"`
	Arguments map[string]any `json:"arguments"`
}

// Dispatcher maps tool names to handlers and gates each call against the
// session's readiness state.
type Dispatcher struct {
	store    session.Store
	handlers map[string]Handler
	logger   zerolog.Logger
}

// New creates a dispatcher with no handlers registered.
func New(store session.Store, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register adds a handler under its tool name.
func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Name()] = h
}

// Descriptors lists the registered tools in a stable order.
func (d *Dispatcher) Descriptors() []ToolDescriptor {
	names := []string{
		core.ToolCollectContext,
		core.ToolCreateClient,
		core.ToolUploadTrialBalance,
		core.ToolMapAccounts,
		core.ToolRecommendTemplate,
		core.ToolCreateDraft,
	}
	out := make([]ToolDescriptor, 0, len(names))
	for _, name := range names {
		if _, ok := d.handlers[name]; !ok {
			continue
		}
		meta := toolMetaByName[name]
		out = append(out, ToolDescriptor{
			Name:        name,
			Title:       meta.title,
			Description: meta.description,
			InputSchema: meta.inputSchema,
		})
	}
	return out
}

// Call runs one tool invocation: unknown-name check, precondition gate,
// handler execution, result wrapping. Validation and precondition failures
// surface before any state change or telemetry.
func (d *Dispatcher) Call(ctx context.Context, req CallRequest) (*core.CallResult, error) {
	handler, ok := d.handlers[req.Name]
	if !ok {
		return nil, &core.UnknownToolError{Name: req.Name}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	state, err := d.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkPreconditions(req.Name, state); err != nil {
		d.logger.Debug().
			Str("tool", req.Name).
			Str("session_id", sessionID).
			Msg("precondition not met")
		return nil, err
	}

	d.logger.Info().
		Str("tool", req.Name).
		Str("session_id", sessionID).
		Msg("dispatching tool call")

	result, err := handler.Execute(ctx, sessionID, req.Arguments)
	if err != nil {
		return nil, err
	}

	return &core.CallResult{
		Text: result.Text,
		StructuredPayload: core.StructuredPayload{
			Component: result.Component,
			Props:     result.Props,
		},
		PresentationHints: presentationHints(req.Name),
	}, nil
}
