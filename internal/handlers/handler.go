// Package handlers implements the six workflow tools. Every handler follows
// one contract: merge stored session state with caller input (caller wins on
// conflicts), validate the merged input, invoke the reporting capability,
// then record telemetry and apply its state update only on success.
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/session"
	"draftworx_orchestrator/internal/telemetry"
)

// API is the slice of the reporting capability the handlers invoke.
type API interface {
	CreateClient(ctx context.Context, input draftworx.ClientInput) (*draftworx.ClientResult, error)
	UploadTrialBalance(ctx context.Context, input draftworx.UploadInput) (*draftworx.UploadResult, error)
	MapAccounts(ctx context.Context, input draftworx.MappingInput) (*draftworx.MappingResult, error)
	RecommendTemplate(ctx context.Context, input draftworx.TemplateInput) (*draftworx.TemplateResult, error)
	CreateDraft(ctx context.Context, input draftworx.DraftInput) (*draftworx.DraftResult, error)
}

// Handler executes one workflow tool for a session.
type Handler interface {
	Name() string
	Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error)
}

type deps struct {
	store     session.Store
	telemetry *telemetry.Log
	api       API
}

// All constructs the six handlers sharing one store, telemetry log, and
// capability client.
func All(store session.Store, tel *telemetry.Log, api API) []Handler {
	d := deps{store: store, telemetry: tel, api: api}
	return []Handler{
		&CollectContext{deps: d},
		&CreateClient{deps: d},
		&UploadTrialBalance{deps: d},
		&MapAccounts{deps: d},
		&RecommendTemplate{deps: d},
		&CreateDraft{deps: d},
	}
}

// recordSuccess logs a succeeded run under the attempt's own run id.
func (d deps) recordSuccess(runID, tool string, started time.Time) {
	d.telemetry.Record(core.ToolRunRecord{
		ToolRunID:   runID,
		ToolName:    tool,
		Status:      core.StatusSucceeded,
		StartedAt:   started,
		CompletedAt: time.Now().UTC(),
	})
}

// recordFailure logs a failed run under a freshly minted run id. The entry
// run id of the attempt is discarded, so a failure id never collides with
// anything in a session's run sequence.
func (d deps) recordFailure(tool string, started time.Time, err error) {
	d.telemetry.Record(core.ToolRunRecord{
		ToolRunID:   uuid.NewString(),
		ToolName:    tool,
		Status:      core.StatusFailed,
		StartedAt:   started,
		CompletedAt: time.Now().UTC(),
		Error:       err.Error(),
	})
}

// mergeStored seeds a merge map with a stored value, then the caller's args
// are overlaid on top.
func mergeStored(merged map[string]any, key, value string) {
	if value != "" {
		merged[key] = value
	}
}

func overlay(merged map[string]any, args map[string]any) {
	for key, value := range args {
		merged[key] = value
	}
}
