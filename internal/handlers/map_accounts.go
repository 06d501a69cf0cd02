package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/validate"
)

// MapAccounts asks the reporting capability to map trial balance accounts
// against the caller's confidence threshold. Confirmed and unresolved lists
// are returned exactly as the capability produced them; mapping leaves the
// session state untouched beyond the run sequence.
type MapAccounts struct {
	deps
}

func (h *MapAccounts) Name() string { return core.ToolMapAccounts }

func (h *MapAccounts) Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error) {
	state, err := h.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	mergeStored(merged, "tbId", state.TBID)
	overlay(merged, args)

	input, err := validate.Mapping(core.ToolMapAccounts, merged)
	if err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	runID := uuid.NewString()

	resp, err := h.api.MapAccounts(ctx, draftworx.MappingInput{
		TBID:                input.TBID,
		ConfidenceThreshold: *input.ConfidenceThreshold,
	})
	if err != nil {
		h.recordFailure(core.ToolMapAccounts, started, err)
		return nil, err
	}

	if err := h.store.PushToolRun(ctx, sessionID, runID); err != nil {
		return nil, err
	}
	h.recordSuccess(runID, core.ToolMapAccounts, started)

	confirmed := resp.ConfirmedMappings
	if confirmed == nil {
		confirmed = []draftworx.Mapping{}
	}
	unresolved := resp.UnresolvedAccounts
	if unresolved == nil {
		unresolved = []draftworx.UnresolvedAccount{}
	}
	return &core.HandlerResult{
		Text:      fmt.Sprintf("Confirmed %d mappings.", len(confirmed)),
		Component: "MappingReview",
		Props: map[string]any{
			"toolRunId":           runID,
			"status":              core.StatusSucceeded,
			"confirmedMappings":   confirmed,
			"unresolvedAccounts":  unresolved,
			"confidenceThreshold": *input.ConfidenceThreshold,
		},
	}, nil
}
