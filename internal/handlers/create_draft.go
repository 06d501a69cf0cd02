package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/validate"
)

// KeyHighlight is one label/value pair shown on the draft summary card.
type KeyHighlight struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CreateDraft generates the cloud draft from the session's client, trial
// balance, and template. Drafting does not require that account mapping has
// been performed.
type CreateDraft struct {
	deps
}

func (h *CreateDraft) Name() string { return core.ToolCreateDraft }

func (h *CreateDraft) Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error) {
	state, err := h.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	mergeStored(merged, "clientId", state.ClientID)
	mergeStored(merged, "tbId", state.TBID)
	mergeStored(merged, "templateId", state.TemplateID)
	overlay(merged, args)

	input, err := validate.Draft(core.ToolCreateDraft, merged)
	if err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	runID := uuid.NewString()

	resp, err := h.api.CreateDraft(ctx, draftworx.DraftInput{
		ClientID:   input.ClientID,
		TBID:       input.TBID,
		TemplateID: input.TemplateID,
	})
	if err != nil {
		h.recordFailure(core.ToolCreateDraft, started, err)
		return nil, err
	}

	if err := h.store.PushToolRun(ctx, sessionID, runID); err != nil {
		return nil, err
	}
	h.recordSuccess(runID, core.ToolCreateDraft, started)

	framework := ""
	if state.Context != nil {
		framework = state.Context.Framework
	}
	versionTag := state.VersionTag
	if versionTag == "" {
		versionTag = "v1"
	}
	return &core.HandlerResult{
		Text:      resp.Summary,
		Component: "DraftSummaryCard",
		Props: map[string]any{
			"toolRunId":  runID,
			"status":     core.StatusSucceeded,
			"draftUrl":   resp.DraftURL,
			"summary":    resp.Summary,
			"clientId":   state.ClientID,
			"tbId":       state.TBID,
			"templateId": state.TemplateID,
			"keyHighlights": []KeyHighlight{
				{Label: "Reporting framework", Value: framework},
				{Label: "Trial balance version", Value: versionTag},
			},
		},
	}, nil
}
