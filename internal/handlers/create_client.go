package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/validate"
)

const defaultClientSummary = "Client created in Draftworx."

// CreateClient registers the session's entity as a Draftworx client. The
// stored context is merged under the caller's fields, then the combined
// context must pass the full schema.
type CreateClient struct {
	deps
}

func (h *CreateClient) Name() string { return core.ToolCreateClient }

func (h *CreateClient) Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error) {
	state, err := h.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	if state.Context != nil {
		mergeStored(merged, "entityType", state.Context.EntityType)
		mergeStored(merged, "jurisdiction", state.Context.Jurisdiction)
		mergeStored(merged, "yearEnd", state.Context.YearEnd)
		mergeStored(merged, "framework", state.Context.Framework)
	}
	overlay(merged, args)

	input, err := validate.Context(core.ToolCreateClient, merged)
	if err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	runID := uuid.NewString()

	resp, err := h.api.CreateClient(ctx, draftworx.ClientInput{
		EntityType:   input.EntityType,
		Jurisdiction: input.Jurisdiction,
		YearEnd:      input.YearEnd,
		Framework:    input.Framework,
	})
	if err != nil {
		h.recordFailure(core.ToolCreateClient, started, err)
		return nil, err
	}

	_, err = h.store.Update(ctx, sessionID, core.StatePatch{
		Context: &core.ContextPatch{
			EntityType:   &input.EntityType,
			Jurisdiction: &input.Jurisdiction,
			YearEnd:      &input.YearEnd,
			Framework:    &input.Framework,
			Completed:    core.Ptr(true),
		},
		ClientID: &resp.ClientID,
	})
	if err != nil {
		return nil, err
	}
	if err := h.store.PushToolRun(ctx, sessionID, runID); err != nil {
		return nil, err
	}
	h.recordSuccess(runID, core.ToolCreateClient, started)

	summary := resp.Summary
	if summary == "" {
		summary = defaultClientSummary
	}
	return &core.HandlerResult{
		Text:      summary,
		Component: "ClientConfirmation",
		Props: map[string]any{
			"toolRunId": runID,
			"status":    core.StatusSucceeded,
			"clientId":  resp.ClientID,
			"summary":   summary,
			"context": map[string]string{
				"entityType":   input.EntityType,
				"jurisdiction": input.Jurisdiction,
				"yearEnd":      input.YearEnd,
				"framework":    input.Framework,
			},
		},
	}, nil
}
