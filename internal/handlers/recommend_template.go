package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/validate"
)

// RecommendTemplate picks the highest-ranked reporting template for the
// session's context. An empty option list from the capability is a failure:
// no templateId is stored and the attempt is recorded as failed.
type RecommendTemplate struct {
	deps
}

func (h *RecommendTemplate) Name() string { return core.ToolRecommendTemplate }

func (h *RecommendTemplate) Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error) {
	state, err := h.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	if state.Context != nil {
		mergeStored(merged, "jurisdiction", state.Context.Jurisdiction)
		mergeStored(merged, "entityType", state.Context.EntityType)
		mergeStored(merged, "framework", state.Context.Framework)
	}
	overlay(merged, args)

	input, err := validate.Template(core.ToolRecommendTemplate, merged)
	if err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	runID := uuid.NewString()

	resp, err := h.api.RecommendTemplate(ctx, draftworx.TemplateInput{
		Jurisdiction: input.Jurisdiction,
		EntityType:   input.EntityType,
		Framework:    input.Framework,
	})
	if err != nil {
		h.recordFailure(core.ToolRecommendTemplate, started, err)
		return nil, err
	}

	_, err = h.store.Update(ctx, sessionID, core.StatePatch{
		TemplateID: &resp.TemplateID,
	})
	if err != nil {
		return nil, err
	}
	if err := h.store.PushToolRun(ctx, sessionID, runID); err != nil {
		return nil, err
	}
	h.recordSuccess(runID, core.ToolRecommendTemplate, started)

	options := resp.Options
	if options == nil {
		options = []draftworx.TemplateOption{}
	}
	return &core.HandlerResult{
		Text:      resp.Rationale,
		Component: "TemplateSelector",
		Props: map[string]any{
			"toolRunId":  runID,
			"status":     core.StatusSucceeded,
			"templateId": resp.TemplateID,
			"confidence": resp.Confidence,
			"rationale":  resp.Rationale,
			"options":    options,
		},
	}, nil
}
