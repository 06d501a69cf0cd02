package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/validate"
)

// ContextField describes one context field for the ContextCollector
// component: presentation config plus the currently stored value.
type ContextField struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Value      string `json:"value,omitempty"`
	Required   bool   `json:"required"`
	HelperText string `json:"helperText"`
}

var contextFieldConfig = []ContextField{
	{Key: "jurisdiction", Label: "Jurisdiction", Required: true, HelperText: "Where the entity is registered"},
	{Key: "entityType", Label: "Entity type", Required: true, HelperText: "Company, trust, partnership, etc."},
	{Key: "yearEnd", Label: "Year-end date", Required: true, HelperText: "Use ISO format YYYY-MM-DD"},
	{Key: "framework", Label: "Reporting framework", Required: true, HelperText: "e.g. IFRS for SMEs, IFRS, GAAP"},
}

// CollectContext incrementally gathers jurisdiction, entity type, year-end,
// and reporting framework. It performs no remote call: the operation is a
// local merge-and-classify over session state, designed to be called
// repeatedly with partial information. A field that fails its rule is folded
// into "missing" rather than surfaced as a format error.
type CollectContext struct {
	deps
}

func (h *CollectContext) Name() string { return core.ToolCollectContext }

func (h *CollectContext) Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error) {
	input, err := validate.ContextPartial(core.ToolCollectContext, args)
	if err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	runID := uuid.NewString()

	state, err := h.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := mergedContext(state.Context, input)

	var missing []string
	for _, field := range validate.RequiredContextFields {
		if !validate.ContextFieldValid(field, merged[field]) {
			missing = append(missing, field)
		}
	}
	completed := len(missing) == 0

	_, err = h.store.Update(ctx, sessionID, core.StatePatch{
		Context: &core.ContextPatch{
			EntityType:   core.Ptr(merged["entityType"]),
			Jurisdiction: core.Ptr(merged["jurisdiction"]),
			YearEnd:      core.Ptr(merged["yearEnd"]),
			Framework:    core.Ptr(merged["framework"]),
			Completed:    core.Ptr(completed),
		},
	})
	if err != nil {
		return nil, err
	}
	if err := h.store.PushToolRun(ctx, sessionID, runID); err != nil {
		return nil, err
	}
	h.recordSuccess(runID, core.ToolCollectContext, started)

	collected := len(validate.RequiredContextFields) - len(missing)
	summary := fmt.Sprintf("%d of %d context fields captured.", collected, len(validate.RequiredContextFields))

	if missing == nil {
		missing = []string{}
	}
	return &core.HandlerResult{
		Text:      summary,
		Component: "ContextCollector",
		Props: map[string]any{
			"toolRunId":     runID,
			"summary":       summary,
			"fields":        contextFields(merged),
			"missingFields": missing,
		},
	}, nil
}

// mergedContext overlays the caller's fields on the stored context. Invalid
// caller values are merged as-is; they simply keep their field missing.
func mergedContext(current *core.WorkflowContext, input *validate.ContextPartialInput) map[string]string {
	merged := map[string]string{}
	if current != nil {
		merged["entityType"] = current.EntityType
		merged["jurisdiction"] = current.Jurisdiction
		merged["yearEnd"] = current.YearEnd
		merged["framework"] = current.Framework
	}
	if input.EntityType != nil {
		merged["entityType"] = *input.EntityType
	}
	if input.Jurisdiction != nil {
		merged["jurisdiction"] = *input.Jurisdiction
	}
	if input.YearEnd != nil {
		merged["yearEnd"] = *input.YearEnd
	}
	if input.Framework != nil {
		merged["framework"] = *input.Framework
	}
	return merged
}

func contextFields(merged map[string]string) []ContextField {
	fields := make([]ContextField, len(contextFieldConfig))
	for i, cfg := range contextFieldConfig {
		field := cfg
		field.Value = merged[cfg.Key]
		fields[i] = field
	}
	return fields
}
