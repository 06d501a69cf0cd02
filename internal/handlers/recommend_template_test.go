package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
)

func TestRecommendTemplateSuccess(t *testing.T) {
	var got draftworx.TemplateInput
	api := &stubAPI{
		recommendTemplate: func(_ context.Context, input draftworx.TemplateInput) (*draftworx.TemplateResult, error) {
			got = input
			return &draftworx.TemplateResult{
				TemplateID: "tmpl-ifrs-co",
				Confidence: 0.93,
				Rationale:  "Best match for an IFRS company in ZA.",
				Options: []draftworx.TemplateOption{
					{ID: "tmpl-ifrs-co", Name: "IFRS Company", Confidence: 0.93},
					{ID: "tmpl-ifrs-sme", Name: "IFRS for SMEs", Confidence: 0.61},
				},
			}, nil
		},
	}
	d := newTestDeps(api)
	seedCompletedContext(t, d.store, "s1")
	h := &RecommendTemplate{deps: d}

	res, err := h.Execute(context.Background(), "s1", map[string]any{})
	require.NoError(t, err)

	// Context fields come from session state.
	assert.Equal(t, "ZA", got.Jurisdiction)
	assert.Equal(t, "Company", got.EntityType)
	assert.Equal(t, "IFRS", got.Framework)

	assert.Equal(t, "Best match for an IFRS company in ZA.", res.Text)
	assert.Equal(t, "TemplateSelector", res.Component)
	assert.Equal(t, "tmpl-ifrs-co", res.Props["templateId"])
	assert.Len(t, res.Props["options"], 2)

	state := mustState(t, d.store, "s1")
	assert.Equal(t, "tmpl-ifrs-co", state.TemplateID)
	assert.Len(t, state.ToolRunSequence, 1)
}

func TestRecommendTemplateMissingContextFieldsFailValidation(t *testing.T) {
	d := newTestDeps(&stubAPI{})
	h := &RecommendTemplate{deps: d}

	_, err := h.Execute(context.Background(), "s1", map[string]any{"jurisdiction": "ZA"})

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, core.ToolRecommendTemplate, verr.Tool)
}

func TestRecommendTemplateNoTemplatesAvailable(t *testing.T) {
	api := &stubAPI{
		recommendTemplate: func(_ context.Context, _ draftworx.TemplateInput) (*draftworx.TemplateResult, error) {
			return nil, core.ErrNoTemplates
		},
	}
	d := newTestDeps(api)
	seedCompletedContext(t, d.store, "s1")
	h := &RecommendTemplate{deps: d}

	_, err := h.Execute(context.Background(), "s1", map[string]any{})
	require.ErrorIs(t, err, core.ErrNoTemplates)

	// No template is stored and the attempt shows up as a failure.
	state := mustState(t, d.store, "s1")
	assert.Empty(t, state.TemplateID)
	assert.Empty(t, state.ToolRunSequence)

	recent := d.telemetry.Recent(0)
	require.Len(t, recent, 1)
	assert.Equal(t, core.StatusFailed, recent[0].Status)
	assert.Equal(t, "no templates available for provided context", recent[0].Error)
}
