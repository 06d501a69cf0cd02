package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
)

func seedTrialBalance(t *testing.T, d deps, sessionID, tbID string) {
	t.Helper()
	_, err := d.store.Update(context.Background(), sessionID, core.StatePatch{TBID: &tbID})
	require.NoError(t, err)
}

func TestMapAccountsSuccess(t *testing.T) {
	var got draftworx.MappingInput
	api := &stubAPI{
		mapAccounts: func(_ context.Context, input draftworx.MappingInput) (*draftworx.MappingResult, error) {
			got = input
			return &draftworx.MappingResult{
				ConfirmedMappings: []draftworx.Mapping{
					{Source: "Sales", Target: "Revenue", Confidence: 0.97},
					{Source: "Bank", Target: "Cash and equivalents", Confidence: 0.91},
				},
				UnresolvedAccounts: []draftworx.UnresolvedAccount{
					{Account: "Sundry", SuggestedTarget: "Other income", Confidence: 0.4},
				},
			}, nil
		},
	}
	d := newTestDeps(api)
	seedTrialBalance(t, d, "s1", "tb-1")
	h := &MapAccounts{deps: d}

	res, err := h.Execute(context.Background(), "s1", map[string]any{"confidenceThreshold": 0.8})
	require.NoError(t, err)

	assert.Equal(t, "tb-1", got.TBID)
	assert.InDelta(t, 0.8, got.ConfidenceThreshold, 1e-9)

	assert.Equal(t, "Confirmed 2 mappings.", res.Text)
	assert.Equal(t, "MappingReview", res.Component)
	assert.Len(t, res.Props["unresolvedAccounts"], 1)
	assert.Equal(t, 0.8, res.Props["confidenceThreshold"])

	// Mapping records a run but stores nothing else on the session.
	state := mustState(t, d.store, "s1")
	assert.Equal(t, "tb-1", state.TBID)
	assert.Empty(t, state.TemplateID)
	assert.Len(t, state.ToolRunSequence, 1)
}

func TestMapAccountsZeroThreshold(t *testing.T) {
	api := &stubAPI{
		mapAccounts: func(_ context.Context, input draftworx.MappingInput) (*draftworx.MappingResult, error) {
			assert.Zero(t, input.ConfidenceThreshold)
			return &draftworx.MappingResult{}, nil
		},
	}
	d := newTestDeps(api)
	seedTrialBalance(t, d, "s1", "tb-1")
	h := &MapAccounts{deps: d}

	res, err := h.Execute(context.Background(), "s1", map[string]any{"confidenceThreshold": 0.0})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed 0 mappings.", res.Text)
	assert.Equal(t, []draftworx.Mapping{}, res.Props["confirmedMappings"])
}

func TestMapAccountsThresholdOutOfRange(t *testing.T) {
	d := newTestDeps(&stubAPI{})
	seedTrialBalance(t, d, "s1", "tb-1")
	h := &MapAccounts{deps: d}

	_, err := h.Execute(context.Background(), "s1", map[string]any{"confidenceThreshold": 1.5})

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, mustState(t, d.store, "s1").ToolRunSequence)
}

func TestMapAccountsRemoteFailure(t *testing.T) {
	api := &stubAPI{
		mapAccounts: func(_ context.Context, _ draftworx.MappingInput) (*draftworx.MappingResult, error) {
			return nil, &core.RemoteError{Status: 500, Body: "mapping engine down"}
		},
	}
	d := newTestDeps(api)
	seedTrialBalance(t, d, "s1", "tb-1")
	h := &MapAccounts{deps: d}

	_, err := h.Execute(context.Background(), "s1", map[string]any{"confidenceThreshold": 0.8})
	require.Error(t, err)

	recent := d.telemetry.Recent(0)
	require.Len(t, recent, 1)
	assert.Equal(t, core.StatusFailed, recent[0].Status)
	assert.Empty(t, mustState(t, d.store, "s1").ToolRunSequence)
}
