package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/session"
	"draftworx_orchestrator/internal/telemetry"
)

// stubAPI lets each test script the reporting capability per operation.
type stubAPI struct {
	createClient       func(ctx context.Context, input draftworx.ClientInput) (*draftworx.ClientResult, error)
	uploadTrialBalance func(ctx context.Context, input draftworx.UploadInput) (*draftworx.UploadResult, error)
	mapAccounts        func(ctx context.Context, input draftworx.MappingInput) (*draftworx.MappingResult, error)
	recommendTemplate  func(ctx context.Context, input draftworx.TemplateInput) (*draftworx.TemplateResult, error)
	createDraft        func(ctx context.Context, input draftworx.DraftInput) (*draftworx.DraftResult, error)
}

var errUnexpectedCall = errors.New("unexpected capability call")

func (s *stubAPI) CreateClient(ctx context.Context, input draftworx.ClientInput) (*draftworx.ClientResult, error) {
	if s.createClient == nil {
		return nil, errUnexpectedCall
	}
	return s.createClient(ctx, input)
}

func (s *stubAPI) UploadTrialBalance(ctx context.Context, input draftworx.UploadInput) (*draftworx.UploadResult, error) {
	if s.uploadTrialBalance == nil {
		return nil, errUnexpectedCall
	}
	return s.uploadTrialBalance(ctx, input)
}

func (s *stubAPI) MapAccounts(ctx context.Context, input draftworx.MappingInput) (*draftworx.MappingResult, error) {
	if s.mapAccounts == nil {
		return nil, errUnexpectedCall
	}
	return s.mapAccounts(ctx, input)
}

func (s *stubAPI) RecommendTemplate(ctx context.Context, input draftworx.TemplateInput) (*draftworx.TemplateResult, error) {
	if s.recommendTemplate == nil {
		return nil, errUnexpectedCall
	}
	return s.recommendTemplate(ctx, input)
}

func (s *stubAPI) CreateDraft(ctx context.Context, input draftworx.DraftInput) (*draftworx.DraftResult, error) {
	if s.createDraft == nil {
		return nil, errUnexpectedCall
	}
	return s.createDraft(ctx, input)
}

func newTestDeps(api API) deps {
	return deps{
		store:     session.NewMemoryStore(),
		telemetry: telemetry.NewLog(zerolog.Nop()),
		api:       api,
	}
}

func mustState(t *testing.T, store session.Store, sessionID string) *core.SessionState {
	t.Helper()
	state, err := store.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	return state
}

func seedCompletedContext(t *testing.T, store session.Store, sessionID string) {
	t.Helper()
	_, err := store.Update(context.Background(), sessionID, core.StatePatch{
		Context: &core.ContextPatch{
			EntityType:   core.Ptr("Company"),
			Jurisdiction: core.Ptr("ZA"),
			YearEnd:      core.Ptr("2024-02-29"),
			Framework:    core.Ptr("IFRS"),
			Completed:    core.Ptr(true),
		},
	})
	if err != nil {
		t.Fatalf("seed context: %v", err)
	}
}
