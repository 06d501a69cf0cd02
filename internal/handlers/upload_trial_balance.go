package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/validate"
)

var allowedFileTypes = []string{"csv", "xlsx", "zip"}

// UploadTrialBalance registers an uploaded trial balance file with the
// reporting capability. On success the session takes ownership of the
// returned tbId and version tag.
type UploadTrialBalance struct {
	deps
}

func (h *UploadTrialBalance) Name() string { return core.ToolUploadTrialBalance }

func (h *UploadTrialBalance) Execute(ctx context.Context, sessionID string, args map[string]any) (*core.HandlerResult, error) {
	state, err := h.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	mergeStored(merged, "clientId", state.ClientID)
	overlay(merged, args)

	input, err := validate.Upload(core.ToolUploadTrialBalance, merged)
	if err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	runID := uuid.NewString()

	resp, err := h.api.UploadTrialBalance(ctx, draftworx.UploadInput{
		ClientID: input.ClientID,
		FileID:   input.FileID,
		FileType: input.FileType,
	})
	if err != nil {
		h.recordFailure(core.ToolUploadTrialBalance, started, err)
		return nil, err
	}

	_, err = h.store.Update(ctx, sessionID, core.StatePatch{
		TBID:       &resp.TBID,
		VersionTag: &resp.VersionTag,
	})
	if err != nil {
		return nil, err
	}
	if err := h.store.PushToolRun(ctx, sessionID, runID); err != nil {
		return nil, err
	}
	h.recordSuccess(runID, core.ToolUploadTrialBalance, started)

	accounts := resp.DetectedAccounts
	if accounts == nil {
		accounts = []draftworx.DetectedAccount{}
	}
	props := map[string]any{
		"toolRunId":        runID,
		"status":           core.StatusSucceeded,
		"uploadSummary":    resp.Summary,
		"detectedAccounts": accounts,
		"versionTag":       resp.VersionTag,
		"allowedTypes":     allowedFileTypes,
	}
	if input.FileName != "" {
		props["fileName"] = input.FileName
	}
	return &core.HandlerResult{
		Text:      resp.Summary,
		Component: "TrialBalanceUploader",
		Props:     props,
	}, nil
}
