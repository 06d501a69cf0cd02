package dispatch

import "draftworx_orchestrator/internal/core"

// requirement names a readiness state derived from session state. Each tool
// declares the requirements it must observe before running; the table below
// is the single place gating is defined, so adding a tool cannot skip it.
type requirement string

const (
	reqContext      requirement = "context"
	reqClient       requirement = "client"
	reqTrialBalance requirement = "trialBalance"
	reqTemplate     requirement = "template"
)

var requirementReasons = map[requirement]string{
	reqContext:      "Context is incomplete. Run draftworx.collect_context first.",
	reqClient:       "No Draftworx client registered yet.",
	reqTrialBalance: "No trial balance uploaded yet.",
	reqTemplate:     "No reporting template selected yet.",
}

// preconditions maps each tool to its ordered prerequisites. create_draft
// deliberately does not require that map_accounts has run.
var preconditions = map[string][]requirement{
	core.ToolCollectContext:     nil,
	core.ToolCreateClient:       {reqContext},
	core.ToolUploadTrialBalance: {reqClient},
	core.ToolMapAccounts:        {reqTrialBalance},
	core.ToolRecommendTemplate:  {reqContext},
	core.ToolCreateDraft:        {reqClient, reqTrialBalance, reqTemplate},
}

func unmet(req requirement, state *core.SessionState) bool {
	switch req {
	case reqContext:
		return state.Context == nil || !state.Context.Completed
	case reqClient:
		return state.ClientID == ""
	case reqTrialBalance:
		return state.TBID == ""
	case reqTemplate:
		return state.TemplateID == ""
	}
	return false
}

// checkPreconditions reports every unmet prerequisite for a tool in one
// error. It runs before validation and before the handler executes; a
// violation aborts the call with no telemetry and no state change.
func checkPreconditions(tool string, state *core.SessionState) error {
	var missing []string
	var reasons []string
	for _, req := range preconditions[tool] {
		if unmet(req, state) {
			missing = append(missing, string(req))
			reasons = append(reasons, requirementReasons[req])
		}
	}
	if len(missing) > 0 {
		return &core.PreconditionError{Tool: tool, Missing: missing, Reasons: reasons}
	}
	return nil
}
