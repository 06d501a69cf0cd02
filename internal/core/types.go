package core

import "time"

// Tool names exposed by the orchestrator.
const (
	ToolCollectContext     = "draftworx.collect_context"
	ToolCreateClient       = "draftworx.create_client"
	ToolUploadTrialBalance = "draftworx.upload_trial_balance"
	ToolMapAccounts        = "draftworx.map_accounts"
	ToolRecommendTemplate  = "draftworx.recommend_template"
	ToolCreateDraft        = "draftworx.create_draft"
)

// ToolRunStatus is the lifecycle state of a single tool invocation attempt.
type ToolRunStatus string

const (
	StatusPending   ToolRunStatus = "pending"
	StatusSucceeded ToolRunStatus = "succeeded"
	StatusFailed    ToolRunStatus = "failed"
)

// WorkflowContext holds the entity context captured across collect_context
// calls. Completed is derived: true iff all four data fields are present and
// individually valid. It is never set directly by callers.
type WorkflowContext struct {
	EntityType   string `json:"entityType,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	YearEnd      string `json:"yearEnd,omitempty"`
	Framework    string `json:"framework,omitempty"`
	Completed    bool   `json:"completed"`
}

// SessionState is the per-session workflow state. ToolRunSequence records the
// run ids of successful completions only, in order, append-only.
type SessionState struct {
	ToolRunSequence []string         `json:"toolRunSequence"`
	Context         *WorkflowContext `json:"context,omitempty"`
	ClientID        string           `json:"clientId,omitempty"`
	TBID            string           `json:"tbId,omitempty"`
	VersionTag      string           `json:"versionTag,omitempty"`
	TemplateID      string           `json:"templateId,omitempty"`
}

// NewSessionState returns the empty state a fresh session starts from.
func NewSessionState() *SessionState {
	return &SessionState{ToolRunSequence: []string{}}
}

// Clone returns a deep copy sharing no memory with the receiver.
func (s *SessionState) Clone() *SessionState {
	out := *s
	out.ToolRunSequence = make([]string, len(s.ToolRunSequence))
	copy(out.ToolRunSequence, s.ToolRunSequence)
	if s.Context != nil {
		ctx := *s.Context
		out.Context = &ctx
	}
	return &out
}

// ContextPatch is a field-wise partial update of WorkflowContext. Nil fields
// are left untouched.
type ContextPatch struct {
	EntityType   *string
	Jurisdiction *string
	YearEnd      *string
	Framework    *string
	Completed    *bool
}

// StatePatch is a field-wise partial update of SessionState. The nested
// context patch merges independently of the top-level fields, so a context
// update never wipes unrelated state such as ClientID.
type StatePatch struct {
	Context    *ContextPatch
	ClientID   *string
	TBID       *string
	VersionTag *string
	TemplateID *string
}

// Apply merges a patch into the state in place.
func (s *SessionState) Apply(patch StatePatch) {
	if patch.Context != nil {
		if s.Context == nil {
			s.Context = &WorkflowContext{}
		}
		c := patch.Context
		if c.EntityType != nil {
			s.Context.EntityType = *c.EntityType
		}
		if c.Jurisdiction != nil {
			s.Context.Jurisdiction = *c.Jurisdiction
		}
		if c.YearEnd != nil {
			s.Context.YearEnd = *c.YearEnd
		}
		if c.Framework != nil {
			s.Context.Framework = *c.Framework
		}
		if c.Completed != nil {
			s.Context.Completed = *c.Completed
		}
	}
	if patch.ClientID != nil {
		s.ClientID = *patch.ClientID
	}
	if patch.TBID != nil {
		s.TBID = *patch.TBID
	}
	if patch.VersionTag != nil {
		s.VersionTag = *patch.VersionTag
	}
	if patch.TemplateID != nil {
		s.TemplateID = *patch.TemplateID
	}
}

// ToolRunRecord is one telemetry entry. Entries are immutable once appended.
type ToolRunRecord struct {
	ToolRunID   string        `json:"toolRunId"`
	ToolName    string        `json:"toolName"`
	Status      ToolRunStatus `json:"status"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt time.Time     `json:"completedAt"`
	Error       string        `json:"error,omitempty"`
}

// HandlerResult is what a tool handler returns on success: a one-line summary
// and the presentation component payload the dispatcher wraps for the caller.
type HandlerResult struct {
	Text      string
	Component string
	Props     map[string]any
}

// StructuredPayload names the presentation component a result maps to and
// carries that component's input properties.
type StructuredPayload struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
}

// CallResult is the externally visible payload returned for every operation.
type CallResult struct {
	Text              string            `json:"text"`
	StructuredPayload StructuredPayload `json:"structuredPayload"`
	PresentationHints map[string]any    `json:"presentationHints"`
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }
