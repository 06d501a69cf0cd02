// Package validate holds the per-tool input schema contracts. Validation is
// strict: fields outside a tool's declared schema are rejected, not dropped.
package validate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"draftworx_orchestrator/internal/core"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// RequiredContextFields lists the four context fields in reporting order.
var RequiredContextFields = []string{"entityType", "jurisdiction", "yearEnd", "framework"}

// ContextInput is the fully validated entity context.
type ContextInput struct {
	EntityType   string `json:"entityType" validate:"required"`
	Jurisdiction string `json:"jurisdiction" validate:"required"`
	YearEnd      string `json:"yearEnd" validate:"required,datetime=2006-01-02"`
	Framework    string `json:"framework" validate:"required"`
}

// ContextPartialInput carries whichever context fields the caller supplied.
// Field values are not checked here; collect_context folds invalid values
// into "missing" field-wise after merging.
type ContextPartialInput struct {
	EntityType   *string `json:"entityType"`
	Jurisdiction *string `json:"jurisdiction"`
	YearEnd      *string `json:"yearEnd"`
	Framework    *string `json:"framework"`
}

// UploadInput is a validated trial balance upload request. FileName is
// presentation-only and passed through to the uploader component.
type UploadInput struct {
	ClientID string `json:"clientId" validate:"required"`
	FileID   string `json:"fileId" validate:"required"`
	FileType string `json:"fileType" validate:"required,oneof=csv xlsx zip"`
	FileName string `json:"fileName"`
}

// MappingInput is a validated account mapping request. The threshold is a
// pointer so a supplied 0 is distinguishable from an absent field.
type MappingInput struct {
	TBID                string   `json:"tbId" validate:"required"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold" validate:"required,gte=0,lte=1"`
}

// TemplateInput is a validated template recommendation request.
type TemplateInput struct {
	Jurisdiction string `json:"jurisdiction" validate:"required"`
	EntityType   string `json:"entityType" validate:"required"`
	Framework    string `json:"framework" validate:"required"`
}

// DraftInput is a validated draft creation request.
type DraftInput struct {
	ClientID   string `json:"clientId" validate:"required"`
	TBID       string `json:"tbId" validate:"required"`
	TemplateID string `json:"templateId" validate:"required"`
}

var (
	contextKeys  = []string{"entityType", "jurisdiction", "yearEnd", "framework"}
	uploadKeys   = []string{"clientId", "fileId", "fileType", "fileName"}
	mappingKeys  = []string{"tbId", "confidenceThreshold"}
	templateKeys = []string{"jurisdiction", "entityType", "framework"}
	draftKeys    = []string{"clientId", "tbId", "templateId"}
)

// Context validates a full context against the strict schema.
func Context(tool string, args map[string]any) (*ContextInput, error) {
	out := &ContextInput{}
	if err := decode(tool, args, contextKeys, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContextPartial checks a collect_context payload at the transport boundary:
// unknown fields and non-string values are rejected, absent fields are fine.
func ContextPartial(tool string, args map[string]any) (*ContextPartialInput, error) {
	if err := checkKeys(tool, args, contextKeys); err != nil {
		return nil, err
	}
	out := &ContextPartialInput{}
	if err := unmarshalInto(tool, args, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContextFieldValid reports whether value satisfies the rule for one of the
// four required context fields.
func ContextFieldValid(field, value string) bool {
	rule := "required"
	if field == "yearEnd" {
		rule = "required,datetime=2006-01-02"
	}
	return v.Var(value, rule) == nil
}

// Upload validates a trial balance upload request.
func Upload(tool string, args map[string]any) (*UploadInput, error) {
	out := &UploadInput{}
	if err := decode(tool, args, uploadKeys, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mapping validates an account mapping request.
func Mapping(tool string, args map[string]any) (*MappingInput, error) {
	out := &MappingInput{}
	if err := decode(tool, args, mappingKeys, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Template validates a template recommendation request.
func Template(tool string, args map[string]any) (*TemplateInput, error) {
	out := &TemplateInput{}
	if err := decode(tool, args, templateKeys, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Draft validates a draft creation request.
func Draft(tool string, args map[string]any) (*DraftInput, error) {
	out := &DraftInput{}
	if err := decode(tool, args, draftKeys, out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(tool string, args map[string]any, allowed []string, out any) error {
	if err := checkKeys(tool, args, allowed); err != nil {
		return err
	}
	if err := unmarshalInto(tool, args, out); err != nil {
		return err
	}
	if err := v.Struct(out); err != nil {
		return violationError(tool, err)
	}
	return nil
}

func checkKeys(tool string, args map[string]any, allowed []string) error {
	var unknown []string
	for key := range args {
		ok := false
		for _, name := range allowed {
			if key == name {
				ok = true
				break
			}
		}
		if !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	violations := make([]string, len(unknown))
	for i, key := range unknown {
		violations[i] = fmt.Sprintf("unexpected field %q", key)
	}
	return &core.ValidationError{Tool: tool, Violations: violations}
}

func unmarshalInto(tool string, args map[string]any, out any) error {
	raw, err := sonic.Marshal(args)
	if err != nil {
		return &core.ValidationError{Tool: tool, Violations: []string{"arguments are not serializable"}}
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return &core.ValidationError{
			Tool:       tool,
			Violations: []string{"arguments do not match the declared schema"},
		}
	}
	return nil
}

func violationError(tool string, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &core.ValidationError{Tool: tool, Violations: []string{err.Error()}}
	}
	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, violationMessage(fe))
	}
	return &core.ValidationError{Tool: tool, Violations: violations}
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be YYYY-MM-DD", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
