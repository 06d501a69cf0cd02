package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"draftworx_orchestrator/internal/core"
)

func requireValidationError(t *testing.T, err error) *core.ValidationError {
	t.Helper()
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestContextAcceptsValidInput(t *testing.T) {
	input, err := Context("tool", map[string]any{
		"entityType":   "Company",
		"jurisdiction": "ZA",
		"yearEnd":      "2024-02-29",
		"framework":    "IFRS",
	})
	require.NoError(t, err)
	require.Equal(t, "Company", input.EntityType)
	require.Equal(t, "2024-02-29", input.YearEnd)
}

func TestContextRejectsUnknownFields(t *testing.T) {
	_, err := Context("tool", map[string]any{
		"entityType":   "Company",
		"jurisdiction": "ZA",
		"yearEnd":      "2024-02-29",
		"framework":    "IFRS",
		"extra":        "nope",
	})
	verr := requireValidationError(t, err)
	require.Contains(t, verr.Violations, `unexpected field "extra"`)
}

func TestContextRejectsBadYearEnd(t *testing.T) {
	for _, yearEnd := range []string{"29-02-2024", "2024/02/29", "2024-13-01", "soon"} {
		_, err := Context("tool", map[string]any{
			"entityType":   "Company",
			"jurisdiction": "ZA",
			"yearEnd":      yearEnd,
			"framework":    "IFRS",
		})
		verr := requireValidationError(t, err)
		require.Contains(t, verr.Violations, "yearEnd must be YYYY-MM-DD")
	}
}

func TestContextRejectsEmptyFields(t *testing.T) {
	_, err := Context("tool", map[string]any{
		"entityType":   "",
		"jurisdiction": "ZA",
		"yearEnd":      "2024-02-29",
		"framework":    "IFRS",
	})
	verr := requireValidationError(t, err)
	require.Contains(t, verr.Violations, "entityType is required")
}

func TestContextPartialAllowsAbsentFields(t *testing.T) {
	input, err := ContextPartial("tool", map[string]any{"jurisdiction": "ZA"})
	require.NoError(t, err)
	require.NotNil(t, input.Jurisdiction)
	require.Equal(t, "ZA", *input.Jurisdiction)
	require.Nil(t, input.EntityType)
}

func TestContextPartialRejectsUnknownFields(t *testing.T) {
	_, err := ContextPartial("tool", map[string]any{"country": "ZA"})
	requireValidationError(t, err)
}

func TestContextPartialRejectsNonStringValues(t *testing.T) {
	_, err := ContextPartial("tool", map[string]any{"jurisdiction": 42})
	requireValidationError(t, err)
}

func TestContextFieldValid(t *testing.T) {
	require.True(t, ContextFieldValid("entityType", "Company"))
	require.False(t, ContextFieldValid("entityType", ""))
	require.True(t, ContextFieldValid("yearEnd", "2024-02-29"))
	require.False(t, ContextFieldValid("yearEnd", "2024-13-01"))
	require.False(t, ContextFieldValid("yearEnd", "not-a-date"))
}

func TestUploadValidatesFileType(t *testing.T) {
	for _, fileType := range []string{"csv", "xlsx", "zip"} {
		_, err := Upload("tool", map[string]any{
			"clientId": "c-1",
			"fileId":   "f-1",
			"fileType": fileType,
		})
		require.NoError(t, err)
	}

	_, err := Upload("tool", map[string]any{
		"clientId": "c-1",
		"fileId":   "f-1",
		"fileType": "pdf",
	})
	verr := requireValidationError(t, err)
	require.Contains(t, verr.Violations, "fileType must be one of csv, xlsx, zip")
}

func TestUploadAllowsOptionalFileName(t *testing.T) {
	input, err := Upload("tool", map[string]any{
		"clientId": "c-1",
		"fileId":   "f-1",
		"fileType": "csv",
		"fileName": "tb_2024.csv",
	})
	require.NoError(t, err)
	require.Equal(t, "tb_2024.csv", input.FileName)
}

func TestMappingThresholdRange(t *testing.T) {
	for _, threshold := range []float64{0, 0.5, 1} {
		input, err := Mapping("tool", map[string]any{
			"tbId":                "tb-1",
			"confidenceThreshold": threshold,
		})
		require.NoError(t, err)
		require.Equal(t, threshold, *input.ConfidenceThreshold)
	}

	for _, threshold := range []float64{-0.01, 1.01} {
		_, err := Mapping("tool", map[string]any{
			"tbId":                "tb-1",
			"confidenceThreshold": threshold,
		})
		requireValidationError(t, err)
	}
}

func TestMappingThresholdRequired(t *testing.T) {
	_, err := Mapping("tool", map[string]any{"tbId": "tb-1"})
	verr := requireValidationError(t, err)
	require.Contains(t, verr.Violations, "confidenceThreshold is required")
}

func TestDraftRequiresAllIdentifiers(t *testing.T) {
	_, err := Draft("tool", map[string]any{"clientId": "c-1"})
	verr := requireValidationError(t, err)
	require.Contains(t, verr.Violations, "tbId is required")
	require.Contains(t, verr.Violations, "templateId is required")
}

func TestValidationErrorCarriesToolName(t *testing.T) {
	_, err := Template("draftworx.recommend_template", map[string]any{})
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "draftworx.recommend_template", verr.Tool)
}
