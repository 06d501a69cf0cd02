package dispatch

import "draftworx_orchestrator/internal/core"

type toolMeta struct {
	title       string
	description string
	template    string
	invoking    string
	invoked     string
	inputSchema map[string]any
}

var toolMetaByName = map[string]toolMeta{
	core.ToolCollectContext: {
		title:       "Collect reporting context",
		description: "Collect jurisdiction, entity type, year-end, and reporting framework.",
		template:    "ui://draftworx/context-collector.html",
		invoking:    "Gathering client context",
		invoked:     "Context updated",
		inputSchema: objectSchema(map[string]any{
			"entityType":   map[string]any{"type": "string"},
			"jurisdiction": map[string]any{"type": "string"},
			"yearEnd":      map[string]any{"type": "string", "format": "date"},
			"framework":    map[string]any{"type": "string"},
		}),
	},
	core.ToolCreateClient: {
		title:       "Create Draftworx client",
		description: "Confirm and register a Draftworx client.",
		template:    "ui://draftworx/client-confirmation.html",
		invoking:    "Registering client",
		invoked:     "Client created",
		inputSchema: objectSchema(map[string]any{
			"entityType":   map[string]any{"type": "string"},
			"jurisdiction": map[string]any{"type": "string"},
			"yearEnd":      map[string]any{"type": "string", "format": "date"},
			"framework":    map[string]any{"type": "string"},
		}, "entityType", "jurisdiction", "yearEnd", "framework"),
	},
	core.ToolUploadTrialBalance: {
		title:       "Upload trial balance",
		description: "Upload a trial balance file (CSV/XLSX/ZIP).",
		template:    "ui://draftworx/tb-uploader.html",
		invoking:    "Uploading trial balance",
		invoked:     "Trial balance uploaded",
		inputSchema: objectSchema(map[string]any{
			"clientId": map[string]any{"type": "string"},
			"fileId":   map[string]any{"type": "string"},
			"fileType": map[string]any{"type": "string", "enum": []string{"csv", "xlsx", "zip"}},
			"fileName": map[string]any{"type": "string"},
		}, "clientId", "fileId", "fileType"),
	},
	core.ToolMapAccounts: {
		title:       "Map accounts",
		description: "Map trial balance accounts and flag low-confidence matches.",
		template:    "ui://draftworx/mapping-review.html",
		invoking:    "Mapping accounts",
		invoked:     "Mappings prepared",
		inputSchema: objectSchema(map[string]any{
			"tbId":                map[string]any{"type": "string"},
			"confidenceThreshold": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		}, "tbId", "confidenceThreshold"),
	},
	core.ToolRecommendTemplate: {
		title:       "Recommend template",
		description: "Recommend the best reporting template.",
		template:    "ui://draftworx/template-selector.html",
		invoking:    "Evaluating templates",
		invoked:     "Template recommended",
		inputSchema: objectSchema(map[string]any{
			"jurisdiction": map[string]any{"type": "string"},
			"entityType":   map[string]any{"type": "string"},
			"framework":    map[string]any{"type": "string"},
		}, "jurisdiction", "entityType", "framework"),
	},
	core.ToolCreateDraft: {
		title:       "Create draft",
		description: "Generate the Draftworx Cloud draft.",
		template:    "ui://draftworx/draft-summary.html",
		invoking:    "Generating draft",
		invoked:     "Draft ready",
		inputSchema: objectSchema(map[string]any{
			"clientId":   map[string]any{"type": "string"},
			"tbId":       map[string]any{"type": "string"},
			"templateId": map[string]any{"type": "string"},
		}, "clientId", "tbId", "templateId"),
	},
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func presentationHints(name string) map[string]any {
	meta, ok := toolMetaByName[name]
	if !ok {
		return map[string]any{}
	}
	return map[string]any{
		"openai/outputTemplate":          meta.template,
		"openai/toolInvocation/invoking": meta.invoking,
		"openai/toolInvocation/invoked":  meta.invoked,
		"openai/widgetAccessible":        true,
		"openai/resultCanProduceWidget":  true,
	}
}

// ToolDescriptor describes a registered tool for listing endpoints.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}
