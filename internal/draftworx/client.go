// Package draftworx is the HTTP client for the remote Draftworx reporting
// capability. The orchestrator treats the API as a black box: a non-success
// status surfaces as a single generic error carrying the status and body.
package draftworx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"

	"draftworx_orchestrator/internal/core"
)

// ClientInput registers a new client from a completed context.
type ClientInput struct {
	EntityType   string `json:"entityType"`
	Jurisdiction string `json:"jurisdiction"`
	YearEnd      string `json:"yearEnd"`
	Framework    string `json:"framework"`
}

// ClientResult is the outcome of client registration.
type ClientResult struct {
	ClientID string
	Summary  string
}

// UploadInput uploads a trial balance file reference.
type UploadInput struct {
	ClientID string `json:"clientId"`
	FileID   string `json:"fileId"`
	FileType string `json:"fileType"`
}

// DetectedAccount is one ledger account found in an uploaded trial balance.
type DetectedAccount struct {
	Account string  `json:"account"`
	Balance float64 `json:"balance"`
}

// UploadResult is the outcome of a trial balance upload.
type UploadResult struct {
	TBID             string
	Summary          string
	DetectedAccounts []DetectedAccount
	VersionTag       string
}

// MappingInput requests account mapping for an imported trial balance.
type MappingInput struct {
	TBID                string
	ConfidenceThreshold float64
}

// Mapping is a confirmed source-to-target account mapping.
type Mapping struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
}

// UnresolvedAccount is an account flagged for review.
type UnresolvedAccount struct {
	Account         string  `json:"account"`
	SuggestedTarget string  `json:"suggestedTarget,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// MappingResult carries mappings exactly as the capability returned them.
type MappingResult struct {
	ConfirmedMappings  []Mapping
	UnresolvedAccounts []UnresolvedAccount
}

// TemplateInput requests template recommendations for an entity context.
type TemplateInput struct {
	Jurisdiction string
	EntityType   string
	Framework    string
}

// TemplateOption is one entry of the ranked option list.
type TemplateOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// TemplateResult is the recommendation derived from the ranked option list:
// the highest-ranked entry becomes the recommended template.
type TemplateResult struct {
	TemplateID string
	Confidence float64
	Rationale  string
	Options    []TemplateOption
}

// DraftInput requests draft generation.
type DraftInput struct {
	ClientID   string `json:"clientId"`
	TBID       string `json:"tbId"`
	TemplateID string `json:"templateId"`
}

// DraftResult is the outcome of draft generation.
type DraftResult struct {
	DraftURL string
	Summary  string
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client talks to the Draftworx API over HTTP with an optional bearer
// credential.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: httpClient,
	}
}

func (c *Client) request(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("draftworx request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &core.RemoteError{Status: resp.StatusCode, Body: string(raw)}
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// CreateClient registers a client; POST /clients.
func (c *Client) CreateClient(ctx context.Context, input ClientInput) (*ClientResult, error) {
	var body struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
	}
	if err := c.request(ctx, http.MethodPost, "/clients", input, &body); err != nil {
		return nil, err
	}
	return &ClientResult{ClientID: body.ID, Summary: body.Summary}, nil
}

// UploadTrialBalance uploads a trial balance; POST /trial-balances.
func (c *Client) UploadTrialBalance(ctx context.Context, input UploadInput) (*UploadResult, error) {
	var body struct {
		TBID             string            `json:"tbId"`
		Summary          string            `json:"summary"`
		DetectedAccounts []DetectedAccount `json:"detectedAccounts"`
		VersionTag       string            `json:"versionTag"`
	}
	if err := c.request(ctx, http.MethodPost, "/trial-balances", input, &body); err != nil {
		return nil, err
	}
	return &UploadResult{
		TBID:             body.TBID,
		Summary:          body.Summary,
		DetectedAccounts: body.DetectedAccounts,
		VersionTag:       body.VersionTag,
	}, nil
}

// MapAccounts maps accounts; POST /trial-balances/{tbId}/map.
func (c *Client) MapAccounts(ctx context.Context, input MappingInput) (*MappingResult, error) {
	payload := struct {
		ConfidenceThreshold float64 `json:"confidenceThreshold"`
	}{ConfidenceThreshold: input.ConfidenceThreshold}

	var body struct {
		ConfirmedMappings  []Mapping           `json:"confirmedMappings"`
		UnresolvedAccounts []UnresolvedAccount `json:"unresolvedAccounts"`
	}
	path := fmt.Sprintf("/trial-balances/%s/map", url.PathEscape(input.TBID))
	if err := c.request(ctx, http.MethodPost, path, payload, &body); err != nil {
		return nil, err
	}
	return &MappingResult{
		ConfirmedMappings:  body.ConfirmedMappings,
		UnresolvedAccounts: body.UnresolvedAccounts,
	}, nil
}

// RecommendTemplate fetches the ranked template options;
// GET /templates?jurisdiction=&entityType=&framework=.
func (c *Client) RecommendTemplate(ctx context.Context, input TemplateInput) (*TemplateResult, error) {
	query := url.Values{}
	query.Set("jurisdiction", input.Jurisdiction)
	query.Set("entityType", input.EntityType)
	query.Set("framework", input.Framework)

	var body []struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Confidence  float64 `json:"confidence"`
		Rationale   string  `json:"rationale"`
	}
	if err := c.request(ctx, http.MethodGet, "/templates?"+query.Encode(), nil, &body); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, core.ErrNoTemplates
	}

	best := body[0]
	options := make([]TemplateOption, len(body))
	for i, entry := range body {
		options[i] = TemplateOption{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Confidence:  entry.Confidence,
		}
	}
	return &TemplateResult{
		TemplateID: best.ID,
		Confidence: best.Confidence,
		Rationale:  best.Rationale,
		Options:    options,
	}, nil
}

// CreateDraft generates a draft; POST /drafts.
func (c *Client) CreateDraft(ctx context.Context, input DraftInput) (*DraftResult, error) {
	var body struct {
		DraftURL string `json:"draftUrl"`
		Summary  string `json:"summary"`
	}
	if err := c.request(ctx, http.MethodPost, "/drafts", input, &body); err != nil {
		return nil, err
	}
	return &DraftResult{DraftURL: body.DraftURL, Summary: body.Summary}, nil
}
