package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aguo890/linesight/models"
)

// Inference is the strict-JSON verdict the reasoning service returns for one
// column. Canonical is either a member of the catalogue or "UNMAPPABLE";
// anything else is treated as no match, never trusted.
type Inference struct {
	Canonical  string  `json:"canonical"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

const InferenceUnmappable = "UNMAPPABLE"

// ColumnSample carries a header plus up to a few example cell values to give
// the reasoning service something to ground on.
type ColumnSample struct {
	Name    string   `json:"name"`
	Samples []string `json:"samples"`
}

// ReasoningService is the only contract the matcher needs from an LLM
// provider. Any backend is interchangeable behind it.
type ReasoningService interface {
	InferColumn(ctx context.Context, name string, samples []string) (Inference, error)
	InferSchema(ctx context.Context, columns []ColumnSample) (map[string]Inference, error)
}

// SemanticMatcher is Tier 3: invoked only for columns unresolved by Tiers
// 1-2. It never escalates errors; a transport or parse failure degrades every
// affected column to an explicit "no match" so ingestion continues with
// partial mapping coverage.
type SemanticMatcher struct {
	svc     ReasoningService
	timeout time.Duration
}

const defaultInferenceTimeout = 30 * time.Second

// MaxSemanticSamples caps how many cell values accompany each column.
const MaxSemanticSamples = 5

func NewSemanticMatcher(svc ReasoningService) *SemanticMatcher {
	return &SemanticMatcher{svc: svc, timeout: defaultInferenceTimeout}
}

func (m *SemanticMatcher) Match(ctx context.Context, columnName string, samples []string) MatchResult {
	if len(samples) > MaxSemanticSamples {
		samples = samples[:MaxSemanticSamples]
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	inf, err := m.svc.InferColumn(ctx, columnName, samples)
	if err != nil {
		return semanticFailure(err)
	}
	return clampInference(inf)
}

// MatchBatch amortizes one service call across all unmatched columns of a
// file. Result order follows the input order.
func (m *SemanticMatcher) MatchBatch(ctx context.Context, columns []ColumnSample) []MatchResult {
	results := make([]MatchResult, len(columns))
	if len(columns) == 0 {
		return results
	}

	trimmed := make([]ColumnSample, len(columns))
	for i, c := range columns {
		if len(c.Samples) > MaxSemanticSamples {
			c.Samples = c.Samples[:MaxSemanticSamples]
		}
		trimmed[i] = c
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	inferences, err := m.svc.InferSchema(ctx, trimmed)
	if err != nil {
		for i := range results {
			results[i] = semanticFailure(err)
		}
		return results
	}

	for i, c := range columns {
		inf, ok := inferences[c.Name]
		if !ok {
			results[i] = MatchResult{
				Tier:      models.MatchTierLLM,
				Reasoning: "reasoning service returned no verdict for column",
			}
			continue
		}
		results[i] = clampInference(inf)
	}
	return results
}

// clampInference enforces that the catalogue, not the model's free text, is
// the source of truth.
func clampInference(inf Inference) MatchResult {
	canonical := strings.TrimSpace(inf.Canonical)
	if canonical == "" || canonical == InferenceUnmappable || !IsCanonical(canonical) {
		reasoning := inf.Reasoning
		if reasoning == "" {
			reasoning = "reasoning service could not map column"
		}
		return MatchResult{Tier: models.MatchTierLLM, Reasoning: reasoning}
	}

	confidence := inf.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return MatchResult{
		TargetField: canonical,
		Confidence:  confidence,
		Tier:        models.MatchTierLLM,
		Reasoning:   inf.Reasoning,
	}
}

func semanticFailure(err error) MatchResult {
	return MatchResult{
		Tier:      models.MatchTierLLM,
		Reasoning: fmt.Sprintf("reasoning service error: %v", err),
	}
}

// --- default HTTP provider ---

// httpReasoningService talks to an external inference endpoint with a single
// JSON POST per batch. Configured via env:
//   REASONING_SERVICE_URL (required)
//   REASONING_SERVICE_API_KEY
//   REASONING_SERVICE_API_KEY_HEADER (default X-API-Key)
type httpReasoningService struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
}

func NewHTTPReasoningService() (ReasoningService, error) {
	baseURL := strings.TrimSpace(os.Getenv("REASONING_SERVICE_URL"))
	if baseURL == "" {
		return nil, errors.New("REASONING_SERVICE_URL is not set")
	}
	apiKeyHeader := strings.TrimSpace(os.Getenv("REASONING_SERVICE_API_KEY_HEADER"))
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &httpReasoningService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(os.Getenv("REASONING_SERVICE_API_KEY")),
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: defaultInferenceTimeout},
	}, nil
}

type inferRequest struct {
	Catalogue string         `json:"catalogue"`
	Examples  []inferExample `json:"examples"`
	Columns   []ColumnSample `json:"columns"`
}

type inferExample struct {
	Column    string `json:"column"`
	Canonical string `json:"canonical"`
}

// fewShotExamples anchor the model on the expected output shape and on the
// UNMAPPABLE escape hatch.
var fewShotExamples = []inferExample{
	{Column: "Sewing Output Pcs", Canonical: "actual_qty"},
	{Column: "SMV (mins)", Canonical: "sam"},
	{Column: "MGR Signature", Canonical: InferenceUnmappable},
}

type inferResponse struct {
	Results map[string]Inference `json:"results"`
}

func (s *httpReasoningService) InferColumn(ctx context.Context, name string, samples []string) (Inference, error) {
	out, err := s.InferSchema(ctx, []ColumnSample{{Name: name, Samples: samples}})
	if err != nil {
		return Inference{}, err
	}
	inf, ok := out[name]
	if !ok {
		return Inference{}, fmt.Errorf("no inference returned for column %q", name)
	}
	return inf, nil
}

func (s *httpReasoningService) InferSchema(ctx context.Context, columns []ColumnSample) (map[string]Inference, error) {
	payload := inferRequest{
		Catalogue: CataloguePrompt(),
		Examples:  fewShotExamples,
		Columns:   columns,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/infer-schema", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set(s.apiKeyHdr, s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("reasoning service error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed inferResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("reasoning service returned invalid JSON: %w", err)
	}
	if parsed.Results == nil {
		return map[string]Inference{}, nil
	}
	return parsed.Results, nil
}
