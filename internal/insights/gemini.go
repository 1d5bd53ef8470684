package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"smartfinance/internal/core"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	systemInstruction    = "Você é um consultor financeiro especialista em controle de gastos e planejamento pessoal."
)

var ErrEmptyResponse = errors.New("empty response from model")

// GeminiGenerator calls the generateContent REST endpoint of the Gemini API.
type GeminiGenerator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type GeminiOption func(*GeminiGenerator)

// WithBaseURL points the generator at another endpoint root, e.g. a test
// server.
func WithBaseURL(u string) GeminiOption {
	return func(g *GeminiGenerator) { g.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiGenerator) { g.httpClient = c }
}

func NewGeminiGenerator(apiKey, model string, opts ...GeminiOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		return nil, errors.New("gemini model is required")
	}
	g := &GeminiGenerator{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type (
	geminiPart struct {
		Text string `json:"text"`
	}

	geminiContent struct {
		Role  string       `json:"role,omitempty"`
		Parts []geminiPart `json:"parts"`
	}

	geminiRequest struct {
		SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
		Contents          []geminiContent `json:"contents"`
	}

	geminiResponse struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
)

func (g *GeminiGenerator) Generate(ctx context.Context, records []core.Expense, summaries []core.MonthlySummary) (string, error) {
	prompt, err := BuildPrompt(records, summaries)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	defer resp.Body.Close()

	// Non-2xx bodies carry the standard Google error envelope.
	if err := googleapi.CheckResponse(resp); err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}
	return responseText(out)
}

func responseText(resp geminiResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// BuildPrompt renders the analysis request sent to the model.
func BuildPrompt(records []core.Expense, summaries []core.MonthlySummary) (string, error) {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("encode summaries: %w", err)
	}
	return fmt.Sprintf(`Analise os seguintes dados financeiros pessoais:
Transações Totais: %d
Resumo Mensal: %s

Forneça 3 dicas práticas para melhorar a saúde financeira, focando na proporção entre gastos à vista e parcelados. Responda em Português do Brasil.`,
		len(records), raw), nil
}
