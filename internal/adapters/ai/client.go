package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

const (
	maxTokens     = 1024
	promptBudget  = 2000 // characters of input text handed to a prompt
	callTimeout   = 25 * time.Second
	defaultModel  = "gpt-4o-mini"
	classifyInstr = `Analyze this image of a room/property for defects.
Return a JSON object ONLY with the following keys:
- defect_type: One of ["moisture", "electrical", "structural", "finishing", "none"]
- val_defect_name: Short name (e.g. "damp", "crack", "wire", "ok")
- severity: One of ["critical", "high", "medium", "low", "ok"]
- confidence: Float (0.0-1.0)
- description: Brief description not exceeding 20 words.
- action: Recommended action not exceeding 10 words.

Focus on detecting: Water/Damp, Exposed Wiring, Cracks.`
)

// Client is the live AI capability. One client serves all three contracts:
// image classification, document analysis and findings comparison.
type Client struct {
	api   *openai.Client
	model string
	rl    *rate.Limiter
}

func NewClient(apiKey, model string, rps int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) Classify(ctx context.Context, imageURL string) (domain.Classification, error) {
	var out domain.Classification
	msg := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: classifyInstr},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
		},
	}
	if err := c.complete(ctx, []openai.ChatCompletionMessage{msg}, &out); err != nil {
		return domain.Classification{}, err
	}

	out.DefectType = domain.DefectCategory(strings.ToLower(string(out.DefectType)))
	out.Severity = domain.Severity(strings.ToLower(string(out.Severity)))
	if out.DefectType == "" {
		out.DefectType = domain.DefectNone
	}
	if !out.Severity.Valid() {
		out.Severity = domain.SeverityOK
	}
	return out, nil
}

func (c *Client) AnalyzeDocument(ctx context.Context, text string) (domain.DocumentAnalysis, error) {
	prompt := fmt.Sprintf(`You are an expert civil engineer. Read the following technical inspection report text and provide:
1. A concise summary (max 3 sentences).
2. A list of actionable suggestions/changes based on defects (max 3 items).

Input Text:
%q

Return output as JSON with keys: "ai_summary", "ai_suggestions".`, clip(text))

	var out domain.DocumentAnalysis
	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt}
	if err := c.complete(ctx, []openai.ChatCompletionMessage{msg}, &out); err != nil {
		return domain.DocumentAnalysis{}, err
	}
	return out, nil
}

func (c *Client) Compare(ctx context.Context, aiFindings, reportText string) (domain.Comparison, error) {
	prompt := fmt.Sprintf(`Compare these two sets of findings from a property inspection:

Set A (AI Visual Analysis):
%s

Set B (Inspector's Report):
%s

Task:
1. Calculate a "Similarity Score" (0-100) representing how much Set A agrees with Set B.
2. List "Matches" (Issues found in BOTH).
3. List "Discrepancies" (Issues found in ONE but NOT the other).

Return JSON with keys: "similarity_score" (int), "matches", "discrepancies" (string lists), "summary".`,
		clip(aiFindings), clip(reportText))

	var out domain.Comparison
	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt}
	if err := c.complete(ctx, []openai.ChatCompletionMessage{msg}, &out); err != nil {
		return domain.Comparison{}, err
	}
	if out.SimilarityScore < 0 {
		out.SimilarityScore = 0
	}
	if out.SimilarityScore > 100 {
		out.SimilarityScore = 100
	}
	return out, nil
}

// complete runs one rate-limited, time-bounded chat completion and decodes
// the JSON-object reply into out.
func (c *Client) complete(ctx context.Context, msgs []openai.ChatCompletionMessage, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: msgs,
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("chat completion: empty response")
	}
	body := strings.TrimSpace(resp.Choices[0].Message.Content)
	body = strings.TrimPrefix(body, "```json")
	body = strings.Trim(body, "` \n")
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decode AI response: %w", err)
	}
	return nil
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= promptBudget {
		return s
	}
	return string(r[:promptBudget]) + "..."
}
