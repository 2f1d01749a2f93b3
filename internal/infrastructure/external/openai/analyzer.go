package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Analyzer implements port.ClaimAnalyzer using OpenAI
type Analyzer struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewAnalyzer creates a new OpenAI claim analyzer
func NewAnalyzer(apiKey, model string, temperature float32, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// AnalyzeClaim produces a narrative assessment of a claim, flagging fraud
// indicators and recommending a next action
func (a *Analyzer) AnalyzeClaim(ctx context.Context, c *claim.Claim) (*port.ClaimAnalysis, error) {
	a.logger.Debug("Analyzing claim",
		zap.String("claim_id", c.ID),
		zap.String("claim_type", c.ClaimType))

	prompt := a.buildAnalysisPrompt(c)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an insurance claims analyst. Assess claims for completeness, consistency and fraud indicators. Always respond with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		a.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var result port.ClaimAnalysis
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Fallback: try to extract JSON from markdown code blocks
		if jsonStr := extractJSON(content); jsonStr != "" {
			if err := json.Unmarshal([]byte(jsonStr), &result); err == nil {
				a.logger.Info("Extracted JSON from response")
				return &result, nil
			}
		}

		a.logger.Error("Failed to parse OpenAI response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	a.logger.Info("Claim analysis completed",
		zap.String("claim_id", c.ID),
		zap.String("recommended_action", result.RecommendedAction),
		zap.Float64("confidence", result.Confidence))

	return &result, nil
}

// buildAnalysisPrompt builds the claim analysis prompt
func (a *Analyzer) buildAnalysisPrompt(c *claim.Claim) string {
	documents := "none"
	if len(c.Documents) > 0 {
		documents = strings.Join(c.Documents, ", ")
	}

	return fmt.Sprintf(`Analyze this insurance claim:

**Claim:**
- Claim Number: %s
- Policy Number: %s
- Claimant: %s
- Type: %s
- Amount: %.2f
- Incident Date: %s
- Status: %s
- Attached Documents: %s

**Description:**
%s

Respond with ONLY a valid JSON object (no markdown, no explanation) with this exact structure:
{
  "summary": string summarizing the claim,
  "fraud_indicators": [string array of suspicious aspects, empty if none],
  "recommended_action": one of "approve", "reject", "request_documents", "investigate",
  "confidence": number between 0.0 and 1.0
}`,
		c.ClaimNumber,
		c.PolicyNumber,
		c.ClaimantName,
		c.ClaimType,
		c.ClaimAmount,
		c.IncidentDate.Format("2006-01-02"),
		c.Status.String(),
		documents,
		c.Description,
	)
}

// extractJSON extracts the first balanced JSON object from a string
func extractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return ""
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(content); i++ {
		char := content[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if char == '{' {
			braceCount++
		} else if char == '}' {
			braceCount--
			if braceCount == 0 {
				return content[start : i+1]
			}
		}
	}

	return ""
}
