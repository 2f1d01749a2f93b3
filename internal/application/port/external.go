package port

import (
	"context"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
)

// ClaimAnalysis is the structured outcome of an LLM pass over a claim narrative
type ClaimAnalysis struct {
	Summary           string   `json:"summary"`
	FraudIndicators   []string `json:"fraud_indicators"`
	RecommendedAction string   `json:"recommended_action"`
	Confidence        float64  `json:"confidence"`
}

// ClaimAnalyzer produces a narrative assessment of a claim
type ClaimAnalyzer interface {
	AnalyzeClaim(ctx context.Context, c *claim.Claim) (*ClaimAnalysis, error)
}

// Cache is a read-through cache for query results. Implementations must treat
// entries as advisory; a miss is never an error.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	DeletePattern(prefix string)
}
