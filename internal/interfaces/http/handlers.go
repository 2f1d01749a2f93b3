package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/mcp"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	registry *mcp.Registry
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(registry *mcp.Registry, logger Logger) *Handlers {
	return &Handlers{
		registry: registry,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// ListFunctions handles GET /functions
func (h *Handlers) ListFunctions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"functions": h.registry.Functions(),
	})
}

// ExecuteFunction handles POST /mcp. All outcomes are reported through the
// response envelope; transport-level errors are limited to malformed JSON.
func (h *Handlers) ExecuteFunction(c *gin.Context) {
	var call mcp.FunctionCall
	if err := c.ShouldBindJSON(&call); err != nil {
		h.logger.Error("Invalid function call payload", "error", err)
		c.JSON(http.StatusBadRequest, mcp.Response{
			Success: false,
			Error:   "invalid request payload",
		})
		return
	}

	resp := h.registry.Execute(c.Request.Context(), &call)
	if !resp.Success {
		h.logger.Error("Function call failed",
			"function", call.FunctionName,
			"request_id", call.RequestID,
			"error", resp.Error,
		)
	}

	c.JSON(http.StatusOK, resp)
}
