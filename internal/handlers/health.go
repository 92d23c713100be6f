package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwhitfield/horizon/internal/taxrules"
)

// APIVersion is the current version of the API
const APIVersion = "0.1.0"

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	rules     taxrules.Store
	startTime time.Time
	env       string
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(rules taxrules.Store, env string) *HealthHandler {
	return &HealthHandler{
		rules:     rules,
		startTime: time.Now(),
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string   `json:"status"`
	TaxYear  string   `json:"taxYear"`
	TaxYears []string `json:"taxYears"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health.
// Basic liveness check that always returns 200 OK.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready.
// The service is ready once the tax rules store holds a current table.
func (h *HealthHandler) Ready(c *gin.Context) {
	current := h.rules.Current()
	if current == nil {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status: "not ready",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:   "ready",
		TaxYear:  current.Year,
		TaxYears: h.rules.Years(),
	})
}

// Info handles GET /api/v1/info.
func (h *HealthHandler) Info(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      fmt.Sprintf("%.0fs", uptime.Seconds()),
	})
}
