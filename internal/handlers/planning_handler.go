package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/mwhitfield/horizon/internal/errors"
	"github.com/mwhitfield/horizon/internal/lifetime"
	"github.com/mwhitfield/horizon/internal/middleware"
	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/services"
)

// PlanningHandler handles planning-engine HTTP requests.
type PlanningHandler struct {
	service services.PlanningService
}

// NewPlanningHandler creates a new PlanningHandler instance.
func NewPlanningHandler(service services.PlanningService) *PlanningHandler {
	return &PlanningHandler{
		service: service,
	}
}

// TakeHomeRequest is the body for the take-home endpoint.
type TakeHomeRequest struct {
	GrossSalary         float64 `json:"grossSalary" binding:"required,gte=0"`
	PensionContribution float64 `json:"pensionContribution" binding:"gte=0"`
	PensionMethod       string  `json:"pensionMethod" binding:"required,oneof=salary_sacrifice net_pay relief_at_source"`
	StudentLoanPlan     string  `json:"studentLoanPlan" binding:"omitempty,oneof=none plan1 plan2 plan4 plan5 postgrad"`
	TaxYear             string  `json:"taxYear"`
}

// AllowancesRequest is the body for the allowances endpoint.
type AllowancesRequest struct {
	Household models.Household `json:"household" binding:"required"`
	TaxYear   string           `json:"taxYear"`
}

// CashFlowRequest is the body for the cash-flow endpoint. When AllScenarios
// is set the projection runs once per configured growth scenario.
type CashFlowRequest struct {
	Household    models.Household `json:"household" binding:"required"`
	GrowthRate   float64          `json:"growthRate" binding:"gte=-1,lte=1"`
	EndAge       int              `json:"endAge" binding:"omitempty,gte=18,lte=120"`
	PersonID     *uuid.UUID       `json:"personId"`
	AllScenarios bool             `json:"allScenarios"`
}

// CashFlowScenariosResponse wraps the multi-scenario projection.
type CashFlowScenariosResponse struct {
	Scenarios []services.ScenarioResult `json:"scenarios"`
}

// TakeHome handles POST /api/v1/tax/take-home.
func (h *PlanningHandler) TakeHome(c *gin.Context) {
	var req TakeHomeRequest
	if !bindJSON(c, &req) {
		return
	}

	plan := models.StudentLoanPlan(req.StudentLoanPlan)
	if plan == "" {
		plan = models.PlanNone
	}

	result, err := h.service.TakeHome(c.Request.Context(), req.GrossSalary, req.PensionContribution,
		models.PensionMethod(req.PensionMethod), plan, req.TaxYear)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Allowances handles POST /api/v1/planning/allowances.
func (h *PlanningHandler) Allowances(c *gin.Context) {
	var req AllowancesRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.service.Allowances(c.Request.Context(), &req.Household, req.TaxYear)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// CashFlow handles POST /api/v1/planning/cashflow.
func (h *PlanningHandler) CashFlow(c *gin.Context) {
	var req CashFlowRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := lifetime.Scenario{
		GrowthRate: req.GrowthRate,
		EndAge:     req.EndAge,
		PersonID:   req.PersonID,
	}

	if req.AllScenarios {
		results, err := h.service.CashFlowScenarios(c.Request.Context(), &req.Household, sc)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, CashFlowScenariosResponse{Scenarios: results})
		return
	}

	result, err := h.service.CashFlow(c.Request.Context(), &req.Household, sc)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindJSON binds the request body and writes the error response itself on
// failure. Returns false when the handler should stop.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

// respondServiceError maps service-level errors onto API error responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidSnapshot):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrUnknownTaxYear):
		apierrors.NotFound(c, err.Error())
	default:
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Unexpected planning error", err, nil)
		}
		apierrors.InternalServerError(c, "Failed to run planning computation", err)
	}
}
