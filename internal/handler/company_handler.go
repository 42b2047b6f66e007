package handler

import (
	"net/http"
	"strconv"
	"time"

	"travelops/internal/model"
	"travelops/internal/repository"
	"travelops/internal/session"
	"travelops/pkg/logger"
	"travelops/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var validCompanyStatuses = map[string]bool{
	model.CompanyStatusActive:    true,
	model.CompanyStatusInactive:  true,
	model.CompanyStatusSuspended: true,
}

// CompanyHandler serves the super-admin company administration surface.
// Status and plan changes revoke every active session of the affected
// company: a token minted under the old state must not keep working.
type CompanyHandler struct {
	companies *repository.CompanyRepository
	sessions  *session.Store
}

// NewCompanyHandler creates a company handler.
func NewCompanyHandler(companies *repository.CompanyRepository, sessions *session.Store) *CompanyHandler {
	return &CompanyHandler{companies: companies, sessions: sessions}
}

// Get returns one company.
func (h *CompanyHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	company, err := h.companies.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		log.Error("Failed to load company", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve company"})
	}
	if company == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": company})
}

// UpdateStatus activates, deactivates or suspends a company.
func (h *CompanyHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCompanyOperation("status_change")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !validCompanyStatuses[req.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of active, inactive, suspended"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.companies.UpdateStatus(c.Request().Context(), uint(id), req.Status); err != nil {
		log.Error("Failed to update company status", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status update failed"})
	}

	// Force re-login so sessions cannot outlive the state they were issued
	// under.
	if err := h.sessions.RevokeCompany(c.Request().Context(), uint(id)); err != nil {
		log.Error("Failed to revoke company sessions", zap.Uint64("company_id", id), zap.Error(err))
	}

	log.Info("Company status changed",
		zap.Uint64("company_id", id),
		zap.String("status", req.Status))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "status": req.Status})
}

// UpdatePlan moves a company to another subscription plan.
func (h *CompanyHandler) UpdatePlan(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCompanyOperation("plan_change")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company ID"})
	}

	var req struct {
		SubscriptionPlanID uint `json:"subscription_plan_id"`
	}
	if err := c.Bind(&req); err != nil || req.SubscriptionPlanID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subscription_plan_id is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.companies.UpdatePlan(c.Request().Context(), uint(id), req.SubscriptionPlanID); err != nil {
		log.Error("Failed to update company plan", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "plan update failed"})
	}

	if err := h.sessions.RevokeCompany(c.Request().Context(), uint(id)); err != nil {
		log.Error("Failed to revoke company sessions", zap.Uint64("company_id", id), zap.Error(err))
	}

	log.Info("Company plan changed",
		zap.Uint64("company_id", id),
		zap.Uint("plan_id", req.SubscriptionPlanID))

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
