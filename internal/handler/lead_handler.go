package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"travelops/internal/model"
	"travelops/internal/repository"
	"travelops/internal/scope"
	"travelops/internal/tenant"
	"travelops/pkg/logger"
	"travelops/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LeadHandler serves the leads CRUD. Every read goes through a visibility
// predicate built for the request; every create goes through ownership
// stamping. Nothing touches the leads table unscoped.
type LeadHandler struct {
	leads    *repository.LeadRepository
	enforcer *scope.Enforcer
}

// NewLeadHandler creates a lead handler.
func NewLeadHandler(leads *repository.LeadRepository, enforcer *scope.Enforcer) *LeadHandler {
	return &LeadHandler{leads: leads, enforcer: enforcer}
}

// List returns the leads visible to the requesting principal.
func (h *LeadHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	rc := tenant.FromEcho(c)

	predicate, err := h.enforcer.BuildPredicate(c.Request().Context(), scope.HierarchyScoped, rc)
	if err != nil {
		log.Error("Failed to build visibility predicate", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if rc.Principal != nil {
		prometheus.RecordScopePredicate(rc.Principal.Tier.String())
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	leads, err := h.leads.List(c.Request().Context(), predicate)
	if err != nil {
		log.Error("Failed to list leads", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve leads"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": leads})
}

// Get returns one lead if the principal may see it. Invisible and nonexistent
// leads are indistinguishable.
func (h *LeadHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	rc := tenant.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead ID"})
	}

	predicate, err := h.enforcer.BuildPredicate(c.Request().Context(), scope.HierarchyScoped, rc)
	if err != nil {
		log.Error("Failed to build visibility predicate", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	lead, err := h.leads.FindByID(c.Request().Context(), predicate, uint(id))
	if err != nil {
		log.Error("Failed to load lead", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve lead"})
	}
	if lead == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": lead})
}

// Create stores a new lead stamped with the resolved company. An explicit
// company_id that disagrees with the tenant is a validation error, not
// something to silently correct.
func (h *LeadHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	rc := tenant.FromEcho(c)

	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Destination string `json:"destination"`
		CompanyID   uint   `json:"company_id,omitempty"`
		AssignedTo  uint   `json:"assigned_to,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse lead creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	lead := model.Lead{
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Destination: req.Destination,
		Status:      "new",
	}

	if rc.Principal != nil {
		lead.CreatedBy = rc.Principal.UserID
		lead.AssignedTo = rc.Principal.UserID
	}
	if req.AssignedTo != 0 {
		lead.AssignedTo = req.AssignedTo
	}

	if err := h.enforcer.StampCompany(rc, &lead); err != nil {
		switch {
		case errors.Is(err, scope.ErrAmbiguousOwnership):
			log.Warn("Rejected lead with mismatched company",
				zap.Uint("requested_company_id", req.CompanyID))
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "company_id does not match the current company"})
		case errors.Is(err, scope.ErrNoTenantContext):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no company context"})
		default:
			log.Error("Failed to stamp lead ownership", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.leads.Create(c.Request().Context(), &lead); err != nil {
		log.Error("Failed to create lead", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lead creation failed"})
	}

	log.Info("Lead created",
		zap.Uint("id", lead.ID),
		zap.Uint("company_id", lead.CompanyID),
		zap.Uint("assigned_to", lead.AssignedTo))

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": lead})
}

// UpdateStatus moves a lead along the pipeline, constrained by visibility.
func (h *LeadHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromContext(c)
	rc := tenant.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	predicate, err := h.enforcer.BuildPredicate(c.Request().Context(), scope.HierarchyScoped, rc)
	if err != nil {
		log.Error("Failed to build visibility predicate", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	affected, err := h.leads.UpdateStatus(c.Request().Context(), predicate, uint(id), req.Status)
	if err != nil {
		log.Error("Failed to update lead status", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if affected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
