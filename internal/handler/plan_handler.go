package handler

import (
	"net/http"
	"strconv"
	"time"

	"travelops/internal/feature"
	"travelops/internal/model"
	"travelops/internal/repository"
	"travelops/internal/session"
	"travelops/pkg/logger"
	"travelops/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PlanHandler serves the super-admin plan feature administration surface.
type PlanHandler struct {
	plans     *repository.PlanRepository
	companies *repository.CompanyRepository
	sessions  *session.Store
}

// NewPlanHandler creates a plan handler.
func NewPlanHandler(plans *repository.PlanRepository, companies *repository.CompanyRepository, sessions *session.Store) *PlanHandler {
	return &PlanHandler{plans: plans, companies: companies, sessions: sessions}
}

// ListFeatureCatalog returns the fixed set of gateable features.
func (h *PlanHandler) ListFeatureCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": feature.Catalog})
}

// ListPlanFeatures returns a plan's feature bindings.
func (h *PlanHandler) ListPlanFeatures(c echo.Context) error {
	log := logger.FromContext(c)

	planID, err := strconv.ParseUint(c.Param("plan_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	bindings, err := h.plans.ListPlanFeatures(c.Request().Context(), uint(planID))
	if err != nil {
		log.Error("Failed to list plan features", zap.Uint64("plan_id", planID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve plan features"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": bindings})
}

// UpsertPlanFeature creates or updates one feature binding on a plan and
// revokes sessions for every company on that plan, so nobody keeps using a
// capability their plan no longer grants.
func (h *PlanHandler) UpsertPlanFeature(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCompanyOperation("feature_binding")

	planID, err := strconv.ParseUint(c.Param("plan_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan ID"})
	}

	var req struct {
		FeatureKey string `json:"feature_key"`
		IsEnabled  bool   `json:"is_enabled"`
		LimitValue *int64 `json:"limit_value,omitempty"`
	}
	if err := c.Bind(&req); err != nil || req.FeatureKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "feature_key is required"})
	}

	def, ok := feature.Lookup(req.FeatureKey)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown feature key", "feature": req.FeatureKey})
	}
	if !def.HasLimit && req.LimitValue != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "feature does not take a limit", "feature": req.FeatureKey})
	}

	binding := model.SubscriptionPlanFeature{
		SubscriptionPlanID: uint(planID),
		FeatureKey:         req.FeatureKey,
		FeatureName:        def.Name,
		IsEnabled:          req.IsEnabled,
		LimitValue:         req.LimitValue,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.plans.UpsertPlanFeature(c.Request().Context(), &binding); err != nil {
		log.Error("Failed to upsert plan feature",
			zap.Uint64("plan_id", planID),
			zap.String("feature", req.FeatureKey),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "feature binding failed"})
	}

	// Feature sets changed under running sessions; force a fresh login for
	// every company on this plan.
	companyIDs, err := h.companies.IDsOnPlan(c.Request().Context(), uint(planID))
	if err != nil {
		log.Error("Failed to list companies on plan", zap.Uint64("plan_id", planID), zap.Error(err))
	} else if err := h.sessions.RevokeCompanies(c.Request().Context(), companyIDs); err != nil {
		log.Error("Failed to revoke sessions for plan change", zap.Uint64("plan_id", planID), zap.Error(err))
	}

	log.Info("Plan feature binding updated",
		zap.Uint64("plan_id", planID),
		zap.String("feature", req.FeatureKey),
		zap.Bool("enabled", req.IsEnabled))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": binding})
}
