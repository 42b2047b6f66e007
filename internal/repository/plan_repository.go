package repository

import (
	"context"
	"errors"

	"travelops/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository is the gorm-backed subscription plan store. It implements
// feature.PlanStore.
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a plan repository.
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindPlan loads a subscription plan by id.
func (r *PlanRepository) FindPlan(ctx context.Context, id uint) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindPlanFeature loads one feature binding for a plan.
func (r *PlanRepository) FindPlanFeature(ctx context.Context, planID uint, key string) (*model.SubscriptionPlanFeature, error) {
	var binding model.SubscriptionPlanFeature
	err := r.db.WithContext(ctx).
		Where("subscription_plan_id = ? AND feature_key = ?", planID, key).
		First(&binding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &binding, nil
}

// ListPlanFeatures returns all feature bindings of a plan.
func (r *PlanRepository) ListPlanFeatures(ctx context.Context, planID uint) ([]model.SubscriptionPlanFeature, error) {
	var bindings []model.SubscriptionPlanFeature
	err := r.db.WithContext(ctx).
		Where("subscription_plan_id = ?", planID).
		Order("feature_key").
		Find(&bindings).Error
	if err != nil {
		return nil, err
	}
	return bindings, nil
}

// UpsertPlanFeature creates or updates one feature binding.
func (r *PlanRepository) UpsertPlanFeature(ctx context.Context, binding *model.SubscriptionPlanFeature) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscription_plan_id"}, {Name: "feature_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"feature_name", "is_enabled", "limit_value", "updated_at"}),
		}).
		Create(binding).Error
}
