package repository

import (
	"context"
	"errors"

	"travelops/internal/model"

	"gorm.io/gorm"
)

// CompanyRepository is the gorm-backed company store. Lookup methods return
// (nil, nil) when nothing matches, which the tenant resolver turns into its
// own fail-closed rejection.
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a company repository.
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// FindActiveBySubdomain looks up an active company by exact subdomain match.
func (r *CompanyRepository) FindActiveBySubdomain(ctx context.Context, subdomain string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Where("subdomain = ? AND status = ?", subdomain, model.CompanyStatusActive).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindActiveByDomain looks up an active company by any of the custom-domain
// candidates.
func (r *CompanyRepository) FindActiveByDomain(ctx context.Context, candidates []string) (*model.Company, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var company model.Company
	err := r.db.WithContext(ctx).
		Where("domain IN ? AND status = ?", candidates, model.CompanyStatusActive).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindByID loads a company regardless of status.
func (r *CompanyRepository) FindByID(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// UpdateStatus changes a company's status.
func (r *CompanyRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Company{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdatePlan moves a company to another subscription plan.
func (r *CompanyRepository) UpdatePlan(ctx context.Context, id uint, planID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Company{}).
		Where("id = ?", id).
		Update("subscription_plan_id", planID).Error
}

// IDsOnPlan returns every company currently on the given plan.
func (r *CompanyRepository) IDsOnPlan(ctx context.Context, planID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Company{}).
		Where("subscription_plan_id = ?", planID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
