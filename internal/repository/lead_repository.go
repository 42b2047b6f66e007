package repository

import (
	"context"
	"errors"

	"travelops/internal/model"
	"travelops/internal/scope"

	"gorm.io/gorm"
)

// LeadRepository is the gorm-backed lead store. Every read takes the caller's
// visibility predicate; there is no unscoped read path.
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a lead repository.
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// List returns the leads visible under the predicate, newest first.
func (r *LeadRepository) List(ctx context.Context, p scope.Predicate) ([]model.Lead, error) {
	var leads []model.Lead
	err := p.Apply(r.db.WithContext(ctx).Model(&model.Lead{})).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// FindByID returns one lead if the predicate allows seeing it.
func (r *LeadRepository) FindByID(ctx context.Context, p scope.Predicate, id uint) (*model.Lead, error) {
	var lead model.Lead
	err := p.Apply(r.db.WithContext(ctx).Model(&model.Lead{})).
		Where("leads.id = ?", id).
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Create persists a new lead. Ownership stamping happens in the handler via
// the scope enforcer before this is called.
func (r *LeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// UpdateStatus updates a lead's pipeline status, constrained by the caller's
// predicate so nobody mutates records they cannot see.
func (r *LeadRepository) UpdateStatus(ctx context.Context, p scope.Predicate, id uint, status string) (int64, error) {
	res := p.Apply(r.db.WithContext(ctx).Model(&model.Lead{})).
		Where("leads.id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}
