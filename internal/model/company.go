package model

import (
	"time"

	"gorm.io/gorm"
)

// Company statuses. Companies are never hard-deleted; deactivation happens
// through the status column.
const (
	CompanyStatusActive    = "active"
	CompanyStatusInactive  = "inactive"
	CompanyStatusSuspended = "suspended"
)

// Company represents a tenant. Every business record belongs to exactly one
// company, and requests are only ever served within an active company.
type Company struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Name               string         `json:"name" gorm:"type:varchar(100);not null"`
	Subdomain          string         `json:"subdomain" gorm:"type:varchar(63);uniqueIndex;not null"`
	Domain             string         `json:"domain,omitempty" gorm:"type:varchar(255);index"`
	Status             string         `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	SubscriptionPlanID *uint          `json:"subscription_plan_id,omitempty" gorm:"index"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	SubscriptionPlan *SubscriptionPlan `json:"subscription_plan,omitempty" gorm:"foreignKey:SubscriptionPlanID"`
}

// IsActive reports whether the company may serve requests.
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}
