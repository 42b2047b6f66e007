package model

import (
	"time"

	"gorm.io/gorm"
)

// Lead is a travel enquiry. It is both company-scoped and hierarchy-scoped:
// visibility depends on who it is assigned to and who created it.
type Lead struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CompanyID   uint           `json:"company_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Email       string         `json:"email" gorm:"type:varchar(100)"`
	Phone       string         `json:"phone" gorm:"type:varchar(30)"`
	Destination string         `json:"destination" gorm:"type:varchar(100)"`
	Status      string         `json:"status" gorm:"type:varchar(30);default:'new'"`
	AssignedTo  uint           `json:"assigned_to" gorm:"index"`
	CreatedBy   uint           `json:"created_by" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// GetCompanyID implements scope.TenantRecord.
func (l *Lead) GetCompanyID() uint { return l.CompanyID }

// SetCompanyID implements scope.TenantRecord.
func (l *Lead) SetCompanyID(id uint) { l.CompanyID = id }
