package model

import (
	"time"

	"gorm.io/gorm"
)

// Role names as stored on the user record. Tier resolution happens once at
// principal load time, see TierForRole.
const (
	RoleCompanyAdmin = "Company Admin"
	RoleAdmin        = "Admin"
	RoleManager      = "Manager"
	RoleTeamLead     = "Team Lead"
	RoleAgent        = "Agent"
)

// User represents the user model stored in the database. A super admin belongs
// to no company; everyone else belongs to exactly one.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password     string         `json:"-" gorm:"type:varchar(255)"`
	Name         string         `json:"name" gorm:"type:varchar(100)"`
	CompanyID    *uint          `json:"company_id,omitempty" gorm:"index"`
	IsSuperAdmin bool           `json:"is_super_admin" gorm:"default:false"`
	Role         string         `json:"role" gorm:"type:varchar(50);not null;default:'Agent'"`
	ReportsTo    *uint          `json:"reports_to,omitempty" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}
