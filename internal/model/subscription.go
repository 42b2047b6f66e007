package model

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan is the plan a company subscribes to. Feature availability
// is driven entirely by the plan's feature bindings.
type SubscriptionPlan struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug          string         `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         float64        `json:"price" gorm:"type:numeric(10,2)"`
	BillingPeriod string         `json:"billing_period" gorm:"type:varchar(20);default:'monthly'"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// SubscriptionPlanFeature binds one feature key to a plan. A feature with no
// binding is disabled for that plan. LimitValue nil means unlimited; zero
// means a cap of zero. The two must never be conflated.
type SubscriptionPlanFeature struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	SubscriptionPlanID uint      `json:"subscription_plan_id" gorm:"index:idx_plan_feature,unique;not null"`
	FeatureKey         string    `json:"feature_key" gorm:"type:varchar(100);index:idx_plan_feature,unique;not null"`
	FeatureName        string    `json:"feature_name" gorm:"type:varchar(100)"`
	IsEnabled          bool      `json:"is_enabled" gorm:"default:false"`
	LimitValue         *int64    `json:"limit_value,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
