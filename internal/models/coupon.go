package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

// Coupon is a reusable discount code with eligibility constraints and an
// optional usage ceiling. Coupons are deactivated, never deleted.
type Coupon struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Code        string `gorm:"type:varchar(50);not null"`
	CodeNorm    string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`

	Type  DiscountType    `gorm:"type:varchar(20);not null"`
	Value decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	MinAmount   *decimal.Decimal `gorm:"type:numeric(12,2)"`
	MaxDiscount *decimal.Decimal `gorm:"type:numeric(12,2)"`

	ValidFrom  time.Time `gorm:"type:timestamptz;not null"`
	ValidUntil time.Time `gorm:"type:timestamptz;not null;index"`

	UsageLimit *int `gorm:""`
	UsedCount  int  `gorm:"default:0;not null"`

	IsActive bool `gorm:"default:true;index"`

	// JSON array of plan names. Empty array means the coupon applies to all plans.
	ApplicablePlans datatypes.JSON `gorm:"type:jsonb"`

	FirstTimeOnly bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Coupon) TableName() string {
	return "coupons"
}
