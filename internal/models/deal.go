package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal is a pre-packaged, time-boxed price bundle shown on the pricing page.
// CouponCode references a Coupon by code; the link is advisory, not a foreign key.
type Deal struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`

	CouponCode string `gorm:"type:varchar(50);not null"`

	OriginalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountedPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountPercentage int             `gorm:"not null"`

	ValidFrom  time.Time `gorm:"type:timestamptz;not null"`
	ValidUntil time.Time `gorm:"type:timestamptz;not null;index"`

	IsActive   bool `gorm:"default:true;index"`
	IsFeatured bool `gorm:"default:false"`

	Plan Plan `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Deal) TableName() string {
	return "deals"
}
