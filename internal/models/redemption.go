package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponRedemption records one successful redemption. Rows are written inside
// the same transaction that consumes the coupon's usage budget.
type CouponRedemption struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	CouponID string `gorm:"type:varchar(36);not null;index"`
	Code     string `gorm:"type:varchar(50);not null"`

	Plan           Plan            `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	FinalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	FirstTime      bool            `gorm:"default:false"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}
