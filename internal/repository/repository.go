package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradedesk/internal/models"
)

// Repository is the storage surface shared by the coupon engine, the seeder,
// and the HTTP handlers. Regime/strategy catalogs are compiled-in and do not
// go through storage.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Coupons. Code lookups are case-insensitive (matched on the normalized
	// lowercase column).
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListCoupons(ctx context.Context, params ListCouponsParams) ([]models.Coupon, error)
	CountCoupons(ctx context.Context, params ListCouponsParams) (int64, error)
	UpsertCoupon(ctx context.Context, item *models.Coupon) error
	SetCouponActive(ctx context.Context, id string, active bool) error

	// IncrementCouponUsage consumes one unit of the coupon's usage budget with
	// a single conditional UPDATE, so concurrent redemptions cannot pass the
	// ceiling. It reports false when the coupon is missing, inactive, or the
	// usage limit is already reached.
	IncrementCouponUsage(ctx context.Context, code string) (bool, error)

	// RedeemCoupon consumes usage and records the redemption in one
	// transaction. Reports false (and writes nothing) when the usage budget
	// is exhausted.
	RedeemCoupon(ctx context.Context, code string, rec *models.CouponRedemption) (bool, error)

	DeactivateExpiredCoupons(ctx context.Context, now time.Time) (int64, error)

	// Deals.
	GetDealByID(ctx context.Context, id string) (*models.Deal, error)
	ListDeals(ctx context.Context, params ListDealsParams) ([]models.Deal, error)
	CountDeals(ctx context.Context, params ListDealsParams) (int64, error)
	UpsertDeal(ctx context.Context, item *models.Deal) error
	SetDealActive(ctx context.Context, id string, active bool) error
	DeactivateExpiredDeals(ctx context.Context, now time.Time) (int64, error)

	// Redemptions.
	ListRedemptions(ctx context.Context, params ListRedemptionsParams) ([]models.CouponRedemption, error)
	CountRedemptions(ctx context.Context, params ListRedemptionsParams) (int64, error)
	DeleteRedemptionsBefore(ctx context.Context, before time.Time) (int64, error)

	// System settings.
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
}

type ListCouponsParams struct {
	Limit   int
	Offset  int
	Active  *bool
	Plan    *models.Plan
	Code    *string
	OrderBy string
	Asc     *bool
}

type ListDealsParams struct {
	Limit    int
	Offset   int
	Active   *bool
	Featured *bool
	Plan     *models.Plan
	Name     *string

	// ActiveAt filters to deals whose validity window has not ended at the
	// given instant. Deliberately does not check valid_from: a future-dated
	// deal still counts as active. This mirrors the pricing page's behavior
	// and is a documented quirk, not an accident of this implementation.
	ActiveAt *time.Time

	OrderBy string
	Asc     *bool
}

type ListRedemptionsParams struct {
	Limit    int
	Offset   int
	CouponID *string
	Code     *string
	Since    *time.Time
	Until    *time.Time
	OrderBy  string
	Asc      *bool
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}
