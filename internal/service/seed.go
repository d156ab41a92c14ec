package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradedesk/internal/models"
	"tradedesk/internal/repository"
)

// CatalogSeedService installs the default coupons and deals on first boot.
// Seeding is insert-if-missing keyed on the normalized code (coupons) and
// name (deals), so operator edits survive restarts.
type CatalogSeedService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (s *CatalogSeedService) EnsureDefaultCatalog(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()

	var created int
	for _, c := range defaultCoupons(now) {
		existing, err := s.Repo.GetCouponByCode(ctx, c.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.Repo.UpsertCoupon(ctx, c); err != nil {
			return err
		}
		created++
	}

	for _, d := range defaultDeals(now) {
		items, err := s.Repo.ListDeals(ctx, repository.ListDealsParams{Limit: 1, Name: &d.Name})
		if err != nil {
			return err
		}
		if len(items) > 0 {
			continue
		}
		if err := s.Repo.UpsertDeal(ctx, d); err != nil {
			return err
		}
		created++
	}

	if s.Logger != nil && created > 0 {
		s.Logger.Info("seeded default catalog", zap.Int("created", created))
	}
	return nil
}

func defaultCoupons(now time.Time) []*models.Coupon {
	yearAhead := now.AddDate(1, 0, 0)
	minSave20 := decimal.NewFromInt(50)
	maxWelcome := decimal.NewFromInt(50)
	springLimit := 500

	return []*models.Coupon{
		{
			ID:              uuid.NewString(),
			Code:            "WELCOME50",
			CodeNorm:        "welcome50",
			Name:            "Welcome Offer",
			Description:     "50% off the first month for new subscribers",
			Type:            models.DiscountPercentage,
			Value:           decimal.NewFromInt(50),
			MaxDiscount:     &maxWelcome,
			ValidFrom:       now,
			ValidUntil:      yearAhead,
			IsActive:        true,
			ApplicablePlans: datatypes.JSON([]byte(`["monthly"]`)),
			FirstTimeOnly:   true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:          uuid.NewString(),
			Code:        "SAVE20",
			CodeNorm:    "save20",
			Name:        "Save $20",
			Description: "$20 off any order of $50 or more",
			Type:        models.DiscountFixed,
			Value:       decimal.NewFromInt(20),
			MinAmount:   &minSave20,
			ValidFrom:   now,
			ValidUntil:  yearAhead,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:              uuid.NewString(),
			Code:            "ANNUAL25",
			CodeNorm:        "annual25",
			Name:            "Annual Plan Discount",
			Description:     "25% off the yearly plan",
			Type:            models.DiscountPercentage,
			Value:           decimal.NewFromInt(25),
			ValidFrom:       now,
			ValidUntil:      yearAhead,
			IsActive:        true,
			ApplicablePlans: datatypes.JSON([]byte(`["yearly"]`)),
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:          uuid.NewString(),
			Code:        "SPRING10",
			CodeNorm:    "spring10",
			Name:        "Spring Promo",
			Description: "10% off, limited to the first 500 redemptions",
			Type:        models.DiscountPercentage,
			Value:       decimal.NewFromInt(10),
			ValidFrom:   now,
			ValidUntil:  now.AddDate(0, 3, 0),
			IsActive:    true,
			UsageLimit:  &springLimit,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func defaultDeals(now time.Time) []*models.Deal {
	return []*models.Deal{
		{
			ID:                 uuid.NewString(),
			Name:               "Starter Monthly",
			Description:        "First month half price with the welcome offer",
			CouponCode:         "WELCOME50",
			OriginalPrice:      decimal.NewFromInt(29),
			DiscountedPrice:    decimal.RequireFromString("14.50"),
			DiscountPercentage: 50,
			ValidFrom:          now,
			ValidUntil:         now.AddDate(1, 0, 0),
			IsActive:           true,
			IsFeatured:         true,
			Plan:               models.PlanMonthly,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		{
			ID:                 uuid.NewString(),
			Name:               "Annual Saver",
			Description:        "A quarter off when billed yearly",
			CouponCode:         "ANNUAL25",
			OriginalPrice:      decimal.NewFromInt(290),
			DiscountedPrice:    decimal.RequireFromString("217.50"),
			DiscountPercentage: 25,
			ValidFrom:          now,
			ValidUntil:         now.AddDate(1, 0, 0),
			IsActive:           true,
			Plan:               models.PlanYearly,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
	}
}
