package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradedesk/internal/models"
)

func TestDefaultCouponsWellFormed(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	coupons := defaultCoupons(now)

	byCode := map[string]*models.Coupon{}
	for _, c := range coupons {
		if c.ID == "" {
			t.Errorf("%s: empty id", c.Code)
		}
		if c.CodeNorm != strings.ToLower(c.Code) {
			t.Errorf("%s: code_norm = %q", c.Code, c.CodeNorm)
		}
		if !c.IsActive {
			t.Errorf("%s: seeded inactive", c.Code)
		}
		if !c.ValidUntil.After(c.ValidFrom) {
			t.Errorf("%s: empty validity window", c.Code)
		}
		byCode[c.Code] = c
	}

	welcome := byCode["WELCOME50"]
	if welcome == nil {
		t.Fatal("WELCOME50 missing")
	}
	if welcome.Type != models.DiscountPercentage || !welcome.Value.Equal(decimal.NewFromInt(50)) {
		t.Errorf("WELCOME50 = %s %s", welcome.Type, welcome.Value)
	}
	if !welcome.FirstTimeOnly {
		t.Error("WELCOME50 must be first-time only")
	}
	if string(welcome.ApplicablePlans) != `["monthly"]` {
		t.Errorf("WELCOME50 plans = %s", welcome.ApplicablePlans)
	}

	save := byCode["SAVE20"]
	if save == nil {
		t.Fatal("SAVE20 missing")
	}
	if save.Type != models.DiscountFixed || !save.Value.Equal(decimal.NewFromInt(20)) {
		t.Errorf("SAVE20 = %s %s", save.Type, save.Value)
	}
	if save.MinAmount == nil || !save.MinAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("SAVE20 min amount = %v", save.MinAmount)
	}
}

func TestDefaultDealsReferenceSeededCoupons(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	codes := map[string]bool{}
	for _, c := range defaultCoupons(now) {
		codes[c.Code] = true
	}
	for _, d := range defaultDeals(now) {
		if d.CouponCode != "" && !codes[d.CouponCode] {
			t.Errorf("deal %s references unseeded coupon %s", d.Name, d.CouponCode)
		}
		if d.DiscountedPrice.GreaterThanOrEqual(d.OriginalPrice) {
			t.Errorf("deal %s: discounted %s >= original %s", d.Name, d.DiscountedPrice, d.OriginalPrice)
		}
	}
}

func TestDefaultFeatureSwitches(t *testing.T) {
	switches := DefaultFeatureSwitches()
	for _, key := range []string{
		FeatureCatalogSeed,
		FeatureCouponExpirySweep,
		FeatureDealExpirySweep,
		FeatureRedemptionCleanup,
		FeatureCouponRedemptions,
	} {
		if _, ok := switches[key]; !ok {
			t.Errorf("switch %s missing from defaults", key)
		}
	}
}
