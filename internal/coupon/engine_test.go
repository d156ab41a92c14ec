package coupon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradedesk/internal/models"
	"tradedesk/internal/repository"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// stubRepo is an in-memory repository.Repository for engine tests.
type stubRepo struct {
	coupons     map[string]*models.Coupon
	deals       []models.Deal
	redemptions []models.CouponRedemption
	failReads   bool
	failRedeems bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{coupons: map[string]*models.Coupon{}}
}

func (s *stubRepo) put(c *models.Coupon) {
	s.coupons[strings.ToLower(c.Code)] = c
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s.failReads {
		return nil, errors.New("db down")
	}
	c, ok := s.coupons[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *stubRepo) ListCoupons(ctx context.Context, params repository.ListCouponsParams) ([]models.Coupon, error) {
	var out []models.Coupon
	for _, c := range s.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubRepo) CountCoupons(ctx context.Context, params repository.ListCouponsParams) (int64, error) {
	return int64(len(s.coupons)), nil
}

func (s *stubRepo) UpsertCoupon(ctx context.Context, item *models.Coupon) error {
	s.put(item)
	return nil
}

func (s *stubRepo) SetCouponActive(ctx context.Context, id string, active bool) error {
	for _, c := range s.coupons {
		if c.ID == id {
			c.IsActive = active
		}
	}
	return nil
}

func (s *stubRepo) IncrementCouponUsage(ctx context.Context, code string) (bool, error) {
	c, ok := s.coupons[strings.ToLower(strings.TrimSpace(code))]
	if !ok || !c.IsActive {
		return false, nil
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func (s *stubRepo) RedeemCoupon(ctx context.Context, code string, rec *models.CouponRedemption) (bool, error) {
	if s.failRedeems {
		return false, errors.New("db down")
	}
	ok, err := s.IncrementCouponUsage(ctx, code)
	if err != nil || !ok {
		return ok, err
	}
	s.redemptions = append(s.redemptions, *rec)
	return true, nil
}

func (s *stubRepo) DeactivateExpiredCoupons(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, c := range s.coupons {
		if c.IsActive && c.ValidUntil.Before(now) {
			c.IsActive = false
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) GetDealByID(ctx context.Context, id string) (*models.Deal, error) {
	for i := range s.deals {
		if s.deals[i].ID == id {
			d := s.deals[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]models.Deal, error) {
	if s.failReads {
		return nil, errors.New("db down")
	}
	var out []models.Deal
	for _, d := range s.deals {
		if params.Active != nil && d.IsActive != *params.Active {
			continue
		}
		if params.Featured != nil && d.IsFeatured != *params.Featured {
			continue
		}
		if params.ActiveAt != nil && d.ValidUntil.Before(*params.ActiveAt) {
			continue
		}
		out = append(out, d)
		if params.Limit > 0 && len(out) == params.Limit {
			break
		}
	}
	return out, nil
}

func (s *stubRepo) CountDeals(ctx context.Context, params repository.ListDealsParams) (int64, error) {
	items, _ := s.ListDeals(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) UpsertDeal(ctx context.Context, item *models.Deal) error {
	s.deals = append(s.deals, *item)
	return nil
}

func (s *stubRepo) SetDealActive(ctx context.Context, id string, active bool) error {
	for i := range s.deals {
		if s.deals[i].ID == id {
			s.deals[i].IsActive = active
		}
	}
	return nil
}

func (s *stubRepo) DeactivateExpiredDeals(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for i := range s.deals {
		if s.deals[i].IsActive && s.deals[i].ValidUntil.Before(now) {
			s.deals[i].IsActive = false
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) ListRedemptions(ctx context.Context, params repository.ListRedemptionsParams) ([]models.CouponRedemption, error) {
	return append([]models.CouponRedemption(nil), s.redemptions...), nil
}

func (s *stubRepo) CountRedemptions(ctx context.Context, params repository.ListRedemptionsParams) (int64, error) {
	return int64(len(s.redemptions)), nil
}

func (s *stubRepo) DeleteRedemptionsBefore(ctx context.Context, before time.Time) (int64, error) {
	kept := s.redemptions[:0]
	var n int64
	for _, r := range s.redemptions {
		if r.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.redemptions = kept
	return n, nil
}

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	return nil
}

func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	return nil, nil
}

func (s *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	return nil, nil
}

func newTestEngine(repo repository.Repository) *Engine {
	return &Engine{Repo: repo, Now: func() time.Time { return testNow }}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func welcome50() *models.Coupon {
	return &models.Coupon{
		ID:              "c-welcome50",
		Code:            "WELCOME50",
		CodeNorm:        "welcome50",
		Name:            "Welcome 50",
		Type:            models.DiscountPercentage,
		Value:           dec("50"),
		ValidFrom:       testNow.AddDate(0, -1, 0),
		ValidUntil:      testNow.AddDate(0, 1, 0),
		IsActive:        true,
		ApplicablePlans: datatypes.JSON([]byte(`["monthly"]`)),
		FirstTimeOnly:   true,
	}
}

func save20() *models.Coupon {
	min := dec("50")
	return &models.Coupon{
		ID:         "c-save20",
		Code:       "SAVE20",
		CodeNorm:   "save20",
		Name:       "Save 20",
		Type:       models.DiscountFixed,
		Value:      dec("20"),
		MinAmount:  &min,
		ValidFrom:  testNow.AddDate(0, -1, 0),
		ValidUntil: testNow.AddDate(0, 1, 0),
		IsActive:   true,
	}
}

func TestValidatePercentageDiscount(t *testing.T) {
	repo := newStubRepo()
	repo.put(welcome50())
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanMonthly, dec("29"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got reason=%s error=%q", res.Reason, res.Error)
	}
	if got := res.DiscountAmount.StringFixed(2); got != "14.50" {
		t.Errorf("discount = %s, want 14.50", got)
	}
	if got := res.FinalAmount.StringFixed(2); got != "14.50" {
		t.Errorf("final = %s, want 14.50", got)
	}
}

func TestValidateCaseInsensitiveCode(t *testing.T) {
	repo := newStubRepo()
	repo.put(welcome50())
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "  welcome50 ", models.PlanMonthly, dec("29"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid for lowercased code, got %q", res.Error)
	}
}

func TestValidatePlanMismatch(t *testing.T) {
	repo := newStubRepo()
	repo.put(welcome50())
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanYearly, dec("290"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid for yearly plan")
	}
	if res.Reason != ReasonPlanMismatch {
		t.Errorf("reason = %s, want %s", res.Reason, ReasonPlanMismatch)
	}
	if res.Error != "Coupon not valid for yearly plan" {
		t.Errorf("message = %q", res.Error)
	}
	if !res.FinalAmount.Equal(dec("290")) {
		t.Errorf("final = %s, want unchanged amount", res.FinalAmount)
	}
}

func TestValidateFirstTimeOnly(t *testing.T) {
	repo := newStubRepo()
	repo.put(welcome50())
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanMonthly, dec("29"), false)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonNotFirstTime {
		t.Fatalf("reason = %s, want %s", res.Reason, ReasonNotFirstTime)
	}
	if res.Error != "Coupon is only valid for first-time subscribers" {
		t.Errorf("message = %q", res.Error)
	}
}

func TestValidateBelowMinimum(t *testing.T) {
	repo := newStubRepo()
	repo.put(save20())
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "SAVE20", models.PlanMonthly, dec("29"), false)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonBelowMinimum {
		t.Fatalf("reason = %s, want %s", res.Reason, ReasonBelowMinimum)
	}
	if res.Error != "Minimum order amount is $50" {
		t.Errorf("message = %q", res.Error)
	}
}

func TestValidateFixedDiscountClampedToAmount(t *testing.T) {
	repo := newStubRepo()
	c := save20()
	c.MinAmount = nil
	repo.put(c)
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "SAVE20", models.PlanMonthly, dec("15"), false)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Error)
	}
	if !res.DiscountAmount.Equal(dec("15")) {
		t.Errorf("discount = %s, want clamped to 15", res.DiscountAmount)
	}
	if !res.FinalAmount.IsZero() {
		t.Errorf("final = %s, want 0", res.FinalAmount)
	}
}

func TestValidateMaxDiscountCap(t *testing.T) {
	repo := newStubRepo()
	c := welcome50()
	c.ApplicablePlans = nil
	c.FirstTimeOnly = false
	ceiling := dec("10")
	c.MaxDiscount = &ceiling
	repo.put(c)
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanYearly, dec("290"), false)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Error)
	}
	if !res.DiscountAmount.Equal(dec("10")) {
		t.Errorf("discount = %s, want capped to 10", res.DiscountAmount)
	}
	if !res.FinalAmount.Equal(dec("280")) {
		t.Errorf("final = %s, want 280", res.FinalAmount)
	}
}

func TestValidateNegativeAmountClampedToZero(t *testing.T) {
	repo := newStubRepo()
	repo.put(welcome50())
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanMonthly, dec("-10"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.DiscountAmount.IsNegative() {
		t.Errorf("discount = %s, must not be negative", res.DiscountAmount)
	}
	if res.FinalAmount.IsNegative() {
		t.Errorf("final = %s, must not be negative", res.FinalAmount)
	}

	// Failure outcomes echo the amount but never below zero either.
	res, err = eng.Validate(context.Background(), "WELCOME50", models.PlanYearly, dec("-10"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid {
		t.Fatal("expected plan mismatch")
	}
	if res.FinalAmount.IsNegative() {
		t.Errorf("final = %s, must not be negative on failure", res.FinalAmount)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	repo := newStubRepo()
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "FOO", models.PlanMonthly, dec("29"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonInvalidCode {
		t.Fatalf("reason = %s, want %s", res.Reason, ReasonInvalidCode)
	}
	if res.Error != "Invalid coupon code" {
		t.Errorf("message = %q", res.Error)
	}
}

func TestValidateExpired(t *testing.T) {
	repo := newStubRepo()
	c := welcome50()
	c.ValidUntil = testNow.AddDate(0, 0, -1)
	repo.put(c)
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanMonthly, dec("29"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonExpired {
		t.Fatalf("reason = %s, want %s", res.Reason, ReasonExpired)
	}
	if res.Error != "Coupon has expired" {
		t.Errorf("message = %q", res.Error)
	}
}

func TestValidateUsageLimitReached(t *testing.T) {
	repo := newStubRepo()
	c := welcome50()
	limit := 5
	c.UsageLimit = &limit
	c.UsedCount = 5
	repo.put(c)
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanMonthly, dec("29"), true)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonUsageLimit {
		t.Fatalf("reason = %s, want %s", res.Reason, ReasonUsageLimit)
	}
	if res.Error != "Coupon usage limit reached" {
		t.Errorf("message = %q", res.Error)
	}
}

func TestValidateStorageFailure(t *testing.T) {
	repo := newStubRepo()
	repo.failReads = true
	eng := newTestEngine(repo)

	res, err := eng.Validate(context.Background(), "WELCOME50", models.PlanMonthly, dec("29"), true)
	if err == nil {
		t.Fatal("expected infrastructure error")
	}
	var infra *InfrastructureError
	if !errors.As(err, &infra) {
		t.Fatalf("error type = %T, want *InfrastructureError", err)
	}
	if res.Valid {
		t.Fatal("result must not be valid on storage failure")
	}
}

func TestApplyConsumesUsage(t *testing.T) {
	repo := newStubRepo()
	c := welcome50()
	limit := 2
	c.UsageLimit = &limit
	repo.put(c)
	eng := newTestEngine(repo)

	ctx := context.Background()
	if err := eng.Apply(ctx, "WELCOME50"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := eng.Apply(ctx, "welcome50"); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if err := eng.Apply(ctx, "WELCOME50"); !errors.Is(err, ErrUsageExhausted) {
		t.Fatalf("third apply err = %v, want ErrUsageExhausted", err)
	}
	if got := repo.coupons["welcome50"].UsedCount; got != 2 {
		t.Errorf("used count = %d, want 2", got)
	}
}

func TestRedeemRecordsRedemption(t *testing.T) {
	repo := newStubRepo()
	repo.put(welcome50())
	eng := newTestEngine(repo)

	res, err := eng.Redeem(context.Background(), "WELCOME50", models.PlanMonthly, dec("29"), true)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Error)
	}
	if len(repo.redemptions) != 1 {
		t.Fatalf("redemptions = %d, want 1", len(repo.redemptions))
	}
	rec := repo.redemptions[0]
	if rec.Code != "WELCOME50" || !rec.DiscountAmount.Equal(dec("14.5")) {
		t.Errorf("record = %+v", rec)
	}
	if got := repo.coupons["welcome50"].UsedCount; got != 1 {
		t.Errorf("used count = %d, want 1", got)
	}
}

func TestRedeemExhaustedWritesNothing(t *testing.T) {
	repo := newStubRepo()
	c := welcome50()
	limit := 1
	c.UsageLimit = &limit
	c.UsedCount = 0
	repo.put(c)
	eng := newTestEngine(repo)

	ctx := context.Background()
	if _, err := eng.Redeem(ctx, "WELCOME50", models.PlanMonthly, dec("29"), true); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	res, err := eng.Redeem(ctx, "WELCOME50", models.PlanMonthly, dec("29"), true)
	if err != nil {
		t.Fatalf("second redeem: %v", err)
	}
	if res.Valid || res.Reason != ReasonUsageLimit {
		t.Fatalf("reason = %s, want %s", res.Reason, ReasonUsageLimit)
	}
	if len(repo.redemptions) != 1 {
		t.Errorf("redemptions = %d, want 1", len(repo.redemptions))
	}
}

func TestRedeemStorageFailureKeepsReasonNeutral(t *testing.T) {
	repo := newStubRepo()
	repo.put(welcome50())
	repo.failRedeems = true
	eng := newTestEngine(repo)

	res, err := eng.Redeem(context.Background(), "WELCOME50", models.PlanMonthly, dec("29"), true)
	if err == nil {
		t.Fatal("expected infrastructure error")
	}
	var infra *InfrastructureError
	if !errors.As(err, &infra) {
		t.Fatalf("error type = %T, want *InfrastructureError", err)
	}
	if res.Valid {
		t.Fatal("result must not be valid on storage failure")
	}
	if res.Reason != ReasonNone {
		t.Errorf("reason = %s, want none: storage failure is not a validation outcome", res.Reason)
	}
	if res.FinalAmount.IsNegative() {
		t.Errorf("final = %s, must not be negative", res.FinalAmount)
	}
}

func TestFeaturedDeal(t *testing.T) {
	repo := newStubRepo()
	repo.deals = []models.Deal{
		{ID: "d1", Name: "Plain", IsActive: true, ValidUntil: testNow.AddDate(0, 1, 0)},
		{ID: "d2", Name: "Featured", IsActive: true, IsFeatured: true, ValidUntil: testNow.AddDate(0, 1, 0)},
	}
	eng := newTestEngine(repo)

	deal, err := eng.FeaturedDeal(context.Background())
	if err != nil {
		t.Fatalf("FeaturedDeal: %v", err)
	}
	if deal == nil || deal.ID != "d2" {
		t.Fatalf("deal = %+v, want d2", deal)
	}
}

func TestActiveDealsKeepsFutureValidFrom(t *testing.T) {
	repo := newStubRepo()
	repo.deals = []models.Deal{
		{ID: "d1", Name: "Upcoming", IsActive: true, ValidFrom: testNow.AddDate(0, 0, 7), ValidUntil: testNow.AddDate(0, 1, 0)},
		{ID: "d2", Name: "Ended", IsActive: true, ValidFrom: testNow.AddDate(0, -2, 0), ValidUntil: testNow.AddDate(0, -1, 0)},
	}
	eng := newTestEngine(repo)

	deals, err := eng.ActiveDeals(context.Background())
	if err != nil {
		t.Fatalf("ActiveDeals: %v", err)
	}
	if len(deals) != 1 || deals[0].ID != "d1" {
		t.Fatalf("deals = %+v, want only the future-dated one", deals)
	}
}

func TestFormatDiscount(t *testing.T) {
	if got := FormatDiscount(welcome50()); got != "50% OFF" {
		t.Errorf("percentage format = %q", got)
	}
	if got := FormatDiscount(save20()); got != "$20 OFF" {
		t.Errorf("fixed format = %q", got)
	}
	if got := FormatDiscount(nil); got != "" {
		t.Errorf("nil format = %q", got)
	}
}
