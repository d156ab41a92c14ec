package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradedesk/internal/models"
	"tradedesk/internal/repository"
)

// Reason is the closed set of validation-failure outcomes. Failures are
// values on the result, not errors: callers branch on Result.Valid.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonInvalidCode  Reason = "invalid_code"
	ReasonExpired      Reason = "expired"
	ReasonPlanMismatch Reason = "plan_mismatch"
	ReasonNotFirstTime Reason = "not_first_time"
	ReasonBelowMinimum Reason = "below_minimum"
	ReasonUsageLimit   Reason = "usage_limit_reached"
)

// Result is the transient outcome of a validation or redemption. It is never
// persisted.
type Result struct {
	Valid          bool             `json:"is_valid"`
	Coupon         *models.Coupon   `json:"coupon,omitempty"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	FinalAmount    decimal.Decimal  `json:"final_amount"`
	Reason         Reason           `json:"reason,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// InfrastructureError marks a storage failure, as opposed to a validation
// outcome. Callers may recover by falling back to the default catalog.
type InfrastructureError struct {
	Err error
}

func (e *InfrastructureError) Error() string {
	return "coupon storage: " + e.Err.Error()
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// Engine evaluates coupon codes against a purchase context and answers deal
// queries. All reads and writes go through the injected repository; the
// engine itself holds no state beyond its clock.
type Engine struct {
	Repo   repository.Repository
	Logger *zap.Logger

	// Now is factored for deterministic tests. Nil means time.Now UTC.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e != nil && e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// Validate checks a code against the purchase context and computes the
// discount. Checks short-circuit in a fixed order; the first failure wins.
func (e *Engine) Validate(ctx context.Context, code string, plan models.Plan, amount decimal.Decimal, firstTime bool) (Result, error) {
	item, err := e.Repo.GetCouponByCode(ctx, code)
	if err != nil {
		return failed(ReasonInvalidCode, "Invalid coupon code", amount), &InfrastructureError{Err: err}
	}
	if item == nil || !item.IsActive {
		return failed(ReasonInvalidCode, "Invalid coupon code", amount), nil
	}

	now := e.now()
	if now.Before(item.ValidFrom) || now.After(item.ValidUntil) {
		return failed(ReasonExpired, "Coupon has expired", amount), nil
	}

	plans, err := applicablePlans(item)
	if err != nil {
		return failed(ReasonInvalidCode, "Invalid coupon code", amount), &InfrastructureError{Err: err}
	}
	if len(plans) > 0 && !containsPlan(plans, plan) {
		return failed(ReasonPlanMismatch, fmt.Sprintf("Coupon not valid for %s plan", plan), amount), nil
	}

	if item.FirstTimeOnly && !firstTime {
		return failed(ReasonNotFirstTime, "Coupon is only valid for first-time subscribers", amount), nil
	}

	if item.MinAmount != nil && amount.LessThan(*item.MinAmount) {
		return failed(ReasonBelowMinimum, fmt.Sprintf("Minimum order amount is $%s", item.MinAmount.String()), amount), nil
	}

	if item.UsageLimit != nil && item.UsedCount >= *item.UsageLimit {
		return failed(ReasonUsageLimit, "Coupon usage limit reached", amount), nil
	}

	discount := computeDiscount(item, amount)
	return Result{
		Valid:          true,
		Coupon:         item,
		DiscountAmount: discount,
		FinalAmount:    clampAmount(amount.Sub(discount)),
	}, nil
}

// Apply consumes one unit of the coupon's usage budget. The ceiling is
// re-checked atomically at the storage layer, so Apply can fail even after a
// successful Validate if a concurrent redemption won the race.
func (e *Engine) Apply(ctx context.Context, code string) error {
	ok, err := e.Repo.IncrementCouponUsage(ctx, code)
	if err != nil {
		return &InfrastructureError{Err: err}
	}
	if !ok {
		return ErrUsageExhausted
	}
	return nil
}

// ErrUsageExhausted reports that Apply or Redeem found no usage budget left
// (or no such active coupon).
var ErrUsageExhausted = fmt.Errorf("coupon usage exhausted")

// Redeem validates and consumes in one shot. The usage increment and the
// redemption record are committed in a single transaction, closing the
// validate/apply race for limited coupons.
func (e *Engine) Redeem(ctx context.Context, code string, plan models.Plan, amount decimal.Decimal, firstTime bool) (Result, error) {
	res, err := e.Validate(ctx, code, plan, amount, firstTime)
	if err != nil || !res.Valid {
		return res, err
	}

	rec := &models.CouponRedemption{
		CouponID:       res.Coupon.ID,
		Code:           res.Coupon.Code,
		Plan:           plan,
		Amount:         amount,
		DiscountAmount: res.DiscountAmount,
		FinalAmount:    res.FinalAmount,
		FirstTime:      firstTime,
		CreatedAt:      e.now(),
	}
	ok, err := e.Repo.RedeemCoupon(ctx, code, rec)
	if err != nil {
		return Result{FinalAmount: clampAmount(amount)}, &InfrastructureError{Err: err}
	}
	if !ok {
		return failed(ReasonUsageLimit, "Coupon usage limit reached", amount), nil
	}
	if e.Logger != nil {
		e.Logger.Info("coupon redeemed",
			zap.String("code", res.Coupon.Code),
			zap.String("plan", string(plan)),
			zap.String("discount", res.DiscountAmount.StringFixed(2)),
		)
	}
	return res, nil
}

// ActiveDeals lists deals that are switched on and whose window has not
// ended. A deal with a future valid_from is still returned; the pricing page
// has always behaved this way and the quirk is preserved deliberately.
func (e *Engine) ActiveDeals(ctx context.Context) ([]models.Deal, error) {
	now := e.now()
	active := true
	asc := true
	items, err := e.Repo.ListDeals(ctx, repository.ListDealsParams{
		Active:   &active,
		ActiveAt: &now,
		OrderBy:  "created_at",
		Asc:      &asc,
	})
	if err != nil {
		return nil, &InfrastructureError{Err: err}
	}
	return items, nil
}

// FeaturedDeal returns the first active featured deal, or nil.
func (e *Engine) FeaturedDeal(ctx context.Context) (*models.Deal, error) {
	now := e.now()
	active := true
	featured := true
	asc := true
	items, err := e.Repo.ListDeals(ctx, repository.ListDealsParams{
		Limit:    1,
		Active:   &active,
		Featured: &featured,
		ActiveAt: &now,
		OrderBy:  "created_at",
		Asc:      &asc,
	})
	if err != nil {
		return nil, &InfrastructureError{Err: err}
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// FormatDiscount renders a coupon's discount for display.
func FormatDiscount(item *models.Coupon) string {
	if item == nil {
		return ""
	}
	if item.Type == models.DiscountPercentage {
		return item.Value.String() + "% OFF"
	}
	return "$" + item.Value.String() + " OFF"
}

func computeDiscount(item *models.Coupon, amount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch item.Type {
	case models.DiscountPercentage:
		discount = amount.Mul(item.Value).Div(decimal.NewFromInt(100))
		if item.MaxDiscount != nil && discount.GreaterThan(*item.MaxDiscount) {
			discount = *item.MaxDiscount
		}
	default:
		discount = item.Value
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	return discount
}

func applicablePlans(item *models.Coupon) ([]models.Plan, error) {
	if len(item.ApplicablePlans) == 0 {
		return nil, nil
	}
	var plans []models.Plan
	if err := json.Unmarshal(item.ApplicablePlans, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func containsPlan(plans []models.Plan, plan models.Plan) bool {
	for _, p := range plans {
		if p == plan {
			return true
		}
	}
	return false
}

func failed(reason Reason, msg string, amount decimal.Decimal) Result {
	return Result{
		Valid:          false,
		DiscountAmount: decimal.Zero,
		FinalAmount:    clampAmount(amount),
		Reason:         reason,
		Error:          msg,
	}
}

// clampAmount keeps final amounts non-negative no matter what amount the
// caller supplied.
func clampAmount(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return v
}
