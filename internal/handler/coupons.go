package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradedesk/internal/coupon"
	"tradedesk/internal/models"
	"tradedesk/internal/repository"
	"tradedesk/internal/service"
)

type CouponHandler struct {
	Engine   *coupon.Engine
	Repo     repository.Repository
	Settings *service.SystemSettingsService
	Logger   *zap.Logger
}

func (h *CouponHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/coupons")
	group.POST("/validate", h.validate)
	group.POST("/redeem", h.redeem)
	group.POST("/:code/apply", h.apply)

	admin := r.Group("/api/v1/admin")
	admin.GET("/coupons", h.listCoupons)
	admin.POST("/coupons", h.createCoupon)
	admin.POST("/coupons/:id/deactivate", h.deactivateCoupon)
	admin.GET("/redemptions", h.listRedemptions)
}

type validateCouponRequest struct {
	Code      string          `json:"code" binding:"required"`
	Plan      models.Plan     `json:"plan" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	FirstTime bool            `json:"first_time"`
}

// @Summary Validate a coupon against a purchase
// @Tags coupons
// @Accept json
// @Param request body validateCouponRequest true "purchase context"
// @Success 200 {object} apiResponse
// @Router /api/v1/coupons/validate [post]
func (h *CouponHandler) validate(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, err := h.Engine.Validate(c.Request.Context(), req.Code, req.Plan, req.Amount, req.FirstTime)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("coupon validate failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, res, nil)
}

// @Summary Validate and consume a coupon in one call
// @Tags coupons
// @Accept json
// @Param request body validateCouponRequest true "purchase context"
// @Success 200 {object} apiResponse
// @Router /api/v1/coupons/redeem [post]
func (h *CouponHandler) redeem(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	if !h.Settings.IsEnabled(c.Request.Context(), service.FeatureCouponRedemptions, true) {
		Error(c, http.StatusServiceUnavailable, "redemptions disabled", nil)
		return
	}
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, err := h.Engine.Redeem(c.Request.Context(), req.Code, req.Plan, req.Amount, req.FirstTime)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("coupon redeem failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, res, nil)
}

// @Summary Consume one unit of a coupon's usage budget
// @Tags coupons
// @Param code path string true "coupon code"
// @Success 200 {object} apiResponse
// @Router /api/v1/coupons/{code}/apply [post]
func (h *CouponHandler) apply(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		Error(c, http.StatusBadRequest, "code required", nil)
		return
	}
	if err := h.Engine.Apply(c.Request.Context(), code); err != nil {
		if errors.Is(err, coupon.ErrUsageExhausted) {
			Error(c, http.StatusConflict, "Coupon usage limit reached", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("coupon apply failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"applied": true}, nil)
}

// @Summary List coupons
// @Tags admin
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param active query bool false "active"
// @Param plan query string false "plan"
// @Param code query string false "code"
// @Success 200 {object} apiResponse
// @Router /api/v1/admin/coupons [get]
func (h *CouponHandler) listCoupons(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListCouponsParams{
		Limit:   intQuery(c, "limit", 0),
		Offset:  intQuery(c, "offset", 0),
		Active:  boolQueryPtr(c, "active"),
		OrderBy: strings.TrimSpace(c.Query("order_by")),
		Asc:     boolQueryPtr(c, "ascending"),
	}
	if plan := models.Plan(strings.TrimSpace(c.Query("plan"))); plan != "" {
		params.Plan = &plan
	}
	if code := strings.TrimSpace(c.Query("code")); code != "" {
		params.Code = &code
	}
	items, err := h.Repo.ListCoupons(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountCoupons(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": total})
}

type createCouponRequest struct {
	Code            string           `json:"code" binding:"required"`
	Name            string           `json:"name" binding:"required"`
	Description     string           `json:"description"`
	Type            string           `json:"type" binding:"required"`
	Value           decimal.Decimal  `json:"value"`
	MinAmount       *decimal.Decimal `json:"min_amount"`
	MaxDiscount     *decimal.Decimal `json:"max_discount"`
	ValidFrom       time.Time        `json:"valid_from"`
	ValidUntil      time.Time        `json:"valid_until" binding:"required"`
	UsageLimit      *int             `json:"usage_limit"`
	ApplicablePlans []models.Plan    `json:"applicable_plans"`
	FirstTimeOnly   bool             `json:"first_time_only"`
}

// @Summary Create or update a coupon
// @Tags admin
// @Accept json
// @Param request body createCouponRequest true "coupon"
// @Success 200 {object} apiResponse
// @Router /api/v1/admin/coupons [post]
func (h *CouponHandler) createCoupon(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	kind := models.DiscountType(strings.TrimSpace(req.Type))
	if kind != models.DiscountPercentage && kind != models.DiscountFixed {
		Error(c, http.StatusBadRequest, "type must be percentage or fixed_amount", nil)
		return
	}
	if req.Value.LessThanOrEqual(decimal.Zero) {
		Error(c, http.StatusBadRequest, "value must be positive", nil)
		return
	}
	now := time.Now().UTC()
	validFrom := req.ValidFrom
	if validFrom.IsZero() {
		validFrom = now
	}
	item := &models.Coupon{
		ID:            uuid.NewString(),
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Type:          kind,
		Value:         req.Value,
		MinAmount:     req.MinAmount,
		MaxDiscount:   req.MaxDiscount,
		ValidFrom:     validFrom,
		ValidUntil:    req.ValidUntil,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
		FirstTimeOnly: req.FirstTimeOnly,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if len(req.ApplicablePlans) > 0 {
		raw, err := plansJSON(req.ApplicablePlans)
		if err != nil {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		item.ApplicablePlans = raw
	}
	if err := h.Repo.UpsertCoupon(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Logger != nil {
		h.Logger.Info("coupon upserted", zap.String("code", item.Code))
	}
	Ok(c, item, nil)
}

// @Summary Deactivate a coupon
// @Tags admin
// @Param id path string true "coupon id"
// @Success 200 {object} apiResponse
// @Router /api/v1/admin/coupons/{id}/deactivate [post]
func (h *CouponHandler) deactivateCoupon(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	if err := h.Repo.SetCouponActive(c.Request.Context(), id, false); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deactivated": true}, nil)
}

// @Summary List coupon redemptions
// @Tags admin
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param code query string false "coupon code"
// @Success 200 {object} apiResponse
// @Router /api/v1/admin/redemptions [get]
func (h *CouponHandler) listRedemptions(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListRedemptionsParams{
		Limit:  intQuery(c, "limit", 0),
		Offset: intQuery(c, "offset", 0),
	}
	if code := strings.TrimSpace(c.Query("code")); code != "" {
		params.Code = &code
	}
	items, err := h.Repo.ListRedemptions(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountRedemptions(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": total})
}

func plansJSON(plans []models.Plan) (datatypes.JSON, error) {
	for _, p := range plans {
		if p != models.PlanMonthly && p != models.PlanYearly {
			return nil, errors.New("unknown plan " + string(p))
		}
	}
	raw, err := json.Marshal(plans)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
