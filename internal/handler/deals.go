package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradedesk/internal/coupon"
	"tradedesk/internal/models"
	"tradedesk/internal/repository"
)

type DealHandler struct {
	Engine *coupon.Engine
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *DealHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/deals")
	group.GET("", h.listDeals)
	group.GET("/featured", h.featuredDeal)

	admin := r.Group("/api/v1/admin")
	admin.POST("/deals", h.createDeal)
	admin.POST("/deals/:id/deactivate", h.deactivateDeal)
}

// dealView decorates a deal with its display discount label.
type dealView struct {
	models.Deal
	DiscountLabel string `json:"discount_label,omitempty"`
}

// @Summary List active deals
// @Tags deals
// @Success 200 {object} apiResponse
// @Router /api/v1/deals [get]
func (h *DealHandler) listDeals(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	items, err := h.Engine.ActiveDeals(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list deals failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	views := make([]dealView, 0, len(items))
	for _, d := range items {
		views = append(views, h.decorate(c, d))
	}
	Ok(c, views, map[string]any{"total": len(views)})
}

// @Summary Get the featured deal
// @Tags deals
// @Success 200 {object} apiResponse
// @Router /api/v1/deals/featured [get]
func (h *DealHandler) featuredDeal(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	item, err := h.Engine.FeaturedDeal(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("featured deal failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "no featured deal", nil)
		return
	}
	view := h.decorate(c, *item)
	Ok(c, view, nil)
}

func (h *DealHandler) decorate(c *gin.Context, d models.Deal) dealView {
	view := dealView{Deal: d}
	if h.Repo == nil || d.CouponCode == "" {
		return view
	}
	item, err := h.Repo.GetCouponByCode(c.Request.Context(), d.CouponCode)
	if err == nil && item != nil {
		view.DiscountLabel = coupon.FormatDiscount(item)
	}
	return view
}

type createDealRequest struct {
	Name               string          `json:"name" binding:"required"`
	Description        string          `json:"description"`
	CouponCode         string          `json:"coupon_code"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	DiscountPercentage int             `json:"discount_percentage"`
	ValidFrom          time.Time       `json:"valid_from"`
	ValidUntil         time.Time       `json:"valid_until" binding:"required"`
	IsFeatured         bool            `json:"is_featured"`
	Plan               models.Plan     `json:"plan" binding:"required"`
}

// @Summary Create a deal
// @Tags admin
// @Accept json
// @Param request body createDealRequest true "deal"
// @Success 200 {object} apiResponse
// @Router /api/v1/admin/deals [post]
func (h *DealHandler) createDeal(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.Plan != models.PlanMonthly && req.Plan != models.PlanYearly {
		Error(c, http.StatusBadRequest, "plan must be monthly or yearly", nil)
		return
	}
	now := time.Now().UTC()
	validFrom := req.ValidFrom
	if validFrom.IsZero() {
		validFrom = now
	}
	item := &models.Deal{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		CouponCode:         strings.TrimSpace(req.CouponCode),
		OriginalPrice:      req.OriginalPrice,
		DiscountedPrice:    req.DiscountedPrice,
		DiscountPercentage: req.DiscountPercentage,
		ValidFrom:          validFrom,
		ValidUntil:         req.ValidUntil,
		IsActive:           true,
		IsFeatured:         req.IsFeatured,
		Plan:               req.Plan,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := h.Repo.UpsertDeal(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Logger != nil {
		h.Logger.Info("deal upserted", zap.String("name", item.Name))
	}
	Ok(c, item, nil)
}

// @Summary Deactivate a deal
// @Tags admin
// @Param id path string true "deal id"
// @Success 200 {object} apiResponse
// @Router /api/v1/admin/deals/{id}/deactivate [post]
func (h *DealHandler) deactivateDeal(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	if err := h.Repo.SetDealActive(c.Request.Context(), id, false); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deactivated": true}, nil)
}
