package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradedesk/internal/regime"
)

type RegimeHandler struct {
	Engine *regime.Engine
	Logger *zap.Logger
}

func (h *RegimeHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/regime")
	group.POST("/analyze", h.analyze)
	group.GET("/regimes", h.listRegimes)
	group.GET("/regimes/:id/strategies", h.regimeStrategies)
	group.GET("/strategies", h.listStrategies)
	group.GET("/strategies/:id", h.getStrategy)
}

// @Summary Analyze a market snapshot
// @Tags regime
// @Accept json
// @Param snapshot body regime.Snapshot true "market snapshot"
// @Success 200 {object} apiResponse
// @Router /api/v1/regime/analyze [post]
func (h *RegimeHandler) analyze(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	var snap regime.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	analysis, err := h.Engine.Analyze(snap)
	if err != nil {
		var verr *regime.ValidationError
		if errors.As(err, &verr) {
			Error(c, http.StatusBadRequest, verr.Error(), nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("regime analysis failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, analysis, nil)
}

// @Summary List regime definitions
// @Tags regime
// @Success 200 {object} apiResponse
// @Router /api/v1/regime/regimes [get]
func (h *RegimeHandler) listRegimes(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	Ok(c, h.Engine.Regimes(), nil)
}

// @Summary List strategies for a regime
// @Tags regime
// @Param id path string true "regime id"
// @Success 200 {object} apiResponse
// @Router /api/v1/regime/regimes/{id}/strategies [get]
func (h *RegimeHandler) regimeStrategies(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	items := h.Engine.StrategiesForRegime(id)
	if items == nil {
		items = []regime.Strategy{}
	}
	Ok(c, items, nil)
}

// @Summary List all strategy playbooks
// @Tags regime
// @Success 200 {object} apiResponse
// @Router /api/v1/regime/strategies [get]
func (h *RegimeHandler) listStrategies(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	Ok(c, h.Engine.Strategies(), nil)
}

// @Summary Get one strategy playbook
// @Tags regime
// @Param id path string true "strategy id"
// @Success 200 {object} apiResponse
// @Router /api/v1/regime/strategies/{id} [get]
func (h *RegimeHandler) getStrategy(c *gin.Context) {
	if h.Engine == nil {
		Error(c, http.StatusInternalServerError, "engine unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	item := h.Engine.Strategy(id)
	if item == nil {
		Error(c, http.StatusNotFound, "strategy not found", nil)
		return
	}
	Ok(c, item, nil)
}
