package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradedesk/internal/models"
	"tradedesk/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Coupons ---------------------------------------------------------------

func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	norm := normalizeCode(code)
	if norm == "" {
		return nil, nil
	}
	var item models.Coupon
	err := s.db.WithContext(ctx).
		Where("code_norm = ?", norm).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListCoupons(ctx context.Context, params repository.ListCouponsParams) ([]models.Coupon, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.couponQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Coupon
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCoupons(ctx context.Context, params repository.ListCouponsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.couponQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) couponQuery(ctx context.Context, params repository.ListCouponsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Coupon{})
	if params.Active != nil {
		query = query.Where("is_active = ?", *params.Active)
	}
	if params.Code != nil {
		query = query.Where("code_norm = ?", normalizeCode(*params.Code))
	}
	if params.Plan != nil && *params.Plan != "" {
		// Empty applicable_plans means "all plans".
		query = query.Where(
			"applicable_plans IS NULL OR applicable_plans = '[]' OR applicable_plans @> ?",
			`["`+string(*params.Plan)+`"]`,
		)
	}
	return query
}

func (s *Store) UpsertCoupon(ctx context.Context, item *models.Coupon) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.CodeNorm = normalizeCode(item.Code)
	if item.CodeNorm == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code_norm"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"description",
			"type",
			"value",
			"min_amount",
			"max_discount",
			"valid_from",
			"valid_until",
			"usage_limit",
			"is_active",
			"applicable_plans",
			"first_time_only",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) SetCouponActive(ctx context.Context, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()}).Error
}

func (s *Store) IncrementCouponUsage(ctx context.Context, code string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	return incrementUsage(s.db.WithContext(ctx), code)
}

// incrementUsage is the single conditional UPDATE that closes the
// check-then-act race on the usage budget: the WHERE clause re-checks the
// ceiling at write time, so two concurrent redeemers cannot both pass.
func incrementUsage(db *gorm.DB, code string) (bool, error) {
	norm := normalizeCode(code)
	if norm == "" {
		return false, nil
	}
	res := db.Model(&models.Coupon{}).
		Where("code_norm = ?", norm).
		Where("is_active = ?", true).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		Updates(map[string]any{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) RedeemCoupon(ctx context.Context, code string, rec *models.CouponRedemption) (bool, error) {
	if s == nil || s.db == nil || rec == nil {
		return false, nil
	}
	consumed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := incrementUsage(tx, code)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		consumed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return consumed, nil
}

func (s *Store) DeactivateExpiredCoupons(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	res := s.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("is_active = ?", true).
		Where("valid_until < ?", now).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return res.RowsAffected, res.Error
}

// --- Deals -----------------------------------------------------------------

func (s *Store) GetDealByID(ctx context.Context, id string) (*models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Deal
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.dealQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Deal
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountDeals(ctx context.Context, params repository.ListDealsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.dealQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) dealQuery(ctx context.Context, params repository.ListDealsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Deal{})
	if params.Active != nil {
		query = query.Where("is_active = ?", *params.Active)
	}
	if params.Featured != nil {
		query = query.Where("is_featured = ?", *params.Featured)
	}
	if params.Plan != nil && *params.Plan != "" {
		query = query.Where("plan = ?", string(*params.Plan))
	}
	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		query = query.Where("name = ?", strings.TrimSpace(*params.Name))
	}
	if params.ActiveAt != nil && !params.ActiveAt.IsZero() {
		// Only the end of the window is checked; see ListDealsParams.ActiveAt.
		query = query.Where("valid_until >= ?", *params.ActiveAt)
	}
	return query
}

func (s *Store) UpsertDeal(ctx context.Context, item *models.Deal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"description",
			"coupon_code",
			"original_price",
			"discounted_price",
			"discount_percentage",
			"valid_from",
			"valid_until",
			"is_active",
			"is_featured",
			"plan",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) SetDealActive(ctx context.Context, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()}).Error
}

func (s *Store) DeactivateExpiredDeals(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	res := s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("is_active = ?", true).
		Where("valid_until < ?", now).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return res.RowsAffected, res.Error
}

// --- Redemptions -----------------------------------------------------------

func (s *Store) ListRedemptions(ctx context.Context, params repository.ListRedemptionsParams) ([]models.CouponRedemption, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.redemptionQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.CouponRedemption
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRedemptions(ctx context.Context, params repository.ListRedemptionsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.redemptionQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) redemptionQuery(ctx context.Context, params repository.ListRedemptionsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.CouponRedemption{})
	if params.CouponID != nil && strings.TrimSpace(*params.CouponID) != "" {
		query = query.Where("coupon_id = ?", strings.TrimSpace(*params.CouponID))
	}
	if params.Code != nil && strings.TrimSpace(*params.Code) != "" {
		query = query.Where("code = ?", strings.TrimSpace(*params.Code))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("created_at < ?", *params.Until)
	}
	return query
}

func (s *Store) DeleteRedemptionsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.CouponRedemption{})
	return res.RowsAffected, res.Error
}

// --- System settings -------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Key) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SystemSetting{})
	if params.Prefix != nil && strings.TrimSpace(*params.Prefix) != "" {
		query = query.Where("key LIKE ?", strings.TrimSpace(*params.Prefix)+"%")
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "key")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.SystemSetting
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Helpers ---------------------------------------------------------------

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
