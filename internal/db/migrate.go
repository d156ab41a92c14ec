package db

import (
	"tradedesk/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Coupon{},
		&models.Deal{},
		&models.CouponRedemption{},
		&models.SystemSetting{},
	)
}
