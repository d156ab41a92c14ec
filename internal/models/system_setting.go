package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSetting is a small key/value table used for runtime feature switches.
type SystemSetting struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement"`
	Key         string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Value       datatypes.JSON `gorm:"type:jsonb;not null"`
	Description string         `gorm:"type:varchar(200)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
