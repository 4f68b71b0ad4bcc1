package models

import "time"

// Counter is a per-company named sequence. Incremented under a row lock so
// concurrent invoice creation cannot hand out duplicate numbers.
type Counter struct {
	ID        uint   `gorm:"primaryKey"`
	CompanyID uint   `gorm:"not null;uniqueIndex:idx_counter_company_name"`
	Name      string `gorm:"size:30;not null;uniqueIndex:idx_counter_company_name"`
	Value     int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
