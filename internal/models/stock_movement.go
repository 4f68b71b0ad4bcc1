package models

import "time"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement is an append-only audit entry. Issuance logs "out" movements,
// reversals (edit, cancel) log "in" movements with the same invoice reference.
type StockMovement struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Type      MovementType `gorm:"size:20;not null;default:out"`
	Qty       float64      `gorm:"not null"`
	Reference string       `gorm:"size:50"` // invoice number, or a note for adjustments
	ByUserID  uint         `gorm:"not null"`
	CreatedAt time.Time
}
