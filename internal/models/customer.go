package models

import "time"

type Customer struct {
	ID              uint   `gorm:"primaryKey"`
	CompanyID       uint   `gorm:"index;not null"`
	Name            string `gorm:"size:150;not null"`
	Phone           string `gorm:"size:30"`
	Email           string `gorm:"size:100"`
	BillingAddress  string `gorm:"size:255"`
	ShippingAddress string `gorm:"size:255"`
	Gstin           string `gorm:"size:30"`
	OpeningBalance  float64 `gorm:"not null;default:0"`
	// Balance is the sum of all non-draft, non-cancelled invoice totals attributed
	// to this customer, net of reversals. Mutated only through the billing service.
	Balance   float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
