package models

import "time"

type Company struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:150;not null"`
	Email          string `gorm:"size:100;uniqueIndex;not null"`
	Phone          string `gorm:"size:30"`
	Address        string `gorm:"size:255"`
	Gstin          string `gorm:"size:30"`
	InvoicePrefix  string `gorm:"size:10;not null;default:INV"`
	DefaultTaxRate float64 `gorm:"not null;default:18"` // percent
	Currency       string `gorm:"size:5;not null;default:INR"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
