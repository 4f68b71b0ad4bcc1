package models

import "time"

type Product struct {
	ID           uint   `gorm:"primaryKey"`
	CompanyID    uint   `gorm:"index;not null"`
	Name         string `gorm:"size:150;not null"`
	Sku          string `gorm:"size:50;index"`
	Barcode      string `gorm:"size:50"`
	Hsn          string `gorm:"size:20"`
	Price        float64 `gorm:"not null"` // unit price excluding tax
	Cost         float64 `gorm:"not null;default:0"`
	Mrp          float64 `gorm:"not null;default:0"`
	StockUnit    string  `gorm:"size:20;not null;default:pcs"`
	TrackStock   bool    `gorm:"not null;default:true"`
	CurrentStock float64 `gorm:"not null;default:0"`
	MinStockQty  float64 `gorm:"not null;default:0"`
	TaxRate      float64 `gorm:"not null;default:0"` // percent, 0 means tax exempt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
