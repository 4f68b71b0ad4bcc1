package catalog

import (
	"errors"

	"billing-backend/internal/logger"
	"billing-backend/internal/models"

	"gorm.io/gorm"
)

// ErrProductMissing is returned when a stock mutation targets a product that
// does not exist within the company.
var ErrProductMissing = errors.New("product not found")

// FindProduct loads a product within the company scope.
func FindProduct(tx *gorm.DB, companyID, id uint) (*models.Product, error) {
	var p models.Product
	err := tx.Where("company_id = ?", companyID).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductMissing
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AdjustStock applies delta to the product's stock count with a single atomic
// UPDATE, so concurrent sales cannot lose each other's decrements. Returns the
// product as it is after the adjustment.
func AdjustStock(tx *gorm.DB, companyID, productID uint, delta float64) (*models.Product, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND company_id = ?", productID, companyID).
		UpdateColumn("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductMissing
	}

	var p models.Product
	if err := tx.Where("company_id = ?", companyID).First(&p, productID).Error; err != nil {
		return nil, err
	}

	// Sales are not rejected on insufficient stock, matching the storefront
	// behaviour; surface oversells in the logs instead.
	if p.TrackStock && p.CurrentStock < 0 {
		log := logger.WithComponent("catalog")
		log.Warn().
			Uint("product_id", p.ID).
			Uint("company_id", companyID).
			Float64("current_stock", p.CurrentStock).
			Msg("stock went negative")
	}

	return &p, nil
}

// LogMovement appends an entry to the stock movement audit log.
func LogMovement(tx *gorm.DB, m *models.StockMovement) error {
	return tx.Create(m).Error
}
