package catalog

import (
	"strings"
	"time"

	"billing-backend/internal/auth"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StockAdjustRequest struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

type StockMovementResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"productId"`
	ProductName string  `json:"productName"`
	Type        string  `json:"type"`
	Qty         float64 `json:"qty"`
	Reference   string  `json:"reference"`
	CreatedAt   string  `json:"created_at"`
}

// POST /api/products/:id/stock-adjust — manual correction outside of the
// invoice lifecycle (damaged goods, recount). Logged as an "adjustment".
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var body StockAdjustRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Delta == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "delta cannot be zero")
		}

		var updated *models.Product
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			p, err := AdjustStock(tx, companyID, uint(id), body.Delta)
			if err != nil {
				return err
			}
			updated = p
			return LogMovement(tx, &models.StockMovement{
				CompanyID: companyID,
				ProductID: p.ID,
				Type:      models.MovementAdjustment,
				Qty:       body.Delta,
				Reference: strings.TrimSpace(body.Reason),
				ByUserID:  userID,
			})
		})
		if err != nil {
			if err == ErrProductMissing {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not adjust stock")
		}

		return c.JSON(toProductResponse(updated))
	}
}

// GET /api/stock-movements?product_id=...&from=...&to=...
func ListStockMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.StockMovement{}).
			Preload("Product").
			Where("company_id = ?", companyID)

		if pid := c.QueryInt("product_id"); pid > 0 {
			dbq = dbq.Where("product_id = ?", pid)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("created_at <= ?", to.AddDate(0, 0, 1))
		}

		var rows []models.StockMovement
		if err := dbq.Order("created_at desc").Limit(500).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list stock movements")
		}

		resp := make([]StockMovementResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, StockMovementResponse{
				ID:          r.ID,
				ProductID:   r.ProductID,
				ProductName: r.Product.Name,
				Type:        string(r.Type),
				Qty:         r.Qty,
				Reference:   r.Reference,
				CreatedAt:   r.CreatedAt.Format(time.RFC3339),
			})
		}
		return c.JSON(resp)
	}
}
