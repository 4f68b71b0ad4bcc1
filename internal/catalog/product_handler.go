package catalog

import (
	"strings"

	"billing-backend/internal/auth"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name        string   `json:"name"`
	Sku         string   `json:"sku"`
	Barcode     string   `json:"barcode"`
	Hsn         string   `json:"hsn"`
	Price       *float64 `json:"price"`
	Cost        float64  `json:"cost"`
	Mrp         float64  `json:"mrp"`
	StockUnit   string   `json:"stockUnit"`
	TrackStock  *bool    `json:"trackStock"`
	InitialQty  float64  `json:"currentStock"`
	MinStockQty float64  `json:"minStockQty"`
	TaxRate     float64  `json:"taxRate"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Sku         *string  `json:"sku"`
	Barcode     *string  `json:"barcode"`
	Hsn         *string  `json:"hsn"`
	Price       *float64 `json:"price"`
	Cost        *float64 `json:"cost"`
	Mrp         *float64 `json:"mrp"`
	StockUnit   *string  `json:"stockUnit"`
	TrackStock  *bool    `json:"trackStock"`
	MinStockQty *float64 `json:"minStockQty"`
	TaxRate     *float64 `json:"taxRate"`
}

type ProductResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Sku          string  `json:"sku"`
	Barcode      string  `json:"barcode"`
	Hsn          string  `json:"hsn"`
	Price        float64 `json:"price"`
	Cost         float64 `json:"cost"`
	Mrp          float64 `json:"mrp"`
	StockUnit    string  `json:"stockUnit"`
	TrackStock   bool    `json:"trackStock"`
	CurrentStock float64 `json:"currentStock"`
	MinStockQty  float64 `json:"minStockQty"`
	TaxRate      float64 `json:"taxRate"`
	LowStock     bool    `json:"lowStock"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Sku:          p.Sku,
		Barcode:      p.Barcode,
		Hsn:          p.Hsn,
		Price:        p.Price,
		Cost:         p.Cost,
		Mrp:          p.Mrp,
		StockUnit:    p.StockUnit,
		TrackStock:   p.TrackStock,
		CurrentStock: p.CurrentStock,
		MinStockQty:  p.MinStockQty,
		TaxRate:      p.TaxRate,
		LowStock:     p.TrackStock && p.CurrentStock <= p.MinStockQty,
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Price == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Name and price are required")
		}
		if *body.Price < 0 || body.TaxRate < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price and tax rate cannot be negative")
		}

		trackStock := true
		if body.TrackStock != nil {
			trackStock = *body.TrackStock
		}
		stockUnit := strings.TrimSpace(body.StockUnit)
		if stockUnit == "" {
			stockUnit = "pcs"
		}

		p := models.Product{
			CompanyID:    companyID,
			Name:         body.Name,
			Sku:          strings.TrimSpace(body.Sku),
			Barcode:      strings.TrimSpace(body.Barcode),
			Hsn:          strings.TrimSpace(body.Hsn),
			Price:        *body.Price,
			Cost:         body.Cost,
			Mrp:          body.Mrp,
			StockUnit:    stockUnit,
			TrackStock:   trackStock,
			CurrentStock: body.InitialQty,
			MinStockQty:  body.MinStockQty,
			TaxRate:      body.TaxRate,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&p))
	}
}

// GET /api/products?q=...&low_stock=1
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Product{}).Where("company_id = ?", companyID)

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name LIKE ? OR sku LIKE ? OR barcode LIKE ?", like, like, like)
		}
		if c.Query("low_stock") == "1" {
			dbq = dbq.Where("track_stock = ? AND current_stock <= min_stock_qty", true)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		p, err := FindProduct(database.DB, companyID, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.JSON(toProductResponse(p))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		p, err := FindProduct(database.DB, companyID, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			p.Name = name
		}
		if body.Sku != nil {
			p.Sku = strings.TrimSpace(*body.Sku)
		}
		if body.Barcode != nil {
			p.Barcode = strings.TrimSpace(*body.Barcode)
		}
		if body.Hsn != nil {
			p.Hsn = strings.TrimSpace(*body.Hsn)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
			}
			p.Price = *body.Price
		}
		if body.Cost != nil {
			p.Cost = *body.Cost
		}
		if body.Mrp != nil {
			p.Mrp = *body.Mrp
		}
		if body.StockUnit != nil {
			p.StockUnit = strings.TrimSpace(*body.StockUnit)
		}
		if body.TrackStock != nil {
			p.TrackStock = *body.TrackStock
		}
		if body.MinStockQty != nil {
			p.MinStockQty = *body.MinStockQty
		}
		if body.TaxRate != nil {
			if *body.TaxRate < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Tax rate cannot be negative")
			}
			p.TaxRate = *body.TaxRate
		}

		// CurrentStock is deliberately not editable here; stock changes go
		// through invoices or the stock-adjust endpoint so the movement log
		// stays complete.
		if err := database.DB.Save(p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}
		return c.JSON(toProductResponse(p))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		res := database.DB.Where("company_id = ?", companyID).Delete(&models.Product{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
