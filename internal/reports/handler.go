package reports

import (
	"time"

	"billing-backend/internal/auth"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type StatusBreakdown struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
}

type MonthlySalesResponse struct {
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	InvoiceCount int               `json:"invoice_count"`
	Invoiced     float64           `json:"invoiced"`  // sum of totals, cancelled excluded
	Collected    float64           `json:"collected"` // sum of payments on those invoices
	Outstanding  float64           `json:"outstanding"`
	ByStatus     []StatusBreakdown `json:"by_status"`
}

type TopProductRow struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Revenue   float64 `json:"revenue"`
}

// GET /api/reports/sales/monthly?year=2025&month=12
//
// Payments live in a JSON column, so the collected figure is aggregated in Go
// rather than in SQL.
func MonthlySalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		year := c.QueryInt("year")
		month := c.QueryInt("month")
		if year < 2000 || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "year and month are required")
		}

		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		nextMonth := firstDay.AddDate(0, 1, 0)

		var invoices []models.Invoice
		err = database.DB.
			Where("company_id = ? AND date >= ? AND date < ?", companyID, firstDay, nextMonth).
			Find(&invoices).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load invoices")
		}

		invoiced := decimal.Zero
		collected := decimal.Zero
		count := 0
		type agg struct {
			count int
			total decimal.Decimal
		}
		byStatus := map[models.InvoiceStatus]*agg{}

		for i := range invoices {
			inv := &invoices[i]

			a := byStatus[inv.Status]
			if a == nil {
				a = &agg{}
				byStatus[inv.Status] = a
			}
			a.count++
			a.total = a.total.Add(decimal.NewFromFloat(inv.TotalAmount))

			if inv.Status == models.StatusCancelled {
				continue
			}
			count++
			invoiced = invoiced.Add(decimal.NewFromFloat(inv.TotalAmount))
			collected = collected.Add(decimal.NewFromFloat(inv.PaidTotal()))
		}

		resp := MonthlySalesResponse{
			Year:         year,
			Month:        month,
			InvoiceCount: count,
			ByStatus:     make([]StatusBreakdown, 0, len(byStatus)),
		}
		resp.Invoiced, _ = invoiced.Round(2).Float64()
		resp.Collected, _ = collected.Round(2).Float64()
		resp.Outstanding, _ = invoiced.Sub(collected).Round(2).Float64()

		for _, s := range []models.InvoiceStatus{
			models.StatusDraft, models.StatusIssued, models.StatusPartiallyPaid,
			models.StatusPaid, models.StatusCancelled,
		} {
			a := byStatus[s]
			if a == nil {
				continue
			}
			total, _ := a.total.Round(2).Float64()
			resp.ByStatus = append(resp.ByStatus, StatusBreakdown{
				Status: string(s),
				Count:  a.count,
				Total:  total,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/reports/products/top?from=...&to=...&limit=10
func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		dbq := database.DB.Model(&models.InvoiceItem{}).
			Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
			Where("invoices.company_id = ? AND invoices.status <> ?", companyID, models.StatusCancelled)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("invoices.date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("invoices.date <= ?", to)
		}

		var rows []TopProductRow
		err = dbq.
			Select("invoice_items.product_id as product_id, MAX(invoice_items.name) as name, SUM(invoice_items.qty) as qty, SUM(invoice_items.total) as revenue").
			Group("invoice_items.product_id").
			Order("revenue desc").
			Limit(limit).
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute report")
		}
		if rows == nil {
			rows = []TopProductRow{}
		}
		return c.JSON(rows)
	}
}
