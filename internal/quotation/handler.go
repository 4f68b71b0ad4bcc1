package quotation

import (
	"time"

	"billing-backend/internal/auth"
	"billing-backend/internal/billing"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuotationItemInput struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

type CreateQuotationRequest struct {
	CustomerID *uint                `json:"customerId"`
	Items      []QuotationItemInput `json:"items"`
}

type QuotationItemResponse struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

type QuotationResponse struct {
	ID          uint                    `json:"id"`
	QuoteNo     string                  `json:"quoteNo"`
	Date        string                  `json:"date"`
	CustomerID  *uint                   `json:"customerId"`
	Items       []QuotationItemResponse `json:"items"`
	Subtotal    float64                 `json:"subtotal"`
	TaxTotal    float64                 `json:"taxTotal"`
	TotalAmount float64                 `json:"totalAmount"`
	Status      models.QuotationStatus  `json:"status"`
}

func toQuotationResponse(q *models.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuotationItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	return QuotationResponse{
		ID:          q.ID,
		QuoteNo:     q.QuoteNo,
		Date:        q.Date.Format("2006-01-02"),
		CustomerID:  q.CustomerID,
		Items:       items,
		Subtotal:    q.Subtotal,
		TaxTotal:    q.TaxTotal,
		TotalAmount: q.TotalAmount,
		Status:      q.Status,
	}
}

// POST /api/quotations — items arrive already priced; quotations do not tax
// and never touch stock or balances.
func CreateQuotationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateQuotationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No items")
		}

		subtotal := decimal.Zero
		items := make([]models.QuotationItem, 0, len(body.Items))
		for _, it := range body.Items {
			total := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromFloat(it.Qty)).Round(2)
			subtotal = subtotal.Add(total)
			items = append(items, models.QuotationItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Qty:       it.Qty,
				UnitPrice: it.UnitPrice,
				Total:     total.InexactFloat64(),
			})
		}

		var quote models.Quotation
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			seq, err := billing.NextSequence(tx, companyID, billing.CounterQuotation)
			if err != nil {
				return err
			}

			quote = models.Quotation{
				CompanyID:   companyID,
				QuoteNo:     billing.FormatQuoteNo(seq),
				Date:        time.Now(),
				CustomerID:  body.CustomerID,
				Items:       items,
				Subtotal:    subtotal.InexactFloat64(),
				TaxTotal:    0,
				TotalAmount: subtotal.InexactFloat64(),
				Status:      models.QuoteDraft,
				CreatedByID: userID,
			}
			return tx.Create(&quote).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create quotation")
		}

		return c.Status(fiber.StatusCreated).JSON(toQuotationResponse(&quote))
	}
}

// GET /api/quotations
func ListQuotationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var quotes []models.Quotation
		err = database.DB.Preload("Items").
			Where("company_id = ?", companyID).
			Order("created_at desc").Limit(200).
			Find(&quotes).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list quotations")
		}

		resp := make([]QuotationResponse, 0, len(quotes))
		for i := range quotes {
			resp = append(resp, toQuotationResponse(&quotes[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/quotations/:id
func GetQuotationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid quotation id")
		}

		var quote models.Quotation
		if err := database.DB.Preload("Items").Where("company_id = ?", companyID).First(&quote, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Quotation not found")
		}
		return c.JSON(toQuotationResponse(&quote))
	}
}

// POST /api/quotations/:id/convert
func ConvertQuotationHandler(svc *billing.Service) fiber.Handler {
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
			return fiber.NewError(fiber.StatusBadRequest, "Invalid quotation id")
		}

		inv, err := svc.ConvertQuotation(companyID, userID, uint(id))
		if err != nil {
			if billing.IsNotFound(err) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return err
		}
		return c.JSON(fiber.Map{
			"invoiceId": inv.ID,
			"invoiceNo": inv.InvoiceNo,
			"status":    inv.Status,
		})
	}
}
