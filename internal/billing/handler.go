package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"billing-backend/internal/auth"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateInvoiceRequest struct {
	Type          models.InvoiceType `json:"type"`
	CustomerID    *uint              `json:"customerId"`
	Items         []ItemInput        `json:"items"`
	PaymentStatus string             `json:"paymentStatus"`
	Payment       *PaymentInput      `json:"payment"`
	Payments      []PaymentInput     `json:"payments"`
}

type UpdateInvoiceRequest struct {
	Items         []ItemInput           `json:"items"`
	PaymentStatus *models.InvoiceStatus `json:"paymentStatus"`
	Payment       *PaymentInput         `json:"payment"`
	Payments      *[]PaymentInput       `json:"payments"`
	CustomerID    *uint                 `json:"customerId"`
}

type QuickSaleRequest struct {
	Items    []ItemInput    `json:"items"`
	Payment  *PaymentInput  `json:"payment"`
	Payments []PaymentInput `json:"payments"`
}

type PreviewRequest struct {
	Items []TotalLine `json:"items"`
}

type InvoiceItemResponse struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	TaxRate   float64 `json:"taxRate"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
}

type InvoiceResponse struct {
	ID          uint                  `json:"id"`
	InvoiceNo   string                `json:"invoiceNo"`
	Type        models.InvoiceType    `json:"type"`
	Status      models.InvoiceStatus  `json:"status"`
	Date        string                `json:"date"`
	CustomerID  *uint                 `json:"customerId"`
	Customer    string                `json:"customer,omitempty"`
	Items       []InvoiceItemResponse `json:"items"`
	Subtotal    float64               `json:"subtotal"`
	TaxTotal    float64               `json:"taxTotal"`
	TotalAmount float64               `json:"totalAmount"`
	Payments    []models.Payment      `json:"payments"`
	CreatedAt   string                `json:"created_at"`
}

func toInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
			Discount:  it.Discount,
			Total:     it.Total,
		})
	}

	payments := []models.Payment(inv.Payments)
	if payments == nil {
		payments = []models.Payment{}
	}

	resp := InvoiceResponse{
		ID:          inv.ID,
		InvoiceNo:   inv.InvoiceNo,
		Type:        inv.Type,
		Status:      inv.Status,
		Date:        inv.Date.Format("2006-01-02"),
		CustomerID:  inv.CustomerID,
		Items:       items,
		Subtotal:    inv.Subtotal,
		TaxTotal:    inv.TaxTotal,
		TotalAmount: inv.TotalAmount,
		Payments:    payments,
		CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.Customer != nil {
		resp.Customer = inv.Customer.Name
	}
	return resp
}

// mapServiceError translates domain sentinels into HTTP errors.
func mapServiceError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsNotFound(err):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case IsInvalidState(err), err == ErrNoItems:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// POST /api/invoices
func CreateInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		inv, err := svc.Create(companyID, userID, CreateInput{
			Type:          body.Type,
			CustomerID:    body.CustomerID,
			Items:         body.Items,
			PaymentStatus: body.PaymentStatus,
			Payment:       body.Payment,
			Payments:      body.Payments,
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(inv))
	}
}

// POST /api/quick-sale
func QuickSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body QuickSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		inv, err := svc.Create(companyID, userID, CreateInput{
			Type:     models.TypeQuickSale,
			Items:    body.Items,
			Payment:  body.Payment,
			Payments: body.Payments,
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(inv))
	}
}

// GET /api/invoices
func ListInvoicesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		invoices, err := svc.List(companyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list invoices")
		}

		resp := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			resp = append(resp, toInvoiceResponse(&invoices[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/invoices/:id
func GetInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid invoice id")
		}

		inv, err := svc.Get(companyID, uint(id))
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(toInvoiceResponse(inv))
	}
}

// PUT /api/invoices/:id
func UpdateInvoiceHandler(svc *Service) fiber.Handler {
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
			return fiber.NewError(fiber.StatusBadRequest, "Invalid invoice id")
		}

		var body UpdateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		// a customerId of null detaches the customer, an absent key leaves it
		// alone, so key presence has to be checked on the raw body
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		_, setCustomer := raw["customerId"]

		inv, err := svc.Update(companyID, userID, uint(id), UpdateInput{
			Items:         body.Items,
			PaymentStatus: body.PaymentStatus,
			Payment:       body.Payment,
			Payments:      body.Payments,
			CustomerID:    body.CustomerID,
			SetCustomer:   setCustomer,
		})
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(toInvoiceResponse(inv))
	}
}

// POST /api/invoices/:id/cancel
func CancelInvoiceHandler(svc *Service) fiber.Handler {
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
			return fiber.NewError(fiber.StatusBadRequest, "Invalid invoice id")
		}

		inv, err := svc.Cancel(companyID, userID, uint(id))
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(toInvoiceResponse(inv))
	}
}

// DELETE /api/invoices/:id
func DeleteInvoiceHandler(svc *Service) fiber.Handler {
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
			return fiber.NewError(fiber.StatusBadRequest, "Invalid invoice id")
		}

		if err := svc.Delete(companyID, userID, uint(id)); err != nil {
			return mapServiceError(err)
		}
		return c.JSON(fiber.Map{"message": "Invoice deleted"})
	}
}

// POST /api/cart/preview — totals for an unsaved cart, using the company's
// default tax rate for items that carry none.
func PreviewTotalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var body PreviewRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return c.JSON(Totals{})
		}

		var company models.Company
		if err := database.DB.First(&company, companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Company not found (ID: %d)", companyID))
		}

		return c.JSON(ComputeTotals(body.Items, company.DefaultTaxRate))
	}
}
