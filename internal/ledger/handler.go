package ledger

import (
	"strings"

	"billing-backend/internal/auth"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCustomerRequest struct {
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	BillingAddress  string  `json:"billingAddress"`
	ShippingAddress string  `json:"shippingAddress"`
	Gstin           string  `json:"gstin"`
	OpeningBalance  float64 `json:"openingBalance"`
}

type UpdateCustomerRequest struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	BillingAddress  *string `json:"billingAddress"`
	ShippingAddress *string `json:"shippingAddress"`
	Gstin           *string `json:"gstin"`
}

type CustomerResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	BillingAddress  string  `json:"billingAddress"`
	ShippingAddress string  `json:"shippingAddress"`
	Gstin           string  `json:"gstin"`
	OpeningBalance  float64 `json:"openingBalance"`
	Balance         float64 `json:"balance"`
}

func toCustomerResponse(cu *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              cu.ID,
		Name:            cu.Name,
		Phone:           cu.Phone,
		Email:           cu.Email,
		BillingAddress:  cu.BillingAddress,
		ShippingAddress: cu.ShippingAddress,
		Gstin:           cu.Gstin,
		OpeningBalance:  cu.OpeningBalance,
		Balance:         cu.Balance,
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		cu := models.Customer{
			CompanyID:       companyID,
			Name:            body.Name,
			Phone:           strings.TrimSpace(body.Phone),
			Email:           strings.TrimSpace(strings.ToLower(body.Email)),
			BillingAddress:  body.BillingAddress,
			ShippingAddress: body.ShippingAddress,
			Gstin:           strings.TrimSpace(body.Gstin),
			OpeningBalance:  body.OpeningBalance,
			Balance:         body.OpeningBalance,
		}
		if err := database.DB.Create(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create customer")
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(&cu))
	}
}

// GET /api/customers?q=...
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Customer{}).Where("company_id = ?", companyID)
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
		}

		var customers []models.Customer
		if err := dbq.Order("name asc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toCustomerResponse(&customers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid customer id")
		}

		var cu models.Customer
		if err := database.DB.Where("company_id = ?", companyID).First(&cu, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}
		return c.JSON(toCustomerResponse(&cu))
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid customer id")
		}

		var cu models.Customer
		if err := database.DB.Where("company_id = ?", companyID).First(&cu, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			cu.Name = name
		}
		if body.Phone != nil {
			cu.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			cu.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.BillingAddress != nil {
			cu.BillingAddress = *body.BillingAddress
		}
		if body.ShippingAddress != nil {
			cu.ShippingAddress = *body.ShippingAddress
		}
		if body.Gstin != nil {
			cu.Gstin = strings.TrimSpace(*body.Gstin)
		}

		// Balance is not editable here: it only moves through the billing
		// lifecycle, so it stays reconcilable against invoices.
		if err := database.DB.Save(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer")
		}
		return c.JSON(toCustomerResponse(&cu))
	}
}

// DELETE /api/customers/:id
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid customer id")
		}

		var count int64
		database.DB.Model(&models.Invoice{}).
			Where("company_id = ? AND customer_id = ?", companyID, id).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Customer has invoices and cannot be deleted")
		}

		res := database.DB.Where("company_id = ?", companyID).Delete(&models.Customer{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete customer")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
