package expense

import (
	"time"

	"billing-backend/internal/auth"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"` // "2025-12-09", defaults to today
	Reference     string  `json:"reference"`
	Notes         string  `json:"notes"`
}

type UpdateExpenseRequest struct {
	Description   *string  `json:"description"`
	Amount        *float64 `json:"amount"`
	Category      *string  `json:"category"`
	PaymentMethod *string  `json:"paymentMethod"`
	Date          *string  `json:"date"`
	Reference     *string  `json:"reference"`
	Notes         *string  `json:"notes"`
}

type ExpenseResponse struct {
	ID            uint    `json:"id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"`
	Reference     string  `json:"reference"`
	Notes         string  `json:"notes"`
}

type MonthlySummaryItem struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type MonthlySummaryResponse struct {
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Items      []MonthlySummaryItem `json:"items"`
	GrandTotal float64              `json:"grand_total"`
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Description:   e.Description,
		Amount:        e.Amount,
		Category:      string(e.Category),
		PaymentMethod: string(e.PaymentMethod),
		Date:          e.Date.Format("2006-01-02"),
		Reference:     e.Reference,
		Notes:         e.Notes,
	}
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Description == "" || body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Description and a positive amount are required")
		}

		category := models.ExpenseCategory(body.Category)
		if body.Category == "" {
			category = models.ExpenseOther
		} else if !models.ValidExpenseCategory(category) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown expense category")
		}

		method := models.PaymentMethod(body.PaymentMethod)
		if body.PaymentMethod == "" {
			method = models.PayCash
		} else if !models.ValidPaymentMethod(method) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown payment method")
		}

		date := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
			}
			date = d
		}

		exp := models.Expense{
			CompanyID:     companyID,
			Description:   body.Description,
			Amount:        body.Amount,
			Category:      category,
			PaymentMethod: method,
			Date:          date,
			Reference:     body.Reference,
			Notes:         body.Notes,
			CreatedByID:   userID,
		}
		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
		}

		return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(&exp))
	}
}

// GET /api/expenses?from=...&to=...&category=...
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Expense{}).Where("company_id = ?", companyID)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("date <= ?", to)
		}
		if cat := c.Query("category"); cat != "" {
			if !models.ValidExpenseCategory(models.ExpenseCategory(cat)) {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown expense category")
			}
			dbq = dbq.Where("category = ?", cat)
		}

		var rows []models.Expense
		if err := dbq.Order("date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, toExpenseResponse(&rows[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		var exp models.Expense
		if err := database.DB.Where("company_id = ?", companyID).First(&exp, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Description != nil {
			if *body.Description == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Description cannot be empty")
			}
			exp.Description = *body.Description
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
			}
			exp.Amount = *body.Amount
		}
		if body.Category != nil {
			cat := models.ExpenseCategory(*body.Category)
			if !models.ValidExpenseCategory(cat) {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown expense category")
			}
			exp.Category = cat
		}
		if body.PaymentMethod != nil {
			method := models.PaymentMethod(*body.PaymentMethod)
			if !models.ValidPaymentMethod(method) {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown payment method")
			}
			exp.PaymentMethod = method
		}
		if body.Date != nil {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
			}
			exp.Date = d
		}
		if body.Reference != nil {
			exp.Reference = *body.Reference
		}
		if body.Notes != nil {
			exp.Notes = *body.Notes
		}

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update expense")
		}
		return c.JSON(toExpenseResponse(&exp))
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		res := database.DB.Where("company_id = ?", companyID).Delete(&models.Expense{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete expense")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/expenses/summary/monthly?year=2025&month=12
func MonthlyExpenseSummaryHandler() fiber.Handler {
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

		type row struct {
			Category string  `gorm:"column:category"`
			Total    float64 `gorm:"column:total"`
		}
		var rows []row
		err = database.DB.Model(&models.Expense{}).
			Select("category, SUM(amount) as total").
			Where("company_id = ? AND date >= ? AND date < ?", companyID, firstDay, nextMonth).
			Group("category").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute summary")
		}

		resp := MonthlySummaryResponse{
			Year:  year,
			Month: month,
			Items: make([]MonthlySummaryItem, 0, len(rows)),
		}
		for _, r := range rows {
			resp.Items = append(resp.Items, MonthlySummaryItem{Category: r.Category, Total: r.Total})
			resp.GrandTotal += r.Total
		}
		return c.JSON(resp)
	}
}
