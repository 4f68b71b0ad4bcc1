package auth

import (
	"strings"

	"billing-backend/internal/config"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterCompanyRequest struct {
	CompanyName   string  `json:"companyName"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	OwnerName     string  `json:"ownerName"`
	Phone         string  `json:"phone"`
	InvoicePrefix string  `json:"invoicePrefix"`
	TaxRate       *float64 `json:"taxRate"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register-company
func RegisterCompanyHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.CompanyName = strings.TrimSpace(body.CompanyName)
		body.OwnerName = strings.TrimSpace(body.OwnerName)

		if body.CompanyName == "" || body.Email == "" || body.Password == "" || body.OwnerName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Company name, owner name, email and password are required")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Email already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		prefix := strings.TrimSpace(strings.ToUpper(body.InvoicePrefix))
		if prefix == "" {
			prefix = cfg.InvoicePrefix
		}
		taxRate := cfg.DefaultTaxRate
		if body.TaxRate != nil {
			taxRate = *body.TaxRate
		}

		company := models.Company{
			Name:           body.CompanyName,
			Email:          body.Email,
			Phone:          body.Phone,
			InvoicePrefix:  prefix,
			DefaultTaxRate: taxRate,
		}
		owner := models.User{
			Name:         body.OwnerName,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleOwner,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&company).Error; err != nil {
				return err
			}
			owner.CompanyID = company.ID
			return tx.Create(&owner).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not register company")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"company": fiber.Map{
				"id":            company.ID,
				"name":          company.Name,
				"invoicePrefix": company.InvoicePrefix,
			},
			"user": fiber.Map{
				"id":    owner.ID,
				"email": owner.Email,
				"role":  owner.Role,
			},
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":         user.ID,
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"company_id": user.CompanyID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Preload("Company").First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
			"company": fiber.Map{
				"id":             user.Company.ID,
				"name":           user.Company.Name,
				"invoicePrefix":  user.Company.InvoicePrefix,
				"defaultTaxRate": user.Company.DefaultTaxRate,
				"currency":       user.Company.Currency,
			},
		})
	}
}
