package main

import (
	"errors"
	"strings"

	"billing-backend/internal/auth"
	"billing-backend/internal/billing"
	"billing-backend/internal/catalog"
	"billing-backend/internal/config"
	"billing-backend/internal/database"
	"billing-backend/internal/expense"
	"billing-backend/internal/ledger"
	"billing-backend/internal/logger"
	"billing-backend/internal/models"
	"billing-backend/internal/quotation"
	"billing-backend/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	log := logger.WithComponent("server")

	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	invoices := billing.NewService(database.DB)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-company", auth.RegisterCompanyHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalog. Mutations are restricted to owner/admin, cashiers only read.
	manage := auth.RequireRole(models.RoleOwner, models.RoleAdmin)
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Post("/products", manage, catalog.CreateProductHandler())
	protected.Put("/products/:id", manage, catalog.UpdateProductHandler())
	protected.Delete("/products/:id", manage, catalog.DeleteProductHandler())
	protected.Post("/products/:id/stock-adjust", manage, catalog.AdjustStockHandler())
	protected.Get("/stock-movements", catalog.ListStockMovementsHandler())

	// Customers
	protected.Post("/customers", ledger.CreateCustomerHandler())
	protected.Get("/customers", ledger.ListCustomersHandler())
	protected.Get("/customers/:id", ledger.GetCustomerHandler())
	protected.Put("/customers/:id", ledger.UpdateCustomerHandler())
	protected.Delete("/customers/:id", manage, ledger.DeleteCustomerHandler())

	// Invoices
	protected.Post("/invoices", billing.CreateInvoiceHandler(invoices))
	protected.Get("/invoices", billing.ListInvoicesHandler(invoices))
	protected.Get("/invoices/:id", billing.GetInvoiceHandler(invoices))
	protected.Put("/invoices/:id", billing.UpdateInvoiceHandler(invoices))
	protected.Post("/invoices/:id/cancel", billing.CancelInvoiceHandler(invoices))
	protected.Delete("/invoices/:id", manage, billing.DeleteInvoiceHandler(invoices))
	protected.Post("/quick-sale", billing.QuickSaleHandler(invoices))
	protected.Post("/cart/preview", billing.PreviewTotalsHandler())

	// Quotations
	protected.Post("/quotations", quotation.CreateQuotationHandler())
	protected.Get("/quotations", quotation.ListQuotationsHandler())
	protected.Get("/quotations/:id", quotation.GetQuotationHandler())
	protected.Post("/quotations/:id/convert", quotation.ConvertQuotationHandler(invoices))

	// Expenses
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Put("/expenses/:id", expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())
	protected.Get("/expenses/summary/monthly", expense.MonthlyExpenseSummaryHandler())

	// Reports
	protected.Get("/reports/sales/monthly", reports.MonthlySalesHandler())
	protected.Get("/reports/products/top", reports.TopProductsHandler())

	log.Info().Str("port", cfg.HTTPPort).Msg("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
