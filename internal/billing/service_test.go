package billing

import (
	"testing"
	"time"

	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	company  models.Company
	user     models.User
	customer models.Customer
	product  models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{db: db, svc: NewService(db)}

	f.company = models.Company{Name: "Acme Traders", Email: "acme@example.com", InvoicePrefix: "INV", DefaultTaxRate: 18}
	require.NoError(t, db.Create(&f.company).Error)

	f.user = models.User{CompanyID: f.company.ID, Name: "Owner", Email: "owner@example.com", PasswordHash: "x", Role: models.RoleOwner}
	require.NoError(t, db.Create(&f.user).Error)

	f.customer = models.Customer{CompanyID: f.company.ID, Name: "Ravi Kumar"}
	require.NoError(t, db.Create(&f.customer).Error)

	f.product = models.Product{
		CompanyID:    f.company.ID,
		Name:         "Widget",
		Price:        100,
		TaxRate:      18,
		TrackStock:   true,
		CurrentStock: 50,
	}
	require.NoError(t, db.Create(&f.product).Error)

	return f
}

func (f *fixture) reloadProduct(t *testing.T) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, f.product.ID).Error)
	return p
}

func (f *fixture) reloadCustomer(t *testing.T) models.Customer {
	t.Helper()
	var c models.Customer
	require.NoError(t, f.db.First(&c, f.customer.ID).Error)
	return c
}

func (f *fixture) movementCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.StockMovement{}).Count(&n).Error)
	return n
}

func TestCreateInvoiceIssued(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		CustomerID: &f.customer.ID,
		Items:      []ItemInput{{ProductID: f.product.ID, Qty: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-00001", inv.InvoiceNo)
	assert.Equal(t, models.StatusIssued, inv.Status)
	assert.Equal(t, 200.0, inv.Subtotal)
	assert.Equal(t, 36.0, inv.TaxTotal)
	assert.Equal(t, 236.0, inv.TotalAmount)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Widget", inv.Items[0].Name)

	assert.Equal(t, 48.0, f.reloadProduct(t).CurrentStock)
	assert.Equal(t, 236.0, f.reloadCustomer(t).Balance)
	assert.Equal(t, int64(1), f.movementCount(t))
}

func TestCreateDraftHasNoSideEffects(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		CustomerID:    &f.customer.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Qty: 5}},
		PaymentStatus: "draft",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, inv.Status)
	assert.Equal(t, 50.0, f.reloadProduct(t).CurrentStock, "draft must not touch stock")
	assert.Equal(t, 0.0, f.reloadCustomer(t).Balance, "draft must not touch balance")
	assert.Equal(t, int64(0), f.movementCount(t))
}

func TestCreateWithFullPayment(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items:    []ItemInput{{ProductID: f.product.ID, Qty: 2}},
		Payments: []PaymentInput{{Method: "cash", Amount: 236}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaid, inv.Status)
	require.Len(t, inv.Payments, 1)
	assert.NotEmpty(t, inv.Payments[0].ID)
	assert.False(t, inv.Payments[0].Date.IsZero())
}

func TestCreatePartialPaymentChargesFullBalance(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		CustomerID: &f.customer.ID,
		Items:      []ItemInput{{ProductID: f.product.ID, Qty: 2}},
		Payments:   []PaymentInput{{Method: "cash", Amount: 100}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPartiallyPaid, inv.Status)
	// the balance tracks what was invoiced, not what is outstanding
	assert.Equal(t, 236.0, f.reloadCustomer(t).Balance)
	assert.Equal(t, 48.0, f.reloadProduct(t).CurrentStock)
}

func TestQuickSale(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Type:       models.TypeQuickSale,
		CustomerID: &f.customer.ID, // ignored for quick sales
		Items:      []ItemInput{{ProductID: f.product.ID, Qty: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-QS-00001", inv.InvoiceNo)
	assert.Equal(t, models.StatusPaid, inv.Status)
	assert.Nil(t, inv.CustomerID)
	assert.Equal(t, 0.0, f.reloadCustomer(t).Balance)
	assert.Equal(t, 49.0, f.reloadProduct(t).CurrentStock)
}

func TestCreateRejectsEmptyAndUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{})
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: 9999, Qty: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	// nothing may persist after a failed create
	assert.Equal(t, 50.0, f.reloadProduct(t).CurrentStock)
	var n int64
	require.NoError(t, f.db.Model(&models.Invoice{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestInvoiceNumberSequence(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 1}},
	})
	require.NoError(t, err)
	second, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-00001", first.InvoiceNo)
	assert.Equal(t, "INV-00002", second.InvoiceNo)

	// quick sales draw from the same sequence, with the infix
	qs, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Type:  models.TypeQuickSale,
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-QS-00003", qs.InvoiceNo)
}

func TestCancelRestoresStockAndBalance(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		CustomerID: &f.customer.ID,
		Items:      []ItemInput{{ProductID: f.product.ID, Qty: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 47.0, f.reloadProduct(t).CurrentStock)

	cancelled, err := f.svc.Cancel(f.company.ID, f.user.ID, inv.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 50.0, f.reloadProduct(t).CurrentStock)
	assert.Equal(t, 0.0, f.reloadCustomer(t).Balance)
	// one "out" on creation, one symmetric "in" on cancellation
	assert.Equal(t, int64(2), f.movementCount(t))

	_, err = f.svc.Cancel(f.company.ID, f.user.ID, inv.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 50.0, f.reloadProduct(t).CurrentStock, "second cancel must not restore twice")
}

func TestCancelDraftIsInert(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		CustomerID:    &f.customer.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Qty: 4}},
		PaymentStatus: "draft",
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(f.company.ID, f.user.ID, inv.ID)
	require.NoError(t, err)

	assert.Equal(t, 50.0, f.reloadProduct(t).CurrentStock)
	assert.Equal(t, 0.0, f.reloadCustomer(t).Balance)
	assert.Equal(t, int64(0), f.movementCount(t))
}

func TestUpdateRejectsFrozenInvoices(t *testing.T) {
	f := newFixture(t)

	paid, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items:    []ItemInput{{ProductID: f.product.ID, Qty: 1}},
		Payments: []PaymentInput{{Method: "cash", Amount: 118}},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPaid, paid.Status)

	_, err = f.svc.Update(f.company.ID, f.user.ID, paid.ID, UpdateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 2}},
	})
	assert.ErrorIs(t, err, ErrInvoicePaid)

	cancelled, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 1}},
	})
	require.NoError(t, err)
	_, err = f.svc.Cancel(f.company.ID, f.user.ID, cancelled.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(f.company.ID, f.user.ID, cancelled.ID, UpdateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 2}},
	})
	assert.ErrorIs(t, err, ErrInvoiceCancelled)
}

func TestUpdateItemsReversesAndReapplies(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 48.0, f.reloadProduct(t).CurrentStock)

	updated, err := f.svc.Update(f.company.ID, f.user.ID, inv.ID, UpdateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, updated.Subtotal)
	assert.Equal(t, 590.0, updated.TotalAmount)
	assert.Equal(t, 45.0, f.reloadProduct(t).CurrentStock, "old decrement reversed, new one applied")

	var count int64
	require.NoError(t, f.db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "old line rows replaced, not duplicated")
}

func TestUpdatePaymentsReplacesAndDerives(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusIssued, inv.Status)

	partial := []PaymentInput{{Method: "upi", Amount: 36}}
	updated, err := f.svc.Update(f.company.ID, f.user.ID, inv.ID, UpdateInput{Payments: &partial})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartiallyPaid, updated.Status)

	full := []PaymentInput{{Method: "upi", Amount: 36}, {Method: "cash", Amount: 200}}
	updated, err = f.svc.Update(f.company.ID, f.user.ID, inv.ID, UpdateInput{Payments: &full})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
	assert.Len(t, updated.Payments, 2)
}

func TestUpdateLegacySinglePaymentAppends(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items:    []ItemInput{{ProductID: f.product.ID, Qty: 2}},
		Payments: []PaymentInput{{Method: "cash", Amount: 100}},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPartiallyPaid, inv.Status)

	updated, err := f.svc.Update(f.company.ID, f.user.ID, inv.ID, UpdateInput{
		Payment: &PaymentInput{Method: "card", Amount: 136},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
	assert.Len(t, updated.Payments, 2)
}

func TestUpdateCustomerMovesBalance(t *testing.T) {
	f := newFixture(t)

	other := models.Customer{CompanyID: f.company.ID, Name: "Meera Shah"}
	require.NoError(t, f.db.Create(&other).Error)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		CustomerID: &f.customer.ID,
		Items:      []ItemInput{{ProductID: f.product.ID, Qty: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 236.0, f.reloadCustomer(t).Balance)

	_, err = f.svc.Update(f.company.ID, f.user.ID, inv.ID, UpdateInput{
		CustomerID:  &other.ID,
		SetCustomer: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.reloadCustomer(t).Balance)
	var moved models.Customer
	require.NoError(t, f.db.First(&moved, other.ID).Error)
	assert.Equal(t, 236.0, moved.Balance)

	// detaching reverses the balance entirely
	_, err = f.svc.Update(f.company.ID, f.user.ID, inv.ID, UpdateInput{
		CustomerID:  nil,
		SetCustomer: true,
	})
	require.NoError(t, err)
	require.NoError(t, f.db.First(&moved, other.ID).Error)
	assert.Equal(t, 0.0, moved.Balance)
}

func TestDeleteInvoice(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		CustomerID: &f.customer.ID,
		Items:      []ItemInput{{ProductID: f.product.ID, Qty: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.company.ID, f.user.ID, inv.ID))

	assert.Equal(t, 50.0, f.reloadProduct(t).CurrentStock)
	assert.Equal(t, 0.0, f.reloadCustomer(t).Balance)

	_, err = f.svc.Get(f.company.ID, inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	var orphans int64
	require.NoError(t, f.db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&orphans).Error)
	assert.Equal(t, int64(0), orphans)
}

func TestDeleteRejectsPaid(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items:    []ItemInput{{ProductID: f.product.ID, Qty: 1}},
		Payments: []PaymentInput{{Method: "cash", Amount: 118}},
	})
	require.NoError(t, err)

	err = f.svc.Delete(f.company.ID, f.user.ID, inv.ID)
	assert.ErrorIs(t, err, ErrDeletePaid)
}

func TestCompanyScoping(t *testing.T) {
	f := newFixture(t)

	otherCompany := models.Company{Name: "Rival", Email: "rival@example.com", InvoicePrefix: "RVL"}
	require.NoError(t, f.db.Create(&otherCompany).Error)

	inv, err := f.svc.Create(f.company.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.Get(otherCompany.ID, inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	_, err = f.svc.Create(otherCompany.ID, f.user.ID, CreateInput{
		Items: []ItemInput{{ProductID: f.product.ID, Qty: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound, "products are invisible across companies")
}

func TestConvertQuotation(t *testing.T) {
	f := newFixture(t)

	quote := models.Quotation{
		CompanyID:   f.company.ID,
		QuoteNo:     "QUO-00001",
		Date:        time.Now(),
		Status:      models.QuoteDraft,
		CustomerID:  &f.customer.ID,
		Subtotal:    300,
		TaxTotal:    0,
		TotalAmount: 300,
		CreatedByID: f.user.ID,
		Items: []models.QuotationItem{
			{ProductID: f.product.ID, Name: "Widget", Qty: 3, UnitPrice: 100, Total: 300},
		},
	}
	require.NoError(t, f.db.Create(&quote).Error)

	inv, err := f.svc.ConvertQuotation(f.company.ID, f.user.ID, quote.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusIssued, inv.Status)
	assert.Equal(t, "INV-00001", inv.InvoiceNo)
	assert.Equal(t, 300.0, inv.TotalAmount)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 3.0, inv.Items[0].Qty)

	// conversion carries no side effects; settling runs through the invoice
	assert.Equal(t, 50.0, f.reloadProduct(t).CurrentStock)
	assert.Equal(t, 0.0, f.reloadCustomer(t).Balance)

	_, err = f.svc.ConvertQuotation(f.company.ID, f.user.ID, 9999)
	assert.ErrorIs(t, err, ErrQuotationNotFound)
}
