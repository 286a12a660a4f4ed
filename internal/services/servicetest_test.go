package services

// In-memory repository fakes and a no-op database/sql driver so that
// transaction-using service flows can run without Postgres. The fakes ignore
// the executor argument; the stub driver only supports Begin/Commit/Rollback.

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"

	"github.com/stretchr/testify/require"
)

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not prepare statements")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("servicestub", stubDriver{})
}

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("servicestub", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- settings fake ---

type fakeSettingsRepo struct {
	settings *models.Settings
	saves    int
}

func (f *fakeSettingsRepo) Get() (*models.Settings, error) {
	if f.settings == nil {
		f.settings = models.DefaultSettings()
	}
	copied := *f.settings
	return &copied, nil
}

func (f *fakeSettingsRepo) Save(_ repositories.SQLExecutor, settings *models.Settings) error {
	copied := *settings
	copied.ID = 1
	f.settings = &copied
	f.saves++
	return nil
}

// --- category price fake ---

type fakeCategoryPriceRepo struct {
	entries map[int64]*models.CategoryPrice
	nextID  int64
}

func newFakeCategoryPriceRepo() *fakeCategoryPriceRepo {
	return &fakeCategoryPriceRepo{entries: make(map[int64]*models.CategoryPrice), nextID: 1}
}

func (f *fakeCategoryPriceRepo) Create(_ repositories.SQLExecutor, cp *models.CategoryPrice) (int64, error) {
	for _, existing := range f.entries {
		if strings.EqualFold(existing.CategoryName, cp.CategoryName) {
			return 0, repositories.ErrDuplicateKey
		}
	}
	cp.ID = f.nextID
	f.nextID++
	copied := *cp
	f.entries[cp.ID] = &copied
	return cp.ID, nil
}

func (f *fakeCategoryPriceRepo) GetByID(id int64) (*models.CategoryPrice, error) {
	cp, ok := f.entries[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *cp
	return &copied, nil
}

func (f *fakeCategoryPriceRepo) FindByName(categoryName string) (*models.CategoryPrice, error) {
	for _, cp := range f.entries {
		if strings.EqualFold(cp.CategoryName, categoryName) {
			copied := *cp
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategoryPriceRepo) List(page, pageSize int) ([]models.CategoryPrice, int, error) {
	var out []models.CategoryPrice
	for _, cp := range f.entries {
		out = append(out, *cp)
	}
	return out, len(out), nil
}

func (f *fakeCategoryPriceRepo) Update(_ repositories.SQLExecutor, cp *models.CategoryPrice) error {
	if _, ok := f.entries[cp.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range f.entries {
		if id != cp.ID && strings.EqualFold(existing.CategoryName, cp.CategoryName) {
			return repositories.ErrDuplicateKey
		}
	}
	copied := *cp
	f.entries[cp.ID] = &copied
	return nil
}

func (f *fakeCategoryPriceRepo) Delete(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.entries[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

// --- product fake ---

type fakeProductRepo struct {
	products map[int64]*models.Product
	history  []models.PriceHistoryEntry
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*models.Product), nextID: 1}
}

func (f *fakeProductRepo) addProduct(p models.Product) int64 {
	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = &p
	return p.ID
}

func (f *fakeProductRepo) Create(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	product.ID = f.addProduct(*product)
	return product.ID, nil
}

func (f *fakeProductRepo) GetByID(id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductRepo) List(filters models.ProductFilters) ([]models.Product, int, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeProductRepo) Update(_ repositories.SQLExecutor, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductRepo) Delete(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) ApplyCategoryPrice(_ repositories.SQLExecutor, categoryName string, price float64, reason string) (int64, error) {
	var affected int64
	now := time.Now()
	for _, p := range f.products {
		if p.Category != nil && strings.EqualFold(*p.Category, categoryName) {
			p.Price = price
			f.history = append(f.history, models.PriceHistoryEntry{
				ProductID:  p.ID,
				Price:      price,
				Reason:     reason,
				RecordedAt: now,
			})
			affected++
		}
	}
	return affected, nil
}

func (f *fakeProductRepo) AdjustStock(_ repositories.SQLExecutor, productID int64, delta int) (int, error) {
	p, ok := f.products[productID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	p.Stock += delta
	return p.Stock, nil
}

func (f *fakeProductRepo) AppendPriceHistory(_ repositories.SQLExecutor, entry *models.PriceHistoryEntry) (int64, error) {
	entry.ID = int64(len(f.history) + 1)
	f.history = append(f.history, *entry)
	return entry.ID, nil
}

func (f *fakeProductRepo) GetPriceHistory(productID int64) ([]models.PriceHistoryEntry, error) {
	var out []models.PriceHistoryEntry
	for _, e := range f.history {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListLowStock(threshold int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsActive && p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- customer fake ---

type fakeCustomerRepo struct {
	customers map[int64]*models.Customer
	nextID    int64
	// adjustErr, when set, is returned by AdjustCredits regardless of state.
	adjustErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[int64]*models.Customer), nextID: 1}
}

func (f *fakeCustomerRepo) addCustomer(c models.Customer) int64 {
	c.ID = f.nextID
	f.nextID++
	f.customers[c.ID] = &c
	return c.ID
}

func (f *fakeCustomerRepo) Create(_ repositories.SQLExecutor, customer *models.Customer) (int64, error) {
	if customer.PhoneNumber != nil {
		for _, existing := range f.customers {
			if existing.PhoneNumber != nil && *existing.PhoneNumber == *customer.PhoneNumber {
				return 0, repositories.ErrDuplicateKey
			}
		}
	}
	customer.ID = f.addCustomer(*customer)
	return customer.ID, nil
}

func (f *fakeCustomerRepo) GetByID(id int64) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerRepo) GetByPhoneNumber(phoneNumber string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.PhoneNumber != nil && *c.PhoneNumber == phoneNumber {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCustomerRepo) List(page, pageSize int, searchTerm *string) ([]models.Customer, int, error) {
	var out []models.Customer
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeCustomerRepo) Update(_ repositories.SQLExecutor, customer *models.Customer) error {
	existing, ok := f.customers[customer.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	copied := *customer
	copied.JarCredits = existing.JarCredits
	f.customers[customer.ID] = &copied
	return nil
}

func (f *fakeCustomerRepo) Delete(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.customers[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) AdjustCredits(_ repositories.SQLExecutor, customerID int64, delta int) (int, error) {
	if f.adjustErr != nil {
		return 0, f.adjustErr
	}
	c, ok := f.customers[customerID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	if c.JarCredits+delta < 0 {
		return 0, repositories.ErrNegativeBalance
	}
	c.JarCredits += delta
	return c.JarCredits, nil
}

// --- sale fake ---

type fakeSaleRepo struct {
	sales  map[int64]*models.Sale
	items  map[int64][]models.SaleItem
	nextID int64
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales:  make(map[int64]*models.Sale),
		items:  make(map[int64][]models.SaleItem),
		nextID: 1,
	}
}

func (f *fakeSaleRepo) CreateSale(_ repositories.SQLExecutor, sale *models.Sale) (int64, error) {
	sale.ID = f.nextID
	f.nextID++
	copied := *sale
	f.sales[sale.ID] = &copied
	return sale.ID, nil
}

func (f *fakeSaleRepo) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale, ok := f.sales[saleID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *sale
	return &copied, nil
}

func (f *fakeSaleRepo) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	var out []models.Sale
	for _, sale := range f.sales {
		out = append(out, *sale)
	}
	return out, len(out), nil
}

func (f *fakeSaleRepo) UpdateSaleStatus(_ repositories.SQLExecutor, saleID int64, newStatus string, updatedAt time.Time) error {
	sale, ok := f.sales[saleID]
	if !ok {
		return repositories.ErrNotFound
	}
	sale.Status = newStatus
	sale.UpdatedAt = updatedAt
	return nil
}

func (f *fakeSaleRepo) CreateSaleItem(_ repositories.SQLExecutor, item *models.SaleItem) (int64, error) {
	item.ID = int64(len(f.items[item.SaleID]) + 1)
	f.items[item.SaleID] = append(f.items[item.SaleID], *item)
	return item.ID, nil
}

func (f *fakeSaleRepo) GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error) {
	return f.items[saleID], nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }
