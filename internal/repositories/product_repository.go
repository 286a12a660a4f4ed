package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"velas_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	Create(executor SQLExecutor, product *models.Product) (int64, error)
	GetByID(id int64) (*models.Product, error)
	List(filters models.ProductFilters) ([]models.Product, int, error)
	Update(executor SQLExecutor, product *models.Product) error
	Delete(executor SQLExecutor, id int64) error

	// ApplyCategoryPrice overwrites the price of every product whose category
	// matches categoryName case-insensitively and appends one price-history
	// row per affected product with the given reason. Both statements run on
	// the given executor so the caller can scope them in one transaction.
	// Returns the number of affected products.
	ApplyCategoryPrice(executor SQLExecutor, categoryName string, price float64, reason string) (int64, error)

	// AdjustStock atomically applies delta to a product's stock level and
	// returns the new level.
	AdjustStock(executor SQLExecutor, productID int64, delta int) (int, error)

	AppendPriceHistory(executor SQLExecutor, entry *models.PriceHistoryEntry) (int64, error)
	GetPriceHistory(productID int64) ([]models.PriceHistoryEntry, error)

	// ListLowStock returns active products whose stock is at or below threshold.
	ListLowStock(threshold int) ([]models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, description, category, price, stock, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query,
		product.Name, product.Description, product.Category, product.Price,
		product.Stock, product.IsActive, time.Now(),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: product '%s' already exists (constraint: %s)", ErrDuplicateKey, product.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT id, name, description, category, price, stock, is_active, created_at, updated_at
	          FROM products WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Category,
		&product.Price, &product.Stock, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) List(filters models.ProductFilters) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, name, description, category, price, stock, is_active,
	    created_at, updated_at, COUNT(*) OVER() AS total_count
	  FROM products`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *filters.IsActive)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name")

	page := filters.Page
	pageSize := filters.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Category,
			&product.Price, &product.Stock, &product.IsActive,
			&product.CreatedAt, &product.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *productRepository) Update(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET name = $1, description = $2, category = $3, price = $4,
	            stock = $5, is_active = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		product.Name, product.Description, product.Category, product.Price,
		product.Stock, product.IsActive, time.Now(), product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: product '%s' already exists (constraint: %s)", ErrDuplicateKey, product.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: product ID %d cannot be deleted as it is referenced by sales (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) ApplyCategoryPrice(executor SQLExecutor, categoryName string, price float64, reason string) (int64, error) {
	now := time.Now()
	result, err := executor.Exec(
		`UPDATE products SET price = $1, updated_at = $2 WHERE LOWER(category) = LOWER($3)`,
		price, now, categoryName,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: applying category price for '%s': %v", ErrDatabaseError, categoryName, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return 0, nil
	}

	// Exactly one history row per affected product per call.
	_, err = executor.Exec(
		`INSERT INTO price_history (product_id, price, reason, recorded_at)
		 SELECT id, $1, $2, $3 FROM products WHERE LOWER(category) = LOWER($4)`,
		price, reason, now, categoryName,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: recording price history for category '%s': %v", ErrDatabaseError, categoryName, err)
	}
	return affected, nil
}

func (r *productRepository) AdjustStock(executor SQLExecutor, productID int64, delta int) (int, error) {
	var newStock int
	query := `UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3 RETURNING stock`
	err := executor.QueryRow(query, delta, time.Now(), productID).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return newStock, nil
}

func (r *productRepository) AppendPriceHistory(executor SQLExecutor, entry *models.PriceHistoryEntry) (int64, error) {
	query := `INSERT INTO price_history (product_id, price, reason, recorded_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	err := executor.QueryRow(query, entry.ProductID, entry.Price, entry.Reason, entry.RecordedAt).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: appending price history for product %d: %v", ErrDatabaseError, entry.ProductID, err)
	}
	return entry.ID, nil
}

func (r *productRepository) GetPriceHistory(productID int64) ([]models.PriceHistoryEntry, error) {
	entries := []models.PriceHistoryEntry{}
	query := `SELECT id, product_id, price, reason, recorded_at
	          FROM price_history WHERE product_id = $1 ORDER BY recorded_at, id`
	rows, err := r.db.Query(query, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting price history for product %d: %v", ErrDatabaseError, productID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.PriceHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Price, &entry.Reason, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning price history entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating price history: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

func (r *productRepository) ListLowStock(threshold int) ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT id, name, description, category, price, stock, is_active, created_at, updated_at
	          FROM products WHERE is_active = TRUE AND stock <= $1 ORDER BY stock, name`
	rows, err := r.db.Query(query, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: listing low-stock products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Category,
			&product.Price, &product.Stock, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning low-stock product: %v", ErrDatabaseError, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low-stock products: %v", ErrDatabaseError, err)
	}
	return products, nil
}
