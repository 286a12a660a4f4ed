package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"velas_backend/internal/models"
)

// SaleRepository defines the interface for sale-related database operations.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error)
	GetSaleByID(saleID int64) (*models.Sale, error)
	GetSales(filters models.SaleFilters) ([]models.Sale, int, error)
	UpdateSaleStatus(executor SQLExecutor, saleID int64, newStatus string, updatedAt time.Time) error

	CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error)
	GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales
	            (customer_id, status, subtotal, discount_percentage, discount_amount,
	             total_amount, jar_credits_used, payment_method, notes, sale_time,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	          RETURNING id`

	if sale.SaleTime.IsZero() {
		sale.SaleTime = time.Now()
	}
	err := executor.QueryRow(query,
		sale.CustomerID, sale.Status, sale.Subtotal, sale.DiscountPercentage, sale.DiscountAmount,
		sale.TotalAmount, sale.JarCreditsUsed, sale.PaymentMethod, sale.Notes, sale.SaleTime,
		time.Now(),
	).Scan(&sale.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return sale.ID, nil
}

func (r *saleRepository) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `SELECT s.id, s.customer_id, s.status, s.subtotal, s.discount_percentage,
	                 s.discount_amount, s.total_amount, s.jar_credits_used, s.payment_method,
	                 s.notes, s.sale_time, s.created_at, s.updated_at,
	                 c.full_name AS customer_name
	          FROM sales s
	          LEFT JOIN customers c ON s.customer_id = c.id
	          WHERE s.id = $1`
	err := r.db.QueryRow(query, saleID).Scan(
		&sale.ID, &sale.CustomerID, &sale.Status, &sale.Subtotal, &sale.DiscountPercentage,
		&sale.DiscountAmount, &sale.TotalAmount, &sale.JarCreditsUsed, &sale.PaymentMethod,
		&sale.Notes, &sale.SaleTime, &sale.CreatedAt, &sale.UpdatedAt,
		&sale.CustomerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale by ID %d: %v", ErrDatabaseError, saleID, err)
	}
	return sale, nil
}

func (r *saleRepository) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	sales := []models.Sale{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT s.id, s.customer_id, s.status, s.subtotal, s.discount_percentage,
               s.discount_amount, s.total_amount, s.jar_credits_used, s.payment_method,
               s.notes, s.sale_time, s.created_at, s.updated_at,
               c.full_name AS customer_name,
               COUNT(*) OVER() AS total_count
        FROM sales s
        LEFT JOIN customers c ON s.customer_id = c.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("s.customer_id = $%d", argCounter))
		args = append(args, *filters.CustomerID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
			conditions = append(conditions, fmt.Sprintf("s.sale_time BETWEEN $%d AND $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY s.sale_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, (filters.Page-1)*filters.PageSize)
			argCounter++
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sale models.Sale
		if err := rows.Scan(
			&sale.ID, &sale.CustomerID, &sale.Status, &sale.Subtotal, &sale.DiscountPercentage,
			&sale.DiscountAmount, &sale.TotalAmount, &sale.JarCreditsUsed, &sale.PaymentMethod,
			&sale.Notes, &sale.SaleTime, &sale.CreatedAt, &sale.UpdatedAt,
			&sale.CustomerName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating sales: %v", ErrDatabaseError, err)
	}
	return sales, totalCount, nil
}

func (r *saleRepository) UpdateSaleStatus(executor SQLExecutor, saleID int64, newStatus string, updatedAt time.Time) error {
	result, err := executor.Exec(`UPDATE sales SET status = $1, updated_at = $2 WHERE id = $3`, newStatus, updatedAt, saleID)
	if err != nil {
		return fmt.Errorf("%w: updating sale %d status: %v", ErrDatabaseError, saleID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepository) CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error) {
	query := `INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total_price)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating sale item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *saleRepository) GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error) {
	items := []models.SaleItem{}
	query := `SELECT id, sale_id, product_id, quantity, unit_price, total_price
	          FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.db.Query(query, saleID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting sale items for sale %d: %v", ErrDatabaseError, saleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("%w: scanning sale item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale items: %v", ErrDatabaseError, err)
	}
	return items, nil
}
