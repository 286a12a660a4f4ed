package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"velas_backend/internal/models"

	"github.com/lib/pq"
)

// CategoryPriceRepository defines the interface for category-price persistence.
// Category names are unique case-insensitively (unique index on LOWER(name)).
type CategoryPriceRepository interface {
	Create(executor SQLExecutor, cp *models.CategoryPrice) (int64, error)
	GetByID(id int64) (*models.CategoryPrice, error)
	// FindByName performs a case-insensitive lookup; returns ErrNotFound when
	// no entry matches.
	FindByName(categoryName string) (*models.CategoryPrice, error)
	List(page, pageSize int) ([]models.CategoryPrice, int, error)
	Update(executor SQLExecutor, cp *models.CategoryPrice) error
	Delete(executor SQLExecutor, id int64) error
}

type categoryPriceRepository struct {
	db *sql.DB
}

// NewCategoryPriceRepository creates a new instance of CategoryPriceRepository.
func NewCategoryPriceRepository(db *sql.DB) CategoryPriceRepository {
	return &categoryPriceRepository{db: db}
}

func (r *categoryPriceRepository) Create(executor SQLExecutor, cp *models.CategoryPrice) (int64, error) {
	query := `INSERT INTO category_prices (category_name, price, created_at, updated_at)
	          VALUES ($1, $2, $3, $3)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query, cp.CategoryName, cp.Price, time.Now()).
		Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: category price for '%s' already exists (constraint: %s)", ErrDuplicateKey, cp.CategoryName, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating category price: %v", ErrDatabaseError, err)
	}
	return cp.ID, nil
}

func (r *categoryPriceRepository) GetByID(id int64) (*models.CategoryPrice, error) {
	cp := &models.CategoryPrice{}
	query := `SELECT id, category_name, price, created_at, updated_at FROM category_prices WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&cp.ID, &cp.CategoryName, &cp.Price, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category price by ID %d: %v", ErrDatabaseError, id, err)
	}
	return cp, nil
}

func (r *categoryPriceRepository) FindByName(categoryName string) (*models.CategoryPrice, error) {
	cp := &models.CategoryPrice{}
	query := `SELECT id, category_name, price, created_at, updated_at
	          FROM category_prices WHERE LOWER(category_name) = LOWER($1)`
	err := r.db.QueryRow(query, categoryName).Scan(&cp.ID, &cp.CategoryName, &cp.Price, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding category price by name '%s': %v", ErrDatabaseError, categoryName, err)
	}
	return cp, nil
}

func (r *categoryPriceRepository) List(page, pageSize int) ([]models.CategoryPrice, int, error) {
	prices := []models.CategoryPrice{}
	totalCount := 0
	query := `SELECT id, category_name, price, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM category_prices
	          ORDER BY category_name
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing category prices: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cp models.CategoryPrice
		if err := rows.Scan(&cp.ID, &cp.CategoryName, &cp.Price, &cp.CreatedAt, &cp.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning category price: %v", ErrDatabaseError, err)
		}
		prices = append(prices, cp)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating category prices: %v", ErrDatabaseError, err)
	}
	return prices, totalCount, nil
}

func (r *categoryPriceRepository) Update(executor SQLExecutor, cp *models.CategoryPrice) error {
	query := `UPDATE category_prices SET category_name = $1, price = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, cp.CategoryName, cp.Price, time.Now(), cp.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: category price for '%s' already exists (constraint: %s)", ErrDuplicateKey, cp.CategoryName, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating category price ID %d: %v", ErrDatabaseError, cp.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes only the ledger entry. Product prices and their history are
// untouched.
func (r *categoryPriceRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM category_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting category price ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
