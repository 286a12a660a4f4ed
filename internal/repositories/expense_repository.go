package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"velas_backend/internal/models"
)

// ExpenseRepository defines the interface for expense-related database operations.
type ExpenseRepository interface {
	Create(executor SQLExecutor, expense *models.Expense) (int64, error)
	GetByID(id int64) (*models.Expense, error)
	List(category *string, page, pageSize int) ([]models.Expense, int, error)
	Update(executor SQLExecutor, expense *models.Expense) error
	Delete(executor SQLExecutor, id int64) error
}

type expenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new instance of ExpenseRepository.
func NewExpenseRepository(db *sql.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(executor SQLExecutor, expense *models.Expense) (int64, error) {
	query := `INSERT INTO expenses (description, amount, category, incurred_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          RETURNING id, created_at, updated_at`
	if expense.IncurredAt.IsZero() {
		expense.IncurredAt = time.Now()
	}
	err := executor.QueryRow(query,
		expense.Description, expense.Amount, expense.Category, expense.IncurredAt, time.Now(),
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: creating expense: %v", ErrDatabaseError, err)
	}
	return expense.ID, nil
}

func (r *expenseRepository) GetByID(id int64) (*models.Expense, error) {
	expense := &models.Expense{}
	query := `SELECT id, description, amount, category, incurred_at, created_at, updated_at
	          FROM expenses WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&expense.ID, &expense.Description, &expense.Amount, &expense.Category,
		&expense.IncurredAt, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting expense by ID %d: %v", ErrDatabaseError, id, err)
	}
	return expense, nil
}

func (r *expenseRepository) List(category *string, page, pageSize int) ([]models.Expense, int, error) {
	expenses := []models.Expense{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, description, amount, category, incurred_at, created_at, updated_at,
	    COUNT(*) OVER() AS total_count
	  FROM expenses`)

	var args []interface{}
	argCount := 1
	if category != nil && *category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE LOWER(category) = LOWER($%d)", argCount))
		args = append(args, *category)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY incurred_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing expenses: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var expense models.Expense
		if err := rows.Scan(
			&expense.ID, &expense.Description, &expense.Amount, &expense.Category,
			&expense.IncurredAt, &expense.CreatedAt, &expense.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning expense: %v", ErrDatabaseError, err)
		}
		expenses = append(expenses, expense)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating expenses: %v", ErrDatabaseError, err)
	}
	return expenses, totalCount, nil
}

func (r *expenseRepository) Update(executor SQLExecutor, expense *models.Expense) error {
	query := `UPDATE expenses SET description = $1, amount = $2, category = $3, incurred_at = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query,
		expense.Description, expense.Amount, expense.Category, expense.IncurredAt, time.Now(), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating expense ID %d: %v", ErrDatabaseError, expense.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expenseRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting expense ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
