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

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	Create(executor SQLExecutor, customer *models.Customer) (int64, error)
	GetByID(id int64) (*models.Customer, error)
	GetByPhoneNumber(phoneNumber string) (*models.Customer, error)
	List(page, pageSize int, searchTerm *string) ([]models.Customer, int, error)
	Update(executor SQLExecutor, customer *models.Customer) error
	Delete(executor SQLExecutor, id int64) error

	// AdjustCredits atomically applies delta to the customer's jar-credit
	// balance and returns the new balance. The UPDATE carries the non-negative
	// guard, so the read-modify-write happens in a single statement at the
	// storage boundary; concurrent adjustments for the same customer serialize
	// on the row lock. Returns ErrNegativeBalance when the guard rejects the
	// write and ErrNotFound for unknown customers.
	AdjustCredits(executor SQLExecutor, customerID int64, delta int) (int, error)
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers (full_name, phone_number, email, birth_date, jar_credits, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          RETURNING id, created_at, updated_at`

	var birthDate sql.NullTime
	if customer.BirthDate != nil && !customer.BirthDate.IsZero() {
		birthDate = sql.NullTime{Time: *customer.BirthDate, Valid: true}
	}

	err := executor.QueryRow(query,
		customer.FullName, customer.PhoneNumber, customer.Email, birthDate,
		customer.JarCredits, customer.Notes, time.Now(),
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return customer.ID, nil
}

func (r *customerRepository) GetByID(id int64) (*models.Customer, error) {
	return r.getBy("id = $1", id)
}

func (r *customerRepository) GetByPhoneNumber(phoneNumber string) (*models.Customer, error) {
	return r.getBy("phone_number = $1", phoneNumber)
}

func (r *customerRepository) getBy(condition string, arg interface{}) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT id, full_name, phone_number, email, birth_date, jar_credits, notes, created_at, updated_at
	          FROM customers WHERE ` + condition

	var birthDate sql.NullTime
	err := r.db.QueryRow(query, arg).Scan(
		&customer.ID, &customer.FullName, &customer.PhoneNumber, &customer.Email, &birthDate,
		&customer.JarCredits, &customer.Notes, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer: %v", ErrDatabaseError, err)
	}
	if birthDate.Valid {
		customer.BirthDate = &birthDate.Time
	}
	return customer, nil
}

func (r *customerRepository) List(page, pageSize int, searchTerm *string) ([]models.Customer, int, error) {
	customers := []models.Customer{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, full_name, phone_number, email, birth_date, jar_credits, notes,
	    created_at, updated_at, COUNT(*) OVER() AS total_count
	  FROM customers`)

	var args []interface{}
	argCount := 1
	if searchTerm != nil && *searchTerm != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE full_name ILIKE $%d OR phone_number ILIKE $%d", argCount, argCount))
		args = append(args, "%"+*searchTerm+"%")
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY full_name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var customer models.Customer
		var birthDate sql.NullTime
		if err := rows.Scan(
			&customer.ID, &customer.FullName, &customer.PhoneNumber, &customer.Email, &birthDate,
			&customer.JarCredits, &customer.Notes, &customer.CreatedAt, &customer.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		if birthDate.Valid {
			customer.BirthDate = &birthDate.Time
		}
		customers = append(customers, customer)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customers: %v", ErrDatabaseError, err)
	}
	return customers, totalCount, nil
}

func (r *customerRepository) Update(executor SQLExecutor, customer *models.Customer) error {
	query := `UPDATE customers SET full_name = $1, phone_number = $2, email = $3, birth_date = $4,
	            notes = $5, updated_at = $6
	          WHERE id = $7`

	var birthDate sql.NullTime
	if customer.BirthDate != nil && !customer.BirthDate.IsZero() {
		birthDate = sql.NullTime{Time: *customer.BirthDate, Valid: true}
	}

	result, err := executor.Exec(query,
		customer.FullName, customer.PhoneNumber, customer.Email, birthDate,
		customer.Notes, time.Now(), customer.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating customer ID %d: %v", ErrDatabaseError, customer.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: customer ID %d cannot be deleted as they are referenced by sales (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting customer ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) AdjustCredits(executor SQLExecutor, customerID int64, delta int) (int, error) {
	var newBalance int
	query := `UPDATE customers
	          SET jar_credits = jar_credits + $1, updated_at = $2
	          WHERE id = $3 AND jar_credits + $1 >= 0
	          RETURNING jar_credits`
	err := executor.QueryRow(query, delta, time.Now(), customerID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing customer from a rejected balance.
			var exists bool
			checkErr := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists)
			if checkErr != nil {
				return 0, fmt.Errorf("%w: checking customer %d existence: %v", ErrDatabaseError, customerID, checkErr)
			}
			if !exists {
				return 0, ErrNotFound
			}
			return 0, fmt.Errorf("%w: customer ID %d, delta %d", ErrNegativeBalance, customerID, delta)
		}
		return 0, fmt.Errorf("%w: adjusting credits for customer ID %d: %v", ErrDatabaseError, customerID, err)
	}
	return newBalance, nil
}
