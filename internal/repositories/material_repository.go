package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"velas_backend/internal/models"

	"github.com/lib/pq"
)

// MaterialRepository defines the interface for raw-material database operations.
type MaterialRepository interface {
	Create(executor SQLExecutor, material *models.Material) (int64, error)
	GetByID(id int64) (*models.Material, error)
	List(page, pageSize int) ([]models.Material, int, error)
	Update(executor SQLExecutor, material *models.Material) error
	Delete(executor SQLExecutor, id int64) error
}

type materialRepository struct {
	db *sql.DB
}

// NewMaterialRepository creates a new instance of MaterialRepository.
func NewMaterialRepository(db *sql.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(executor SQLExecutor, material *models.Material) (int64, error) {
	query := `INSERT INTO materials (name, unit, quantity, unit_cost, supplier, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query,
		material.Name, material.Unit, material.Quantity, material.UnitCost,
		material.Supplier, material.Notes, time.Now(),
	).Scan(&material.ID, &material.CreatedAt, &material.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: material '%s' already exists (constraint: %s)", ErrDuplicateKey, material.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating material: %v", ErrDatabaseError, err)
	}
	return material.ID, nil
}

func (r *materialRepository) GetByID(id int64) (*models.Material, error) {
	material := &models.Material{}
	query := `SELECT id, name, unit, quantity, unit_cost, supplier, notes, created_at, updated_at
	          FROM materials WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&material.ID, &material.Name, &material.Unit, &material.Quantity, &material.UnitCost,
		&material.Supplier, &material.Notes, &material.CreatedAt, &material.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting material by ID %d: %v", ErrDatabaseError, id, err)
	}
	return material, nil
}

func (r *materialRepository) List(page, pageSize int) ([]models.Material, int, error) {
	materials := []models.Material{}
	totalCount := 0
	query := `SELECT id, name, unit, quantity, unit_cost, supplier, notes, created_at, updated_at,
	                 COUNT(*) OVER() AS total_count
	          FROM materials
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing materials: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var material models.Material
		if err := rows.Scan(
			&material.ID, &material.Name, &material.Unit, &material.Quantity, &material.UnitCost,
			&material.Supplier, &material.Notes, &material.CreatedAt, &material.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning material: %v", ErrDatabaseError, err)
		}
		materials = append(materials, material)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating materials: %v", ErrDatabaseError, err)
	}
	return materials, totalCount, nil
}

func (r *materialRepository) Update(executor SQLExecutor, material *models.Material) error {
	query := `UPDATE materials SET name = $1, unit = $2, quantity = $3, unit_cost = $4,
	            supplier = $5, notes = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		material.Name, material.Unit, material.Quantity, material.UnitCost,
		material.Supplier, material.Notes, time.Now(), material.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: material '%s' already exists (constraint: %s)", ErrDuplicateKey, material.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating material ID %d: %v", ErrDatabaseError, material.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *materialRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting material ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
