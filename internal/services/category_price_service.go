package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"
)

// --- Custom Service Errors for Category Prices ---
var (
	ErrCategoryPriceNotFound = errors.New("category price not found")
	ErrDuplicateCategory     = errors.New("category name already exists")
	ErrValidation            = errors.New("validation error")
)

// --- Category Price DTOs ---
type CreateCategoryPriceRequest struct {
	CategoryName string  `json:"category_name" binding:"required"`
	Price        float64 `json:"price"`
}

type UpdateCategoryPriceRequest struct {
	CategoryName *string  `json:"category_name"`
	Price        *float64 `json:"price"`
}

type ApplyCategoryPriceRequest struct {
	CategoryName string  `json:"category_name" binding:"required"`
	Price        float64 `json:"price"`
}

// ApplyCategoryPriceResult reports how many products a bulk apply touched.
type ApplyCategoryPriceResult struct {
	CategoryName     string  `json:"category_name"`
	Price            float64 `json:"price"`
	ProductsAffected int64   `json:"products_affected"`
}

// --- CategoryPriceService Interface ---
type CategoryPriceService interface {
	Create(req CreateCategoryPriceRequest) (*models.CategoryPrice, error)
	GetByID(id int64) (*models.CategoryPrice, error)
	FindByName(categoryName string) (*models.CategoryPrice, error)
	List(page, pageSize int) ([]models.CategoryPrice, int, error)
	// Update renames and/or reprices a ledger entry and propagates the new
	// price to every product still tagged with the entry's previous name.
	Update(id int64, req UpdateCategoryPriceRequest) (*models.CategoryPrice, error)
	Delete(id int64) error
	// ApplyToProducts applies a price directly to all current members of a
	// category, independent of create/update. Idempotent on prices; each call
	// appends one history entry per affected product.
	ApplyToProducts(req ApplyCategoryPriceRequest) (*ApplyCategoryPriceResult, error)
}

// --- categoryPriceService Implementation ---
type categoryPriceService struct {
	categoryPriceRepo repositories.CategoryPriceRepository
	productRepo       repositories.ProductRepository
	db                *sql.DB
}

// NewCategoryPriceService creates a new instance of CategoryPriceService.
func NewCategoryPriceService(
	cpr repositories.CategoryPriceRepository,
	pr repositories.ProductRepository,
	db *sql.DB,
) CategoryPriceService {
	return &categoryPriceService{
		categoryPriceRepo: cpr,
		productRepo:       pr,
		db:                db,
	}
}

func (s *categoryPriceService) Create(req CreateCategoryPriceRequest) (*models.CategoryPrice, error) {
	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	existing, err := s.categoryPriceRepo.FindByName(name)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check category name uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: '%s' matches existing category '%s'", ErrDuplicateCategory, name, existing.CategoryName)
	}

	cp := &models.CategoryPrice{
		CategoryName: name,
		Price:        req.Price,
	}
	if _, err := s.categoryPriceRepo.Create(s.db, cp); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, err.Error())
		}
		return nil, fmt.Errorf("failed to create category price: %w", err)
	}
	return cp, nil
}

func (s *categoryPriceService) GetByID(id int64) (*models.CategoryPrice, error) {
	cp, err := s.categoryPriceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryPriceNotFound
		}
		return nil, fmt.Errorf("failed to get category price: %w", err)
	}
	return cp, nil
}

func (s *categoryPriceService) FindByName(categoryName string) (*models.CategoryPrice, error) {
	cp, err := s.categoryPriceRepo.FindByName(categoryName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryPriceNotFound
		}
		return nil, fmt.Errorf("failed to find category price by name: %w", err)
	}
	return cp, nil
}

func (s *categoryPriceService) List(page, pageSize int) ([]models.CategoryPrice, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	prices, totalCount, err := s.categoryPriceRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list category prices: %w", err)
	}
	return prices, totalCount, nil
}

// Update propagates the new price to products matching the entry's *previous*
// name. Renaming only changes future matches; already-tagged products keep
// their category string until re-tagged by hand, and completed sales are
// never altered.
func (s *categoryPriceService) Update(id int64, req UpdateCategoryPriceRequest) (*models.CategoryPrice, error) {
	cp, err := s.categoryPriceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryPriceNotFound
		}
		return nil, fmt.Errorf("failed to find category price for update: %w", err)
	}
	previousName := cp.CategoryName

	if req.CategoryName != nil {
		name := strings.TrimSpace(*req.CategoryName)
		if name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty if provided", ErrValidation)
		}
		existing, findErr := s.categoryPriceRepo.FindByName(name)
		if findErr != nil && !errors.Is(findErr, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check category name uniqueness: %w", findErr)
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("%w: '%s' matches existing category '%s'", ErrDuplicateCategory, name, existing.CategoryName)
		}
		cp.CategoryName = name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		cp.Price = *req.Price
	}

	// Ledger update and propagation commit or roll back together so a failure
	// never leaves some products repriced and others not.
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.categoryPriceRepo.Update(tx, cp); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, err.Error())
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryPriceNotFound
		}
		return nil, fmt.Errorf("failed to update category price: %w", err)
	}

	reason := fmt.Sprintf("category update: %s", previousName)
	if _, err := s.productRepo.ApplyCategoryPrice(tx, previousName, cp.Price, reason); err != nil {
		return nil, fmt.Errorf("failed to propagate category price: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category price update: %w", err)
	}
	return s.categoryPriceRepo.GetByID(id)
}

func (s *categoryPriceService) Delete(id int64) error {
	if err := s.categoryPriceRepo.Delete(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryPriceNotFound
		}
		return fmt.Errorf("failed to delete category price: %w", err)
	}
	return nil
}

func (s *categoryPriceService) ApplyToProducts(req ApplyCategoryPriceRequest) (*ApplyCategoryPriceResult, error) {
	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	reason := fmt.Sprintf("category update: %s", name)
	affected, err := s.productRepo.ApplyCategoryPrice(tx, name, req.Price, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to apply category price: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category price apply: %w", err)
	}

	return &ApplyCategoryPriceResult{
		CategoryName:     name,
		Price:            req.Price,
		ProductsAffected: affected,
	}, nil
}
