package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"
)

// --- Custom Service Errors for Products ---
var (
	ErrProductNameConflict = errors.New("product name already exists")
	ErrProductInUse        = errors.New("product cannot be deleted as it is referenced in other records")
)

// --- Product DTOs ---
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
}

// --- ProductService Interface ---
type ProductService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(filters models.ProductFilters) ([]models.Product, int, error)
	// UpdateProduct applies field updates; a price change appends a
	// "manual update" entry to the product's price history.
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
	GetPriceHistory(productID int64) ([]models.PriceHistoryEntry, error)
	// GetLowStockProducts lists active products at or below the configured
	// low-stock threshold.
	GetLowStockProducts() ([]models.Product, error)
}

// --- productService Implementation ---
type productService struct {
	productRepo  repositories.ProductRepository
	settingsRepo repositories.SettingsRepository
	db           *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(pr repositories.ProductRepository, str repositories.SettingsRepository, db *sql.DB) ProductService {
	return &productService{productRepo: pr, settingsRepo: str, db: db}
}

func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    isActive,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.productRepo.Create(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrProductNameConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	entry := models.PriceHistoryEntry{
		ProductID: product.ID,
		Price:     product.Price,
		Reason:    "initial price",
	}
	if _, err := s.productRepo.AppendPriceHistory(tx, &entry); err != nil {
		return nil, fmt.Errorf("failed to record initial price history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product creation: %w", err)
	}
	return product, nil
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

func (s *productService) GetProducts(filters models.ProductFilters) ([]models.Product, int, error) {
	products, totalCount, err := s.productRepo.List(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, totalCount, nil
}

func (s *productService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product for update: %w", err)
	}

	priceChanged := false
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: product name cannot be empty if provided", ErrValidation)
		}
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		priceChanged = *req.Price != product.Price
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
		}
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.productRepo.Update(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrProductNameConflict, err.Error())
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if priceChanged {
		entry := models.PriceHistoryEntry{
			ProductID: product.ID,
			Price:     product.Price,
			Reason:    "manual update",
		}
		if _, err := s.productRepo.AppendPriceHistory(tx, &entry); err != nil {
			return nil, fmt.Errorf("failed to record price history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return s.productRepo.GetByID(productID)
}

func (s *productService) DeleteProduct(productID int64) error {
	if err := s.productRepo.Delete(s.db, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		if strings.Contains(err.Error(), "referenced by sales") {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *productService) GetPriceHistory(productID int64) ([]models.PriceHistoryEntry, error) {
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}
	entries, err := s.productRepo.GetPriceHistory(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	return entries, nil
}

func (s *productService) GetLowStockProducts() ([]models.Product, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for low-stock listing: %w", err)
	}
	products, err := s.productRepo.ListLowStock(settings.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	return products, nil
}
