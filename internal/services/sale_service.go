package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"
	"velas_backend/pkg/utils"
)

// Custom Errors
var (
	ErrSaleNotFound       = errors.New("sale not found")
	ErrInvalidSaleStatus  = errors.New("invalid sale status")
	ErrSaleAlreadyClosed  = errors.New("sale is already cancelled")
	ErrProductNotFound    = errors.New("product not found or not available")
	ErrInsufficientStock  = errors.New("insufficient stock for product")
	// ErrCreditConflict signals that credit redemption failed at commit time.
	// Pricing clamps redemption at the available balance, so this only occurs
	// when a concurrent sale consumed the credits between preview and commit.
	// The caller may retry.
	ErrCreditConflict = errors.New("jar credit balance changed concurrently, please retry")
)

// Sale status constants
const (
	StatusPending         = "pending"
	StatusAwaitingPayment = "awaiting_payment"
	StatusPaid            = "paid"
	StatusCancelled       = "cancelled"
)

// --- DTOs ---

// CreateSaleItemRequest is one cart line of a sale request.
type CreateSaleItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// PreviewSaleRequest prices a cart without persisting anything.
type PreviewSaleRequest struct {
	CustomerID *int64                  `json:"customer_id"`
	Items      []CreateSaleItemRequest `json:"items" binding:"required,dive"`
}

// CreateSaleRequest creates and commits a sale.
type CreateSaleRequest struct {
	CustomerID    *int64                  `json:"customer_id"`
	Status        string                  `json:"status"`
	PaymentMethod *string                 `json:"payment_method"`
	Notes         *string                 `json:"notes"`
	Items         []CreateSaleItemRequest `json:"items" binding:"required,dive"`
}

// UpdateSaleStatusRequest changes a sale's status.
type UpdateSaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- SaleService Interface ---
type SaleService interface {
	// PreviewSale computes the pricing for a cart. No credits are consumed
	// and nothing is persisted; settings are read fresh on every call.
	PreviewSale(req PreviewSaleRequest) (*PricingResult, error)
	// CreateSale prices the cart and commits the sale, its items, the stock
	// decrements and the jar-credit redemption in a single transaction.
	CreateSale(req CreateSaleRequest) (*models.Sale, error)
	GetSales(filters models.SaleFilters) ([]models.Sale, int, error)
	GetSaleByID(saleID int64) (*models.Sale, error)
	UpdateSaleStatus(saleID int64, req UpdateSaleStatusRequest) (*models.Sale, error)
	// CancelSale cancels a committed sale, refunding the jar credits it
	// redeemed and returning its items to stock.
	CancelSale(saleID int64) (*models.Sale, error)
}

// --- saleService Implementation ---
type saleService struct {
	saleRepo     repositories.SaleRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	settingsRepo repositories.SettingsRepository
	db           *sql.DB
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(
	sr repositories.SaleRepository,
	pr repositories.ProductRepository,
	cr repositories.CustomerRepository,
	str repositories.SettingsRepository,
	db *sql.DB,
) SaleService {
	return &saleService{
		saleRepo:     sr,
		productRepo:  pr,
		customerRepo: cr,
		settingsRepo: str,
		db:           db,
	}
}

// resolveCart turns item requests into pricing lines with current catalog
// prices, checking product availability and stock.
func (s *saleService) resolveCart(items []CreateSaleItemRequest) ([]PricingLine, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: sale must contain at least one item", ErrValidation)
	}
	lines := make([]PricingLine, 0, len(items))
	for _, itemReq := range items {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product ID %d must be positive", ErrValidation, itemReq.ProductID)
		}
		product, err := s.productRepo.GetByID(itemReq.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product ID %d", ErrProductNotFound, itemReq.ProductID)
			}
			return nil, fmt.Errorf("failed to fetch product %d: %w", itemReq.ProductID, err)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("%w: product '%s' (ID: %d) is inactive", ErrProductNotFound, product.Name, product.ID)
		}
		if product.Stock < itemReq.Quantity {
			return nil, fmt.Errorf("%w '%s' (ID: %d). Requested: %d, Available: %d",
				ErrInsufficientStock, product.Name, product.ID, itemReq.Quantity, product.Stock)
		}
		lines = append(lines, PricingLine{
			ProductID: product.ID,
			Quantity:  itemReq.Quantity,
			UnitPrice: product.Price,
		})
	}
	return lines, nil
}

func (s *saleService) lookupCustomer(customerID *int64) (*models.Customer, error) {
	if customerID == nil {
		return nil, nil
	}
	customer, err := s.customerRepo.GetByID(*customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", *customerID, err)
	}
	return customer, nil
}

func (s *saleService) PreviewSale(req PreviewSaleRequest) (*PricingResult, error) {
	lines, err := s.resolveCart(req.Items)
	if err != nil {
		return nil, err
	}
	customer, err := s.lookupCustomer(req.CustomerID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for pricing: %w", err)
	}
	result := ComputeSalePricing(lines, customer, settings, time.Now())
	return &result, nil
}

func (s *saleService) CreateSale(req CreateSaleRequest) (*models.Sale, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if status == StatusCancelled || !isValidSaleStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSaleStatus, status)
	}

	lines, err := s.resolveCart(req.Items)
	if err != nil {
		return nil, err
	}
	customer, err := s.lookupCustomer(req.CustomerID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for pricing: %w", err)
	}

	pricing := ComputeSalePricing(lines, customer, settings, time.Now())

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	sale := models.Sale{
		CustomerID:         req.CustomerID,
		Status:             status,
		Subtotal:           pricing.Subtotal,
		DiscountPercentage: pricing.DiscountPercentage,
		DiscountAmount:     pricing.DiscountAmount,
		TotalAmount:        pricing.TotalAmount,
		JarCreditsUsed:     pricing.JarUnitsRedeemed,
		PaymentMethod:      req.PaymentMethod,
		Notes:              req.Notes,
		SaleTime:           time.Now(),
	}
	saleID, err := s.saleRepo.CreateSale(tx, &sale)
	if err != nil {
		return nil, fmt.Errorf("failed to create sale record: %w", err)
	}

	for _, line := range lines {
		item := models.SaleItem{
			SaleID:     saleID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.UnitPrice * float64(line.Quantity),
		}
		if _, err := s.saleRepo.CreateSaleItem(tx, &item); err != nil {
			return nil, fmt.Errorf("failed to create sale item (product_id: %d): %w", line.ProductID, err)
		}
		if _, err := s.productRepo.AdjustStock(tx, line.ProductID, -line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to update stock for product %d: %w", line.ProductID, err)
		}
	}

	if customer != nil && pricing.JarUnitsRedeemed > 0 {
		if _, err := s.customerRepo.AdjustCredits(tx, customer.ID, -pricing.JarUnitsRedeemed); err != nil {
			if errors.Is(err, repositories.ErrNegativeBalance) {
				// Pricing clamped at the balance we read, so the balance must
				// have changed underneath us. Surface a retryable conflict.
				utils.LogError(err, "CreateSale: credit redemption rejected after clamped pricing")
				return nil, fmt.Errorf("%w: customer ID %d", ErrCreditConflict, customer.ID)
			}
			return nil, fmt.Errorf("failed to redeem jar credits for customer %d: %w", customer.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale transaction: %w", err)
	}
	return s.GetSaleByID(saleID)
}

func (s *saleService) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	sales, totalCount, err := s.saleRepo.GetSales(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get sales: %w", err)
	}
	return sales, totalCount, nil
}

func (s *saleService) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale by ID: %w", err)
	}
	items, err := s.saleRepo.GetSaleItemsBySaleID(saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale items for sale %d: %w", saleID, err)
	}
	sale.Items = items
	return sale, nil
}

func (s *saleService) UpdateSaleStatus(saleID int64, req UpdateSaleStatusRequest) (*models.Sale, error) {
	if !isValidSaleStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSaleStatus, req.Status)
	}
	if req.Status == StatusCancelled {
		return s.CancelSale(saleID)
	}

	sale, err := s.saleRepo.GetSaleByID(saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to fetch sale for status update: %w", err)
	}
	if sale.Status == StatusCancelled {
		return nil, ErrSaleAlreadyClosed
	}

	if err := s.saleRepo.UpdateSaleStatus(s.db, saleID, req.Status, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}
	return s.GetSaleByID(saleID)
}

// CancelSale issues the compensating credit refund for whatever the sale
// redeemed at commit time and returns its items to stock, all in one
// transaction with the status change.
func (s *saleService) CancelSale(saleID int64) (*models.Sale, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	sale, err := s.saleRepo.GetSaleByID(saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to fetch sale for cancellation: %w", err)
	}
	if sale.Status == StatusCancelled {
		return nil, ErrSaleAlreadyClosed
	}

	items, err := s.saleRepo.GetSaleItemsBySaleID(saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sale items for stock return: %w", err)
	}
	for _, item := range items {
		if _, err := s.productRepo.AdjustStock(tx, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to return stock for product %d: %w", item.ProductID, err)
		}
	}

	if sale.CustomerID != nil && sale.JarCreditsUsed > 0 {
		if _, err := s.customerRepo.AdjustCredits(tx, *sale.CustomerID, sale.JarCreditsUsed); err != nil {
			return nil, fmt.Errorf("failed to refund jar credits for customer %d: %w", *sale.CustomerID, err)
		}
	}

	if err := s.saleRepo.UpdateSaleStatus(tx, saleID, StatusCancelled, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale cancellation: %w", err)
	}
	return s.GetSaleByID(saleID)
}

func isValidSaleStatus(status string) bool {
	switch status {
	case StatusPending, StatusAwaitingPayment, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}
