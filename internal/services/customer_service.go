package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"
)

// --- Custom Service Errors for Customers ---
var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrPhoneNumberExists = errors.New("phone number already exists")
	ErrDateFormat        = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrNegativeBalance   = errors.New("jar credit balance cannot go negative")
	ErrCustomerInUse     = errors.New("customer cannot be deleted as they are referenced in other records")
)

// --- Customer DTOs ---
type CreateCustomerRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	BirthDate   *string `json:"birth_date"` // Format YYYY-MM-DD
	JarCredits  *int    `json:"jar_credits"`
	Notes       *string `json:"notes"`
}

type UpdateCustomerRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	BirthDate   *string `json:"birth_date"` // Format YYYY-MM-DD
	Notes       *string `json:"notes"`
}

type AdjustCreditsRequest struct {
	Delta  int     `json:"delta" binding:"required"`
	Reason *string `json:"reason"`
}

// --- CustomerService Interface ---
type CustomerService interface {
	CreateCustomer(req CreateCustomerRequest) (*models.Customer, error)
	GetCustomerByID(customerID int64) (*models.Customer, error)
	GetCustomers(page, pageSize int, searchTerm *string) ([]models.Customer, int, error)
	UpdateCustomer(customerID int64, req UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(customerID int64) error

	// GetCredits returns the customer's current jar-credit balance.
	GetCredits(customerID int64) (int, error)
	// AdjustCredits is the only credit mutator: manual edits, jar returns and
	// redemptions all route through it. Returns the new balance, or
	// ErrNegativeBalance when the adjustment would go below zero.
	AdjustCredits(customerID int64, delta int) (int, error)
}

// --- customerService Implementation ---
type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: repo, db: db}
}

var customerEmailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

func (s *customerService) validatePhoneUniqueness(phoneNumber *string, customerID int64) error {
	if phoneNumber == nil || strings.TrimSpace(*phoneNumber) == "" {
		return nil
	}
	existing, err := s.customerRepo.GetByPhoneNumber(strings.TrimSpace(*phoneNumber))
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check phone number uniqueness: %w", err)
	}
	if existing != nil && existing.ID != customerID {
		return ErrPhoneNumberExists
	}
	return nil
}

func parseBirthDate(birthDateStr *string) (*time.Time, error) {
	if birthDateStr == nil || strings.TrimSpace(*birthDateStr) == "" {
		return nil, nil
	}
	birthDate, err := time.Parse("2006-01-02", *birthDateStr)
	if err != nil {
		return nil, ErrDateFormat
	}
	if birthDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: birth date cannot be in the future", ErrValidation)
	}
	return &birthDate, nil
}

func (s *customerService) CreateCustomer(req CreateCustomerRequest) (*models.Customer, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full name cannot be empty", ErrValidation)
	}
	if req.Email != nil && *req.Email != "" {
		if !customerEmailRegex.MatchString(strings.ToLower(strings.TrimSpace(*req.Email))) {
			return nil, fmt.Errorf("%w: email format is invalid", ErrValidation)
		}
	}
	if err := s.validatePhoneUniqueness(req.PhoneNumber, 0); err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	initialCredits := 0
	if req.JarCredits != nil {
		if *req.JarCredits < 0 {
			return nil, fmt.Errorf("%w: initial jar credits cannot be negative", ErrNegativeBalance)
		}
		initialCredits = *req.JarCredits
	}

	customer := &models.Customer{
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		BirthDate:   birthDate,
		JarCredits:  initialCredits,
		Notes:       req.Notes,
	}
	if _, err := s.customerRepo.Create(s.db, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneNumberExists
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomerByID(customerID int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by ID: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomers(page, pageSize int, searchTerm *string) ([]models.Customer, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	customers, totalCount, err := s.customerRepo.List(page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, totalCount, nil
}

func (s *customerService) UpdateCustomer(customerID int64, req UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer for update: %w", err)
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, fmt.Errorf("%w: full name cannot be empty if provided", ErrValidation)
		}
		customer.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.PhoneNumber != nil {
		if err := s.validatePhoneUniqueness(req.PhoneNumber, customerID); err != nil {
			return nil, err
		}
		customer.PhoneNumber = req.PhoneNumber
	}
	if req.Email != nil {
		if *req.Email != "" && !customerEmailRegex.MatchString(strings.ToLower(strings.TrimSpace(*req.Email))) {
			return nil, fmt.Errorf("%w: email format is invalid", ErrValidation)
		}
		customer.Email = req.Email
	}
	if req.BirthDate != nil {
		birthDate, parseErr := parseBirthDate(req.BirthDate)
		if parseErr != nil {
			return nil, parseErr
		}
		customer.BirthDate = birthDate
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	if err := s.customerRepo.Update(s.db, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneNumberExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return s.customerRepo.GetByID(customerID)
}

func (s *customerService) DeleteCustomer(customerID int64) error {
	if err := s.customerRepo.Delete(s.db, customerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		if strings.Contains(err.Error(), "referenced by sales") {
			return ErrCustomerInUse
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (s *customerService) GetCredits(customerID int64) (int, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrCustomerNotFound
		}
		return 0, fmt.Errorf("failed to get customer credits: %w", err)
	}
	return customer.JarCredits, nil
}

func (s *customerService) AdjustCredits(customerID int64, delta int) (int, error) {
	newBalance, err := s.customerRepo.AdjustCredits(s.db, customerID, delta)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrCustomerNotFound
		}
		if errors.Is(err, repositories.ErrNegativeBalance) {
			return 0, fmt.Errorf("%w: adjustment of %d rejected", ErrNegativeBalance, delta)
		}
		return 0, fmt.Errorf("failed to adjust credits: %w", err)
	}
	return newBalance, nil
}
