package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"
)

var ErrExpenseNotFound = errors.New("expense not found")

type CreateExpenseRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    *string `json:"category"`
	IncurredAt  *string `json:"incurred_at"` // Format YYYY-MM-DD, defaults to today
}

type UpdateExpenseRequest struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	IncurredAt  *string  `json:"incurred_at"` // Format YYYY-MM-DD
}

type ExpenseService interface {
	CreateExpense(req CreateExpenseRequest) (*models.Expense, error)
	GetExpenseByID(expenseID int64) (*models.Expense, error)
	GetExpenses(category *string, page, pageSize int) ([]models.Expense, int, error)
	UpdateExpense(expenseID int64, req UpdateExpenseRequest) (*models.Expense, error)
	DeleteExpense(expenseID int64) error
}

type expenseService struct {
	expenseRepo repositories.ExpenseRepository
	db          *sql.DB
}

// NewExpenseService creates a new instance of ExpenseService.
func NewExpenseService(repo repositories.ExpenseRepository, db *sql.DB) ExpenseService {
	return &expenseService{expenseRepo: repo, db: db}
}

func parseExpenseDate(dateStr *string) (time.Time, error) {
	if dateStr == nil || strings.TrimSpace(*dateStr) == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return parsed, nil
}

func (s *expenseService) CreateExpense(req CreateExpenseRequest) (*models.Expense, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: expense description cannot be empty", ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: expense amount must be positive", ErrValidation)
	}
	incurredAt, err := parseExpenseDate(req.IncurredAt)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Category:    req.Category,
		IncurredAt:  incurredAt,
	}
	if _, err := s.expenseRepo.Create(s.db, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) GetExpenseByID(expenseID int64) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense by ID: %w", err)
	}
	return expense, nil
}

func (s *expenseService) GetExpenses(category *string, page, pageSize int) ([]models.Expense, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	expenses, totalCount, err := s.expenseRepo.List(category, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get expenses: %w", err)
	}
	return expenses, totalCount, nil
}

func (s *expenseService) UpdateExpense(expenseID int64, req UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to find expense for update: %w", err)
	}

	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, fmt.Errorf("%w: expense description cannot be empty if provided", ErrValidation)
		}
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: expense amount must be positive", ErrValidation)
		}
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = req.Category
	}
	if req.IncurredAt != nil {
		incurredAt, parseErr := parseExpenseDate(req.IncurredAt)
		if parseErr != nil {
			return nil, parseErr
		}
		expense.IncurredAt = incurredAt
	}

	if err := s.expenseRepo.Update(s.db, expense); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return s.expenseRepo.GetByID(expenseID)
}

func (s *expenseService) DeleteExpense(expenseID int64) error {
	if err := s.expenseRepo.Delete(s.db, expenseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
