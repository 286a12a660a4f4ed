package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"
)

// ErrSettingsValidation is returned when a settings update carries values
// outside their allowed bounds. The stored settings are left unchanged.
var ErrSettingsValidation = errors.New("settings validation error")

// UpdateSettingsRequest is a full replacement of the settings singleton.
type UpdateSettingsRequest struct {
	CompanyName             string  `json:"company_name" binding:"required"`
	CompanyPhone            *string `json:"company_phone"`
	CompanyEmail            *string `json:"company_email"`
	CompanyAddress          *string `json:"company_address"`
	LowStockThreshold       int     `json:"low_stock_threshold"`
	BirthdayDiscountPercent float64 `json:"birthday_discount_percent"`
	JarDiscountAmount       float64 `json:"jar_discount_amount"`
}

// SettingsService manages the process-wide policy configuration.
type SettingsService interface {
	Get() (*models.Settings, error)
	Update(req UpdateSettingsRequest) (*models.Settings, error)
	ResetToDefault() (*models.Settings, error)
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
	db           *sql.DB
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(repo repositories.SettingsRepository, db *sql.DB) SettingsService {
	return &settingsService{settingsRepo: repo, db: db}
}

func (s *settingsService) Get() (*models.Settings, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Update(req UpdateSettingsRequest) (*models.Settings, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, fmt.Errorf("%w: company name cannot be empty", ErrSettingsValidation)
	}
	if req.LowStockThreshold < 1 {
		return nil, fmt.Errorf("%w: low stock threshold must be at least 1", ErrSettingsValidation)
	}
	if req.BirthdayDiscountPercent < 0 || req.BirthdayDiscountPercent > 100 {
		return nil, fmt.Errorf("%w: birthday discount percent must be between 0 and 100", ErrSettingsValidation)
	}
	if req.JarDiscountAmount < 0 {
		return nil, fmt.Errorf("%w: jar discount amount cannot be negative", ErrSettingsValidation)
	}

	settings := &models.Settings{
		CompanyName:             req.CompanyName,
		CompanyPhone:            req.CompanyPhone,
		CompanyEmail:            req.CompanyEmail,
		CompanyAddress:          req.CompanyAddress,
		LowStockThreshold:       req.LowStockThreshold,
		BirthdayDiscountPercent: req.BirthdayDiscountPercent,
		JarDiscountAmount:       req.JarDiscountAmount,
	}
	if err := s.settingsRepo.Save(s.db, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) ResetToDefault() (*models.Settings, error) {
	defaults := models.DefaultSettings()
	if err := s.settingsRepo.Save(s.db, defaults); err != nil {
		return nil, fmt.Errorf("failed to reset settings: %w", err)
	}
	return defaults, nil
}
