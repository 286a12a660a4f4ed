package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"velas_backend/internal/models"
)

// settingsRowID is the fixed primary key of the settings singleton row.
const settingsRowID = 1

// SettingsRepository defines the interface for settings persistence.
// Settings are a singleton; Get creates the default row when absent.
type SettingsRepository interface {
	Get() (*models.Settings, error)
	Save(executor SQLExecutor, settings *models.Settings) error
}

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get() (*models.Settings, error) {
	settings := &models.Settings{}
	query := `SELECT id, company_name, company_phone, company_email, company_address,
	                 low_stock_threshold, birthday_discount_percent, jar_discount_amount,
	                 created_at, updated_at
	          FROM settings WHERE id = $1`
	err := r.db.QueryRow(query, settingsRowID).Scan(
		&settings.ID, &settings.CompanyName, &settings.CompanyPhone, &settings.CompanyEmail,
		&settings.CompanyAddress, &settings.LowStockThreshold, &settings.BirthdayDiscountPercent,
		&settings.JarDiscountAmount, &settings.CreatedAt, &settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := models.DefaultSettings()
			if saveErr := r.Save(r.db, defaults); saveErr != nil {
				return nil, saveErr
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("%w: getting settings: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

// Save upserts the singleton row. Last write wins; a single operator edits
// settings at a time.
func (r *settingsRepository) Save(executor SQLExecutor, settings *models.Settings) error {
	query := `INSERT INTO settings
	            (id, company_name, company_phone, company_email, company_address,
	             low_stock_threshold, birthday_discount_percent, jar_discount_amount,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	          ON CONFLICT (id)
	          DO UPDATE SET company_name = EXCLUDED.company_name,
	                        company_phone = EXCLUDED.company_phone,
	                        company_email = EXCLUDED.company_email,
	                        company_address = EXCLUDED.company_address,
	                        low_stock_threshold = EXCLUDED.low_stock_threshold,
	                        birthday_discount_percent = EXCLUDED.birthday_discount_percent,
	                        jar_discount_amount = EXCLUDED.jar_discount_amount,
	                        updated_at = EXCLUDED.updated_at
	          RETURNING created_at, updated_at`
	settings.ID = settingsRowID
	err := executor.QueryRow(query,
		settings.ID, settings.CompanyName, settings.CompanyPhone, settings.CompanyEmail,
		settings.CompanyAddress, settings.LowStockThreshold, settings.BirthdayDiscountPercent,
		settings.JarDiscountAmount, time.Now(),
	).Scan(&settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: saving settings: %v", ErrDatabaseError, err)
	}
	return nil
}
