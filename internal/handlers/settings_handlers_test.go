package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"velas_backend/internal/models"
	"velas_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsEngine(svc *stubSettingsService) *gin.Engine {
	engine := gin.New()
	handler := NewSettingsHandler(svc)
	engine.GET("/settings", handler.GetSettings)
	engine.PUT("/settings", handler.UpdateSettings)
	engine.POST("/settings/reset", handler.ResetSettings)
	return engine
}

func TestSettingsHandlerGet(t *testing.T) {
	svc := &stubSettingsService{
		getFn: func() (*models.Settings, error) {
			s := models.DefaultSettings()
			s.JarDiscountAmount = 2.5
			return s, nil
		},
	}
	engine := newSettingsEngine(svc)

	w := performRequest(t, engine, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Settings
	decodeBody(t, w, &got)
	assert.Equal(t, "Velas Aromáticas", got.CompanyName)
	assert.Equal(t, 2.5, got.JarDiscountAmount)
}

func TestSettingsHandlerUpdate(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		var captured services.UpdateSettingsRequest
		svc := &stubSettingsService{
			updateFn: func(req services.UpdateSettingsRequest) (*models.Settings, error) {
				captured = req
				return &models.Settings{ID: 1, CompanyName: req.CompanyName, LowStockThreshold: req.LowStockThreshold}, nil
			},
		}
		engine := newSettingsEngine(svc)

		w := performRequest(t, engine, http.MethodPut, "/settings", gin.H{
			"company_name":        "Velas del Sur",
			"low_stock_threshold": 5,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Velas del Sur", captured.CompanyName)
		assert.Equal(t, 5, captured.LowStockThreshold)
	})

	t.Run("missing company name fails binding", func(t *testing.T) {
		svc := &stubSettingsService{
			updateFn: func(req services.UpdateSettingsRequest) (*models.Settings, error) {
				t.Fatal("service must not be called on a binding failure")
				return nil, nil
			},
		}
		engine := newSettingsEngine(svc)

		w := performRequest(t, engine, http.MethodPut, "/settings", gin.H{"low_stock_threshold": 5})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("out-of-bounds values map to 400", func(t *testing.T) {
		svc := &stubSettingsService{
			updateFn: func(req services.UpdateSettingsRequest) (*models.Settings, error) {
				return nil, fmt.Errorf("%w: birthday discount percent must be between 0 and 100", services.ErrSettingsValidation)
			},
		}
		engine := newSettingsEngine(svc)

		w := performRequest(t, engine, http.MethodPut, "/settings", gin.H{
			"company_name":              "Velas",
			"low_stock_threshold":       5,
			"birthday_discount_percent": 120,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
	})
}

func TestSettingsHandlerReset(t *testing.T) {
	svc := &stubSettingsService{
		resetFn: func() (*models.Settings, error) {
			return models.DefaultSettings(), nil
		},
	}
	engine := newSettingsEngine(svc)

	w := performRequest(t, engine, http.MethodPost, "/settings/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Settings
	decodeBody(t, w, &got)
	assert.Equal(t, 10, got.LowStockThreshold)
	assert.Zero(t, got.BirthdayDiscountPercent)
}
