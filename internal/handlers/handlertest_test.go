package handlers

// Shared helpers for handler tests: routes are mounted on a test engine and
// exercised through httptest against stub services.

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"velas_backend/internal/models"
	"velas_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// --- stub settings service ---

type stubSettingsService struct {
	getFn    func() (*models.Settings, error)
	updateFn func(services.UpdateSettingsRequest) (*models.Settings, error)
	resetFn  func() (*models.Settings, error)
}

func (s *stubSettingsService) Get() (*models.Settings, error) { return s.getFn() }
func (s *stubSettingsService) Update(req services.UpdateSettingsRequest) (*models.Settings, error) {
	return s.updateFn(req)
}
func (s *stubSettingsService) ResetToDefault() (*models.Settings, error) { return s.resetFn() }

// --- stub sale service ---

type stubSaleService struct {
	previewFn      func(services.PreviewSaleRequest) (*services.PricingResult, error)
	createFn       func(services.CreateSaleRequest) (*models.Sale, error)
	getSalesFn     func(models.SaleFilters) ([]models.Sale, int, error)
	getSaleByIDFn  func(int64) (*models.Sale, error)
	updateStatusFn func(int64, services.UpdateSaleStatusRequest) (*models.Sale, error)
	cancelFn       func(int64) (*models.Sale, error)
}

func (s *stubSaleService) PreviewSale(req services.PreviewSaleRequest) (*services.PricingResult, error) {
	return s.previewFn(req)
}
func (s *stubSaleService) CreateSale(req services.CreateSaleRequest) (*models.Sale, error) {
	return s.createFn(req)
}
func (s *stubSaleService) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	return s.getSalesFn(filters)
}
func (s *stubSaleService) GetSaleByID(id int64) (*models.Sale, error) { return s.getSaleByIDFn(id) }
func (s *stubSaleService) UpdateSaleStatus(id int64, req services.UpdateSaleStatusRequest) (*models.Sale, error) {
	return s.updateStatusFn(id, req)
}
func (s *stubSaleService) CancelSale(id int64) (*models.Sale, error) { return s.cancelFn(id) }
