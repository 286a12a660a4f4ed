package handlers

import (
	"errors"
	"net/http"

	"velas_backend/internal/models"
	"velas_backend/internal/services"
	"velas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

func (h *SaleHandler) respondSaleError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from saleService")
	switch {
	case errors.Is(err, services.ErrSaleNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more products not found or unavailable.", err.Error()))
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for one or more products.", err.Error()))
	case errors.Is(err, services.ErrCreditConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Jar credit balance changed concurrently, please retry.", err.Error()))
	case errors.Is(err, services.ErrSaleAlreadyClosed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Sale is already cancelled.", err.Error()))
	case errors.Is(err, services.ErrInvalidSaleStatus), errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale data.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Sale operation failed.", "Internal error"))
	}
}

// PreviewSale prices a cart without committing anything.
func (h *SaleHandler) PreviewSale(c *gin.Context) {
	var req services.PreviewSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	result, err := h.saleService.PreviewSale(req)
	if err != nil {
		h.respondSaleError(c, err, "PreviewSale")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateSale prices and commits a sale.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req services.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	sale, err := h.saleService.CreateSale(req)
	if err != nil {
		h.respondSaleError(c, err, "CreateSale")
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// GetSales lists sales with filters.
func (h *SaleHandler) GetSales(c *gin.Context) {
	var filters models.SaleFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters.", err.Error()))
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	sales, totalCount, err := h.saleService.GetSales(filters)
	if err != nil {
		utils.LogError(err, "GetSales: Error from saleService.GetSales")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sales.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sales, "total_count": totalCount, "page": filters.Page, "page_size": filters.PageSize})
}

// GetSaleByID fetches a single sale with its items.
func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale ID format.", err.Error()))
		return
	}
	sale, err := h.saleService.GetSaleByID(id)
	if err != nil {
		h.respondSaleError(c, err, "GetSaleByID")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// UpdateSaleStatus changes a sale's status. Transitioning to cancelled
// refunds redeemed jar credits and returns stock.
func (h *SaleHandler) UpdateSaleStatus(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale ID format.", err.Error()))
		return
	}
	var req services.UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	sale, err := h.saleService.UpdateSaleStatus(id, req)
	if err != nil {
		h.respondSaleError(c, err, "UpdateSaleStatus")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// CancelSale cancels a committed sale.
func (h *SaleHandler) CancelSale(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale ID format.", err.Error()))
		return
	}
	sale, err := h.saleService.CancelSale(id)
	if err != nil {
		h.respondSaleError(c, err, "CancelSale")
		return
	}
	c.JSON(http.StatusOK, sale)
}
