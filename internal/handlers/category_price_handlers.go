package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"velas_backend/internal/services"
	"velas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CategoryPriceHandler holds the category price service.
type CategoryPriceHandler struct {
	categoryPriceService services.CategoryPriceService
}

// NewCategoryPriceHandler creates a new CategoryPriceHandler.
func NewCategoryPriceHandler(cps services.CategoryPriceService) *CategoryPriceHandler {
	return &CategoryPriceHandler{categoryPriceService: cps}
}

// CreateCategoryPrice handles creation of a new category price entry.
func (h *CategoryPriceHandler) CreateCategoryPrice(c *gin.Context) {
	var req services.CreateCategoryPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	cp, err := h.categoryPriceService.Create(req)
	if err != nil {
		utils.LogError(err, "CreateCategoryPrice: Error from categoryPriceService.Create")
		if errors.Is(err, services.ErrDuplicateCategory) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category price data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create category price.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, cp)
}

// GetCategoryPrices lists category prices with pagination.
func (h *CategoryPriceHandler) GetCategoryPrices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if name := c.Query("name"); name != "" {
		cp, err := h.categoryPriceService.FindByName(name)
		if err != nil {
			if errors.Is(err, services.ErrCategoryPriceNotFound) {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category price not found.", err.Error()))
				return
			}
			utils.LogError(err, "GetCategoryPrices: Error from categoryPriceService.FindByName")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to find category price.", "Internal error"))
			return
		}
		c.JSON(http.StatusOK, cp)
		return
	}

	prices, totalCount, err := h.categoryPriceService.List(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetCategoryPrices: Error from categoryPriceService.List")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch category prices.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": prices, "total_count": totalCount, "page": page, "page_size": pageSize})
}

// GetCategoryPriceByID fetches a single category price entry.
func (h *CategoryPriceHandler) GetCategoryPriceByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category price ID format.", err.Error()))
		return
	}
	cp, err := h.categoryPriceService.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrCategoryPriceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category price not found.", err.Error()))
			return
		}
		utils.LogError(err, "GetCategoryPriceByID: Error from categoryPriceService.GetByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch category price.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, cp)
}

// UpdateCategoryPrice updates a category price entry and propagates the new
// price to matching products.
func (h *CategoryPriceHandler) UpdateCategoryPrice(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category price ID format.", err.Error()))
		return
	}
	var req services.UpdateCategoryPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	cp, err := h.categoryPriceService.Update(id, req)
	if err != nil {
		utils.LogError(err, "UpdateCategoryPrice: Error from categoryPriceService.Update")
		if errors.Is(err, services.ErrCategoryPriceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category price not found.", err.Error()))
		} else if errors.Is(err, services.ErrDuplicateCategory) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category price data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update category price.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, cp)
}

// DeleteCategoryPrice removes a category price entry. Product prices keep
// their last propagated values.
func (h *CategoryPriceHandler) DeleteCategoryPrice(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category price ID format.", err.Error()))
		return
	}
	if err := h.categoryPriceService.Delete(id); err != nil {
		if errors.Is(err, services.ErrCategoryPriceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category price not found.", err.Error()))
			return
		}
		utils.LogError(err, "DeleteCategoryPrice: Error from categoryPriceService.Delete")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete category price.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category price deleted successfully"})
}

// ApplyCategoryPrice bulk-applies a price to all current members of a
// category, independent of the ledger entry lifecycle.
func (h *CategoryPriceHandler) ApplyCategoryPrice(c *gin.Context) {
	var req services.ApplyCategoryPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.categoryPriceService.ApplyToProducts(req)
	if err != nil {
		utils.LogError(err, "ApplyCategoryPrice: Error from categoryPriceService.ApplyToProducts")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid apply request.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to apply category price.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
