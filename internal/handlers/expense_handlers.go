package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"velas_backend/internal/services"
	"velas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler holds the expense service.
type ExpenseHandler struct {
	expenseService services.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(es services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: es}
}

// CreateExpense records a business expense.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req services.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	expense, err := h.expenseService.CreateExpense(req)
	if err != nil {
		utils.LogError(err, "CreateExpense: Error from expenseService.CreateExpense")
		switch {
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDateFormat):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid expense data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create expense.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// GetExpenses lists expenses, optionally filtered by category.
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	expenses, totalCount, err := h.expenseService.GetExpenses(category, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetExpenses: Error from expenseService.GetExpenses")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch expenses.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": expenses, "total_count": totalCount, "page": page, "page_size": pageSize})
}

// GetExpenseByID fetches one expense.
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid expense ID format.", err.Error()))
		return
	}
	expense, err := h.expenseService.GetExpenseByID(id)
	if err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Expense not found.", err.Error()))
			return
		}
		utils.LogError(err, "GetExpenseByID: Error from expenseService.GetExpenseByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch expense.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, expense)
}

// UpdateExpense applies a partial update.
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid expense ID format.", err.Error()))
		return
	}
	var req services.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	expense, err := h.expenseService.UpdateExpense(id, req)
	if err != nil {
		utils.LogError(err, "UpdateExpense: Error from expenseService.UpdateExpense")
		switch {
		case errors.Is(err, services.ErrExpenseNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Expense not found.", err.Error()))
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDateFormat):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid expense data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update expense.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes an expense.
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid expense ID format.", err.Error()))
		return
	}
	if err := h.expenseService.DeleteExpense(id); err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Expense not found.", err.Error()))
			return
		}
		utils.LogError(err, "DeleteExpense: Error from expenseService.DeleteExpense")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete expense.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
