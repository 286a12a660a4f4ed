package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"velas_backend/internal/services"
	"velas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MaterialHandler holds the material service.
type MaterialHandler struct {
	materialService services.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(ms services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: ms}
}

// CreateMaterial registers a new raw material.
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req services.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	material, err := h.materialService.CreateMaterial(req)
	if err != nil {
		utils.LogError(err, "CreateMaterial: Error from materialService.CreateMaterial")
		switch {
		case errors.Is(err, services.ErrMaterialNameConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A material with this name already exists.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid material data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create material.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, material)
}

// GetMaterials lists materials with pagination.
func (h *MaterialHandler) GetMaterials(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	materials, totalCount, err := h.materialService.GetMaterials(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetMaterials: Error from materialService.GetMaterials")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch materials.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": materials, "total_count": totalCount, "page": page, "page_size": pageSize})
}

// GetMaterialByID fetches one material.
func (h *MaterialHandler) GetMaterialByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid material ID format.", err.Error()))
		return
	}
	material, err := h.materialService.GetMaterialByID(id)
	if err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Material not found.", err.Error()))
			return
		}
		utils.LogError(err, "GetMaterialByID: Error from materialService.GetMaterialByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch material.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, material)
}

// UpdateMaterial applies a partial update.
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid material ID format.", err.Error()))
		return
	}
	var req services.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	material, err := h.materialService.UpdateMaterial(id, req)
	if err != nil {
		utils.LogError(err, "UpdateMaterial: Error from materialService.UpdateMaterial")
		switch {
		case errors.Is(err, services.ErrMaterialNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Material not found.", err.Error()))
		case errors.Is(err, services.ErrMaterialNameConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A material with this name already exists.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid material data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update material.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, material)
}

// DeleteMaterial removes a material.
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid material ID format.", err.Error()))
		return
	}
	if err := h.materialService.DeleteMaterial(id); err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Material not found.", err.Error()))
			return
		}
		utils.LogError(err, "DeleteMaterial: Error from materialService.DeleteMaterial")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete material.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}
