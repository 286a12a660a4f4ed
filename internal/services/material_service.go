package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"velas_backend/internal/models"
	"velas_backend/internal/repositories"
)

var (
	ErrMaterialNotFound     = errors.New("material not found")
	ErrMaterialNameConflict = errors.New("material name already exists")
)

type CreateMaterialRequest struct {
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit" binding:"required"`
	Quantity float64 `json:"quantity"`
	UnitCost float64 `json:"unit_cost"`
	Supplier *string `json:"supplier"`
	Notes    *string `json:"notes"`
}

type UpdateMaterialRequest struct {
	Name     *string  `json:"name"`
	Unit     *string  `json:"unit"`
	Quantity *float64 `json:"quantity"`
	UnitCost *float64 `json:"unit_cost"`
	Supplier *string  `json:"supplier"`
	Notes    *string  `json:"notes"`
}

type MaterialService interface {
	CreateMaterial(req CreateMaterialRequest) (*models.Material, error)
	GetMaterialByID(materialID int64) (*models.Material, error)
	GetMaterials(page, pageSize int) ([]models.Material, int, error)
	UpdateMaterial(materialID int64, req UpdateMaterialRequest) (*models.Material, error)
	DeleteMaterial(materialID int64) error
}

type materialService struct {
	materialRepo repositories.MaterialRepository
	db           *sql.DB
}

// NewMaterialService creates a new instance of MaterialService.
func NewMaterialService(repo repositories.MaterialRepository, db *sql.DB) MaterialService {
	return &materialService{materialRepo: repo, db: db}
}

func (s *materialService) CreateMaterial(req CreateMaterialRequest) (*models.Material, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: material name cannot be empty", ErrValidation)
	}
	if req.Quantity < 0 || req.UnitCost < 0 {
		return nil, fmt.Errorf("%w: quantity and unit cost cannot be negative", ErrValidation)
	}
	material := &models.Material{
		Name:     strings.TrimSpace(req.Name),
		Unit:     req.Unit,
		Quantity: req.Quantity,
		UnitCost: req.UnitCost,
		Supplier: req.Supplier,
		Notes:    req.Notes,
	}
	if _, err := s.materialRepo.Create(s.db, material); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrMaterialNameConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return material, nil
}

func (s *materialService) GetMaterialByID(materialID int64) (*models.Material, error) {
	material, err := s.materialRepo.GetByID(materialID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to get material by ID: %w", err)
	}
	return material, nil
}

func (s *materialService) GetMaterials(page, pageSize int) ([]models.Material, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	materials, totalCount, err := s.materialRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get materials: %w", err)
	}
	return materials, totalCount, nil
}

func (s *materialService) UpdateMaterial(materialID int64, req UpdateMaterialRequest) (*models.Material, error) {
	material, err := s.materialRepo.GetByID(materialID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to find material for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: material name cannot be empty if provided", ErrValidation)
		}
		material.Name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil {
		material.Unit = *req.Unit
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
		}
		material.Quantity = *req.Quantity
	}
	if req.UnitCost != nil {
		if *req.UnitCost < 0 {
			return nil, fmt.Errorf("%w: unit cost cannot be negative", ErrValidation)
		}
		material.UnitCost = *req.UnitCost
	}
	if req.Supplier != nil {
		material.Supplier = req.Supplier
	}
	if req.Notes != nil {
		material.Notes = req.Notes
	}

	if err := s.materialRepo.Update(s.db, material); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrMaterialNameConflict, err.Error())
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return s.materialRepo.GetByID(materialID)
}

func (s *materialService) DeleteMaterial(materialID int64) error {
	if err := s.materialRepo.Delete(s.db, materialID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMaterialNotFound
		}
		return fmt.Errorf("failed to delete material: %w", err)
	}
	return nil
}
