package services

import (
	"testing"

	"velas_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func TestCategoryPriceServiceCreate(t *testing.T) {
	t.Run("creates a ledger entry", func(t *testing.T) {
		svc := NewCategoryPriceService(newFakeCategoryPriceRepo(), newFakeProductRepo(), newStubDB(t))

		cp, err := svc.Create(CreateCategoryPriceRequest{CategoryName: "  Vela  ", Price: 12.5})
		require.NoError(t, err)
		assert.Equal(t, "Vela", cp.CategoryName)
		assert.Equal(t, 12.5, cp.Price)
	})

	t.Run("rejects case-insensitive duplicates", func(t *testing.T) {
		svc := NewCategoryPriceService(newFakeCategoryPriceRepo(), newFakeProductRepo(), newStubDB(t))

		_, err := svc.Create(CreateCategoryPriceRequest{CategoryName: "Vela", Price: 10})
		require.NoError(t, err)

		_, err = svc.Create(CreateCategoryPriceRequest{CategoryName: "vela", Price: 11})
		assert.ErrorIs(t, err, ErrDuplicateCategory)
		_, err = svc.Create(CreateCategoryPriceRequest{CategoryName: "VELA", Price: 11})
		assert.ErrorIs(t, err, ErrDuplicateCategory)
	})

	t.Run("rejects empty name and negative price", func(t *testing.T) {
		svc := NewCategoryPriceService(newFakeCategoryPriceRepo(), newFakeProductRepo(), newStubDB(t))

		_, err := svc.Create(CreateCategoryPriceRequest{CategoryName: "   ", Price: 10})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.Create(CreateCategoryPriceRequest{CategoryName: "Vela", Price: -1})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCategoryPriceServiceUpdatePropagation(t *testing.T) {
	cpRepo := newFakeCategoryPriceRepo()
	productRepo := newFakeProductRepo()
	svc := NewCategoryPriceService(cpRepo, productRepo, newStubDB(t))

	cp, err := svc.Create(CreateCategoryPriceRequest{CategoryName: "Vela", Price: 10})
	require.NoError(t, err)

	velaID := productRepo.addProduct(models.Product{Name: "Lavanda", Category: strPtr("vela"), Price: 10, Stock: 5, IsActive: true})
	otherID := productRepo.addProduct(models.Product{Name: "Difusor", Category: strPtr("difusor"), Price: 30, Stock: 5, IsActive: true})
	untaggedID := productRepo.addProduct(models.Product{Name: "Jabón", Price: 8, Stock: 5, IsActive: true})

	t.Run("price change reprices matching products", func(t *testing.T) {
		_, err := svc.Update(cp.ID, UpdateCategoryPriceRequest{Price: float64Ptr(14)})
		require.NoError(t, err)

		vela, _ := productRepo.GetByID(velaID)
		assert.Equal(t, 14.0, vela.Price)

		other, _ := productRepo.GetByID(otherID)
		assert.Equal(t, 30.0, other.Price)
		untagged, _ := productRepo.GetByID(untaggedID)
		assert.Equal(t, 8.0, untagged.Price)

		history, _ := productRepo.GetPriceHistory(velaID)
		require.Len(t, history, 1)
		assert.Equal(t, 14.0, history[0].Price)
		assert.Equal(t, "category update: Vela", history[0].Reason)
	})

	t.Run("rename propagates to the previous name", func(t *testing.T) {
		_, err := svc.Update(cp.ID, UpdateCategoryPriceRequest{
			CategoryName: strPtr("Vela Premium"),
			Price:        float64Ptr(18),
		})
		require.NoError(t, err)

		// The product still carries the old tag but receives the new price,
		// recorded under the name the category had before the rename.
		vela, _ := productRepo.GetByID(velaID)
		assert.Equal(t, "vela", *vela.Category)
		assert.Equal(t, 18.0, vela.Price)

		history, _ := productRepo.GetPriceHistory(velaID)
		require.Len(t, history, 2)
		assert.Equal(t, "category update: Vela", history[1].Reason)
	})

	t.Run("rename collision rejected", func(t *testing.T) {
		second, err := svc.Create(CreateCategoryPriceRequest{CategoryName: "Difusor", Price: 30})
		require.NoError(t, err)

		_, err = svc.Update(second.ID, UpdateCategoryPriceRequest{CategoryName: strPtr("vela premium")})
		assert.ErrorIs(t, err, ErrDuplicateCategory)
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, err := svc.Update(999, UpdateCategoryPriceRequest{Price: float64Ptr(5)})
		assert.ErrorIs(t, err, ErrCategoryPriceNotFound)
	})
}

func TestCategoryPriceServiceApplyToProducts(t *testing.T) {
	cpRepo := newFakeCategoryPriceRepo()
	productRepo := newFakeProductRepo()
	svc := NewCategoryPriceService(cpRepo, productRepo, newStubDB(t))

	firstID := productRepo.addProduct(models.Product{Name: "Lavanda", Category: strPtr("Vela"), Price: 10, Stock: 5, IsActive: true})
	secondID := productRepo.addProduct(models.Product{Name: "Canela", Category: strPtr("VELA"), Price: 11, Stock: 5, IsActive: true})
	productRepo.addProduct(models.Product{Name: "Difusor", Category: strPtr("difusor"), Price: 30, Stock: 5, IsActive: true})

	result, err := svc.ApplyToProducts(ApplyCategoryPriceRequest{CategoryName: "vela", Price: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ProductsAffected)

	first, _ := productRepo.GetByID(firstID)
	second, _ := productRepo.GetByID(secondID)
	assert.Equal(t, 15.0, first.Price)
	assert.Equal(t, 15.0, second.Price)

	// Each apply appends exactly one history row per affected product, even
	// when the price does not change.
	result, err = svc.ApplyToProducts(ApplyCategoryPriceRequest{CategoryName: "vela", Price: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ProductsAffected)

	history, _ := productRepo.GetPriceHistory(firstID)
	assert.Len(t, history, 2)
}

func TestCategoryPriceServiceDeleteLeavesProducts(t *testing.T) {
	cpRepo := newFakeCategoryPriceRepo()
	productRepo := newFakeProductRepo()
	svc := NewCategoryPriceService(cpRepo, productRepo, newStubDB(t))

	cp, err := svc.Create(CreateCategoryPriceRequest{CategoryName: "Vela", Price: 10})
	require.NoError(t, err)
	productID := productRepo.addProduct(models.Product{Name: "Lavanda", Category: strPtr("Vela"), Price: 10, Stock: 5, IsActive: true})

	require.NoError(t, svc.Delete(cp.ID))

	// Deleting the ledger entry never reprices or untags products.
	product, _ := productRepo.GetByID(productID)
	assert.Equal(t, "Vela", *product.Category)
	assert.Equal(t, 10.0, product.Price)

	_, err = svc.GetByID(cp.ID)
	assert.ErrorIs(t, err, ErrCategoryPriceNotFound)

	assert.ErrorIs(t, svc.Delete(cp.ID), ErrCategoryPriceNotFound)
}
