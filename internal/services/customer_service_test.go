package services

import (
	"testing"

	"velas_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerServiceCreateCustomer(t *testing.T) {
	t.Run("valid customer with initial credits", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := NewCustomerService(repo, newStubDB(t))

		customer, err := svc.CreateCustomer(CreateCustomerRequest{
			FullName:    "  Ana López  ",
			PhoneNumber: strPtr("+521234567"),
			BirthDate:   strPtr("1990-06-02"),
			JarCredits:  intPtr(3),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana López", customer.FullName)
		assert.Equal(t, 3, customer.JarCredits)
		require.NotNil(t, customer.BirthDate)
		assert.Equal(t, 1990, customer.BirthDate.Year())
	})

	t.Run("negative initial credits rejected", func(t *testing.T) {
		svc := NewCustomerService(newFakeCustomerRepo(), newStubDB(t))
		_, err := svc.CreateCustomer(CreateCustomerRequest{
			FullName:   "Ana",
			JarCredits: intPtr(-1),
		})
		assert.ErrorIs(t, err, ErrNegativeBalance)
	})

	t.Run("bad birth date format", func(t *testing.T) {
		svc := NewCustomerService(newFakeCustomerRepo(), newStubDB(t))
		_, err := svc.CreateCustomer(CreateCustomerRequest{
			FullName:  "Ana",
			BirthDate: strPtr("02/06/1990"),
		})
		assert.ErrorIs(t, err, ErrDateFormat)
	})

	t.Run("duplicate phone number", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := NewCustomerService(repo, newStubDB(t))

		_, err := svc.CreateCustomer(CreateCustomerRequest{FullName: "Ana", PhoneNumber: strPtr("555-1234")})
		require.NoError(t, err)
		_, err = svc.CreateCustomer(CreateCustomerRequest{FullName: "Rosa", PhoneNumber: strPtr("555-1234")})
		assert.ErrorIs(t, err, ErrPhoneNumberExists)
	})
}

func TestCustomerServiceAdjustCredits(t *testing.T) {
	t.Run("increments and decrements", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		id := repo.addCustomer(models.Customer{FullName: "Ana", JarCredits: 2})
		svc := NewCustomerService(repo, newStubDB(t))

		balance, err := svc.AdjustCredits(id, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, balance)

		balance, err = svc.AdjustCredits(id, -5)
		require.NoError(t, err)
		assert.Equal(t, 0, balance)
	})

	t.Run("rejects adjustment below zero", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		id := repo.addCustomer(models.Customer{FullName: "Ana", JarCredits: 2})
		svc := NewCustomerService(repo, newStubDB(t))

		_, err := svc.AdjustCredits(id, -3)
		assert.ErrorIs(t, err, ErrNegativeBalance)

		// The balance is untouched after a rejected adjustment.
		balance, err := svc.GetCredits(id)
		require.NoError(t, err)
		assert.Equal(t, 2, balance)
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc := NewCustomerService(newFakeCustomerRepo(), newStubDB(t))
		_, err := svc.AdjustCredits(99, 1)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestCustomerServiceUpdatePreservesCredits(t *testing.T) {
	repo := newFakeCustomerRepo()
	id := repo.addCustomer(models.Customer{FullName: "Ana", JarCredits: 4})
	svc := NewCustomerService(repo, newStubDB(t))

	updated, err := svc.UpdateCustomer(id, UpdateCustomerRequest{
		FullName:  strPtr("Ana María"),
		BirthDate: strPtr("1990-12-24"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.FullName)
	// Profile updates never touch the credit ledger.
	assert.Equal(t, 4, updated.JarCredits)
}

func TestCustomerServiceGetCredits(t *testing.T) {
	repo := newFakeCustomerRepo()
	id := repo.addCustomer(models.Customer{FullName: "Ana", JarCredits: 7})
	svc := NewCustomerService(repo, newStubDB(t))

	balance, err := svc.GetCredits(id)
	require.NoError(t, err)
	assert.Equal(t, 7, balance)

	_, err = svc.GetCredits(id + 1)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
