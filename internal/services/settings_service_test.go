package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsServiceUpdateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UpdateSettingsRequest)
	}{
		{"empty company name", func(r *UpdateSettingsRequest) { r.CompanyName = "  " }},
		{"zero low stock threshold", func(r *UpdateSettingsRequest) { r.LowStockThreshold = 0 }},
		{"negative low stock threshold", func(r *UpdateSettingsRequest) { r.LowStockThreshold = -5 }},
		{"negative birthday percent", func(r *UpdateSettingsRequest) { r.BirthdayDiscountPercent = -1 }},
		{"birthday percent above 100", func(r *UpdateSettingsRequest) { r.BirthdayDiscountPercent = 100.5 }},
		{"negative jar discount amount", func(r *UpdateSettingsRequest) { r.JarDiscountAmount = -0.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeSettingsRepo{}
			svc := NewSettingsService(repo, newStubDB(t))

			req := UpdateSettingsRequest{
				CompanyName:             "Velas Aromáticas",
				LowStockThreshold:       10,
				BirthdayDiscountPercent: 10,
				JarDiscountAmount:       2,
			}
			tt.mutate(&req)

			_, err := svc.Update(req)
			assert.ErrorIs(t, err, ErrSettingsValidation)
			// Rejected updates must not touch the stored settings.
			assert.Zero(t, repo.saves)
		})
	}
}

func TestSettingsServiceUpdate(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, newStubDB(t))

	updated, err := svc.Update(UpdateSettingsRequest{
		CompanyName:             "Velas del Sur",
		LowStockThreshold:       5,
		BirthdayDiscountPercent: 15,
		JarDiscountAmount:       2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Velas del Sur", updated.CompanyName)
	assert.Equal(t, 5, updated.LowStockThreshold)
	assert.Equal(t, 15.0, updated.BirthdayDiscountPercent)
	assert.Equal(t, 2.5, updated.JarDiscountAmount)

	stored, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Velas del Sur", stored.CompanyName)
	assert.Equal(t, 2.5, stored.JarDiscountAmount)
}

func TestSettingsServiceGetReturnsDefaultsWhenUnset(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, newStubDB(t))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Velas Aromáticas", settings.CompanyName)
	assert.Equal(t, 10, settings.LowStockThreshold)
	assert.Zero(t, settings.BirthdayDiscountPercent)
	assert.Zero(t, settings.JarDiscountAmount)
}

func TestSettingsServiceResetToDefault(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, newStubDB(t))

	_, err := svc.Update(UpdateSettingsRequest{
		CompanyName:             "Velas del Sur",
		LowStockThreshold:       3,
		BirthdayDiscountPercent: 20,
		JarDiscountAmount:       4,
	})
	require.NoError(t, err)

	reset, err := svc.ResetToDefault()
	require.NoError(t, err)
	assert.Equal(t, "Velas Aromáticas", reset.CompanyName)
	assert.Equal(t, 10, reset.LowStockThreshold)
	assert.Zero(t, reset.BirthdayDiscountPercent)
	assert.Zero(t, reset.JarDiscountAmount)
}
