package service_test

import (
	"testing"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := service.DefaultCatalog()

	pkg, ok := c.ByProductID("PRO_PACK")
	require.True(t, ok)
	assert.Equal(t, "pro", pkg.ID)
	assert.Equal(t, 150, pkg.Credits)
	assert.True(t, pkg.PriceUSD.Equal(decimal.RequireFromString("10")))

	pkg, ok = c.ByID("starter")
	require.True(t, ok)
	assert.Equal(t, "STARTER_PACK", pkg.ExternalProductID)

	_, ok = c.ByProductID("FREE_PACK")
	assert.False(t, ok)

	all := c.All()
	require.Len(t, all, 3)
	all[0].Credits = 1_000_000
	again, _ := c.ByID(all[0].ID)
	assert.NotEqual(t, 1_000_000, again.Credits)
	assert.NotEqual(t, 1_000_000, c.All()[0].Credits)
}

func TestNewCatalog_Rejects(t *testing.T) {
	price := decimal.RequireFromString("5.00")

	tests := []struct {
		name string
		pkgs []domain.CreditPackage
	}{
		{
			name: "duplicate id",
			pkgs: []domain.CreditPackage{
				{ID: "a", Credits: 1, PriceUSD: price, ExternalProductID: "A"},
				{ID: "a", Credits: 1, PriceUSD: price, ExternalProductID: "B"},
			},
		},
		{
			name: "duplicate product",
			pkgs: []domain.CreditPackage{
				{ID: "a", Credits: 1, PriceUSD: price, ExternalProductID: "A"},
				{ID: "b", Credits: 1, PriceUSD: price, ExternalProductID: "A"},
			},
		},
		{
			name: "zero credits",
			pkgs: []domain.CreditPackage{{ID: "a", Credits: 0, PriceUSD: price, ExternalProductID: "A"}},
		},
		{
			name: "free package",
			pkgs: []domain.CreditPackage{{ID: "a", Credits: 10, PriceUSD: decimal.Zero, ExternalProductID: "A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.NewCatalog(tt.pkgs)
			assert.Error(t, err)
		})
	}
}
