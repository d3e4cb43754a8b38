package service

import (
	"fmt"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	"github.com/shopspring/decimal"
)

// Catalog is the fixed set of purchasable credit packages.
type Catalog struct {
	packages  []domain.CreditPackage
	byID      map[string]domain.CreditPackage
	byProduct map[string]domain.CreditPackage
}

func DefaultPackages() []domain.CreditPackage {
	return []domain.CreditPackage{
		{ID: "starter", Name: "Starter Pack", Credits: 50, PriceUSD: decimal.RequireFromString("5.00"), ExternalProductID: "STARTER_PACK"},
		{ID: "pro", Name: "Pro Pack", Credits: 150, PriceUSD: decimal.RequireFromString("10.00"), ExternalProductID: "PRO_PACK"},
		{ID: "premium", Name: "Premium Pack", Credits: 500, PriceUSD: decimal.RequireFromString("20.00"), ExternalProductID: "PREMIUM_PACK"},
	}
}

// NewCatalog indexes packages. Package and product ids must be unique.
func NewCatalog(packages []domain.CreditPackage) (*Catalog, error) {
	c := &Catalog{
		packages:  packages,
		byID:      make(map[string]domain.CreditPackage, len(packages)),
		byProduct: make(map[string]domain.CreditPackage, len(packages)),
	}
	for _, p := range packages {
		if p.Credits <= 0 || !p.PriceUSD.IsPositive() {
			return nil, fmt.Errorf("package %q: credits and price must be positive", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate package id %q", p.ID)
		}
		if _, dup := c.byProduct[p.ExternalProductID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ExternalProductID)
		}
		c.byID[p.ID] = p
		c.byProduct[p.ExternalProductID] = p
	}
	return c, nil
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultPackages())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) ByID(id string) (domain.CreditPackage, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) ByProductID(productID string) (domain.CreditPackage, bool) {
	p, ok := c.byProduct[productID]
	return p, ok
}

func (c *Catalog) All() []domain.CreditPackage {
	out := make([]domain.CreditPackage, len(c.packages))
	copy(out, c.packages)
	return out
}
