// Package catalog resolves product SKUs to catalog products.
package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/shopping-list-service/internal/model"
)

// Catalog resolves SKUs. The result has the same length and order as skuIDs;
// unknown SKUs yield nil entries.
type Catalog interface {
	ProductsBySku(ctx context.Context, skuIDs []string) ([]*model.Product, error)
}

// Memory is a Catalog backed by an in-process product table.
// The table is fixed at construction and safe for concurrent reads.
type Memory struct {
	products map[string]model.Product
}

// NewMemory returns a catalog holding the given products.
func NewMemory(products ...model.Product) *Memory {
	m := &Memory{products: make(map[string]model.Product, len(products))}
	for _, p := range products {
		m.products[p.SkuID] = p
	}
	return m
}

type seedFile struct {
	Products []model.Product `yaml:"products"`
}

// LoadFile builds a Memory catalog from a YAML file with a top-level
// `products` sequence.
func LoadFile(path string) (*Memory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	for i, p := range f.Products {
		if p.SkuID == "" {
			return nil, fmt.Errorf("catalog file %s: product %d has no skuId", path, i)
		}
	}
	return NewMemory(f.Products...), nil
}

func (m *Memory) ProductsBySku(ctx context.Context, skuIDs []string) ([]*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*model.Product, len(skuIDs))
	for i, sku := range skuIDs {
		if p, ok := m.products[sku]; ok {
			out[i] = &p
		}
	}
	return out, nil
}
