package lists

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/shopping-list-service/internal/catalog"
	"github.com/fairyhunter13/shopping-list-service/internal/docstore"
	"github.com/fairyhunter13/shopping-list-service/internal/model"
)

// Assembler composes stored item references with catalog products.
type Assembler struct {
	store   docstore.Store
	catalog catalog.Catalog
	acronym string
}

// NewAssembler returns an Assembler reading item documents of acronym.
func NewAssembler(store docstore.Store, cat catalog.Catalog, acronym string) *Assembler {
	return &Assembler{store: store, catalog: cat, acronym: acronym}
}

// Assemble fetches the item documents of ids concurrently, then resolves all
// their SKUs in one catalog lookup. The result is positional: out[i] belongs
// to ids[i]. Items whose SKU is unknown to the catalog carry a nil Product.
func (a *Assembler) Assemble(ctx context.Context, ids []string) ([]model.EnrichedItem, error) {
	if len(ids) == 0 {
		return []model.EnrichedItem{}, nil
	}

	items := make([]model.Item, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			doc, err := a.store.Get(gctx, a.acronym, id, ItemFields)
			if err != nil {
				return fmt.Errorf("get item %s: %w", id, err)
			}
			it, err := itemFromDocument(doc)
			if err != nil {
				return err
			}
			items[i] = it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	skus := make([]string, len(items))
	for i, it := range items {
		skus[i] = it.SkuID
	}
	products, err := a.catalog.ProductsBySku(ctx, skus)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	out := make([]model.EnrichedItem, len(items))
	for i, it := range items {
		out[i] = model.EnrichedItem{Item: it}
		if i < len(products) {
			out[i].Product = products[i]
		}
	}
	return out, nil
}
