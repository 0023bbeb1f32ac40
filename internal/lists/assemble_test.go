package lists

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/shopping-list-service/internal/docstore"
	"github.com/fairyhunter13/shopping-list-service/internal/model"
)

func TestAssembleEmptyMakesNoCalls(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.assembler.Assemble(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Empty(t, f.j.all())
}

func TestAssembleTwoPhasesPositional(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, model.Item{SkuID: "sku2", Quantity: 1})
	b := f.seedItem(t, model.Item{SkuID: "unknown", Quantity: 2})
	c := f.seedItem(t, model.Item{SkuID: "sku1", Quantity: 3})

	got, err := f.svc.assembler.Assemble(context.Background(), []string{a, b, c})
	require.NoError(t, err)
	require.Len(t, got, 3)

	calls := f.j.all()
	require.Len(t, calls, 4)
	for _, cl := range calls[:3] {
		assert.Equal(t, "get", cl.Op)
	}
	assert.Equal(t, "products", calls[3].Op)
	assert.Equal(t, []string{"sku2", "unknown", "sku1"}, calls[3].Skus)

	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, "Milk", got[0].Product.ProductName)
	assert.Equal(t, b, got[1].ID)
	assert.Nil(t, got[1].Product)
	assert.EqualValues(t, 2, got[1].Quantity)
	assert.Equal(t, c, got[2].ID)
	assert.Equal(t, "Coffee", got[2].Product.ProductName)
}

func TestAssembleMissingItemFails(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.assembler.Assemble(context.Background(), []string{"ghost"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.Empty(t, f.j.ops("products", ""), "no catalog lookup after a failed read")
}
