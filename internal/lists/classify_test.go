package lists

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/shopping-list-service/internal/model"
)

func TestClassifyByIntent(t *testing.T) {
	p := Classify([]model.Item{
		{ID: "x1", SkuID: "a", Quantity: 0},
		{ID: "x2", SkuID: "b", Quantity: 2},
		{SkuID: "s", Quantity: 1},
	})
	assert.Equal(t, []model.Item{{ID: "x1", SkuID: "a", Quantity: 0}}, p.Delete)
	assert.Equal(t, []model.Item{{ID: "x2", SkuID: "b", Quantity: 2}}, p.Update)
	assert.Equal(t, []model.Item{{SkuID: "s", Quantity: 1}}, p.Add)
}

func TestClassifyLastSubmittedWins(t *testing.T) {
	p := Classify([]model.Item{
		{SkuID: "s", Quantity: 1, Name: "A"},
		{SkuID: "s", Quantity: 3, Name: "B"},
	})
	require.Len(t, p.Add, 1)
	assert.Equal(t, "B", p.Add[0].Name)
	assert.EqualValues(t, 3, p.Add[0].Quantity)
	assert.Empty(t, p.Update)
	assert.Empty(t, p.Delete)
}

func TestClassifyLastWinsAcrossIntents(t *testing.T) {
	// a stored item resubmitted with quantity 0 after an update is a delete
	p := Classify([]model.Item{
		{ID: "i1", SkuID: "s", Quantity: 4},
		{ID: "i1", SkuID: "s", Quantity: 0},
	})
	assert.Empty(t, p.Update)
	require.Len(t, p.Delete, 1)
	assert.Equal(t, "i1", p.Delete[0].ID)
}

func TestClassifyKeepsFirstAppearanceOrder(t *testing.T) {
	p := Classify([]model.Item{
		{SkuID: "b", Quantity: 1},
		{SkuID: "a", Quantity: 1},
		{SkuID: "b", Quantity: 2},
		{SkuID: "c", Quantity: 1},
	})
	var skus []string
	for _, it := range p.Add {
		skus = append(skus, it.SkuID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, skus)
}

func TestClassifyNewItemWithZeroQuantityIsAdded(t *testing.T) {
	p := Classify([]model.Item{{SkuID: "s", Quantity: 0}})
	assert.Len(t, p.Add, 1)
	assert.Empty(t, p.Delete)
}

func TestClassifyStoredItemWithoutSku(t *testing.T) {
	p := Classify([]model.Item{{ID: "i1", Quantity: 0}, {ID: "i2", Quantity: 5}})
	require.Len(t, p.Delete, 1)
	require.Len(t, p.Update, 1)
	assert.Equal(t, "i1", p.Delete[0].ID)
	assert.Equal(t, "i2", p.Update[0].ID)
}

func TestClassifyIDKeyDoesNotCollideWithSku(t *testing.T) {
	p := Classify([]model.Item{
		{ID: "i1", Quantity: 2},
		{SkuID: "id:i1", Quantity: 1},
	})
	require.Len(t, p.Update, 1)
	require.Len(t, p.Add, 1)
	assert.Equal(t, "i1", p.Update[0].ID)
	assert.Equal(t, "id:i1", p.Add[0].SkuID)
}

func TestClassifyIsPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		n := rng.Intn(12)
		items := make([]model.Item, n)
		distinct := map[model.ItemKey]bool{}
		for i := range items {
			it := model.Item{SkuID: fmt.Sprintf("s%d", rng.Intn(5)), Quantity: int64(rng.Intn(3))}
			if rng.Intn(2) == 0 {
				it.ID = "id-" + it.SkuID
			}
			items[i] = it
			distinct[it.Key()] = true
		}
		p := Classify(items)
		seen := map[model.ItemKey]int{}
		for _, group := range [][]model.Item{p.Add, p.Update, p.Delete} {
			for _, it := range group {
				seen[it.Key()]++
			}
		}
		require.Len(t, seen, len(distinct), "round %d", round)
		for k, c := range seen {
			require.Equal(t, 1, c, "round %d key %+v", round, k)
		}
		for _, it := range p.Add {
			require.False(t, it.HasID())
		}
		for _, it := range p.Update {
			require.True(t, it.HasID())
			require.Positive(t, it.Quantity)
		}
		for _, it := range p.Delete {
			require.True(t, it.HasID())
			require.Zero(t, it.Quantity)
		}
	}
}
