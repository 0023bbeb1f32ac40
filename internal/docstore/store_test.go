package docstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(context.Background(), "file:"+filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{"memory": NewMemory(), "sqlite": sq}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(ctx, "LP", Document{"skuId": "sku1", "quantity": "2"})
			require.NoError(t, err)
			require.NotEmpty(t, id)

			got, err := s.Get(ctx, "LP", id, []string{"skuId", "quantity"})
			require.NoError(t, err)
			assert.Equal(t, Document{"id": id, "skuId": "sku1", "quantity": "2"}, got)

			require.NoError(t, s.Update(ctx, "LP", id, Document{"quantity": "5"}))
			got, err = s.Get(ctx, "LP", id, nil)
			require.NoError(t, err)
			assert.Equal(t, "5", got["quantity"])
			assert.Equal(t, "sku1", got["skuId"], "update merges fields")

			require.NoError(t, s.Delete(ctx, "LP", id))
			_, err = s.Get(ctx, "LP", id, nil)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "LP", id), ErrNotFound)
			assert.ErrorIs(t, s.Update(ctx, "LP", id, Document{}), ErrNotFound)
		})
	}
}

func TestStoreProjection(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(ctx, "SL", Document{"owner": "u1", "name": "a", "secret": "x"})
			require.NoError(t, err)
			got, err := s.Get(ctx, "SL", id, []string{"owner", "name", "missing"})
			require.NoError(t, err)
			assert.Equal(t, Document{"id": id, "owner": "u1", "name": "a"}, got)
		})
	}
}

func TestStoreSearchFilterAndPaging(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				_, err := s.Create(ctx, "SL", Document{"owner": "u1", "name": fmt.Sprintf("l%d", i)})
				require.NoError(t, err)
			}
			_, err := s.Create(ctx, "SL", Document{"owner": "u2", "name": "other"})
			require.NoError(t, err)
			_, err = s.Create(ctx, "LP", Document{"owner": "u1"})
			require.NoError(t, err)

			all, err := s.Search(ctx, "SL", []string{"name"}, []Condition{Eq("owner", "u1")}, Page{Page: 1, PageSize: 10})
			require.NoError(t, err)
			require.Len(t, all, 5)
			assert.Equal(t, "l0", all[0]["name"], "results keep creation order")

			p2, err := s.Search(ctx, "SL", []string{"name"}, []Condition{Eq("owner", "u1")}, Page{Page: 2, PageSize: 2})
			require.NoError(t, err)
			require.Len(t, p2, 2)
			assert.Equal(t, "l2", p2[0]["name"])
			assert.Equal(t, "l3", p2[1]["name"])

			empty, err := s.Search(ctx, "SL", nil, []Condition{Eq("owner", "u1")}, Page{Page: 9, PageSize: 2})
			require.NoError(t, err)
			assert.Empty(t, empty)

			both, err := s.Search(ctx, "SL", nil, []Condition{Eq("owner", "u2"), Eq("name", "other")}, Page{Page: 1, PageSize: 10})
			require.NoError(t, err)
			assert.Len(t, both, 1)
		})
	}
}

func TestStoreConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			ids := make([]string, 50)
			errs := make([]error, 50)
			for i := range ids {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ids[i], errs[i] = s.Create(ctx, "LP", Document{"skuId": fmt.Sprint(i)})
				}()
			}
			wg.Wait()
			seen := map[string]bool{}
			for i, id := range ids {
				require.NoError(t, errs[i])
				assert.False(t, seen[id], "duplicate id %s", id)
				seen[id] = true
			}
			res, err := s.Search(ctx, "LP", nil, nil, Page{})
			require.NoError(t, err)
			assert.Len(t, res, 50)
		})
	}
}

func TestStoreSearchMatchesValuesVerbatim(t *testing.T) {
	ctx := context.Background()
	owners := []string{"bob ", "bob", "ann AND co", "u1 AND name=x", "a=b", "u1"}
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, o := range owners {
				_, err := s.Create(ctx, "SL", Document{"owner": o, "name": "n"})
				require.NoError(t, err)
			}
			for _, o := range owners {
				res, err := s.Search(ctx, "SL", []string{"owner"}, []Condition{Eq("owner", o)}, Page{Page: 1, PageSize: 10})
				require.NoError(t, err)
				require.Len(t, res, 1, "owner %q", o)
				assert.Equal(t, o, res[0]["owner"])
			}
		})
	}
}

func TestStoreConcurrentUpdatesKeepAllFields(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(ctx, "SL", Document{"owner": "u1"})
			require.NoError(t, err)
			var wg sync.WaitGroup
			errs := make([]error, 20)
			for i := range errs {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs[i] = s.Update(ctx, "SL", id, Document{fmt.Sprintf("f%d", i): "v"})
				}()
			}
			wg.Wait()
			for _, err := range errs {
				require.NoError(t, err)
			}
			doc, err := s.Get(ctx, "SL", id, nil)
			require.NoError(t, err)
			for i := range errs {
				assert.Equal(t, "v", doc[fmt.Sprintf("f%d", i)], "field f%d lost", i)
			}
			assert.Equal(t, "u1", doc["owner"])
		})
	}
}

func TestMatch(t *testing.T) {
	doc := Document{"owner": "u1", "name": ""}
	assert.True(t, Match(doc, nil))
	assert.True(t, Match(doc, []Condition{Eq("owner", "u1"), Eq("name", "")}))
	assert.False(t, Match(doc, []Condition{Eq("owner", "u2")}))
	assert.False(t, Match(doc, []Condition{Eq("missing", "")}), "absent fields never match")
}
