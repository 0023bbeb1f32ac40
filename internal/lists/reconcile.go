package lists

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/shopping-list-service/internal/docstore"
	"github.com/fairyhunter13/shopping-list-service/internal/obs"
)

// Reconciler applies a Plan to the item documents of the store.
type Reconciler struct {
	store   docstore.Store
	acronym string
	// Compensate deletes the items created by a reconciliation that failed.
	Compensate bool
}

// NewReconciler returns a Reconciler writing item documents of acronym.
func NewReconciler(store docstore.Store, acronym string) *Reconciler {
	return &Reconciler{store: store, acronym: acronym}
}

// Reconcile issues every delete, create and update of p concurrently and
// returns the ids of the created items followed by the ids of the updated
// items. Deleted items are never part of the result. Every issued operation
// has settled when Reconcile returns; the first failure cancels the rest
// and is returned.
func (r *Reconciler) Reconcile(ctx context.Context, p Plan) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)

	for _, it := range p.Delete {
		g.Go(func() error {
			if err := r.store.Delete(gctx, r.acronym, it.ID); err != nil {
				return fmt.Errorf("delete item %s: %w", it.ID, err)
			}
			obs.Count(obs.ItemsDeleted, 1)
			return nil
		})
	}

	added := make([]string, len(p.Add))
	for i, it := range p.Add {
		g.Go(func() error {
			id, err := r.store.Create(gctx, r.acronym, Normalize(it.Fields()))
			if err != nil {
				return fmt.Errorf("create item %s: %w", it.SkuID, err)
			}
			added[i] = id
			obs.Count(obs.ItemsCreated, 1)
			return nil
		})
	}

	updated := make([]string, len(p.Update))
	for i, it := range p.Update {
		updated[i] = it.ID
		g.Go(func() error {
			if err := r.store.Update(gctx, r.acronym, it.ID, Normalize(it.Fields())); err != nil {
				return fmt.Errorf("update item %s: %w", it.ID, err)
			}
			obs.Count(obs.ItemsUpdated, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if r.Compensate {
			r.rollback(context.WithoutCancel(ctx), added)
		}
		return nil, err
	}
	return append(added, updated...), nil
}

// rollback deletes the items created before a reconciliation failed.
// Failures are logged; the original error is what the caller reports.
func (r *Reconciler) rollback(ctx context.Context, created []string) {
	var g errgroup.Group
	for _, id := range created {
		if id == "" {
			continue
		}
		g.Go(func() error {
			if err := r.store.Delete(ctx, r.acronym, id); err != nil {
				obs.Logger.Error("item_rollback_failed", "item_id", id, "error", err)
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
}
