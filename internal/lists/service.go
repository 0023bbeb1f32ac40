package lists

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/shopping-list-service/internal/catalog"
	"github.com/fairyhunter13/shopping-list-service/internal/docstore"
	"github.com/fairyhunter13/shopping-list-service/internal/model"
	"github.com/fairyhunter13/shopping-list-service/internal/obs"
)

// UserInputError is the single error a failed createList or updateList
// reports to the client. It wraps the underlying cause.
type UserInputError struct {
	Message string
	Err     error
}

func (e *UserInputError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }

func (e *UserInputError) Unwrap() error { return e.Err }

// ErrIDOnCreate rejects items that claim to exist on a list that does not.
var ErrIDOnCreate = errors.New("items of a new list must not carry an id")

// Options configures a Service.
type Options struct {
	ListAcronym     string
	ItemAcronym     string
	DefaultPageSize int
	MaxPageSize     int
	// CompensateOnFailure deletes items created by a failed mutation.
	CompensateOnFailure bool
}

// Service exposes the list queries and mutations.
type Service struct {
	store      docstore.Store
	opts       Options
	reconciler *Reconciler
	assembler  *Assembler
}

// NewService wires a Service over the given store and catalog.
func NewService(store docstore.Store, cat catalog.Catalog, opts Options) *Service {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 15
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	rec := NewReconciler(store, opts.ItemAcronym)
	rec.Compensate = opts.CompensateOnFailure
	return &Service{
		store:      store,
		opts:       opts,
		reconciler: rec,
		assembler:  NewAssembler(store, cat, opts.ItemAcronym),
	}
}

// GetList returns the list with its items enriched from the catalog.
func (s *Service) GetList(ctx context.Context, id string) (*model.List, error) {
	doc, err := s.store.Get(ctx, s.opts.ListAcronym, id, ListFields)
	if err != nil {
		return nil, err
	}
	return s.assembleList(ctx, doc)
}

func (s *Service) assembleList(ctx context.Context, doc docstore.Document) (*model.List, error) {
	l, ids, err := listFromDocument(doc)
	if err != nil {
		return nil, err
	}
	items, err := s.assembler.Assemble(ctx, ids)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return &l, nil
}

// ListsByOwner returns one page of the owner's lists, each assembled.
func (s *Service) ListsByOwner(ctx context.Context, owner string, page, pageSize int) ([]model.List, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}
	if pageSize > s.opts.MaxPageSize {
		pageSize = s.opts.MaxPageSize
	}
	docs, err := s.store.Search(ctx, s.opts.ListAcronym, ListFields,
		[]docstore.Condition{docstore.Eq("owner", owner)},
		docstore.Page{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	out := make([]model.List, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		g.Go(func() error {
			l, err := s.assembleList(gctx, doc)
			if err != nil {
				return err
			}
			out[i] = *l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateList creates the submitted items, then the list document referencing
// them, and returns the assembled list.
func (s *Service) CreateList(ctx context.Context, in model.ListInput) (*model.List, error) {
	l, err := s.createList(ctx, in)
	if err != nil {
		obs.Count(obs.MutationsFail, 1)
		return nil, &UserInputError{Message: "Cannot create list", Err: err}
	}
	obs.Count(obs.ListsCreated, 1)
	obs.Logger.Info("list_created", "list_id", l.ID, "owner", l.Owner, "items", len(l.Items))
	return l, nil
}

func (s *Service) createList(ctx context.Context, in model.ListInput) (*model.List, error) {
	if err := model.ValidateItems(in.Items); err != nil {
		return nil, err
	}
	for _, it := range in.Items {
		if it.HasID() {
			return nil, ErrIDOnCreate
		}
	}
	ids, err := s.reconciler.Reconcile(ctx, Classify(in.Items))
	if err != nil {
		return nil, err
	}
	fields := in.Fields()
	fields["items"] = ids
	id, err := s.store.Create(ctx, s.opts.ListAcronym, Normalize(fields))
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return s.GetList(ctx, id)
}

// UpdateList reconciles the submitted items, rewrites the list's fields and
// item references, and returns the assembled list.
func (s *Service) UpdateList(ctx context.Context, id string, in model.ListInput) (*model.List, error) {
	l, err := s.updateList(ctx, id, in)
	if err != nil {
		obs.Count(obs.MutationsFail, 1)
		return nil, &UserInputError{Message: "Cannot update the list", Err: err}
	}
	obs.Count(obs.ListsUpdated, 1)
	obs.Logger.Info("list_updated", "list_id", id, "items", len(l.Items))
	return l, nil
}

func (s *Service) updateList(ctx context.Context, id string, in model.ListInput) (*model.List, error) {
	if err := model.ValidateItems(in.Items); err != nil {
		return nil, err
	}
	ids, err := s.reconciler.Reconcile(ctx, Classify(in.Items))
	if err != nil {
		return nil, err
	}
	fields := in.Fields()
	fields["items"] = ids
	if err := s.store.Update(ctx, s.opts.ListAcronym, id, Normalize(fields)); err != nil {
		return nil, fmt.Errorf("update list %s: %w", id, err)
	}
	return s.GetList(ctx, id)
}

// DeleteList deletes every item the list references, then the list itself.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	doc, err := s.store.Get(ctx, s.opts.ListAcronym, id, ListFields)
	if err != nil {
		return err
	}
	_, ids, err := listFromDocument(doc)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, itemID := range ids {
		g.Go(func() error {
			if err := s.store.Delete(gctx, s.opts.ItemAcronym, itemID); err != nil {
				return fmt.Errorf("delete item %s: %w", itemID, err)
			}
			obs.Count(obs.ItemsDeleted, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, s.opts.ListAcronym, id); err != nil {
		return err
	}
	obs.Count(obs.ListsDeleted, 1)
	obs.Logger.Info("list_deleted", "list_id", id, "items", len(ids))
	return nil
}
