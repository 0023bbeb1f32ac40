package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type docState struct {
	doc      Document
	sequence uint64
}

type docKey struct {
	acronym string
	id      string
}

// Memory is an in-process Store. Documents live until deleted.
type Memory struct {
	mu  sync.RWMutex
	m   map[docKey]docState
	seq uint64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[docKey]docState)}
}

func (s *Memory) Create(ctx context.Context, acronym string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	stored := make(Document, len(doc))
	for k, v := range doc {
		stored[k] = v
	}
	stored["id"] = id
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.m[docKey{acronym, id}] = docState{doc: stored, sequence: s.seq}
	return id, nil
}

func (s *Memory) Get(ctx context.Context, acronym, id string, fields []string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[docKey{acronym, id}]
	if !ok {
		return nil, ErrNotFound
	}
	return project(id, st.doc, fields), nil
}

func (s *Memory) Update(ctx context.Context, acronym, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := docKey{acronym, id}
	st, ok := s.m[key]
	if !ok {
		return ErrNotFound
	}
	merged := make(Document, len(st.doc)+len(doc))
	for k, v := range st.doc {
		merged[k] = v
	}
	for k, v := range doc {
		merged[k] = v
	}
	// the id is owned by the store
	merged["id"] = id
	st.doc = merged
	s.m[key] = st
	return nil
}

func (s *Memory) Delete(ctx context.Context, acronym, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := docKey{acronym, id}
	if _, ok := s.m[key]; !ok {
		return ErrNotFound
	}
	delete(s.m, key)
	return nil
}

func (s *Memory) Search(ctx context.Context, acronym string, fields []string, filter []Condition, page Page) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]docState, 0)
	for k, st := range s.m {
		if k.acronym == acronym && Match(st.doc, filter) {
			matched = append(matched, st)
		}
	}
	s.mu.RUnlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].sequence < matched[j].sequence })

	start := page.offset()
	if start >= len(matched) {
		return []Document{}, nil
	}
	end := len(matched)
	if page.PageSize > 0 && start+page.PageSize < end {
		end = start + page.PageSize
	}
	out := make([]Document, 0, end-start)
	for _, st := range matched[start:end] {
		out = append(out, project(st.doc["id"], st.doc, fields))
	}
	return out, nil
}

// Len returns the number of stored documents of an acronym.
func (s *Memory) Len(acronym string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.m {
		if k.acronym == acronym {
			n++
		}
	}
	return n
}
