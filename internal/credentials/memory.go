package credentials

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/credkeeper/internal/common"
)

// MemoryRepository keeps records in a map guarded by a RWMutex. Nothing is
// persisted.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*Record)}
}

func (r *MemoryRepository) Create(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.Identifier]; ok {
		return common.ErrDuplicateIdentifier
	}
	r.records[rec.Identifier] = rec.Clone()
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, identifier string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[identifier]
	if !ok {
		return nil, common.ErrIdentifierNotFound
	}
	return rec.Clone(), nil
}

func (r *MemoryRepository) Replace(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.Identifier]; !ok {
		return common.ErrIdentifierNotFound
	}
	r.records[rec.Identifier] = rec.Clone()
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, identifier)
	return nil
}

// Len returns the number of stored records.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
