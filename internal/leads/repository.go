package leads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the interface for lead storage
type Repository interface {
	// Save inserts a new lead. It is called exactly once per lead; the
	// intake pipeline never retries a save.
	Save(ctx context.Context, lead *Lead) error
	// ListAll returns every lead, newest first.
	ListAll(ctx context.Context) ([]*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	// UpdateStatus sets the workflow status and notes and bumps updatedAt.
	UpdateStatus(ctx context.Context, id, status, notes string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// for local development without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	now   func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
		now:   time.Now,
	}
}

// Save stores a copy of the lead.
func (r *InMemoryRepository) Save(ctx context.Context, lead *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

// ListAll returns all leads ordered newest-first by creation time.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		cp := *lead
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	cp := *lead
	return &cp, nil
}

// UpdateStatus sets status and notes on an existing lead.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.Status = status
	lead.Notes = notes
	lead.UpdatedAt = r.now().UTC()
	return nil
}

// Delete removes a lead by ID.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

// Stats computes dashboard statistics over the stored leads.
func (r *InMemoryRepository) Stats(ctx context.Context) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{StatusCounts: make(map[string]int)}
	for _, lead := range r.leads {
		stats.Total++
		stats.StatusCounts[lead.Status]++
		if !lead.CreatedAt.Before(startOfDay) {
			stats.Today++
		}
		if !lead.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
	}
	return stats, nil
}

// Close is a no-op for the in-memory repository.
func (r *InMemoryRepository) Close() error { return nil }

var _ Repository = (*InMemoryRepository)(nil)
