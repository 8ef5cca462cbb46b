package session

import (
	"context"
	"sync"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/internal/errors"
	"github.com/oxtools/oxhost/src/oxhost/mapper"
	"github.com/oxtools/oxhost/src/oxhost/model"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/uri"
)

// Repository is an entity-scoped repository holding at most one backend
// session per backend kind.
type Repository interface {
	Get(ctx context.Context, kind entity.BackendKind) (*entity.BackendSession, error)
	Set(ctx context.Context, s *entity.BackendSession) error
	Delete(ctx context.Context, kind entity.BackendKind) error
	RunningCount(ctx context.Context) (int, error)

	// Displayed-diagnostics bookkeeping. The set is mutated from both the
	// backend connection goroutine and the editor connection goroutine, so
	// all access goes through the repository lock.

	// TrackDiagnostic records that diagnostics are displayed for the URI.
	TrackDiagnostic(ctx context.Context, kind entity.BackendKind, u uri.URI) error
	// UntrackDiagnostic removes the URI from the displayed set, reporting
	// whether it was tracked.
	UntrackDiagnostic(ctx context.Context, kind entity.BackendKind, u uri.URI) (bool, error)
	// DrainDiagnostics empties the displayed set and returns the URIs it held.
	DrainDiagnostics(ctx context.Context, kind entity.BackendKind) ([]uri.URI, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[entity.BackendKind]*model.BackendSession
	stats    tally.Scope
}

// New returns a repository to a key-value backend session store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[entity.BackendKind]*model.BackendSession),
		stats:    stats,
	}
}

// Get returns the session for the given backend kind.
func (r *repository) Get(ctx context.Context, kind entity.BackendKind) (*entity.BackendSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[kind]
	if !ok {
		return nil, &errors.BackendNotFoundError{Kind: string(kind)}
	}
	return mapper.ModelToBackendSession(m)
}

// Set stores the session under its backend kind, replacing any previous one.
func (r *repository) Set(ctx context.Context, s *entity.BackendSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil {
		return errors.New("can't save nil session")
	}
	r.memstore[s.Kind] = mapper.BackendSessionToModel(s)
	r.stats.Gauge("active_backends").Update(float64(r.runningLocked()))
	return nil
}

// Delete removes the session for the given backend kind.
func (r *repository) Delete(ctx context.Context, kind entity.BackendKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, kind)
	r.stats.Gauge("active_backends").Update(float64(r.runningLocked()))
	return nil
}

// RunningCount returns the count of sessions currently in the running state.
func (r *repository) RunningCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.runningLocked(), nil
}

// TrackDiagnostic records that diagnostics are displayed for the URI.
func (r *repository) TrackDiagnostic(ctx context.Context, kind entity.BackendKind, u uri.URI) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[kind]
	if !ok {
		return &errors.BackendNotFoundError{Kind: string(kind)}
	}
	if m.DiagnosticURIs == nil {
		m.DiagnosticURIs = make(map[uri.URI]struct{})
	}
	m.DiagnosticURIs[u] = struct{}{}
	return nil
}

// UntrackDiagnostic removes the URI from the displayed set.
func (r *repository) UntrackDiagnostic(ctx context.Context, kind entity.BackendKind, u uri.URI) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[kind]
	if !ok {
		return false, &errors.BackendNotFoundError{Kind: string(kind)}
	}
	if _, tracked := m.DiagnosticURIs[u]; !tracked {
		return false, nil
	}
	delete(m.DiagnosticURIs, u)
	return true, nil
}

// DrainDiagnostics empties the displayed set in place and returns the URIs it
// held. Clearing in place keeps session copies sharing the map consistent.
func (r *repository) DrainDiagnostics(ctx context.Context, kind entity.BackendKind) ([]uri.URI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[kind]
	if !ok {
		return nil, &errors.BackendNotFoundError{Kind: string(kind)}
	}

	uris := make([]uri.URI, 0, len(m.DiagnosticURIs))
	for u := range m.DiagnosticURIs {
		uris = append(uris, u)
		delete(m.DiagnosticURIs, u)
	}
	return uris, nil
}

func (r *repository) runningLocked() int {
	count := 0
	for _, m := range r.memstore {
		if m.State == int(entity.StateRunning) {
			count++
		}
	}
	return count
}
