package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mb-platform/user-service/internal/core/domain"
)

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.AccountEvent
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, event *domain.AccountEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *stubAuditRepo) byName(name string) []domain.AccountEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AccountEvent
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestAuditDispatcher_RecordsEvents(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.AccountEvent{Name: "alice", Action: domain.ActionRegistered, Timestamp: time.Now()})
	d.Record(domain.AccountEvent{Name: "bob", Action: domain.ActionRegistered, Timestamp: time.Now()})

	waitFor(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.events) == 2
	})
}

func TestAuditDispatcher_PreservesPerSubjectOrder(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.AccountAction{
		domain.ActionRegistered,
		domain.ActionLoggedIn,
		domain.ActionUpdated,
		domain.ActionDeleted,
	}
	for _, a := range actions {
		d.Record(domain.AccountEvent{Name: "alice", Action: a, Timestamp: time.Now()})
	}

	waitFor(t, func() bool { return len(repo.byName("alice")) == len(actions) })

	got := repo.byName("alice")
	for i, a := range actions {
		if got[i].Action != a {
			t.Fatalf("event %d: expected %s, got %s", i, a, got[i].Action)
		}
	}
}

func TestAuditDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewAuditDispatcher(0, &stubAuditRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
