package service

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

const testCost = bcrypt.MinCost

var testToday = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

type stubDedup struct {
	mu       sync.Mutex
	seen     map[string]bool
	err      error
	released []string
}

func newStubDedup() *stubDedup { return &stubDedup{seen: make(map[string]bool)} }

func (d *stubDedup) Claim(_ context.Context, username, phone string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	key := username + ":" + phone
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

func (d *stubDedup) Release(_ context.Context, username, phone string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := username + ":" + phone
	delete(d.seen, key)
	d.released = append(d.released, key)
	return nil
}

type stubAudit struct {
	mu      sync.Mutex
	err     error
	entries []domain.AuditEntry
}

func (a *stubAudit) Append(_ context.Context, e domain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, e)
	return nil
}

func (a *stubAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type stubNotifier struct {
	mu        sync.Mutex
	err       error
	decisions []domain.RegistrationDecision
}

func (n *stubNotifier) PublishDecision(_ context.Context, d domain.RegistrationDecision) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.decisions = append(n.decisions, d)
	return nil
}

type stubImages struct {
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newStubImages() *stubImages { return &stubImages{objects: make(map[string][]byte)} }

func (s *stubImages) Put(_ context.Context, key string, obj ports.ImageObject) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(obj.Body)
	if err != nil {
		return err
	}
	s.objects[key] = b
	return nil
}

func (s *stubImages) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://images.test/" + key + "?sig=x", nil
}

func (s *stubImages) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}
