package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory Store. Transactions are serialized and roll back by snapshot.
// ---------------------------------------------------------------------------

type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users     map[string]*domain.User
	regs      map[string]*domain.RegistrationRequest
	nutrition map[string]*domain.NutritionEntry
	seq       int
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]*domain.User),
		regs:      make(map[string]*domain.RegistrationRequest),
		nutrition: make(map[string]*domain.NutritionEntry),
	}
}

func (s *memStore) Users() ports.UserRepository                 { return memUsers{s} }
func (s *memStore) Registrations() ports.RegistrationRepository { return memRegs{s} }
func (s *memStore) Nutrition() ports.NutritionRepository        { return memNutrition{s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	users     map[string]*domain.User
	regs      map[string]*domain.RegistrationRequest
	nutrition map[string]*domain.NutritionEntry
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		users:     make(map[string]*domain.User, len(s.users)),
		regs:      make(map[string]*domain.RegistrationRequest, len(s.regs)),
		nutrition: make(map[string]*domain.NutritionEntry, len(s.nutrition)),
	}
	for k, v := range s.users {
		snap.users[k] = cloneUser(v)
	}
	for k, v := range s.regs {
		snap.regs[k] = cloneReg(v)
	}
	for k, v := range s.nutrition {
		c := *v
		snap.nutrition[k] = &c
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.regs, s.nutrition = snap.users, snap.regs, snap.nutrition
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneReg(r *domain.RegistrationRequest) *domain.RegistrationRequest {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// seedUser stores u directly with a hash of password at bcrypt.MinCost.
func (s *memStore) seedUser(u domain.User, password string) *domain.User {
	hash, err := hashPassword(password, testCost)
	if err != nil {
		panic(err)
	}
	u.PasswordHash = hash
	created, err := s.Users().Create(context.Background(), &u)
	if err != nil {
		panic(err)
	}
	return created
}

// --- users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(u)
	if c.ID == "" {
		c.ID = r.s.nextID("user")
	}
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) LockByID(ctx context.Context, id string) (*domain.User, error) {
	return r.FindByID(ctx, id)
}

func (r memUsers) ExistsByUsernameAndPhone(_ context.Context, username, phone string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username && u.PhoneNo == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r memUsers) SubscriptionEnds(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]string, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u.SubscriptionEnd)
	}
	return out, nil
}

func (r memUsers) update(id string, fn func(u *domain.User) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	return fn(u)
}

func (r memUsers) UpdateProfile(_ context.Context, id string, p domain.Profile) error {
	return r.update(id, func(u *domain.User) error {
		for otherID, other := range r.s.users {
			if otherID != id && other.Username == p.Username {
				return domain.ErrUserExists
			}
		}
		u.Username, u.PhoneNo, u.Gender, u.DOB, u.Height, u.Weight = p.Username, p.PhoneNo, p.Gender, p.DOB, p.Height, p.Weight
		return nil
	})
}

func (r memUsers) UpdateGoals(_ context.Context, id string, g domain.Goals) error {
	return r.update(id, func(u *domain.User) error { u.Goals = g; return nil })
}

func (r memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return r.update(id, func(u *domain.User) error { u.PasswordHash = hash; return nil })
}

func (r memUsers) UpdateProfileImage(_ context.Context, id, key string) error {
	return r.update(id, func(u *domain.User) error { u.ProfileImageKey = key; return nil })
}

func (r memUsers) UpdateDetails(_ context.Context, id string, p ports.UserDetailsPatch) error {
	return r.update(id, func(u *domain.User) error {
		if p.PasswordHash != nil {
			u.PasswordHash = *p.PasswordHash
		}
		if p.SubscriptionEnd != nil {
			u.SubscriptionEnd = *p.SubscriptionEnd
		}
		if p.DeviceID != nil {
			u.DeviceID = *p.DeviceID
		}
		return nil
	})
}

func (r memUsers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- registrations ---

type memRegs struct{ s *memStore }

func (r memRegs) Create(_ context.Context, req *domain.RegistrationRequest) (*domain.RegistrationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := cloneReg(req)
	if c.ID == "" {
		c.ID = r.s.nextID("reg")
	}
	r.s.regs[c.ID] = c
	return cloneReg(c), nil
}

func (r memRegs) FindByID(_ context.Context, id string) (*domain.RegistrationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.regs[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return cloneReg(req), nil
}

func (r memRegs) LockByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	return r.FindByID(ctx, id)
}

func (r memRegs) ListByStatus(_ context.Context, status domain.RegistrationStatus) ([]*domain.RegistrationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.RegistrationRequest
	for _, req := range r.s.regs {
		if req.Status == status {
			out = append(out, cloneReg(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memRegs) UpdateStatus(_ context.Context, id string, ch ports.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.regs[id]
	if !ok {
		return domain.ErrRegistrationNotFound
	}
	if req.Status != ch.From {
		return domain.ErrRegistrationProcessed
	}
	at := ch.ProcessedAt
	req.Status, req.ProcessedAt, req.ProcessedBy, req.Notes = ch.To, &at, ch.ProcessedBy, ch.Notes
	return nil
}

// --- nutrition ---

type memNutrition struct{ s *memStore }

func nutritionKey(userID, date string) string { return userID + "|" + date }

func (r memNutrition) Get(_ context.Context, userID, date string) (*domain.NutritionEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.nutrition[nutritionKey(userID, date)]
	if !ok {
		return nil, domain.ErrNutritionNotFound
	}
	c := *e
	return &c, nil
}

func (r memNutrition) Upsert(_ context.Context, e *domain.NutritionEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	r.s.nutrition[nutritionKey(e.UserID, e.Date)] = &c
	return nil
}

func (r memNutrition) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k := range r.s.nutrition {
		if strings.HasPrefix(k, userID+"|") {
			delete(r.s.nutrition, k)
		}
	}
	return nil
}
