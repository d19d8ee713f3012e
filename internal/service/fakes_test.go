package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/signora/eventwall/internal/model"
	q "github.com/signora/eventwall/internal/queue"
	"github.com/signora/eventwall/internal/repository"
	"github.com/signora/eventwall/internal/utils"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testIssuer() *utils.TokenIssuer {
	return utils.NewTokenIssuer("access-secret-for-tests", "refresh-secret-for-tests")
}

func testHasher() *utils.PasswordHasher { return utils.NewPasswordHasher(bcrypt.MinCost) }

// memUsers is an in-memory UserStore/UserDirectory enforcing the unique
// email and national id keys.
type memUsers struct {
	mu   sync.Mutex
	byID map[string]model.User
	err  error // returned by every call when set
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u.Email = repository.NormalizeEmail(u.Email)
	for _, x := range m.byID {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	for _, u := range m.byID {
		if u.Email == repository.NormalizeEmail(email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByNationalID(_ context.Context, nid string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.NationalID == nid {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) CompleteOnboarding(_ context.Context, id string, o model.Onboarding) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	for _, x := range m.byID {
		if x.ID != id && o.NationalID != "" && x.NationalID == o.NationalID {
			return model.User{}, repository.ErrNationalIDExists
		}
	}
	dob := o.DateOfBirth
	u.FirstName, u.LastName, u.PhoneNumber, u.NationalID = o.FirstName, o.LastName, o.PhoneNumber, o.NationalID
	u.DateOfBirth = &dob
	u.Address, u.City, u.Province, u.PostalCode = o.Address, o.City, o.Province, o.PostalCode
	u.GNDivision, u.DivisionalSecretariat = o.GNDivision, o.DivisionalSecretariat
	u.IsOnboarded = true
	m.byID[id] = u
	return u, nil
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, id string, upd model.UserUpdate) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.City != nil {
		u.City = *upd.City
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	m.byID[id] = u
	return u, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) put(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
}

type memOfficers struct {
	byID map[string]model.Officer
	err  error
}

func newMemOfficers(officers ...model.Officer) *memOfficers {
	m := &memOfficers{byID: map[string]model.Officer{}}
	for _, o := range officers {
		m.byID[o.ID] = o
	}
	return m
}

func (m *memOfficers) GetByEmail(_ context.Context, email string) (model.Officer, error) {
	if m.err != nil {
		return model.Officer{}, m.err
	}
	for _, o := range m.byID {
		if o.Email == repository.NormalizeEmail(email) {
			return o, nil
		}
	}
	return model.Officer{}, repository.ErrNotFound
}

func (m *memOfficers) GetByID(_ context.Context, id string) (model.Officer, error) {
	o, ok := m.byID[id]
	if !ok {
		return model.Officer{}, repository.ErrNotFound
	}
	return o, nil
}

// recordingNotifier captures events and optionally fails.
type recordingNotifier struct {
	mu     sync.Mutex
	events []q.NotificationEvent
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, ev q.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, ev := range n.events {
		out[i] = ev.Title
	}
	return out
}

// memReactions is an in-memory ReactionStore with the (post, user) unique
// key.
type memReactions struct {
	mu      sync.Mutex
	rows    map[[2]string]model.PostReaction
	missing map[string]bool // post ids that do not exist
}

func newMemReactions() *memReactions {
	return &memReactions{rows: map[[2]string]model.PostReaction{}, missing: map[string]bool{}}
}

func (m *memReactions) Get(_ context.Context, postID, userID string) (model.PostReaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.rows[[2]string{postID, userID}]
	if !ok {
		return model.PostReaction{}, repository.ErrNotFound
	}
	return pr, nil
}

func (m *memReactions) Create(_ context.Context, pr *model.PostReaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.missing[pr.PostID] {
		return repository.ErrNotFound
	}
	k := [2]string{pr.PostID, pr.UserID}
	if _, ok := m.rows[k]; ok {
		return repository.ErrDuplicate
	}
	m.rows[k] = *pr
	return nil
}

func (m *memReactions) UpdateType(_ context.Context, id string, t model.ReactionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, pr := range m.rows {
		if pr.ID == id {
			pr.Type = t
			m.rows[k] = pr
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memReactions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, pr := range m.rows {
		if pr.ID == id {
			delete(m.rows, k)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memReactions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// staleReactions hides the stored row from the first Get, as if another
// process inserted it between the lookup and the create.
type staleReactions struct {
	*memReactions
	once sync.Once
}

func (s *staleReactions) Get(ctx context.Context, postID, userID string) (model.PostReaction, error) {
	stale := false
	s.once.Do(func() { stale = true })
	if stale {
		return model.PostReaction{}, repository.ErrNotFound
	}
	return s.memReactions.Get(ctx, postID, userID)
}

var errBoom = errors.New("boom")
