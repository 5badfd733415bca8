package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/infrastructure/crypto"
)

var errStoreDown = errors.New("connection refused")

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int

	findAllErr error
	findErr    error
	saveErr    map[string]error
	saves      []string

	// afterFindAll runs once FindAll has returned its snapshot.
	afterFindAll func()
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{
		accounts: make(map[string]*domain.Account),
		saveErr:  make(map[string]error),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// seed stores a copy of a and returns its id.
func (r *stubAccountRepo) seed(a *domain.Account) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		r.nextID++
		a.ID = fmt.Sprintf("acc-%d", r.nextID)
	}
	r.accounts[a.ID] = cloneAccount(a)
	return a.ID
}

func (r *stubAccountRepo) get(id string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAccount(r.accounts[id])
}

func (r *stubAccountRepo) FindAll(ctx context.Context) ([]*domain.Account, error) {
	out, err := r.snapshot()
	if err == nil && r.afterFindAll != nil {
		r.afterFindAll()
	}
	return out, err
}

func (r *stubAccountRepo) snapshot() ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	ids := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneAccount(r.accounts[id]))
	}
	return out, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.accounts {
		if domain.NormalizeEmail(a.Email) == domain.NormalizeEmail(email) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubAccountRepo) Save(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveErr[a.ID]; err != nil {
		return nil, err
	}
	clone := cloneAccount(a)
	if clone.ID == "" {
		r.nextID++
		clone.ID = fmt.Sprintf("acc-%d", r.nextID)
	}
	r.accounts[clone.ID] = clone
	r.saves = append(r.saves, clone.ID)
	return cloneAccount(clone), nil
}

func (r *stubAccountRepo) UpdatePasswordHash(_ context.Context, id, digest string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveErr[id]; err != nil {
		return err
	}
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = digest
	a.UpdatedAt = updatedAt
	r.saves = append(r.saves, id)
	return nil
}

// setActive mutates the stored record directly, as another replica would.
func (r *stubAccountRepo) setActive(id string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[id].Active = active
}

func (r *stubAccountRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *stubAccountRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

func (r *stubAccountRepo) Ping(_ context.Context) error {
	return nil
}

func (r *stubAccountRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func testHasher() *crypto.BcryptHasher {
	return crypto.NewBcryptHasher(bcrypt.MinCost)
}

func mustHash(h *crypto.BcryptHasher, plaintext string) string {
	digest, err := h.Hash(plaintext)
	if err != nil {
		panic(err)
	}
	return digest
}
