package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vedran77/accounts/internal/domain"
	"github.com/vedran77/accounts/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository with the same uniqueness and
// soft-delete rules as the real stores.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]domain.User

	err     error
	saveErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) FindByLogin(_ context.Context, value string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.IsDeleted {
			continue
		}
		if u.Email == value || u.UserName == value || (u.Phone != "" && u.Phone == value) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmailOrUsername(_ context.Context, email, userName string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email || u.UserName == userName {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string, includeDeleted bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok || (u.IsDeleted && !includeDeleted) {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) ListActive(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.User
	for _, u := range r.users {
		if u.IsDeleted {
			continue
		}
		u.Password = ""
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email || u.UserName == user.UserName {
			return repository.ErrDuplicateKey
		}
	}
	r.nextID++
	now := time.Now().UTC()
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for id, u := range r.users {
		if id != user.ID && (u.Email == user.Email || u.UserName == user.UserName) {
			return repository.ErrDuplicateKey
		}
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

// stored returns the physical record regardless of soft-delete state.
func (r *fakeUserRepo) stored(id string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	return u, ok
}
