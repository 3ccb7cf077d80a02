package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps users in a map and enforces the same uniqueness
// rules as the users table. Tests across packages build on it.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[int64]User{}}
}

func lower(s string) string {
	return strings.ToLower(s)
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) find(match func(User) bool) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) GetByClerkID(_ context.Context, clerkID string) (*User, error) {
	return r.find(func(u User) bool { return u.ClerkID != nil && *u.ClerkID == clerkID })
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	return r.find(func(u User) bool { return u.Email != nil && lower(*u.Email) == lower(email) })
}

func (r *MemoryRepository) List(_ context.Context, take int) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if take > 0 && len(users) > take {
		users = users[:take]
	}
	return users, nil
}

func (r *MemoryRepository) clashLocked(user *User) bool {
	for _, other := range r.users {
		if other.ID == user.ID {
			continue
		}
		if user.ClerkID != nil && other.ClerkID != nil && *user.ClerkID == *other.ClerkID {
			return true
		}
		if user.Email != nil && other.Email != nil && lower(*user.Email) == lower(*other.Email) {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clashLocked(user) {
		return ErrDuplicateUser
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

// Put stores user under its own id, for seeding fixed ids such as the admin.
func (r *MemoryRepository) Put(user User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID > r.nextID {
		r.nextID = user.ID
	}
	r.users[user.ID] = user
}

func (r *MemoryRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	if r.clashLocked(user) {
		return ErrDuplicateUser
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
