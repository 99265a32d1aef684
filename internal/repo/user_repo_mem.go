package repo

import (
	"sync"
	"time"

	"go-user-api/internal/domain"
)

// MemoryUserRepo 进程内存储，插入序保存；进程重启即清空。
// gin 并发跑 handler，email 唯一性检查和写入在同一个写锁临界区内完成。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users []domain.User
}

func NewMemoryUserRepo() *MemoryUserRepo { return &MemoryUserRepo{} }

func (r *MemoryUserRepo) FindAll(page, limit int) ([]domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.users)
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]domain.User, end-offset)
	copy(out, r.users[offset:end])
	return out, total, nil
}

func (r *MemoryUserRepo) FindByID(id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) FindByEmail(email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) Create(id string, in domain.CreateUserInput, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Email == in.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	u := domain.User{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users = append(r.users, u)
	return &u, nil
}

func (r *MemoryUserRepo) Update(id string, in domain.UpdateUserInput, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in.Email != nil {
		for i := range r.users {
			if r.users[i].Email == *in.Email && r.users[i].ID != id {
				return nil, domain.ErrEmailTaken
			}
		}
	}
	for i := range r.users {
		if r.users[i].ID != id {
			continue
		}
		if in.Name != nil {
			r.users[i].Name = *in.Name
		}
		if in.Email != nil {
			r.users[i].Email = *in.Email
		}
		if in.Role != nil {
			r.users[i].Role = *in.Role
		}
		r.users[i].UpdatedAt = now
		u := r.users[i]
		return &u, nil
	}
	return nil, nil
}

func (r *MemoryUserRepo) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
