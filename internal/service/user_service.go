package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-user-api/internal/apperr"
	"go-user-api/internal/domain"
	"go-user-api/internal/pagination"
)

// UserService 唯一允许做跨记录校验、生成 id/时间戳的层
type UserService struct {
	repo domain.UserRepository
	log  *zap.Logger
}

func NewUserService(repo domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// now 毫秒精度 UTC，保证 createdAt <= updatedAt 可比较
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func (s *UserService) ListUsers(q pagination.Query) ([]domain.User, pagination.Meta, error) {
	users, total, err := s.repo.FindAll(q.Page, q.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	s.log.Debug("users listed", zap.Int("page", q.Page), zap.Int("limit", q.Limit), zap.Int("total", total))
	return users, pagination.NewMeta(q, total), nil
}

func (s *UserService) GetUserByID(id string) (*domain.User, error) {
	u, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Warn("user not found", zap.String("user_id", id))
		return nil, apperr.NotFound(fmt.Sprintf("user with id %q not found", id))
	}
	s.log.Debug("user fetched", zap.String("user_id", id))
	return u, nil
}

func (s *UserService) CreateUser(in domain.CreateUserInput) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Warn("email already in use", zap.String("email", in.Email))
		return nil, apperr.Conflict(fmt.Sprintf("email %q is already in use", in.Email))
	}
	u, err := s.repo.Create(uuid.NewString(), in, now())
	if errors.Is(err, domain.ErrEmailTaken) {
		// 并发兜底：预检和写入之间被别的请求抢先
		s.log.Warn("email already in use", zap.String("email", in.Email))
		return nil, apperr.Conflict(fmt.Sprintf("email %q is already in use", in.Email))
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *UserService) UpdateUser(id string, in domain.UpdateUserInput) (*domain.User, error) {
	if in.Email != nil {
		existing, err := s.repo.FindByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		// 改回自己当前的邮箱不算冲突
		if existing != nil && existing.ID != id {
			s.log.Warn("email already in use", zap.String("email", *in.Email), zap.String("user_id", id))
			return nil, apperr.Conflict(fmt.Sprintf("email %q is already in use", *in.Email))
		}
	}
	u, err := s.repo.Update(id, in, now())
	if errors.Is(err, domain.ErrEmailTaken) {
		s.log.Warn("email already in use", zap.String("email", *in.Email), zap.String("user_id", id))
		return nil, apperr.Conflict(fmt.Sprintf("email %q is already in use", *in.Email))
	}
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Warn("user not found", zap.String("user_id", id))
		return nil, apperr.NotFound(fmt.Sprintf("user with id %q not found", id))
	}
	s.log.Info("user updated", zap.String("user_id", u.ID))
	return u, nil
}

func (s *UserService) DeleteUser(id string) error {
	removed, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		s.log.Warn("user not found", zap.String("user_id", id))
		return apperr.NotFound(fmt.Sprintf("user with id %q not found", id))
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}
