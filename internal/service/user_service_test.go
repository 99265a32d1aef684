package service

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-user-api/internal/apperr"
	"go-user-api/internal/domain"
	"go-user-api/internal/pagination"
	"go-user-api/internal/repo"
)

func newService() (*UserService, *repo.MemoryUserRepo) {
	r := repo.NewMemoryUserRepo()
	return NewUserService(r, zap.NewNop()), r
}

func mustCreate(t *testing.T, s *UserService, name, email string) *domain.User {
	t.Helper()
	u, err := s.CreateUser(domain.CreateUserInput{Name: name, Email: email, Role: domain.RoleViewer})
	require.NoError(t, err)
	return u
}

func TestCreateUser_RoundTrip(t *testing.T) {
	s, _ := newService()

	created, err := s.CreateUser(domain.CreateUserInput{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Role:  domain.RoleViewer,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, domain.RoleViewer, got.Role)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, r := newService()
	mustCreate(t, s, "Jane", "jane@example.com")

	_, err := s.CreateUser(domain.CreateUserInput{
		Name: "Impostor", Email: "jane@example.com", Role: domain.RoleAdmin,
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeConflict, ae.Code)
	assert.Contains(t, ae.Message, "jane@example.com")

	// 失败不落库
	_, total, err := r.FindAll(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCreateUser_UniqueIDs(t *testing.T) {
	s, _ := newService()
	a := mustCreate(t, s, "A", "a@example.com")
	b := mustCreate(t, s, "B", "b@example.com")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateUser_ConcurrentSameEmail_SingleWinner(t *testing.T) {
	s, r := newService()
	const workers = 8
	start := make(chan struct{})
	var wg sync.WaitGroup
	var created, conflicts int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.CreateUser(domain.CreateUserInput{
				Name: "Jane", Email: "jane@example.com", Role: domain.RoleViewer,
			})
			if err == nil {
				atomic.AddInt64(&created, 1)
				return
			}
			var ae *apperr.Error
			if errors.As(err, &ae) && ae.Code == apperr.CodeConflict {
				atomic.AddInt64(&conflicts, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, created, "exactly one create may win")
	assert.EqualValues(t, workers-1, conflicts, "losers all surface CONFLICT")
	_, total, err := r.FindAll(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

// racingRepo 模拟预检通过、写入时才撞唯一性的窗口
type racingRepo struct{ domain.UserRepository }

func (r *racingRepo) FindByEmail(email string) (*domain.User, error) { return nil, nil }
func (r *racingRepo) Create(id string, in domain.CreateUserInput, now time.Time) (*domain.User, error) {
	return nil, domain.ErrEmailTaken
}
func (r *racingRepo) Update(id string, in domain.UpdateUserInput, now time.Time) (*domain.User, error) {
	return nil, domain.ErrEmailTaken
}

func TestCreateUser_RaceLoserMapsToConflict(t *testing.T) {
	s := NewUserService(&racingRepo{}, zap.NewNop())

	_, err := s.CreateUser(domain.CreateUserInput{
		Name: "Jane", Email: "jane@example.com", Role: domain.RoleViewer,
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeConflict, ae.Code)
	assert.Contains(t, ae.Message, "jane@example.com")
}

func TestUpdateUser_RaceLoserMapsToConflict(t *testing.T) {
	s := NewUserService(&racingRepo{}, zap.NewNop())

	email := "jane@example.com"
	_, err := s.UpdateUser("some-id", domain.UpdateUserInput{Email: &email})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeConflict, ae.Code)
}

func TestGetUserByID_NotFound(t *testing.T) {
	s, _ := newService()

	_, err := s.GetUserByID("missing-id")

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Contains(t, ae.Message, "missing-id")
}

func TestUpdateUser_PartialOnlyChangesSuppliedFields(t *testing.T) {
	s, _ := newService()
	created := mustCreate(t, s, "Jane", "jane@example.com")

	time.Sleep(2 * time.Millisecond) // 时间戳毫秒精度，保证可观察到变化

	newName := "Janet"
	updated, err := s.UpdateUser(created.ID, domain.UpdateUserInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Janet", updated.Name)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.Role, updated.Role)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateUser_EmailConflictWithOtherUser(t *testing.T) {
	s, _ := newService()
	mustCreate(t, s, "Jane", "jane@example.com")
	other := mustCreate(t, s, "John", "john@example.com")

	taken := "jane@example.com"
	_, err := s.UpdateUser(other.ID, domain.UpdateUserInput{Email: &taken})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeConflict, ae.Code)
}

func TestUpdateUser_OwnEmailIsNotAConflict(t *testing.T) {
	s, _ := newService()
	created := mustCreate(t, s, "Jane", "jane@example.com")

	same := "jane@example.com"
	updated, err := s.UpdateUser(created.ID, domain.UpdateUserInput{Email: &same})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", updated.Email)
}

func TestUpdateUser_NotFound(t *testing.T) {
	s, _ := newService()
	name := "x"
	_, err := s.UpdateUser("missing", domain.UpdateUserInput{Name: &name})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
}

func TestDeleteUser(t *testing.T) {
	s, r := newService()
	created := mustCreate(t, s, "Jane", "jane@example.com")

	require.NoError(t, s.DeleteUser(created.ID))

	_, total, err := r.FindAll(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestDeleteUser_NotFound(t *testing.T) {
	s, r := newService()
	mustCreate(t, s, "Jane", "jane@example.com")

	err := s.DeleteUser("missing")

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)

	_, total, ferr := r.FindAll(1, 10)
	require.NoError(t, ferr)
	assert.Equal(t, 1, total)
}

func TestListUsers_Meta(t *testing.T) {
	s, _ := newService()
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		mustCreate(t, s, "User", email)
	}

	users, meta, err := s.ListUsers(pagination.Query{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, meta)
}

// failingRepo 模拟 store 意外失败，错误必须原样上抛
type failingRepo struct{ err error }

func (f *failingRepo) FindAll(page, limit int) ([]domain.User, int, error) { return nil, 0, f.err }
func (f *failingRepo) FindByID(id string) (*domain.User, error)            { return nil, f.err }
func (f *failingRepo) FindByEmail(email string) (*domain.User, error)      { return nil, f.err }
func (f *failingRepo) Create(id string, in domain.CreateUserInput, now time.Time) (*domain.User, error) {
	return nil, f.err
}
func (f *failingRepo) Update(id string, in domain.UpdateUserInput, now time.Time) (*domain.User, error) {
	return nil, f.err
}
func (f *failingRepo) Delete(id string) (bool, error) { return false, f.err }

func TestRepositoryFailure_PropagatesUnwrapped(t *testing.T) {
	storeErr := errors.New("store exploded")
	s := NewUserService(&failingRepo{err: storeErr}, zap.NewNop())

	_, _, err := s.ListUsers(pagination.Default())
	assert.Same(t, storeErr, err)

	var ae *apperr.Error
	assert.False(t, errors.As(err, &ae), "unexpected failures must not be wrapped into operational kinds")
}
