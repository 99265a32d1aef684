package domain

import (
	"errors"
	"time"
)

// ErrEmailTaken 写锁内唯一性兜底信号；Service 映射为 CONFLICT
var ErrEmailTaken = errors.New("email already taken")

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole 闭集枚举，未知取值返回 false
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // 统一小写
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserInput 校验层产出的已归一化入参（email 已小写、name 已 trim）
type CreateUserInput struct {
	Name  string
	Email string
	Role  Role
}

// UpdateUserInput 局部更新，nil 字段表示不改
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *Role
}

func (in UpdateUserInput) Empty() bool {
	return in.Name == nil && in.Email == nil && in.Role == nil
}

// UserRepository 纯数据操作；id/时间戳由 Service 生成后传入，
// 缺失记录一律以 nil/false 表示而不是 error。
// Create/Update 在自己的写锁内校验 email 唯一，撞上返回 ErrEmailTaken —
// 检查和写入必须同临界区，否则并发请求能双双通过 Service 的预检
type UserRepository interface {
	FindAll(page, limit int) ([]User, int, error)
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	Create(id string, in CreateUserInput, now time.Time) (*User, error)
	Update(id string, in UpdateUserInput, now time.Time) (*User, error)
	Delete(id string) (bool, error)
}
