package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role codes
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Privilege codes checked by the HTTP middleware
const (
	PrivProductWrite = "product:write"
	PrivSaleCreate   = "sale:create"
	PrivSaleVoid     = "sale:void"
	PrivReportView   = "report:view"
	PrivUserManage   = "user:manage"
)

// RolePrivileges maps each role to the privileges it grants.
var RolePrivileges = map[string][]string{
	RoleAdmin: {
		PrivProductWrite,
		PrivSaleCreate,
		PrivSaleVoid,
		PrivReportView,
		PrivUserManage,
	},
	RoleCashier: {
		PrivSaleCreate,
	},
}

// User is a cashier or administrator account.
type User struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName string    `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	Role     string    `gorm:"type:varchar(16);not null;default:'cashier'" json:"role" validate:"required,oneof=admin cashier"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
	Timestamps
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate generates the UUID when the caller left it empty.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (u *User) Privileges() []string {
	privs := RolePrivileges[u.Role]
	out := make([]string, len(privs))
	copy(out, privs)
	return out
}

func (u *User) HasPrivilege(code string) bool {
	for _, p := range RolePrivileges[u.Role] {
		if p == code {
			return true
		}
	}
	return false
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	Privileges []string  `json:"privileges"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		IsActive:   u.IsActive,
		Privileges: u.Privileges(),
		CreatedAt:  u.CreatedAt,
	}
}
