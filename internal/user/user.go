package user

import (
	"time"

	"github.com/Ujjwols/tender-internproject/internal"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// User is the persisted account record. PasswordHash and the reset-token
// fields never leave the server.
type User struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	EmployeeID          string     `json:"employee_id" gorm:"column:employee_id;uniqueIndex;not null"`
	Email               string     `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Name                string     `json:"name" gorm:"column:name;not null"`
	Department          string     `json:"department" gorm:"column:department"`
	Designation         string     `json:"designation" gorm:"column:designation"`
	PhoneNumber         string     `json:"phone_number" gorm:"column:phone_number"`
	Role                string     `json:"role" gorm:"column:role;default:staff"`
	PasswordHash        string     `json:"-" gorm:"column:password_hash;not null"`
	PasswordChangedAt   *time.Time `json:"-" gorm:"column:password_changed_at"`
	ResetTokenHash      *string    `json:"-" gorm:"column:reset_token_hash"`
	ResetTokenExpiresAt *time.Time `json:"-" gorm:"column:reset_token_expires_at"`
	IsActive            bool       `json:"is_active" gorm:"column:is_active;default:true"`
	OTPEnabled          bool       `json:"otp_enabled" gorm:"column:otp_enabled;default:false"`
	CreatedAt           time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	Permissions         []string   `json:"permissions,omitempty" gorm:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ToSession converts a persisted user into the request-context principal.
func (u *User) ToSession() *internal.SessionUser {
	return &internal.SessionUser{
		ID:          u.ID,
		EmployeeID:  u.EmployeeID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
}

type Permission struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}

type UserPermission struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"column:user_id;not null"`
	PermissionID int64     `json:"permission_id" gorm:"column:permission_id;not null"`
	GrantedBy    *int64    `json:"granted_by,omitempty" gorm:"column:granted_by"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
