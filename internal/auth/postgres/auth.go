package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

// AuthRepository implements auth.Repository using GORM.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	u.Permissions = r.permissionsFor(u.ID)
	return &u, nil
}

func (r *AuthRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	u.Permissions = r.permissionsFor(u.ID)
	return &u, nil
}

func (r *AuthRepository) ExistsByEmailOrEmployeeID(email, employeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).
		Where("email = ? OR employee_id = ?", email, employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *AuthRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

// UpdatePassword sets the new hash, records the change time and clears any
// outstanding reset token in one statement.
func (r *AuthRepository) UpdatePassword(id int64, hash string, changedAt time.Time) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":          hash,
			"password_changed_at":    changedAt,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		}).Error
}

func (r *AuthRepository) SetResetToken(id int64, tokenHash string, expiresAt time.Time) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": expiresAt,
		}).Error
}

func (r *AuthRepository) GetByResetTokenHash(tokenHash string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("reset_token_hash = ?", tokenHash).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) permissionsFor(userID int64) []string {
	var names []string
	r.db.Model(&user.Permission{}).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &names)
	return names
}
