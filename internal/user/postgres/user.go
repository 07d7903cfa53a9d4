package postgres

import (
	"gorm.io/gorm"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

// UserRepository implements user.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
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

func (r *UserRepository) GetByEmployeeID(employeeID string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("employee_id = ?", employeeID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	u.Permissions = r.permissionsFor(u.ID)
	return &u, nil
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}

// ReplacePermissions swaps the user's permission set wholesale. Unknown
// permission names are skipped rather than created implicitly.
func (r *UserRepository) ReplacePermissions(userID int64, permissions []string, grantedBy int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&user.UserPermission{}).Error; err != nil {
			return err
		}

		for _, name := range permissions {
			var perm user.Permission
			if err := tx.Where("name = ?", name).First(&perm).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return err
			}
			up := user.UserPermission{
				UserID:       userID,
				PermissionID: perm.ID,
				GrantedBy:    &grantedBy,
			}
			if err := tx.Create(&up).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&user.UserPermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user.User{}, id).Error
	})
}

func (r *UserRepository) permissionsFor(userID int64) []string {
	var names []string
	r.db.Model(&user.Permission{}).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &names)
	return names
}
