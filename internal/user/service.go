package user

import (
	"log/slog"

	"github.com/Ujjwols/tender-internproject/internal"
)

// Repository defines the data access methods for users.
type Repository interface {
	GetByID(id int64) (*User, error)
	GetByEmployeeID(employeeID string) (*User, error)
	GetAll() ([]*User, error)
	Update(u *User) error
	ReplacePermissions(userID int64, permissions []string, grantedBy int64) error
	Delete(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByEmployeeID(employeeID string) (*User, error) {
	u, err := s.repo.GetByEmployeeID(employeeID)
	if err != nil {
		s.logger.Warn("user lookup failed", "employee_id", employeeID, "error", err)
		return nil, internal.ErrUserNotFound.WithMessage("no user with employee id %s", employeeID)
	}
	return u, nil
}

// GetAll returns every account, newest first, password hashes excluded by
// the model's JSON tags.
func (s *Service) GetAll() ([]*User, error) {
	return s.repo.GetAll()
}

// UpdateMe applies the self-service whitelist to the caller's own record.
func (s *Service) UpdateMe(userID int64, dto UpdateMeDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	applyString(&u.Name, dto.Name)
	applyString(&u.Email, dto.Email)
	applyString(&u.Department, dto.Department)
	applyString(&u.Designation, dto.Designation)
	applyString(&u.PhoneNumber, dto.PhoneNumber)

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update profile", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID)
	return u, nil
}

// AdminUpdate applies the admin whitelist to an arbitrary user record.
func (s *Service) AdminUpdate(targetID int64, actorID int64, dto AdminUpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	applyString(&u.Name, dto.Name)
	applyString(&u.Email, dto.Email)
	applyString(&u.Department, dto.Department)
	applyString(&u.Designation, dto.Designation)
	applyString(&u.PhoneNumber, dto.PhoneNumber)
	applyString(&u.Role, dto.Role)
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.OTPEnabled != nil {
		u.OTPEnabled = *dto.OTPEnabled
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "user_id", targetID, "error", err)
		return nil, err
	}

	if dto.Permissions != nil {
		if err := s.repo.ReplacePermissions(targetID, *dto.Permissions, actorID); err != nil {
			s.logger.Error("failed to replace permissions", "user_id", targetID, "error", err)
			return nil, err
		}
		u.Permissions = *dto.Permissions
	}

	s.logger.Info("user updated by admin", "user_id", targetID, "actor_id", actorID)
	return u, nil
}

// Delete removes a user account. Deleting one's own account is forbidden.
func (s *Service) Delete(targetID, actorID int64) error {
	if targetID == actorID {
		s.logger.Warn("self-delete rejected", "user_id", actorID)
		return internal.ErrSelfDelete
	}

	if _, err := s.repo.GetByID(targetID); err != nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.Delete(targetID); err != nil {
		s.logger.Error("failed to delete user", "user_id", targetID, "error", err)
		return err
	}

	s.logger.Info("user deleted", "user_id", targetID, "actor_id", actorID)
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
