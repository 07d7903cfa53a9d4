package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/core/events"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

// Service is the main auth service with dependencies.
type Service struct {
	repo       Repository
	tokens     TokenGeneratorAPI
	bus        *events.EventBus
	bcryptCost int
	resetTTL   time.Duration
	logger     *slog.Logger
}

func NewService(repo Repository, tokens TokenGeneratorAPI, bus *events.EventBus, bcryptCost int, resetTTL time.Duration, logger *slog.Logger) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if resetTTL <= 0 {
		resetTTL = 10 * time.Minute
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bus:        bus,
		bcryptCost: bcryptCost,
		resetTTL:   resetTTL,
		logger:     logger,
	}
}

// Register creates a new account and issues a session token.
func (s *Service) Register(dto RegisterDTO) (*user.User, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	exists, err := s.repo.ExistsByEmailOrEmployeeID(dto.Email, dto.EmployeeID)
	if err != nil {
		s.logger.Error("registration uniqueness check failed", "error", err)
		return nil, "", err
	}
	if exists {
		return nil, "", internal.ErrDuplicateUser
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	u := &user.User{
		Name:         dto.Name,
		Email:        dto.Email,
		EmployeeID:   dto.EmployeeID,
		Department:   dto.Department,
		Designation:  dto.Designation,
		PhoneNumber:  dto.PhoneNumber,
		Role:         user.RoleStaff,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", u.ID, "employee_id", u.EmployeeID)
	return u, token, nil
}

// Authenticate validates credentials and issues a session token.
func (s *Service) Authenticate(dto LoginDTO) (*user.User, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	u, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, "", internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		return nil, "", internal.ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, "", internal.ErrUserInactive
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "email", u.Email)
	return u, token, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// ResolveSession turns validated claims into a request principal. Tokens
// issued before the user's last password change are rejected even when
// not yet expired.
func (s *Service) ResolveSession(claims *Claims) (*internal.SessionUser, error) {
	u, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithMessage("the user belonging to this token no longer exists")
	}

	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	if u.PasswordChangedAt != nil && claims.IssuedAt != nil {
		// The JWT iat claim carries whole seconds, so the change time must
		// be compared at the same granularity or a token re-issued in the
		// same second as the password change would be rejected.
		if claims.IssuedAt.Time.Before(u.PasswordChangedAt.Truncate(time.Second)) {
			return nil, internal.ErrStaleToken
		}
	}

	return u.ToSession(), nil
}

// ForgotPassword stores a hashed reset token and returns the raw token.
func (s *Service) ForgotPassword(email string) (string, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", internal.ErrUserNotFound.WithMessage("no user with email %s", email)
	}

	raw, digest, err := GenerateResetToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.repo.SetResetToken(u.ID, digest, expiresAt); err != nil {
		s.logger.Error("failed to persist reset token", "user_id", u.ID, "error", err)
		return "", err
	}

	if s.bus != nil {
		event := events.NewPasswordResetRequestedEvent(u.Email, u.Name, raw, expiresAt)
		if err := s.bus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish password reset event", "error", err, "user_id", u.ID)
		}
	}

	s.logger.Info("password reset requested", "user_id", u.ID)
	return raw, nil
}

// ResetPassword consumes a raw reset token and sets a new password.
func (s *Service) ResetPassword(rawToken, newPassword string) (*user.User, string, error) {
	if err := (ResetPasswordDTO{Password: newPassword}).Validate(); err != nil {
		return nil, "", err
	}

	u, err := s.repo.GetByResetTokenHash(HashResetToken(rawToken))
	if err != nil {
		return nil, "", internal.ErrResetTokenInvalid
	}
	if u.ResetTokenExpiresAt == nil || u.ResetTokenExpiresAt.Before(time.Now()) {
		return nil, "", internal.ErrResetTokenInvalid
	}

	hash, err := HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	if err := s.repo.UpdatePassword(u.ID, hash, time.Now()); err != nil {
		s.logger.Error("failed to reset password", "user_id", u.ID, "error", err)
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("password reset completed", "user_id", u.ID)
	return u, token, nil
}

// UpdatePassword changes the password of a logged-in user and re-issues
// a session token.
func (s *Service) UpdatePassword(userID int64, dto UpdatePasswordDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return "", internal.ErrUserNotFound
	}

	if err := VerifyPassword(u.PasswordHash, dto.CurrentPassword); err != nil {
		return "", internal.NewUnauthorizedError("current password is incorrect", internal.ErrCodeInvalidCredentials)
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdatePassword(u.ID, hash, time.Now()); err != nil {
		s.logger.Error("failed to update password", "user_id", u.ID, "error", err)
		return "", err
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return "", err
	}

	s.logger.Info("password updated", "user_id", u.ID)
	return token, nil
}
