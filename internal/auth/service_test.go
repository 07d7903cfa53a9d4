package auth_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/auth"
	"github.com/Ujjwols/tender-internproject/internal/core/events"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthService Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	users       map[int64]*user.User
	createError error
	getError    error
	nextID      int64
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:  make(map[int64]*user.User),
		nextID: 1,
	}
}

func (m *mockAuthRepository) GetByEmail(email string) (*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(id int64) (*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, exists := m.users[id]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockAuthRepository) ExistsByEmailOrEmployeeID(email, employeeID string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email || u.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAuthRepository) Create(u *user.User) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *mockAuthRepository) UpdatePassword(id int64, hash string, changedAt time.Time) error {
	u, exists := m.users[id]
	if !exists {
		return internal.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.PasswordChangedAt = &changedAt
	u.ResetTokenHash = nil
	u.ResetTokenExpiresAt = nil
	return nil
}

func (m *mockAuthRepository) SetResetToken(id int64, tokenHash string, expiresAt time.Time) error {
	u, exists := m.users[id]
	if !exists {
		return internal.ErrUserNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (m *mockAuthRepository) GetByResetTokenHash(tokenHash string) (*user.User, error) {
	for _, u := range m.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash {
			clone := *u
			return &clone, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

var _ = Describe("AuthService", func() {
	var (
		svc      *auth.Service
		mockRepo *mockAuthRepository
		tokens   *auth.JWTTokenGenerator
		logger   *slog.Logger
	)

	seedUser := func(email, employeeID, password string, active bool) *user.User {
		hash, err := auth.HashPassword(password, 4)
		Expect(err).ToNot(HaveOccurred())
		u := &user.User{
			Name:         "Test User",
			Email:        email,
			EmployeeID:   employeeID,
			Role:         user.RoleStaff,
			PasswordHash: hash,
			IsActive:     active,
		}
		Expect(mockRepo.Create(u)).To(Succeed())
		return mockRepo.users[u.ID]
	}

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokens = auth.NewJWTTokenGenerator("test-secret-at-least-32-bytes-long", time.Hour)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = auth.NewService(mockRepo, tokens, nil, 4, 10*time.Minute, logger)
	})

	Describe("Register", func() {
		It("should create the account and issue a token", func() {
			dto := auth.RegisterDTO{
				Name:       "Alice",
				Email:      "alice@tender.local",
				EmployeeID: "E100",
				Password:   "password123",
			}

			u, token, err := svc.Register(dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.Role).To(Equal(user.RoleStaff))
			Expect(u.IsActive).To(BeTrue())
			Expect(token).ToNot(BeEmpty())

			claims, err := tokens.ValidateToken(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(u.ID))
		})

		It("should never store the raw password", func() {
			dto := auth.RegisterDTO{
				Name:       "Alice",
				Email:      "alice@tender.local",
				EmployeeID: "E100",
				Password:   "password123",
			}

			u, _, err := svc.Register(dto)

			Expect(err).ToNot(HaveOccurred())
			stored := mockRepo.users[u.ID]
			Expect(stored.PasswordHash).ToNot(Equal("password123"))
			Expect(auth.VerifyPassword(stored.PasswordHash, "password123")).To(Succeed())
		})

		It("should reject a duplicate email or employee id", func() {
			seedUser("alice@tender.local", "E100", "password123", true)

			dto := auth.RegisterDTO{
				Name:       "Impostor",
				Email:      "alice@tender.local",
				EmployeeID: "E999",
				Password:   "password123",
			}

			_, _, err := svc.Register(dto)

			Expect(err).To(Equal(internal.ErrDuplicateUser))
		})

		It("should reject a short password", func() {
			dto := auth.RegisterDTO{
				Name:       "Alice",
				Email:      "alice@tender.local",
				EmployeeID: "E100",
				Password:   "short",
			}

			_, _, err := svc.Register(dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPassword))
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			seedUser("alice@tender.local", "E100", "password123", true)
		})

		It("should issue a token for valid credentials", func() {
			u, token, err := svc.Authenticate(auth.LoginDTO{
				Email:    "alice@tender.local",
				Password: "password123",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Email).To(Equal("alice@tender.local"))
			Expect(token).ToNot(BeEmpty())
		})

		It("should reject a wrong password without issuing a token", func() {
			_, token, err := svc.Authenticate(auth.LoginDTO{
				Email:    "alice@tender.local",
				Password: "wrong-password",
			})

			Expect(err).To(Equal(internal.ErrInvalidCredentials))
			Expect(token).To(BeEmpty())
		})

		It("should reject missing credentials with 401", func() {
			_, _, err := svc.Authenticate(auth.LoginDTO{Email: "alice@tender.local"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(401))
		})

		It("should answer unknown emails with the same error as wrong passwords", func() {
			_, _, err := svc.Authenticate(auth.LoginDTO{
				Email:    "nobody@tender.local",
				Password: "password123",
			})

			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("should reject a deactivated account even with valid credentials", func() {
			seedUser("bob@tender.local", "E101", "password123", false)

			_, _, err := svc.Authenticate(auth.LoginDTO{
				Email:    "bob@tender.local",
				Password: "password123",
			})

			Expect(err).To(Equal(internal.ErrUserInactive))
		})
	})

	Describe("ResolveSession", func() {
		It("should return the session principal for a live user", func() {
			u := seedUser("alice@tender.local", "E100", "password123", true)

			session, err := svc.ResolveSession(&auth.Claims{
				UserID: u.ID,
				Email:  u.Email,
				RegisteredClaims: jwt.RegisteredClaims{
					IssuedAt: jwt.NewNumericDate(time.Now()),
				},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(session.ID).To(Equal(u.ID))
			Expect(session.Role).To(Equal(user.RoleStaff))
		})

		It("should reject a token for a deleted user", func() {
			_, err := svc.ResolveSession(&auth.Claims{UserID: 9999})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidToken))
		})

		It("should reject a token issued before the last password change", func() {
			u := seedUser("alice@tender.local", "E100", "password123", true)
			issuedAt := time.Now().Add(-time.Hour)
			changedAt := time.Now().Add(-time.Minute)
			mockRepo.users[u.ID].PasswordChangedAt = &changedAt

			_, err := svc.ResolveSession(&auth.Claims{
				UserID: u.ID,
				RegisteredClaims: jwt.RegisteredClaims{
					IssuedAt: jwt.NewNumericDate(issuedAt),
				},
			})

			Expect(err).To(Equal(internal.ErrStaleToken))
		})

		It("should accept a token issued after the last password change", func() {
			u := seedUser("alice@tender.local", "E100", "password123", true)
			changedAt := time.Now().Add(-time.Hour)
			mockRepo.users[u.ID].PasswordChangedAt = &changedAt

			_, err := svc.ResolveSession(&auth.Claims{
				UserID: u.ID,
				RegisteredClaims: jwt.RegisteredClaims{
					IssuedAt: jwt.NewNumericDate(time.Now()),
				},
			})

			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("ForgotPassword", func() {
		It("should persist only the token digest", func() {
			u := seedUser("alice@tender.local", "E100", "password123", true)

			raw, err := svc.ForgotPassword("alice@tender.local")

			Expect(err).ToNot(HaveOccurred())
			Expect(raw).To(HaveLen(64))

			stored := mockRepo.users[u.ID]
			Expect(stored.ResetTokenHash).ToNot(BeNil())
			Expect(*stored.ResetTokenHash).ToNot(Equal(raw))
			Expect(*stored.ResetTokenHash).To(Equal(auth.HashResetToken(raw)))
			Expect(stored.ResetTokenExpiresAt).ToNot(BeNil())
		})

		It("should publish a reset event carrying the raw token", func() {
			seedUser("alice@tender.local", "E100", "password123", true)
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			bus := events.NewEventBus(logger)
			received := make(chan *events.PasswordResetRequestedEvent, 1)
			bus.Subscribe(events.EventTypePasswordResetRequested, func(_ context.Context, e events.Event) error {
				received <- e.(*events.PasswordResetRequestedEvent)
				return nil
			})
			svc = auth.NewService(mockRepo, tokens, bus, 4, 10*time.Minute, logger)

			raw, err := svc.ForgotPassword("alice@tender.local")

			Expect(err).ToNot(HaveOccurred())
			var event *events.PasswordResetRequestedEvent
			Eventually(received).Should(Receive(&event))
			Expect(event.Email).To(Equal("alice@tender.local"))
			Expect(event.ResetToken).To(Equal(raw))
		})

		It("should return 404 for an unknown email", func() {
			_, err := svc.ForgotPassword("nobody@tender.local")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("ResetPassword", func() {
		It("should set the new password and clear the reset token", func() {
			u := seedUser("alice@tender.local", "E100", "password123", true)
			raw, err := svc.ForgotPassword("alice@tender.local")
			Expect(err).ToNot(HaveOccurred())

			resetUser, token, err := svc.ResetPassword(raw, "new-password-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(resetUser.ID).To(Equal(u.ID))
			Expect(token).ToNot(BeEmpty())

			stored := mockRepo.users[u.ID]
			Expect(auth.VerifyPassword(stored.PasswordHash, "new-password-1")).To(Succeed())
			Expect(stored.ResetTokenHash).To(BeNil())
			Expect(stored.PasswordChangedAt).ToNot(BeNil())
		})

		It("should issue a token the route guard accepts immediately", func() {
			seedUser("alice@tender.local", "E100", "password123", true)
			raw, err := svc.ForgotPassword("alice@tender.local")
			Expect(err).ToNot(HaveOccurred())

			_, token, err := svc.ResetPassword(raw, "new-password-1")
			Expect(err).ToNot(HaveOccurred())

			claims, err := svc.ValidateAccessToken(token)
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ResolveSession(claims)

			Expect(err).ToNot(HaveOccurred())
		})

		It("should reject an unknown token", func() {
			_, _, err := svc.ResetPassword("not-a-real-token", "new-password-1")

			Expect(err).To(Equal(internal.ErrResetTokenInvalid))
		})

		It("should reject an expired token", func() {
			u := seedUser("alice@tender.local", "E100", "password123", true)
			raw, err := svc.ForgotPassword("alice@tender.local")
			Expect(err).ToNot(HaveOccurred())

			expired := time.Now().Add(-time.Minute)
			mockRepo.users[u.ID].ResetTokenExpiresAt = &expired

			_, _, err = svc.ResetPassword(raw, "new-password-1")

			Expect(err).To(Equal(internal.ErrResetTokenInvalid))
		})

		It("should reject a short replacement password", func() {
			seedUser("alice@tender.local", "E100", "password123", true)
			raw, err := svc.ForgotPassword("alice@tender.local")
			Expect(err).ToNot(HaveOccurred())

			_, _, err = svc.ResetPassword(raw, "short")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPassword))
		})
	})

	Describe("UpdatePassword", func() {
		var u *user.User

		BeforeEach(func() {
			u = seedUser("alice@tender.local", "E100", "password123", true)
		})

		It("should change the password and re-issue a token", func() {
			token, err := svc.UpdatePassword(u.ID, auth.UpdatePasswordDTO{
				CurrentPassword: "password123",
				NewPassword:     "new-password-1",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(token).ToNot(BeEmpty())
			stored := mockRepo.users[u.ID]
			Expect(auth.VerifyPassword(stored.PasswordHash, "new-password-1")).To(Succeed())
			Expect(stored.PasswordChangedAt).ToNot(BeNil())
		})

		It("should issue a token the route guard accepts immediately", func() {
			token, err := svc.UpdatePassword(u.ID, auth.UpdatePasswordDTO{
				CurrentPassword: "password123",
				NewPassword:     "new-password-1",
			})
			Expect(err).ToNot(HaveOccurred())

			claims, err := svc.ValidateAccessToken(token)
			Expect(err).ToNot(HaveOccurred())

			sess, err := svc.ResolveSession(claims)

			Expect(err).ToNot(HaveOccurred())
			Expect(sess.ID).To(Equal(u.ID))
		})

		It("should reject a wrong current password with 401", func() {
			_, err := svc.UpdatePassword(u.ID, auth.UpdatePasswordDTO{
				CurrentPassword: "wrong-password",
				NewPassword:     "new-password-1",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(401))
			Expect(auth.VerifyPassword(mockRepo.users[u.ID].PasswordHash, "password123")).To(Succeed())
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should reject a token signed with a different secret", func() {
			other := auth.NewJWTTokenGenerator("another-secret-also-32-bytes-long!", time.Hour)
			token, err := other.GenerateToken(1, "alice@tender.local")
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ValidateAccessToken(token)

			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("should reject an expired token", func() {
			short := auth.NewJWTTokenGenerator("test-secret-at-least-32-bytes-long", -time.Minute)
			token, err := short.GenerateToken(1, "alice@tender.local")
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ValidateAccessToken(token)

			Expect(err).To(Equal(internal.ErrTokenExpired))
		})
	})
})
