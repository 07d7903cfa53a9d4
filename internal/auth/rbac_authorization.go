package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

// RBACAuthorization restricts routes to a set of roles. It must run after
// the auth middleware so the session user is already in the context.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

// RequireRoles rejects with 403 when the current user's role is not in
// the allowed set.
func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := internal.UserFromContext(r.Context())
			if !ok || sess == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				writeForbidden(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !sess.HasRole(roles...) {
				ra.logger.WarnContext(r.Context(), "access denied: role not allowed",
					"user_id", sess.ID,
					"role", sess.Role,
					"allowed_roles", roles)
				writeForbidden(w, http.StatusForbidden, internal.ErrRoleForbidden.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(user.RoleAdmin)
}

func writeForbidden(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(map[string]string{
		"status":  "fail",
		"message": message,
	})
}
