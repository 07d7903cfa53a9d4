package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/auth"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

var _ = Describe("RBACAuthorization", func() {
	var (
		rbac    *auth.RBACAuthorization
		next    http.Handler
		reached bool
	)

	decodeBody := func(rec *httptest.ResponseRecorder) map[string]string {
		var body map[string]string
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		rbac = auth.NewRBACAuthorization(logger)
		reached = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	Describe("RequireAdmin", func() {
		It("should pass an admin through", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
			req = req.WithContext(internal.ContextWithUser(req.Context(), &internal.SessionUser{ID: 1, Role: user.RoleAdmin}))
			rec := httptest.NewRecorder()

			rbac.RequireAdmin()(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reached).To(BeTrue())
		})

		It("should reject a staff user with a well-formed 403 body", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
			req = req.WithContext(internal.ContextWithUser(req.Context(), &internal.SessionUser{ID: 2, Role: user.RoleStaff}))
			rec := httptest.NewRecorder()

			rbac.RequireAdmin()(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(reached).To(BeFalse())
			body := decodeBody(rec)
			Expect(body["status"]).To(Equal("fail"))
			Expect(body["message"]).To(Equal(internal.ErrRoleForbidden.Message))
		})

		It("should reject a request without a session", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
			rec := httptest.NewRecorder()

			rbac.RequireAdmin()(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
			Expect(decodeBody(rec)["status"]).To(Equal("fail"))
		})
	})
})
