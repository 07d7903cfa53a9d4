package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/Ujjwols/tender-internproject/internal/auth"
	"github.com/Ujjwols/tender-internproject/internal/committee"
	"github.com/Ujjwols/tender-internproject/internal/transport/middleware"
	"github.com/Ujjwols/tender-internproject/internal/transport/swagger"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

// RegisterAllRoutes mounts the full API surface under /api/v1.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	committeeHandler *committee.Handler,
	allowedOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
			sr.Post("/forgot-password", authHandler.ForgotPassword)
			sr.Post("/reset-password/{token}", authHandler.ResetPassword)

			// Protected auth/user administration routes
			sr.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Patch("/update-password", authHandler.UpdatePassword)
				pr.Get("/me", userHandler.GetMe)
				pr.Patch("/update-me", userHandler.UpdateMe)

				pr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Get("/users", userHandler.GetAllUsers)
					ar.Patch("/users/{userId}", userHandler.AdminUpdateUser)
					ar.Delete("/users/{userId}", userHandler.DeleteUser)
				})

				pr.Get("/users/{employeeId}", userHandler.GetUserByEmployeeID)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/committees", func(cr chi.Router) {
				cr.Post("/", committeeHandler.CreateCommittee)
				cr.Get("/", committeeHandler.GetCommittees)
				cr.Get("/{id}", committeeHandler.GetCommittee)
				cr.Patch("/{id}", committeeHandler.UpdateCommittee)
				cr.Delete("/{id}", committeeHandler.DeleteCommittee)
				cr.Get("/{id}/download", committeeHandler.DownloadFormationLetter)
			})
		})
	})
}
