package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/transport"
	"github.com/Ujjwols/tender-internproject/pkg/logger"
)

type ServiceAPI interface {
	GetByID(id int64) (*User, error)
	GetByEmployeeID(employeeID string) (*User, error)
	GetAll() ([]*User, error)
	UpdateMe(userID int64, dto UpdateMeDTO) (*User, error)
	AdminUpdate(targetID int64, actorID int64, dto AdminUpdateUserDTO) (*User, error)
	Delete(targetID, actorID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

// GetMe handles GET /auth/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(sess.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{"user": u})
}

// UpdateMe handles PATCH /auth/update-me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateMeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.UpdateMe(sess.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{"user": u})
}

// GetAllUsers handles GET /auth/users
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{
		"results": len(users),
		"users":   users,
	})
}

// GetUserByEmployeeID handles GET /auth/users/{employeeId}
func (h *Handler) GetUserByEmployeeID(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if employeeID == "" {
		h.WriteError(w, http.StatusBadRequest, "employee id is required")
		return
	}

	u, err := h.Service.GetByEmployeeID(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{"user": u})
}

// AdminUpdateUser handles PATCH /auth/users/{userId}
func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto AdminUpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.AdminUpdate(targetID, sess.ID, dto)
	if err != nil {
		h.Logger.Error("AdminUpdateUser: service error", "error", err, "user_id", targetID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{"user": u})
}

// DeleteUser handles DELETE /auth/users/{userId}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.Service.Delete(targetID, sess.ID); err != nil {
		h.Logger.Error("DeleteUser: service error", "error", err, "user_id", targetID, "actor_id", sess.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
