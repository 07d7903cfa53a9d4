package committee

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/transport"
	"github.com/Ujjwols/tender-internproject/pkg/logger"
)

const maxUploadSize = 32 << 20 // 32 MiB multipart memory budget

type ServiceAPI interface {
	Create(ctx context.Context, creatorID int64, dto CreateCommitteeDTO, upload *FileUpload) (*Committee, error)
	List() ([]*Committee, error)
	Get(id int64) (*Committee, error)
	Update(ctx context.Context, id int64, dto UpdateCommitteeDTO) (*Committee, error)
	Delete(ctx context.Context, id int64) error
	DownloadFormationLetter(ctx context.Context, id int64) (*Committee, io.ReadCloser, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

// CreateCommittee handles POST /committees. Accepts multipart form data
// when a formation letter is attached, plain JSON otherwise.
func (h *Handler) CreateCommittee(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCommitteeDTO
	var upload *FileUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.Logger.Warn("CreateCommittee: multipart parse failed", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		parsed, err := committeeFromForm(r)
		if err != nil {
			h.Logger.Warn("CreateCommittee: invalid form payload", "error", err)
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		dto = parsed

		file, header, err := r.FormFile("file")
		switch err {
		case nil:
			defer file.Close()
			upload = &FileUpload{
				Reader:       file,
				OriginalName: header.Filename,
				MimeType:     header.Header.Get("Content-Type"),
			}
		case http.ErrMissingFile:
			// no attachment
		default:
			h.Logger.Warn("CreateCommittee: bad file field", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid file upload")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Warn("CreateCommittee: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	c, err := h.Service.Create(r.Context(), sess.ID, dto, upload)
	if err != nil {
		h.Logger.Error("CreateCommittee: service error", "error", err, "creator_id", sess.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, map[string]any{"committee": c})
}

// GetCommittees handles GET /committees
func (h *Handler) GetCommittees(w http.ResponseWriter, r *http.Request) {
	committees, err := h.Service.List()
	if err != nil {
		h.Logger.Error("GetCommittees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{
		"results":    len(committees),
		"committees": committees,
	})
}

// GetCommittee handles GET /committees/{id}
func (h *Handler) GetCommittee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	c, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{"committee": c})
}

// UpdateCommittee handles PATCH /committees/{id}
func (h *Handler) UpdateCommittee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	var dto UpdateCommitteeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("UpdateCommittee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateCommittee: service error", "error", err, "committee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]any{"committee": c})
}

// DeleteCommittee handles DELETE /committees/{id}
func (h *Handler) DeleteCommittee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("DeleteCommittee: service error", "error", err, "committee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadFormationLetter handles GET /committees/{id}/download and
// streams the attachment under its original filename.
func (h *Handler) DownloadFormationLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := h.committeeID(w, r)
	if !ok {
		return
	}

	c, rc, err := h.Service.DownloadFormationLetter(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	mimeType := "application/octet-stream"
	if c.FileMimeType != nil && *c.FileMimeType != "" {
		mimeType = *c.FileMimeType
	}
	filename := *c.FileName
	if c.FileOriginalName != nil && *c.FileOriginalName != "" {
		filename = *c.FileOriginalName
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if c.FileSize != nil {
		w.Header().Set("Content-Length", strconv.FormatInt(*c.FileSize, 10))
	}

	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("DownloadFormationLetter: stream interrupted", "error", err, "committee_id", id)
	}
}

func (h *Handler) committeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Warn("invalid committee id", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid committee id")
		return 0, false
	}
	return id, true
}

// committeeFromForm maps multipart form fields onto the create DTO. The
// members field carries a JSON array (strings or {employeeId} objects).
func committeeFromForm(r *http.Request) (CreateCommitteeDTO, error) {
	dto := CreateCommitteeDTO{
		Name:               r.FormValue("name"),
		Purpose:            r.FormValue("purpose"),
		FormationDate:      r.FormValue("formation_date"),
		SpecSubmissionDate: r.FormValue("spec_submission_date"),
		ReviewDate:         r.FormValue("review_date"),
		Schedule:           r.FormValue("schedule"),
		ShouldNotify:       r.FormValue("should_notify") == "true",
	}

	membersRaw := r.FormValue("members")
	if membersRaw == "" {
		return dto, nil
	}
	if err := json.Unmarshal([]byte(membersRaw), &dto.Members); err != nil {
		return dto, fmt.Errorf("invalid members field: %w", err)
	}
	return dto, nil
}
