package committee

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/core/events"
	"github.com/Ujjwols/tender-internproject/internal/storage"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

// Repository defines the data access methods for committees.
type Repository interface {
	Create(c *Committee) error
	GetByID(id int64) (*Committee, error)
	GetAll() ([]*Committee, error)
	Update(c *Committee) error
	Delete(id int64) error
}

// UserDirectory is the slice of the user store needed for roster
// resolution.
type UserDirectory interface {
	GetByEmployeeID(employeeID string) (*user.User, error)
}

// FileUpload carries an incoming attachment from the HTTP layer.
type FileUpload struct {
	Reader       io.Reader
	OriginalName string
	MimeType     string
}

// Service handles committee business logic.
type Service struct {
	repo   Repository
	users  UserDirectory
	store  storage.FileStore
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, store storage.FileStore, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// Create validates the roster, resolves member snapshots, stores the
// optional attachment and persists the committee. A stored file is
// removed again when persistence fails afterwards.
func (s *Service) Create(ctx context.Context, creatorID int64, dto CreateCommitteeDTO, upload *FileUpload) (*Committee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("committee validation failed", "error", err, "creator_id", creatorID)
		return nil, err
	}

	members, err := s.resolveMembers(dto.Members)
	if err != nil {
		return nil, err
	}

	c := &Committee{
		Name:               dto.Name,
		Purpose:            dto.Purpose,
		FormationDate:      dto.FormationDate,
		SpecSubmissionDate: dto.SpecSubmissionDate,
		ReviewDate:         dto.ReviewDate,
		Schedule:           dto.Schedule,
		Members:            members,
		ShouldNotify:       dto.ShouldNotify,
		ApprovalStatus:     ApprovalStatusPending,
		CreatedBy:          creatorID,
	}

	if upload != nil {
		info, err := s.store.Save(ctx, upload.Reader, upload.OriginalName, upload.MimeType)
		if err != nil {
			s.logger.Error("failed to store formation letter", "error", err, "creator_id", creatorID)
			return nil, internal.NewInternalError("failed to store attachment", err)
		}
		c.FileName = &info.StoredName
		c.FileOriginalName = &info.OriginalName
		c.FileMimeType = &info.MimeType
		c.FileSize = &info.Size
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create committee", "error", err, "creator_id", creatorID)
		if c.FileName != nil {
			if delErr := s.store.Delete(ctx, *c.FileName); delErr != nil {
				s.logger.Error("failed to clean up orphaned attachment", "error", delErr, "file", *c.FileName)
			}
		}
		return nil, err
	}

	if c.ShouldNotify {
		var creatorName string
		if c.Creator != nil {
			creatorName = c.Creator.Name
		}
		s.publishCommitteeEvent(ctx, events.NewCommitteeCreatedEvent(
			c.ID, c.Name, c.Purpose, c.FormationDate, creatorName, c.HasFile(), recipientsOf(c.Members)))
	}

	s.logger.Info("committee created",
		"committee_id", c.ID,
		"creator_id", creatorID,
		"members", len(c.Members))

	return c, nil
}

// List returns all committees, newest first.
func (s *Service) List() ([]*Committee, error) {
	committees, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list committees", "error", err)
		return nil, err
	}
	return committees, nil
}

func (s *Service) Get(id int64) (*Committee, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update merges the provided fields into an existing committee. Members
// are re-resolved from current user records; the attachment cannot be
// changed here.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateCommitteeDTO) (*Committee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("committee update validation failed", "error", err, "committee_id", id)
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Purpose != nil {
		c.Purpose = *dto.Purpose
	}
	if dto.FormationDate != nil {
		c.FormationDate = *dto.FormationDate
	}
	if dto.SpecSubmissionDate != nil {
		c.SpecSubmissionDate = *dto.SpecSubmissionDate
	}
	if dto.ReviewDate != nil {
		c.ReviewDate = *dto.ReviewDate
	}
	if dto.Schedule != nil {
		c.Schedule = *dto.Schedule
	}
	if dto.ShouldNotify != nil {
		c.ShouldNotify = *dto.ShouldNotify
	}
	if dto.ApprovalStatus != nil {
		c.ApprovalStatus = *dto.ApprovalStatus
	}
	if dto.Members != nil {
		members, err := s.resolveMembers(*dto.Members)
		if err != nil {
			return nil, err
		}
		c.Members = members
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update committee", "error", err, "committee_id", id)
		return nil, err
	}

	if c.ShouldNotify {
		s.publishCommitteeEvent(ctx, events.NewCommitteeUpdatedEvent(
			c.ID, c.Name, recipientsOf(c.Members)))
	}

	s.logger.Info("committee updated", "committee_id", c.ID)
	return c, nil
}

// Delete removes the committee and its attachment. Attachment removal
// is best-effort: a storage failure is logged, not propagated.
func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if c.HasFile() {
		if err := s.store.Delete(ctx, *c.FileName); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("failed to delete attachment", "error", err, "committee_id", id, "file", *c.FileName)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete committee", "error", err, "committee_id", id)
		return err
	}

	s.logger.Info("committee deleted", "committee_id", id)
	return nil
}

// DownloadFormationLetter opens the attachment for streaming. The
// caller owns the returned reader.
func (s *Service) DownloadFormationLetter(ctx context.Context, id int64) (*Committee, io.ReadCloser, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	if !c.HasFile() {
		return nil, nil, internal.ErrFileNotFound
	}

	rc, err := s.store.Open(ctx, *c.FileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, internal.ErrFileNotFound.WithMessage("formation letter is missing from storage")
		}
		s.logger.Error("failed to open attachment", "error", err, "committee_id", id)
		return nil, nil, err
	}

	return c, rc, nil
}

// resolveMembers looks up every employee id and copies the profile
// fields into snapshots. The first unknown id fails the whole roster.
func (s *Service) resolveMembers(ids MemberList) (MemberSnapshots, error) {
	members := make(MemberSnapshots, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.GetByEmployeeID(id)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeUserNotFound {
				return nil, internal.ErrUserNotFound.WithMessage("no user found with employee id %s", id)
			}
			s.logger.Error("member lookup failed", "error", err, "employee_id", id)
			return nil, err
		}
		members = append(members, Member{
			Name:        u.Name,
			Role:        u.Role,
			Email:       u.Email,
			EmployeeID:  u.EmployeeID,
			Department:  u.Department,
			Designation: u.Designation,
		})
	}
	return members, nil
}

func (s *Service) publishCommitteeEvent(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish committee event", "error", err, "event_type", event.EventType())
	}
}

func recipientsOf(members MemberSnapshots) []events.Recipient {
	recipients := make([]events.Recipient, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, events.Recipient{Name: m.Name, Email: m.Email})
	}
	return recipients
}
