package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCommitteeCreated       = "committee.created"
	EventTypeCommitteeUpdated       = "committee.updated"
	EventTypePasswordResetRequested = "auth.password_reset_requested"
)

// Recipient is the minimal addressee shape carried inside committee
// events so notification handlers never need the full member record.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CommitteeCreatedEvent struct {
	BaseEvent
	CommitteeID   int64       `json:"committee_id"`
	CommitteeName string      `json:"committee_name"`
	Purpose       string      `json:"purpose"`
	FormationDate string      `json:"formation_date"`
	CreatorName   string      `json:"creator_name"`
	HasAttachment bool        `json:"has_attachment"`
	Recipients    []Recipient `json:"recipients"`
}

func NewCommitteeCreatedEvent(committeeID int64, name, purpose, formationDate, creatorName string, hasAttachment bool, recipients []Recipient) *CommitteeCreatedEvent {
	return &CommitteeCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCommitteeCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"committee_id":   committeeID,
				"committee_name": name,
				"purpose":        purpose,
				"formation_date": formationDate,
				"creator_name":   creatorName,
				"has_attachment": hasAttachment,
			},
		},
		CommitteeID:   committeeID,
		CommitteeName: name,
		Purpose:       purpose,
		FormationDate: formationDate,
		CreatorName:   creatorName,
		HasAttachment: hasAttachment,
		Recipients:    recipients,
	}
}

type CommitteeUpdatedEvent struct {
	BaseEvent
	CommitteeID   int64       `json:"committee_id"`
	CommitteeName string      `json:"committee_name"`
	Recipients    []Recipient `json:"recipients"`
}

func NewCommitteeUpdatedEvent(committeeID int64, name string, recipients []Recipient) *CommitteeUpdatedEvent {
	return &CommitteeUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCommitteeUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"committee_id":   committeeID,
				"committee_name": name,
			},
		},
		CommitteeID:   committeeID,
		CommitteeName: name,
		Recipients:    recipients,
	}
}

type PasswordResetRequestedEvent struct {
	BaseEvent
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	ResetToken string    `json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// NewPasswordResetRequestedEvent carries the raw reset token to the
// mail handler. The token is excluded from the generic payload so it is
// never logged by the bus.
func NewPasswordResetRequestedEvent(email, name, rawToken string, expiresAt time.Time) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordResetRequested,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email":      email,
				"expires_at": expiresAt,
			},
		},
		Email:      email,
		Name:       name,
		ResetToken: rawToken,
		ExpiresAt:  expiresAt,
	}
}
