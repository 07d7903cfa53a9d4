package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ujjwols/tender-internproject/internal/core/events"
)

// MailQueue is the slice of the mailer the event handler needs.
type MailQueue interface {
	Enqueue(job MailJob)
}

// EventHandler turns domain events into queued mail jobs, one per
// recipient.
type EventHandler struct {
	mailer MailQueue
	logger *slog.Logger
}

func NewEventHandler(mailer MailQueue, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		mailer: mailer,
		logger: logger,
	}
}

func (h *EventHandler) HandleCommitteeCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.CommitteeCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for committee created handler", "event_type", event.EventType())
		return fmt.Errorf("expected CommitteeCreatedEvent, got %T", event)
	}

	h.logger.Info("handling committee created event",
		"committee_id", e.CommitteeID,
		"recipients", len(e.Recipients),
		"event_id", e.EventID())

	subject := fmt.Sprintf("You have been added to committee %q", e.CommitteeName)
	for _, r := range e.Recipients {
		var b strings.Builder
		fmt.Fprintf(&b,
			"Dear %s,\n\nYou have been selected as a member of the committee %q.\n\nPurpose: %s\nFormation date: %s\n",
			r.Name, e.CommitteeName, e.Purpose, e.FormationDate)
		if e.CreatorName != "" {
			fmt.Fprintf(&b, "Created by: %s\n", e.CreatorName)
		}
		if e.HasAttachment {
			b.WriteString("\nA formation letter is attached. Please log in to review the committee details and download it.\n")
		} else {
			b.WriteString("\nPlease log in to review the committee details.\n")
		}

		h.mailer.Enqueue(MailJob{
			To:      r.Email,
			ToName:  r.Name,
			Subject: subject,
			Body:    b.String(),
		})
	}

	return nil
}

func (h *EventHandler) HandleCommitteeUpdated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.CommitteeUpdatedEvent)
	if !ok {
		h.logger.Error("invalid event type for committee updated handler", "event_type", event.EventType())
		return fmt.Errorf("expected CommitteeUpdatedEvent, got %T", event)
	}

	h.logger.Info("handling committee updated event",
		"committee_id", e.CommitteeID,
		"recipients", len(e.Recipients),
		"event_id", e.EventID())

	subject := fmt.Sprintf("Committee %q has been updated", e.CommitteeName)
	for _, r := range e.Recipients {
		body := fmt.Sprintf(
			"Dear %s,\n\nThe committee %q you are a member of has been updated.\n\nPlease log in to review the latest details.\n",
			r.Name, e.CommitteeName)

		h.mailer.Enqueue(MailJob{
			To:      r.Email,
			ToName:  r.Name,
			Subject: subject,
			Body:    body,
		})
	}

	return nil
}

func (h *EventHandler) HandlePasswordResetRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PasswordResetRequestedEvent)
	if !ok {
		h.logger.Error("invalid event type for password reset handler", "event_type", event.EventType())
		return fmt.Errorf("expected PasswordResetRequestedEvent, got %T", event)
	}

	h.logger.Info("handling password reset requested event", "event_id", e.EventID())

	body := fmt.Sprintf(
		"Dear %s,\n\nA password reset was requested for your account. Use the token below within the next few minutes (valid until %s):\n\n%s\n\nIf you did not request this, you can safely ignore this email.\n",
		e.Name, e.ExpiresAt.Format("15:04 MST"), e.ResetToken)

	h.mailer.Enqueue(MailJob{
		To:      e.Email,
		ToName:  e.Name,
		Subject: "Your password reset token",
		Body:    body,
	})

	return nil
}

func (h *EventHandler) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeCommitteeCreated, h.HandleCommitteeCreated)
	bus.Subscribe(events.EventTypeCommitteeUpdated, h.HandleCommitteeUpdated)
	bus.Subscribe(events.EventTypePasswordResetRequested, h.HandlePasswordResetRequested)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeCommitteeCreated,
			events.EventTypeCommitteeUpdated,
			events.EventTypePasswordResetRequested,
		})
}
