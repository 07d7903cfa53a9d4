package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Ujjwols/tender-internproject/internal/core/events"
)

func TestEventBus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "EventBus Suite")
}

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		ctx = context.Background()
	})

	Describe("PublishSync", func() {
		It("should run every subscribed handler in order", func() {
			var calls []string
			bus.Subscribe(events.EventTypeCommitteeCreated, func(ctx context.Context, e events.Event) error {
				calls = append(calls, "first")
				return nil
			})
			bus.Subscribe(events.EventTypeCommitteeCreated, func(ctx context.Context, e events.Event) error {
				calls = append(calls, "second")
				return nil
			})

			err := bus.PublishSync(ctx, events.NewCommitteeCreatedEvent(1, "Evaluation Committee", "", "", "", false, nil))

			Expect(err).ToNot(HaveOccurred())
			Expect(calls).To(Equal([]string{"first", "second"}))
		})

		It("should stop at the first failing handler", func() {
			var secondCalled bool
			bus.Subscribe(events.EventTypeCommitteeCreated, func(ctx context.Context, e events.Event) error {
				return errors.New("handler broke")
			})
			bus.Subscribe(events.EventTypeCommitteeCreated, func(ctx context.Context, e events.Event) error {
				secondCalled = true
				return nil
			})

			err := bus.PublishSync(ctx, events.NewCommitteeCreatedEvent(1, "Evaluation Committee", "", "", "", false, nil))

			Expect(err).To(HaveOccurred())
			Expect(secondCalled).To(BeFalse())
		})

		It("should be a no-op without subscribers", func() {
			err := bus.PublishSync(ctx, events.NewCommitteeCreatedEvent(1, "Evaluation Committee", "", "", "", false, nil))

			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Publish", func() {
		It("should dispatch handlers without blocking the caller", func() {
			done := make(chan string, 1)
			bus.Subscribe(events.EventTypeCommitteeUpdated, func(ctx context.Context, e events.Event) error {
				done <- e.EventID()
				return nil
			})

			event := events.NewCommitteeUpdatedEvent(1, "Evaluation Committee", nil)
			err := bus.Publish(ctx, event)

			Expect(err).ToNot(HaveOccurred())
			Eventually(done).Should(Receive(Equal(event.EventID())))
		})
	})
})
