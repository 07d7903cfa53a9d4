package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wneessen/go-mail"

	"github.com/Ujjwols/tender-internproject/internal"
)

// MailJob is one outbound email.
type MailJob struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Sender performs the actual delivery. Swapped for a fake in tests.
type Sender interface {
	Send(job MailJob) error
}

// SMTPSender delivers mail over SMTP using go-mail.
type SMTPSender struct {
	cfg internal.MailConfig
}

func NewSMTPSender(cfg internal.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(job MailJob) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return err
	}
	if err := msg.AddToFormat(job.ToName, job.To); err != nil {
		return err
	}
	msg.Subject(job.Subject)
	msg.SetBodyString(mail.TypeTextPlain, job.Body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}

type worker struct {
	id         int
	workerPool chan chan MailJob
	jobChannel chan MailJob
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan MailJob, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan MailJob),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, processFunc func(MailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				w.logger.Debug("worker processing mail job", "worker_id", w.id, "to", job.To)
				processFunc(job)
			case <-ctx.Done():
				w.logger.Debug("mail worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

// Mailer queues outbound mail onto a worker pool so request handlers
// never block on SMTP. Delivery is best-effort: failures are logged and
// never reach the caller.
type Mailer struct {
	sender Sender
	logger *slog.Logger

	jobQueue   chan MailJob
	workerPool chan chan MailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewMailer(sender Sender, workers, queueSize int, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	if workers <= 0 {
		workers = 5
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	m := &Mailer{
		sender:     sender,
		logger:     logger,
		maxWorkers: workers,
		jobQueue:   make(chan MailJob, queueSize),
		workerPool: make(chan chan MailJob, workers),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkerPool()

	return m
}

func (m *Mailer) startWorkerPool() {
	m.once.Do(func() {
		for i := 0; i < m.maxWorkers; i++ {
			w := newWorker(i, m.workerPool, m.logger)
			w.start(m.ctx, &m.wg, m.processMailJob)
		}

		go m.dispatch()

		m.logger.Info("mail worker pool started",
			"max_workers", m.maxWorkers,
			"queue_size", cap(m.jobQueue))
	})
}

func (m *Mailer) dispatch() {
	m.wg.Add(1)
	defer m.wg.Done()

	for {
		select {
		case job := <-m.jobQueue:
			select {
			case jobChannel := <-m.workerPool:
				select {
				case jobChannel <- job:
				case <-m.ctx.Done():
					m.logger.Info("mail dispatcher shutting down")
					return
				}
			case <-m.ctx.Done():
				m.logger.Info("mail dispatcher shutting down")
				return
			}
		case <-m.ctx.Done():
			m.logger.Info("mail dispatcher shutting down")
			return
		}
	}
}

// Enqueue queues a mail job without blocking. A full queue drops the
// job with a warning.
func (m *Mailer) Enqueue(job MailJob) {
	select {
	case m.jobQueue <- job:
		m.logger.Debug("mail job queued", "to", job.To, "queue_length", len(m.jobQueue))
	default:
		m.logger.Warn("mail queue full, dropping job",
			"to", job.To,
			"subject", job.Subject,
			"queue_capacity", cap(m.jobQueue))
	}
}

// QueueLength reports the number of jobs waiting for a worker.
func (m *Mailer) QueueLength() int {
	return len(m.jobQueue)
}

func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down mailer")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("mailer shutdown complete")
}

func (m *Mailer) processMailJob(job MailJob) {
	if err := m.sender.Send(job); err != nil {
		m.logger.Error("mail delivery failed",
			"error", err,
			"to", job.To,
			"subject", job.Subject)
		return
	}

	m.logger.Info("mail delivered", "to", job.To, "subject", job.Subject)
}
