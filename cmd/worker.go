package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ujjwols/tender-internproject/internal/notification"
	"github.com/Ujjwols/tender-internproject/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for background services",
	Long:  `Start and manage worker pools for background services like mail delivery.`,
}

var mailerWorkerCmd = &cobra.Command{
	Use:   "mailer",
	Short: "Start the mail delivery worker pool",
	Long:  `Start the SMTP worker pool that drains the outbound mail queue`,
	Run: func(cmd *cobra.Command, args []string) {
		startMailerWorker()
	},
}

var (
	mailWorkers   int
	mailQueueSize int
	testRecipient string
)

func startMailerWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.L()

	workers := getIntFlag(mailWorkers, config.Mail.Workers)
	queueSize := getIntFlag(mailQueueSize, config.Mail.QueueSize)

	lg.Info("starting mailer worker",
		"workers", workers,
		"queue_size", queueSize,
		"smtp_host", config.Mail.Host)

	mailer := notification.NewMailer(notification.NewSMTPSender(config.Mail), workers, queueSize, lg)

	if testRecipient != "" {
		mailer.Enqueue(notification.MailJob{
			To:      testRecipient,
			ToName:  "Test Recipient",
			Subject: "Mailer worker test",
			Body:    "The mail worker pool is up and delivering.\n",
		})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("mailer worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down mailer worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		mailer.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		lg.Info("mailer worker shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	mailerWorkerCmd.Flags().IntVar(&mailWorkers, "workers", 0, "Number of delivery workers (overrides config)")
	mailerWorkerCmd.Flags().IntVar(&mailQueueSize, "queue-size", 0, "Mail queue buffer size (overrides config)")
	mailerWorkerCmd.Flags().StringVar(&testRecipient, "test-recipient", "", "Send a test mail to this address on startup")

	workerCmd.AddCommand(mailerWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
