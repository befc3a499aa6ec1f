package console

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pixelvide/teneo-mailer/pkg/mail"
	"github.com/pixelvide/teneo-mailer/pkg/root"
	"github.com/pixelvide/teneo-mailer/pkg/telemetry"
	"github.com/pixelvide/teneo-mailer/pkg/worker"
)

var (
	queueName   string
	concurrency int
)

var workerCmd = &cobra.Command{
	Use:     "queue:work",
	Aliases: []string{"worker"},
	Short:   "Start the queue worker that sends queued mail",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := setup()

		tp, err := telemetry.InitTracer("teneo-mailer-worker")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracer")
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error shutting down tracer")
			}
		}()

		// Run Worker with Graceful Shutdown
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		ctx = log.Logger.WithContext(ctx)

		driver, failedProvider, err := newDriver(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize queue driver")
		}

		mailer, err := mail.NewMailer(cfg.Mail)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize mailer")
		}
		mail.RegisterQueueHandler(mailer)

		name := cfg.Queue.Name
		if cmd.Flags().Changed("queue") {
			name = queueName
		}
		workers := cfg.Worker.Concurrency
		if cmd.Flags().Changed("workers") {
			workers = concurrency
		}

		w := worker.NewWorker(driver, failedProvider, name, workers, tp.Tracer("worker"))
		w.Connection = cfg.Queue.Connection

		log.Info().
			Str("queue", name).
			Int("workers", workers).
			Str("transport", mailer.Transport().String()).
			Msg("Starting worker pool...")

		w.Run(ctx)
		log.Info().Msg("Worker pool stopped.")
	},
}

func init() {
	workerCmd.Flags().StringVar(&queueName, "queue", "default", "Name of the queue to process (overrides QUEUE_NAME)")
	workerCmd.Flags().IntVar(&concurrency, "workers", 5, "Number of concurrent workers (overrides WORKER_CONCURRENCY)")

	root.GetRoot().AddCommand(workerCmd)
}
