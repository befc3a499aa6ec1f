package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pixelvide/teneo-mailer/pkg/queue"
)

// Worker manages the processing of jobs
type Worker struct {
	Driver         queue.Driver
	FailedProvider queue.FailedJobProvider
	Connection     string
	QueueName      string
	Concurrency    int
	// PopBackoff is the pause after a failed Pop
	PopBackoff time.Duration

	tracer trace.Tracer
	wg     sync.WaitGroup
}

// NewWorker creates a new worker instance. A nil tracer disables tracing.
func NewWorker(driver queue.Driver, failedProvider queue.FailedJobProvider, queueName string, concurrency int, tracer trace.Tracer) *Worker {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("worker")
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		Driver:         driver,
		FailedProvider: failedProvider,
		Connection:     "redis",
		QueueName:      queueName,
		Concurrency:    concurrency,
		PopBackoff:     time.Second,
		tracer:         tracer,
	}
}

// Run starts the worker pool and blocks until ctx is done
func (w *Worker) Run(ctx context.Context) {
	for i := 0; i < w.Concurrency; i++ {
		w.wg.Add(1)
		go w.processLoop(ctx, i)
	}
	w.wg.Wait()
}

func (w *Worker) processLoop(ctx context.Context, id int) {
	defer w.wg.Done()

	logger := zerolog.Ctx(ctx).With().Int("worker_id", id).Str("queue", w.QueueName).Logger()
	ctx = logger.WithContext(ctx)
	logger.Debug().Msg("Worker started")

	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.Driver.Pop(ctx, w.QueueName)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				logger.Error().Err(err).Msg("Error popping job")
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.PopBackoff):
			}
			continue
		}

		w.handleJob(ctx, job)
	}
}

func (w *Worker) handleJob(ctx context.Context, job *queue.Job) {
	logger := zerolog.Ctx(ctx)

	var payload queue.LaravelJob
	if err := json.Unmarshal(job.Body, &payload); err != nil {
		logger.Error().Err(err).Bytes("body", job.Body).Msg("Error unmarshalling job")
		w.fail(ctx, job.Body, err)
		w.ack(ctx, job)
		return
	}

	ctx, span := w.tracer.Start(ctx, "queue.job", trace.WithAttributes(
		attribute.String("job.name", payload.DisplayName),
		attribute.String("job.uuid", payload.UUID),
		attribute.Int("job.attempts", payload.Attempts),
	))
	defer span.End()

	jobLogger := logger.With().Str("job_name", payload.DisplayName).Str("uuid", payload.UUID).Logger()
	ctx = jobLogger.WithContext(ctx)

	handler, err := queue.GetHandler(payload.DisplayName)
	if err != nil {
		jobLogger.Error().Err(err).Msg("No handler found for job")
		span.SetStatus(codes.Error, err.Error())
		w.fail(ctx, job.Body, err)
		w.ack(ctx, job)
		return
	}

	unserialized, err := queue.UnserializeCommand(payload.Data)
	if err != nil {
		jobLogger.Warn().Err(err).Msg("Could not unserialize job command")
	}

	job.Payload = &payload
	job.UnserializedData = unserialized

	var jobCtx context.Context
	var cancel context.CancelFunc
	if payload.Timeout != nil && *payload.Timeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, time.Duration(*payload.Timeout)*time.Second)
	} else {
		jobCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	if err := handler(jobCtx, job); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobLogger.Error().Err(err).Msg("Job failed")
		w.handleFailure(ctx, payload, err)
	} else {
		jobLogger.Info().Msg("Job processed")
	}

	// the retry, if any, is a new message
	w.ack(ctx, job)
}

func (w *Worker) ack(ctx context.Context, job *queue.Job) {
	if err := w.Driver.Ack(ctx, job); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Error acknowledging job")
	}
}

func (w *Worker) handleFailure(ctx context.Context, payload queue.LaravelJob, err error) {
	logger := zerolog.Ctx(ctx)

	payload.Attempts++

	maxTries := 1
	if payload.MaxTries != nil {
		maxTries = *payload.MaxTries
	}

	body, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		logger.Error().Err(marshalErr).Msg("Error marshalling failed job")
		return
	}

	if payload.Attempts < maxTries && !errors.Is(err, queue.ErrPermanent) {
		logger.Info().Int("attempt", payload.Attempts).Int("max_tries", maxTries).Msg("Retrying job")
		if pushErr := w.Driver.Push(ctx, w.QueueName, body); pushErr != nil {
			logger.Error().Err(pushErr).Msg("Error pushing job back to queue")
		}
		return
	}

	logger.Warn().Int("attempts", payload.Attempts).Msg("Job failed permanently")
	w.fail(ctx, body, err)
}

func (w *Worker) fail(ctx context.Context, body []byte, err error) {
	if w.FailedProvider == nil {
		zerolog.Ctx(ctx).Warn().Msg("No failed job provider configured, job dropped")
		return
	}
	if failErr := w.FailedProvider.Log(ctx, w.Connection, w.QueueName, body, err.Error()); failErr != nil {
		zerolog.Ctx(ctx).Error().Err(failErr).Msg("Error logging failed job")
	}
}
