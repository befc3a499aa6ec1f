package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/yvasiyarov/php_session_decoder/php_serialize"
)

// DefaultQueue is used by Dispatch
const DefaultQueue = "default"

const callQueuedHandler = "Illuminate\\Queue\\CallQueuedHandler@call"

// Publisher handles dispatching jobs to the queue
type Publisher struct {
	driver Driver
}

// NewPublisher creates a new Publisher instance
func NewPublisher(driver Driver) *Publisher {
	return &Publisher{driver: driver}
}

// Dispatch pushes a new job to the default queue.
// jobName is the Laravel job class name (e.g., "App\Jobs\ProcessPodcast")
// args is a map of public properties to set on the job object
func (p *Publisher) Dispatch(ctx context.Context, jobName string, args map[string]any) error {
	return p.DispatchToQueue(ctx, DefaultQueue, jobName, args)
}

// DispatchToQueue pushes a new job to a specific queue
func (p *Publisher) DispatchToQueue(ctx context.Context, queueName string, jobName string, args map[string]any) error {
	body, err := EncodeJob(jobName, args, nil)
	if err != nil {
		return err
	}
	return p.driver.Push(ctx, queueName, body)
}

// DispatchWithTries pushes a job that the worker retries up to tries times
func (p *Publisher) DispatchWithTries(ctx context.Context, queueName string, jobName string, args map[string]any, tries int) error {
	body, err := EncodeJob(jobName, args, &tries)
	if err != nil {
		return err
	}
	return p.driver.Push(ctx, queueName, body)
}

// EncodeJob builds the Laravel queue payload for a job class with the given
// public properties. maxTries may be nil.
func EncodeJob(jobName string, args map[string]any, maxTries *int) ([]byte, error) {
	phpObj := php_serialize.NewPhpObject(jobName)
	for key, value := range args {
		phpObj.SetPublic(key, value)
	}

	serializedCommand, err := php_serialize.NewSerializer().Encode(phpObj)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", jobName, err)
	}

	dataBytes, err := json.Marshal(map[string]any{
		"commandName": jobName,
		"command":     serializedCommand,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(LaravelJob{
		UUID:        uuid.New().String(),
		DisplayName: jobName,
		Job:         callQueuedHandler,
		MaxTries:    maxTries,
		Data:        dataBytes,
	})
}
