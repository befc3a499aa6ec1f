package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelvide/teneo-mailer/pkg/queue"
)

// MockDriver implements queue.Driver for testing
type MockDriver struct {
	mu     sync.Mutex
	Queue  []queue.Job
	Pushed []queue.Job
	Acked  []*queue.Job
}

func (m *MockDriver) Pop(ctx context.Context, queueName string) (*queue.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Queue) > 0 {
		job := m.Queue[0]
		m.Queue = m.Queue[1:]
		return &job, nil
	}
	// Simulate an empty long poll
	return nil, context.DeadlineExceeded
}

func (m *MockDriver) Push(ctx context.Context, queueName string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushed = append(m.Pushed, queue.Job{Body: body})
	m.Queue = append(m.Queue, queue.Job{Body: body})
	return nil
}

func (m *MockDriver) Ack(ctx context.Context, job *queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Acked = append(m.Acked, job)
	return nil
}

type failedLog struct {
	connection string
	queue      string
	payload    []byte
	exception  string
}

// MockFailedProvider records failed jobs
type MockFailedProvider struct {
	mu     sync.Mutex
	Failed []failedLog
}

func (m *MockFailedProvider) Log(ctx context.Context, connection string, queueName string, payload []byte, exception string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failed = append(m.Failed, failedLog{connection, queueName, payload, exception})
	return nil
}

func runWorker(driver queue.Driver, failed queue.FailedJobProvider) {
	w := NewWorker(driver, failed, "default", 1, nil)
	w.PopBackoff = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)
}

func encode(t *testing.T, payload queue.LaravelJob) []byte {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(&MockDriver{}, nil, "mail", 0, nil)

	assert.Equal(t, 1, w.Concurrency)
	assert.Equal(t, "mail", w.QueueName)
	assert.NotNil(t, w.tracer)
}

func TestWorker_Run_Success(t *testing.T) {
	jobName := "TestJob"
	handled := false
	queue.Register(jobName, func(ctx context.Context, job *queue.Job) error {
		handled = true
		assert.Equal(t, jobName, job.Payload.DisplayName)
		return nil
	})

	driver := &MockDriver{
		Queue: []queue.Job{{ID: "1", Body: encode(t, queue.LaravelJob{UUID: "123", DisplayName: jobName})}},
	}

	runWorker(driver, nil)

	assert.True(t, handled, "Expected handler to be called")
	require.Len(t, driver.Acked, 1)
	assert.Equal(t, "1", driver.Acked[0].ID)
	assert.Empty(t, driver.Pushed)
}

func TestWorker_Run_Retry(t *testing.T) {
	jobName := "RetryJob"
	queue.Register(jobName, func(ctx context.Context, job *queue.Job) error {
		return errors.New("failed")
	})

	maxTries := 2
	driver := &MockDriver{
		Queue: []queue.Job{{Body: encode(t, queue.LaravelJob{UUID: "456", DisplayName: jobName, MaxTries: &maxTries})}},
	}
	failed := &MockFailedProvider{}

	runWorker(driver, failed)

	// the retried job is popped again and then fails permanently
	require.Len(t, driver.Pushed, 1)
	var retryPayload queue.LaravelJob
	require.NoError(t, json.Unmarshal(driver.Pushed[0].Body, &retryPayload))
	assert.Equal(t, 1, retryPayload.Attempts)

	require.Len(t, failed.Failed, 1)
	assert.Equal(t, "redis", failed.Failed[0].connection)
	assert.Equal(t, "default", failed.Failed[0].queue)
	assert.Equal(t, "failed", failed.Failed[0].exception)
	assert.Len(t, driver.Acked, 2)
}

func TestWorker_Run_FailsWithoutRetries(t *testing.T) {
	jobName := "FailingJob"
	queue.Register(jobName, func(ctx context.Context, job *queue.Job) error {
		return errors.New("boom")
	})

	driver := &MockDriver{
		Queue: []queue.Job{{Body: encode(t, queue.LaravelJob{UUID: "789", DisplayName: jobName})}},
	}
	failed := &MockFailedProvider{}

	runWorker(driver, failed)

	assert.Empty(t, driver.Pushed)
	require.Len(t, failed.Failed, 1)

	var logged queue.LaravelJob
	require.NoError(t, json.Unmarshal(failed.Failed[0].payload, &logged))
	assert.Equal(t, 1, logged.Attempts)
	assert.Equal(t, "boom", failed.Failed[0].exception)
}

func TestWorker_Run_PermanentFailureSkipsRetries(t *testing.T) {
	jobName := "RejectedJob"
	calls := 0
	queue.Register(jobName, func(ctx context.Context, job *queue.Job) error {
		calls++
		return queue.Permanent(errors.New("rejected"))
	})

	maxTries := 3
	driver := &MockDriver{
		Queue: []queue.Job{{Body: encode(t, queue.LaravelJob{UUID: "321", DisplayName: jobName, MaxTries: &maxTries})}},
	}
	failed := &MockFailedProvider{}

	runWorker(driver, failed)

	assert.Equal(t, 1, calls)
	assert.Empty(t, driver.Pushed)
	require.Len(t, failed.Failed, 1)
	assert.Equal(t, "rejected", failed.Failed[0].exception)
	assert.Len(t, driver.Acked, 1)
}

func TestWorker_Run_UnknownJob(t *testing.T) {
	driver := &MockDriver{
		Queue: []queue.Job{{Body: encode(t, queue.LaravelJob{UUID: "000", DisplayName: "NobodyHandlesThis"})}},
	}
	failed := &MockFailedProvider{}

	runWorker(driver, failed)

	require.Len(t, failed.Failed, 1)
	assert.Contains(t, failed.Failed[0].exception, "handler not found")
	assert.Len(t, driver.Acked, 1)
}

func TestWorker_Run_MalformedBody(t *testing.T) {
	driver := &MockDriver{
		Queue: []queue.Job{{Body: []byte("{not json")}},
	}

	runWorker(driver, nil)

	assert.Len(t, driver.Acked, 1)
	assert.Empty(t, driver.Pushed)
}
