package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pixelvide/teneo-mailer/pkg/config"
	"github.com/pixelvide/teneo-mailer/pkg/queue"
)

// KeyPrefix is the prefix Laravel puts on queue lists
const KeyPrefix = "queues:"

// PopTimeout bounds a single BLPOP so idle workers notice shutdown
const PopTimeout = 5 * time.Second

type RedisDriver struct {
	client goredis.Cmdable
}

// NewRedisDriver creates a new Redis driver instance
func NewRedisDriver(cfg config.RedisConfig) *RedisDriver {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisDriverFromClient(rdb)
}

// NewRedisDriverFromClient wraps an existing client
func NewRedisDriverFromClient(client goredis.Cmdable) *RedisDriver {
	return &RedisDriver{client: client}
}

// QueueKey returns the list key for a queue name. Names that already
// carry the prefix are kept as is.
func QueueKey(queueName string) string {
	if strings.HasPrefix(queueName, KeyPrefix) {
		return queueName
	}
	return KeyPrefix + queueName
}

// Pop blocks until a job is available and returns it.
// An empty poll returns context.DeadlineExceeded.
func (r *RedisDriver) Pop(ctx context.Context, queueName string) (*queue.Job, error) {
	result, err := r.client.BLPop(ctx, PopTimeout, QueueKey(queueName)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, context.DeadlineExceeded
	}
	if err != nil {
		return nil, err
	}

	// result[0] is the key, result[1] is the payload
	if len(result) < 2 {
		return nil, context.DeadlineExceeded
	}

	return &queue.Job{
		Queue: result[0],
		Body:  []byte(result[1]),
	}, nil
}

// Push adds a job to the queue
func (r *RedisDriver) Push(ctx context.Context, queueName string, body []byte) error {
	return r.client.RPush(ctx, QueueKey(queueName), body).Err()
}

// Ack is a no-op: BLPOP already removed the job from the list
func (r *RedisDriver) Ack(ctx context.Context, job *queue.Job) error {
	return nil
}

// FailedRecord is the entry written to the failed list
type FailedRecord struct {
	UUID       string          `json:"uuid"`
	Connection string          `json:"connection"`
	Queue      string          `json:"queue"`
	Payload    json.RawMessage `json:"payload"`
	Exception  string          `json:"exception"`
	FailedAt   time.Time       `json:"failed_at"`
}

// FailedProvider stores failed jobs in a "<queue>:failed" list
type FailedProvider struct {
	client goredis.Cmdable
	now    func() time.Time
}

// NewFailedProvider creates a FailedProvider sharing the driver's client
func (r *RedisDriver) NewFailedProvider() *FailedProvider {
	return &FailedProvider{client: r.client, now: time.Now}
}

// FailedKey returns the failed list key for a queue name
func FailedKey(queueName string) string {
	return QueueKey(queueName) + ":failed"
}

// Log implements queue.FailedJobProvider
func (p *FailedProvider) Log(ctx context.Context, connection string, queueName string, payload []byte, exception string) error {
	record, err := newFailedRecord(connection, queueName, payload, exception, p.now())
	if err != nil {
		return err
	}
	return p.client.RPush(ctx, FailedKey(queueName), record).Err()
}

func newFailedRecord(connection, queueName string, payload []byte, exception string, at time.Time) ([]byte, error) {
	raw := json.RawMessage(payload)
	if !json.Valid(payload) {
		quoted, err := json.Marshal(string(payload))
		if err != nil {
			return nil, err
		}
		raw = quoted
	}

	return json.Marshal(FailedRecord{
		UUID:       uuid.New().String(),
		Connection: connection,
		Queue:      queueName,
		Payload:    raw,
		Exception:  exception,
		FailedAt:   at.UTC(),
	})
}
