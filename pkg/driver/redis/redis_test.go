package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelvide/teneo-mailer/pkg/config"
)

func TestQueueKey(t *testing.T) {
	assert.Equal(t, "queues:default", QueueKey("default"))
	assert.Equal(t, "queues:mail", QueueKey("queues:mail"))
	assert.Equal(t, "queues:mail:failed", FailedKey("mail"))
}

func TestNewRedisDriver(t *testing.T) {
	driver := NewRedisDriver(config.RedisConfig{Host: "localhost", Port: 6380})
	require.NotNil(t, driver)
	assert.NotNil(t, driver.NewFailedProvider())
}

func TestNewFailedRecord(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	body, err := newFailedRecord("redis", "mail", []byte(`{"uuid":"abc"}`), "boom", at)
	require.NoError(t, err)

	var record FailedRecord
	require.NoError(t, json.Unmarshal(body, &record))
	assert.NotEmpty(t, record.UUID)
	assert.Equal(t, "redis", record.Connection)
	assert.Equal(t, "mail", record.Queue)
	assert.JSONEq(t, `{"uuid":"abc"}`, string(record.Payload))
	assert.Equal(t, "boom", record.Exception)
	assert.True(t, at.Equal(record.FailedAt))
}

func TestNewFailedRecord_InvalidPayload(t *testing.T) {
	body, err := newFailedRecord("redis", "mail", []byte("{not json"), "boom", time.Now())
	require.NoError(t, err)

	var record FailedRecord
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, `"{not json"`, string(record.Payload))
}
