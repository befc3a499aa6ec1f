package queue

import (
	"context"
)

// Job represents a generic job retrieved from the queue
type Job struct {
	ID               string
	Queue            string // Backend queue the job was popped from
	Body             []byte
	Payload          *LaravelJob // The parsed JSON envelope
	UnserializedData any         // The unserialized PHP command properties (if applicable)
}

// GetArg returns a property of the unserialized command, or nil
func (j *Job) GetArg(name string) any {
	if j == nil || j.UnserializedData == nil {
		return nil
	}
	return GetPHPProperty(j.UnserializedData, name)
}

// StringArg returns a string property of the command. Missing or non-string
// properties yield "".
func (j *Job) StringArg(name string) string {
	s, _ := j.GetArg(name).(string)
	return s
}

// Handler is the function signature for processing a job
type Handler func(ctx context.Context, job *Job) error

// Driver defines the interface for queue backends
type Driver interface {
	// Pop retrieves a job from the queue. It should block until a job is available.
	Pop(ctx context.Context, queueName string) (*Job, error)
	// Push adds a job payload to the queue
	Push(ctx context.Context, queueName string, body []byte) error
	// Ack removes a processed job from the backend
	Ack(ctx context.Context, job *Job) error
}
