package sqs

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/pixelvide/teneo-mailer/pkg/queue"
)

// API is the subset of the SQS client used by the driver
type API interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSDriver struct {
	client   API
	queueUrl string
}

// NewSQSDriver creates a new SQS driver
func NewSQSDriver(client API, queueUrl string) *SQSDriver {
	return &SQSDriver{
		client:   client,
		queueUrl: queueUrl,
	}
}

// url resolves the queue URL. A queue name that is itself a URL wins over
// the configured one.
func (s *SQSDriver) url(queueName string) string {
	if strings.HasPrefix(queueName, "https://") || strings.HasPrefix(queueName, "http://") {
		return queueName
	}
	return s.queueUrl
}

// Pop retrieves a job from SQS using long polling.
// An empty poll returns context.DeadlineExceeded.
func (s *SQSDriver) Pop(ctx context.Context, queueName string) (*queue.Job, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.url(queueName)),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     20,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	}

	resp, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, err
	}

	if len(resp.Messages) == 0 {
		return nil, context.DeadlineExceeded
	}

	msg := resp.Messages[0]

	// ID is the ReceiptHandle, needed for deleting together with the queue URL
	return &queue.Job{
		ID:    aws.ToString(msg.ReceiptHandle),
		Queue: aws.ToString(input.QueueUrl),
		Body:  []byte(aws.ToString(msg.Body)),
	}, nil
}

// Push adds a job to SQS
func (s *SQSDriver) Push(ctx context.Context, queueName string, body []byte) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.url(queueName)),
		MessageBody: aws.String(string(body)),
	}

	_, err := s.client.SendMessage(ctx, input)
	return err
}

// Ack deletes the job from the queue it was received from
func (s *SQSDriver) Ack(ctx context.Context, job *queue.Job) error {
	if job.ID == "" {
		return nil
	}

	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.url(job.Queue)),
		ReceiptHandle: aws.String(job.ID),
	}

	_, err := s.client.DeleteMessage(ctx, input)
	return err
}
