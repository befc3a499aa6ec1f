package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pixelvide/teneo-mailer/pkg/mime"
	"github.com/pixelvide/teneo-mailer/pkg/queue"
	"github.com/pixelvide/teneo-mailer/pkg/transport"
	"github.com/pixelvide/teneo-mailer/pkg/transport/teneo"
)

// SendMailJob is the Laravel job class carrying a queued message
const SendMailJob = "Pixelvide\\TeneoMailer\\Jobs\\SendMail"

// DefaultTries is how often the worker attempts a queued message
const DefaultTries = 3

// ErrQueuedAttachment is returned when queueing a message with attachments
var ErrQueuedAttachment = errors.New("queued messages cannot carry attachments")

// Dispatcher is implemented by queue.Publisher
type Dispatcher interface {
	DispatchWithTries(ctx context.Context, queueName string, jobName string, args map[string]any, tries int) error
}

// Queue dispatches the email as a SendMail job
func Queue(ctx context.Context, dispatcher Dispatcher, queueName string, email *mime.Email) error {
	if email == nil {
		return transport.ErrNoMessage
	}
	if len(email.Attachments) > 0 {
		return ErrQueuedAttachment
	}

	if err := dispatcher.DispatchWithTries(ctx, queueName, SendMailJob, jobArgs(email), DefaultTries); err != nil {
		return fmt.Errorf("queue email: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("queue", queueName).Str("subject", email.Subject).Msg("Email queued")
	return nil
}

func jobArgs(email *mime.Email) map[string]any {
	args := map[string]any{
		"from":    mime.FormatAddressList(email.From),
		"replyTo": mime.FormatAddressList(email.ReplyTo),
		"to":      mime.FormatAddressList(email.To),
		"cc":      mime.FormatAddressList(email.Cc),
		"bcc":     mime.FormatAddressList(email.Bcc),
		"subject": email.Subject,
		"text":    email.Text,
		"html":    email.HTML,
	}
	if email.Sender != nil {
		args["sender"] = email.Sender.String()
	}

	// only free text headers survive the queue, in order
	var headers [][2]string
	for _, h := range email.Headers.All() {
		if h.Kind == mime.Unstructured {
			headers = append(headers, [2]string{h.Name, h.Body})
		}
	}
	args["headers"] = queue.StringPairs(headers)

	return args
}

// EmailFromJob rebuilds the message carried by a SendMail job
func EmailFromJob(job *queue.Job) (*mime.Email, error) {
	email := mime.NewEmail()

	lists := []struct {
		name   string
		target *[]mime.Address
	}{
		{"from", &email.From},
		{"replyTo", &email.ReplyTo},
		{"to", &email.To},
		{"cc", &email.Cc},
		{"bcc", &email.Bcc},
	}
	for _, l := range lists {
		addrs, err := mime.ParseAddressList(job.StringArg(l.name))
		if err != nil {
			return nil, fmt.Errorf("job property %s: %w", l.name, err)
		}
		*l.target = addrs
	}

	if sender := job.StringArg("sender"); sender != "" {
		addr, err := mime.ParseAddress(sender)
		if err != nil {
			return nil, fmt.Errorf("job property sender: %w", err)
		}
		email.Sender = &addr
	}

	email.SetSubject(job.StringArg("subject")).
		SetText(job.StringArg("text")).
		SetHTML(job.StringArg("html"))

	for _, h := range queue.ParseStringPairs(job.GetArg("headers")) {
		email.Headers.AddText(h[0], h[1])
	}

	return email, nil
}

// QueueHandler returns the worker handler for SendMail jobs
func QueueHandler(m Mailer) queue.Handler {
	return func(ctx context.Context, job *queue.Job) error {
		email, err := EmailFromJob(job)
		if err != nil {
			return queue.Permanent(err)
		}

		sent, err := m.Send(ctx, email)
		if err != nil {
			if isPermanent(err) {
				return queue.Permanent(err)
			}
			return err
		}

		zerolog.Ctx(ctx).Info().Str("message_id", sent.MessageID).Msg("Queued email sent")
		return nil
	}
}

// permanentErrors cannot be fixed by sending the same message again
var permanentErrors = []error{
	transport.ErrMessageRejected,
	transport.ErrUnsupportedFeature,
	transport.ErrIncompleteDsn,
	teneo.ErrMailClassNotFound,
	mime.ErrNoSender,
	mime.ErrNoRecipients,
}

func isPermanent(err error) bool {
	for _, target := range permanentErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RegisterQueueHandler registers the SendMail handler with the queue registry
func RegisterQueueHandler(m Mailer) {
	queue.Register(SendMailJob, QueueHandler(m))
}
