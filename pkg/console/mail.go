package console

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pixelvide/teneo-mailer/pkg/mail"
	"github.com/pixelvide/teneo-mailer/pkg/mime"
	"github.com/pixelvide/teneo-mailer/pkg/queue"
	"github.com/pixelvide/teneo-mailer/pkg/root"
)

type sendOptions struct {
	from    string
	to      []string
	cc      []string
	bcc     []string
	subject string
	text    string
	html    string
	headers map[string]string
	queued  bool
}

var sendOpts sendOptions

var errNoBody = errors.New("either --text or --html is required")

// buildEmail turns the command flags into a message
func buildEmail(opts sendOptions) (*mime.Email, error) {
	if opts.text == "" && opts.html == "" {
		return nil, errNoBody
	}

	email := mime.NewEmail().
		SetSubject(opts.subject).
		SetText(opts.text).
		SetHTML(opts.html)

	if opts.from != "" {
		from, err := mime.ParseAddress(opts.from)
		if err != nil {
			return nil, err
		}
		email.SetFrom(from)
	}

	lists := []struct {
		values []string
		add    func(...mime.Address) *mime.Email
	}{
		{opts.to, email.AddTo},
		{opts.cc, email.AddCc},
		{opts.bcc, email.AddBcc},
	}
	for _, l := range lists {
		for _, v := range l.values {
			addrs, err := mime.ParseAddressList(v)
			if err != nil {
				return nil, err
			}
			l.add(addrs...)
		}
	}

	for name, body := range opts.headers {
		email.Headers.AddText(name, body)
	}

	return email, nil
}

var mailSendCmd = &cobra.Command{
	Use:   "mail:send",
	Short: "Send an email through the configured transport",
	Example: `  teneo-mailer mail:send --to bar@example.com --subject Hello --text "Hi there"
  teneo-mailer mail:send --to bar@example.com --html "<p>Hi</p>" --header X-Campaign=spring --queue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := setup()

		email, err := buildEmail(sendOpts)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		ctx = log.Logger.WithContext(ctx)

		if sendOpts.queued {
			driver, _, err := newDriver(ctx, cfg)
			if err != nil {
				return err
			}
			if err := mail.Queue(ctx, queue.NewPublisher(driver), cfg.Queue.Name, email); err != nil {
				return err
			}
			log.Info().Str("queue", cfg.Queue.Name).Msg("Email queued")
			return nil
		}

		mailer, err := mail.NewMailer(cfg.Mail)
		if err != nil {
			return err
		}

		sent, err := mailer.Send(ctx, email)
		if err != nil {
			return err
		}

		cmd.Println(sent.MessageID)
		return nil
	},
}

func init() {
	flags := mailSendCmd.Flags()
	flags.StringVar(&sendOpts.from, "from", "", "Sender address (defaults to MAIL_FROM_ADDRESS)")
	flags.StringArrayVar(&sendOpts.to, "to", nil, "Recipient address, repeatable")
	flags.StringArrayVar(&sendOpts.cc, "cc", nil, "Cc address, repeatable")
	flags.StringArrayVar(&sendOpts.bcc, "bcc", nil, "Bcc address, repeatable")
	flags.StringVar(&sendOpts.subject, "subject", "", "Subject")
	flags.StringVar(&sendOpts.text, "text", "", "Plain text body")
	flags.StringVar(&sendOpts.html, "html", "", "HTML body")
	flags.StringToStringVar(&sendOpts.headers, "header", nil, "Extra header as Name=value, repeatable")
	flags.BoolVar(&sendOpts.queued, "queue", false, "Queue the email instead of sending it")
	_ = mailSendCmd.MarkFlagRequired("to")

	root.GetRoot().AddCommand(mailSendCmd)
}
