package notify

import (
	"context"
	"time"

	"github.com/wneessen/go-mail"
)

// Notifier delivers a single HTML notification. Callers treat failures as
// non-fatal: escalation and submission never block on delivery.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mailer is the SMTP-backed Notifier.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{mail.WithPort(m.port)}
	if m.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.user),
			mail.WithPassword(m.pass),
		)
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}

	return doWithRetry(ctx, 3, 2*time.Second, func() error {
		return client.DialAndSendWithContext(ctx, msg)
	})
}

// doWithRetry runs fn up to attempts times with doubling delay, stopping
// early when the context is cancelled.
func doWithRetry(ctx context.Context, attempts int, initialDelay time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}
	if initialDelay <= 0 {
		initialDelay = time.Second
	}
	delay := initialDelay
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	return err
}
