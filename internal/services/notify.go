package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"robolab/internal/config"
	"robolab/internal/domain"
	"robolab/internal/metrics"
	"robolab/internal/worker"
)

// ChatNotifier posts a short alert to a team chat
type ChatNotifier interface {
	Name() string
	Send(ctx context.Context, title, text string) error
}

// Email is one outgoing message. Mailers ignore fields they cannot carry.
type Email struct {
	To      []string
	BCC     []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers an Email
type Mailer interface {
	Name() string
	Send(ctx context.Context, msg *Email) error
}

// Enqueuer runs tasks detached from the caller. *worker.Queue implements it.
type Enqueuer interface {
	Submit(name string, task worker.Task) bool
}

// Channels holds the notification channels that are configured. A nil
// field means the channel is off.
type Channels struct {
	Chat ChatNotifier
	// Relay is the direct SMTP path, preferred for email when set
	Relay Mailer
	// Provider is the HTTP email API, used when Relay is nil
	Provider Mailer
}

// NewChannels builds every fully configured channel from cfg
func NewChannels(cfg *config.NotifyConfig) Channels {
	var ch Channels
	if cfg.Slack.Configured() {
		ch.Chat = NewSlackNotifier(cfg.Slack.WebhookURL)
	}
	if cfg.SMTP.Configured() {
		ch.Relay = NewSMTPMailer(&cfg.SMTP)
	}
	if cfg.Resend.Configured() {
		ch.Provider = NewResendMailer(&cfg.Resend)
	}
	return ch
}

// Dispatcher sends the internal alert and the submitter receipt for a
// committed inquiry. Sends happen on the queue; callers never wait for or
// learn about their outcome.
type Dispatcher struct {
	queue    Enqueuer
	channels Channels
	cfg      *config.NotifyConfig
}

// NewDispatcher creates a dispatcher
func NewDispatcher(cfg *config.NotifyConfig, queue Enqueuer, channels Channels) *Dispatcher {
	log.Printf("[NOTIFY] Channels: chat=%v relay=%v provider=%v",
		channels.Chat != nil, channels.Relay != nil, channels.Provider != nil)
	return &Dispatcher{queue: queue, channels: channels, cfg: cfg}
}

// NotifyInternal alerts the team about a new inquiry
func (d *Dispatcher) NotifyInternal(kind domain.Kind, sub *Submission) {
	if d.channels.Chat == nil && d.emailChannel() == nil {
		return
	}
	d.queue.Submit("internal:"+sub.ID.String(), func(ctx context.Context) {
		d.sendInternal(ctx, kind, sub)
	})
}

// NotifyReceipt sends the confirmation email to the submitter
func (d *Dispatcher) NotifyReceipt(kind domain.Kind, sub *Submission) {
	if d.emailChannel() == nil {
		return
	}
	d.queue.Submit("receipt:"+sub.ID.String(), func(ctx context.Context) {
		d.sendReceipt(ctx, kind, sub)
	})
}

func (d *Dispatcher) emailChannel() Mailer {
	if d.channels.Relay != nil {
		return d.channels.Relay
	}
	return d.channels.Provider
}

func (d *Dispatcher) internalRecipients() []string {
	if d.channels.Relay != nil {
		return d.cfg.SMTP.To
	}
	return d.cfg.Resend.To
}

func (d *Dispatcher) sendInternal(ctx context.Context, kind domain.Kind, sub *Submission) {
	var g errgroup.Group

	if chat := d.channels.Chat; chat != nil {
		g.Go(func() error {
			return record(chat.Name(), sub, chat.Send(ctx, chatTitle(sub), chatText(sub)))
		})
	}

	if mailer := d.emailChannel(); mailer != nil {
		msg := &Email{
			To:      d.internalRecipients(),
			Subject: internalSubject(sub),
			Text:    internalText(sub),
		}
		g.Go(func() error {
			return record(mailer.Name(), sub, mailer.Send(ctx, msg))
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("[NOTIFY] Internal %s alert for %s incomplete", kind, sub.ID)
	}
}

// sendReceipt mails the submitter. The relay path is plain text without
// reply-to or BCC; the provider path adds HTML, reply-to and BCC.
func (d *Dispatcher) sendReceipt(ctx context.Context, kind domain.Kind, sub *Submission) {
	brand := &d.cfg.Branding
	msg := &Email{
		To:      []string{sub.Email},
		Subject: receiptSubject(sub, brand),
		Text:    receiptText(sub, brand),
	}

	mailer := d.channels.Relay
	if mailer == nil {
		mailer = d.channels.Provider
		msg.HTML = receiptHTML(sub, brand)
		msg.ReplyTo = d.cfg.Resend.ReplyTo
		msg.BCC = d.cfg.Resend.BCC
	}

	if err := record(mailer.Name(), sub, mailer.Send(ctx, msg)); err != nil {
		log.Printf("[NOTIFY] Receipt for %s %s not sent", kind, sub.ID)
	}
}

// record logs and counts one channel outcome and passes err through
func record(channel string, sub *Submission, err error) error {
	metrics.RecordNotification(channel, err == nil)
	if err != nil {
		log.Printf("[NOTIFY] %s failed for inquiry %s: %v", channel, sub.ID, err)
		return err
	}
	log.Printf("[NOTIFY] %s sent for inquiry %s", channel, sub.ID)
	return nil
}
