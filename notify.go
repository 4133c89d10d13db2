package main

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Outgoing mail always goes through this provider over implicit TLS.
const (
	smtpHost = "smtp.gmail.com"
	smtpPort = 465
)

type EventKind string

const (
	EventStockFound     EventKind = "stock_found"
	EventLoginFailed    EventKind = "login_failed"
	EventCheckoutFailed EventKind = "checkout_failed"
	EventOrderPlaced    EventKind = "order_placed"
	EventDryRunComplete EventKind = "dry_run_complete"
)

type Event struct {
	Kind    EventKind
	Site    string
	Product string
	URL     string
	Detail  string
}

// Notifier delivers events. Delivery is best effort: Notify never fails the
// caller.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Subject and Body render the event through the message catalog.
func (e Event) Subject() string {
	return T("notify_subject", T("event_"+string(e.Kind)), e.Site)
}

func (e Event) Body() string {
	product := e.Product
	if product == "" {
		product = T("product_any")
	}
	return T("notify_body", e.Site, product, e.URL, e.Detail)
}

type sendFunc func(m *gomail.Message) error

// Mailer sends each event as one email from the sender account to the
// recipient.
type Mailer struct {
	account NotificationAccount
	log     *zap.Logger
	send    sendFunc
}

func NewMailer(account NotificationAccount, log *zap.Logger) *Mailer {
	dialer := gomail.NewDialer(smtpHost, smtpPort, account.SenderEmail, account.SenderPassword)
	dialer.SSL = true

	return &Mailer{
		account: account,
		log:     log,
		send: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

func (m *Mailer) message(event Event) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.account.SenderEmail)
	msg.SetHeader("To", m.account.RecipientEmail)
	msg.SetHeader("Subject", event.Subject())
	msg.SetBody("text/plain", event.Body())
	return msg
}

func (m *Mailer) Notify(ctx context.Context, event Event) {
	if ctx.Err() != nil {
		m.log.Debug("skipping notification, context done", zap.String("event", string(event.Kind)))
		return
	}

	if err := m.send(m.message(event)); err != nil {
		m.log.Error("failed to send notification",
			zap.String("event", string(event.Kind)),
			zap.String("recipient", m.account.RecipientEmail),
			zap.Error(err))
		return
	}

	m.log.Info("notification sent",
		zap.String("event", string(event.Kind)),
		zap.String("recipient", m.account.RecipientEmail))
}

// LogNotifier is used when a site has no notification account.
type LogNotifier struct {
	log *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, event Event) {
	n.log.Info("notification (no mail account)",
		zap.String("event", string(event.Kind)),
		zap.String("detail", event.Detail))
}

func NotifierFor(account NotificationAccount, log *zap.Logger) Notifier {
	if !account.Configured() {
		return LogNotifier{log: log}
	}
	return NewMailer(account, log)
}
