package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	notificationdomain "github.com/skyharborlabs/skyharbor/internal/notification/domain"
)

// smtpMailer delivers through a plain SMTP relay. Single attempt, no retry.
type smtpMailer struct {
	addr string
	from string
}

func NewSMTPMailer(addr, from string) notificationdomain.Mailer {
	return &smtpMailer{addr: addr, from: from}
}

func (m *smtpMailer) Send(_ context.Context, msg notificationdomain.Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	return smtp.SendMail(m.addr, nil, m.from, []string{msg.To}, []byte(b.String()))
}

// logMailer stands in when no relay is configured.
type logMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) notificationdomain.Mailer {
	return &logMailer{log: log.Named("notification.mailer")}
}

func (m *logMailer) Send(_ context.Context, msg notificationdomain.Message) error {
	m.log.Info("mail delivery skipped, no smtp relay configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
