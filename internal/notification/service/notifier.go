package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/skyharborlabs/skyharbor/internal/config"
	notificationdomain "github.com/skyharborlabs/skyharbor/internal/notification/domain"
)

const sendTimeout = 10 * time.Second

// Notifier builds and dispatches lifecycle emails. Sends are detached from
// the triggering request; failures are logged and swallowed.
type Notifier struct {
	log    *zap.Logger
	mailer notificationdomain.Mailer
}

type NotifierParam struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
}

func NewNotifier(p NotifierParam) *Notifier {
	var mailer notificationdomain.Mailer
	if p.Config.SMTPAddr != "" {
		mailer = NewSMTPMailer(p.Config.SMTPAddr, p.Config.SMTPFrom)
	} else {
		mailer = NewLogMailer(p.Log)
	}
	return &Notifier{
		log:    p.Log.Named("notification.service"),
		mailer: mailer,
	}
}

func (n *Notifier) QuoteSent(ctx context.Context, to, quoteID, currency string, total float64, validUntil time.Time) {
	n.dispatch(ctx, notificationdomain.Message{
		To:      to,
		Subject: fmt.Sprintf("Your charter quote %s", quoteID),
		Body: fmt.Sprintf(
			"Your charter quote is ready.\n\nQuote: %s\nTotal: %.2f %s\nValid until: %s\n",
			quoteID, total, currency, validUntil.Format(time.RFC1123),
		),
	})
}

func (n *Notifier) BookingConfirmed(ctx context.Context, to, bookingID, currency string, total float64) {
	n.dispatch(ctx, notificationdomain.Message{
		To:      to,
		Subject: fmt.Sprintf("Booking %s confirmed", bookingID),
		Body: fmt.Sprintf(
			"Your booking is confirmed.\n\nBooking: %s\nTotal: %.2f %s\n",
			bookingID, total, currency,
		),
	})
}

func (n *Notifier) dispatch(ctx context.Context, msg notificationdomain.Message) {
	if msg.To == "" {
		return
	}
	// Detach from the request lifetime so a slow relay cannot block or
	// cancel the triggering operation.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	go func() {
		defer cancel()
		if err := n.mailer.Send(sendCtx, msg); err != nil {
			n.log.Warn("notification delivery failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
}
