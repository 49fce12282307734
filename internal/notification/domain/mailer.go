// Package domain defines the outbound mail contract. Delivery is always
// best-effort: callers log failures and never surface them to the request
// that triggered the send.
package domain

import "context"

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
