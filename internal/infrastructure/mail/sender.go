package mail

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the SMTP relay lacks a host, port or sender address
var ErrNotConfigured = errors.New("mail: smtp relay not configured")

// Message is an outgoing email with a plain text and an HTML alternative
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender dispatches outgoing email
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
