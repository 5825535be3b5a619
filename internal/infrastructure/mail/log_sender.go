package mail

import (
	"context"

	"go.uber.org/zap"
	"shortlink.backend/pkg/logger"
)

type logSender struct{}

// NewLogSender returns a Sender that only logs messages. Used when no SMTP host is configured.
func NewLogSender() Sender {
	return logSender{}
}

func (logSender) Send(ctx context.Context, msg Message) error {
	logger.Info(ctx, "Email dispatched to log",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}

// NewSender picks the SMTP relay when a host is configured
func NewSender(host string, smtp Sender) Sender {
	if host == "" {
		return NewLogSender()
	}
	return smtp
}
