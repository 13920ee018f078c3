package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"fulfillment/internal/queue"
)

// ChannelSender delivers one rendered message over a channel. Provider
// clients (WhatsApp, email, SMS) implement this; the pipeline only ships a
// slog-backed sender and leaves real providers to deployment wiring.
type ChannelSender interface {
	Send(ctx context.Context, channel string, message Message) error
}

// SlogSender writes every message to the log instead of a provider. Used in
// development and as the default wiring when no provider is configured.
type SlogSender struct {
	logger *slog.Logger
}

// NewSlogSender creates a log-only channel sender.
func NewSlogSender(logger *slog.Logger) *SlogSender {
	return &SlogSender{logger: logger.With("component", "notification_sender")}
}

// Send logs the message.
func (s *SlogSender) Send(ctx context.Context, channel string, message Message) error {
	s.logger.InfoContext(ctx, "notification sent",
		"channel", channel,
		"type", message.Type,
		"recipient", message.Recipient,
		"order_id", message.OrderID,
		"message", message.Message)
	return nil
}

// Handler adapts a ChannelSender to the queue fabric. A payload that does not
// unmarshal is terminal: retrying cannot fix it.
func Handler(sender ChannelSender) queue.HandlerFunc {
	return func(ctx context.Context, job *queue.Job) error {
		var message Message
		if err := json.Unmarshal(job.Payload, &message); err != nil {
			return queue.Terminal(err)
		}
		return sender.Send(ctx, job.Queue, message)
	}
}
