package notification

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/queue"
)

const (
	// channelMaxAttempts keeps channel retries short: one retry, then the
	// job fails and the cleanup pass eventually drops it. Notifications are
	// not worth a long retry tail.
	channelMaxAttempts = 2

	// channelRetryDelay is the fixed pause before the single retry.
	channelRetryDelay = 5 * time.Second
)

// Dispatcher implements the application layer's OrderNotifier by resolving
// the customer's language, rendering the event template, and enqueuing the
// message on a channel queue. Everything here is best-effort: errors are
// returned for the caller to log and drop.
type Dispatcher struct {
	enqueuer   queue.Enqueuer
	translator ports.Translator
	phones     services.PhoneLocales
	logger     *slog.Logger
}

// NewDispatcher creates a dispatcher. translator may be nil; the built-in
// catalog then serves every template lookup.
func NewDispatcher(enqueuer queue.Enqueuer, translator ports.Translator, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		enqueuer:   enqueuer,
		translator: translator,
		phones:     services.NewPrefixPhoneLocales(),
		logger:     logger.With("component", "notification_dispatcher"),
	}
}

// OrderConfirmed tells the customer the order reached the supplier.
func (d *Dispatcher) OrderConfirmed(ctx context.Context, o *order.Order) error {
	return d.dispatch(ctx, o, TypeOrderConfirmed, "order.confirmed", nil)
}

// OrderProcessing tells the customer the supplier started preparing the order.
func (d *Dispatcher) OrderProcessing(ctx context.Context, o *order.Order) error {
	return d.dispatch(ctx, o, TypeOrderProcessing, "order.processing", nil)
}

// OrderShipped tells the customer the order shipped, including tracking data.
func (d *Dispatcher) OrderShipped(ctx context.Context, o *order.Order) error {
	return d.dispatch(ctx, o, TypeOrderShipped, "order.shipped", map[string]string{
		"trackingCode": o.TrackingCode(),
		"carrier":      o.Carrier(),
	})
}

// OrderDelivered tells the customer the order arrived.
func (d *Dispatcher) OrderDelivered(ctx context.Context, o *order.Order) error {
	return d.dispatch(ctx, o, TypeOrderDelivered, "order.delivered", nil)
}

// OrderCancelled confirms the cancellation to the customer.
func (d *Dispatcher) OrderCancelled(ctx context.Context, o *order.Order) error {
	return d.dispatch(ctx, o, TypeOrderCancelled, "order.cancelled", nil)
}

// OrderFailed tells the customer fulfillment failed and support was alerted.
func (d *Dispatcher) OrderFailed(ctx context.Context, o *order.Order) error {
	return d.dispatch(ctx, o, TypeOrderFailed, "order.failed", nil)
}

// OrderDelayed apologizes for an order stuck longer than the delay threshold.
func (d *Dispatcher) OrderDelayed(ctx context.Context, o *order.Order) error {
	return d.dispatch(ctx, o, TypeOrderDelayed, "order.delayed", nil)
}

// OperationsAlert enqueues an alert raised by the health inspection. Alerts
// skip language resolution and templating; the detail map is carried verbatim
// for the on-call reader.
func (d *Dispatcher) OperationsAlert(ctx context.Context, reason string, details map[string]string) error {
	message := Message{
		Type:      TypeOperationsAlert,
		Recipient: RecipientOperations,
		Message:   reason,
		Variables: details,
	}

	_, err := d.enqueuer.Enqueue(ctx, QueueEmail, JobTypeSendNotification, message,
		queue.WithMaxAttempts(channelMaxAttempts),
		queue.WithBackoff(queue.FixedBackoff(channelRetryDelay)),
	)
	if err != nil {
		return err
	}

	d.logger.WarnContext(ctx, "operations alert enqueued", "reason", reason)
	return nil
}

func (d *Dispatcher) dispatch(
	ctx context.Context,
	o *order.Order,
	eventType, templateID string,
	extra map[string]string,
) error {
	contact := o.Contact()
	language := services.CustomerLanguage(contact.Language, contact.Country, contact.Phone, d.phones)

	variables := map[string]string{
		"externalOrderId": o.ExternalOrderID(),
	}
	for key, value := range extra {
		variables[key] = value
	}

	message := Message{
		Type:       eventType,
		Recipient:  recipient(o),
		Message:    Render(d.template(templateID, language, variables), variables),
		TemplateID: templateID,
		Variables:  variables,
		OrderID:    o.ID().String(),
	}

	queueName := channelFor(contact)
	_, err := d.enqueuer.Enqueue(ctx, queueName, JobTypeSendNotification, message,
		queue.WithMaxAttempts(channelMaxAttempts),
		queue.WithBackoff(queue.FixedBackoff(channelRetryDelay)),
	)
	if err != nil {
		return err
	}

	d.logger.DebugContext(ctx, "notification enqueued",
		"order_id", o.ID().String(),
		"type", eventType,
		"channel", queueName,
		"language", language.String())
	return nil
}

// template resolves the message text: an external translator first when one
// is wired, the built-in catalog otherwise. Translator failures fall back to
// the catalog.
func (d *Dispatcher) template(templateID string, language kernel.Language, variables map[string]string) string {
	if d.translator != nil {
		text, err := d.translator.Translate(templateID, language, variables)
		if err == nil && text != "" {
			return text
		}
	}
	return lookupTemplate(templateID, language)
}

// channelFor picks the channel queue: customers with a phone get WhatsApp,
// except Chinese numbers, where WhatsApp is unavailable and SMS delivers.
// Customers without a phone fall back to email.
func channelFor(contact order.Contact) string {
	switch {
	case contact.Phone == "":
		return QueueEmail
	case contact.Country == "CN" || strings.HasPrefix(contact.Phone, "+86"):
		return QueueSMS
	default:
		return QueueWhatsApp
	}
}

// recipient is the phone number when the customer has one; otherwise the
// customer id, which the email channel resolves to an address.
func recipient(o *order.Order) string {
	if phone := o.Contact().Phone; phone != "" {
		return phone
	}
	return o.CustomerID().String()
}
