// Package notification localizes customer-facing messages about order
// lifecycle events and dispatches them through the channel queues. Sending is
// always best-effort from the pipeline's point of view: a broken channel must
// never block or fail order processing.
package notification

// Channel queue names. Each channel has its own worker pool so a slow
// provider only backs up its own traffic.
const (
	QueueWhatsApp = "whatsapp"
	QueueEmail    = "email"
	QueueSMS      = "sms"
)

// JobTypeSendNotification is the job type carried on every channel queue.
const JobTypeSendNotification = "SEND_NOTIFICATION"

// Notification event types.
const (
	TypeOrderConfirmed  = "ORDER_CONFIRMED"
	TypeOrderProcessing = "ORDER_PROCESSING"
	TypeOrderShipped    = "ORDER_SHIPPED"
	TypeOrderDelivered  = "ORDER_DELIVERED"
	TypeOrderCancelled  = "ORDER_CANCELLED"
	TypeOrderFailed     = "ORDER_FAILED"
	TypeOrderDelayed    = "ORDER_DELAYED"

	// TypeOperationsAlert is raised by the health inspection, not by an
	// order event. It rides the email queue addressed to operations.
	TypeOperationsAlert = "OPERATIONS_ALERT"
)

// RecipientOperations is the recipient of operational alerts; the email
// channel resolves it to the on-call inbox.
const RecipientOperations = "operations"

// Message is the payload of a SEND_NOTIFICATION job: a rendered text plus the
// template it came from, so channel senders that prefer provider-side
// templating can use the template id and variables instead.
type Message struct {
	Type       string            `json:"type"`
	Recipient  string            `json:"recipient"`
	Message    string            `json:"message"`
	TemplateID string            `json:"templateId,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	OrderID    string            `json:"orderId,omitempty"`
}
