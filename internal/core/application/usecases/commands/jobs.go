package commands

// Queue names of the fulfillment pipeline. Each queue has its own worker pool
// so a backlog in one stage never starves another.
const (
	QueueOrderProcessing  = "order-processing"
	QueueSupplierDispatch = "supplier-dispatch"
	QueueTrackingSync     = "tracking-sync"
)

// Job types routed by the worker pools.
const (
	JobTypeProcessOrder        = "PROCESS_ORDER"
	JobTypeSendOrderToSupplier = "SEND_ORDER_TO_SUPPLIER"
	JobTypeSyncTracking        = "SYNC_TRACKING"
)

// Actions carried by SEND_ORDER_TO_SUPPLIER jobs. One job type covers every
// supplier-facing operation; the action selects the command to run.
const (
	ActionSendOrder       = "send_order"
	ActionRequestTracking = "request_tracking"
	ActionCancelOrder     = "cancel_order"
)

// ProcessOrderPayload is the body of a PROCESS_ORDER job: a newly created
// order waiting for supplier routing.
type ProcessOrderPayload struct {
	OrderID         string            `json:"orderId"`
	ExternalOrderID string            `json:"externalOrderId"`
	CustomerID      string            `json:"customerId"`
	Priority        int               `json:"priority"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// SendOrderPayload is the body of a SEND_ORDER_TO_SUPPLIER job. Action selects
// the supplier operation; Data carries action-specific extras such as a
// cancellation reason.
type SendOrderPayload struct {
	OrderID    string            `json:"orderId"`
	SupplierID string            `json:"supplierId"`
	Action     string            `json:"action"`
	Data       map[string]string `json:"data,omitempty"`
}

// SyncTrackingPayload is the body of a SYNC_TRACKING job for one shipped or
// in-flight order. TrackingCode and Carrier are empty until the order ships.
type SyncTrackingPayload struct {
	OrderID      string `json:"orderId"`
	TrackingCode string `json:"trackingCode"`
	Carrier      string `json:"carrier"`
}
