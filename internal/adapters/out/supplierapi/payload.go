package supplierapi

import (
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/ports"
)

// orderPayload is the wire format of an order submission. Locale-specific
// fields are added by shapeForLocale before marshalling.
type orderPayload struct {
	OrderID         string        `json:"orderId"`
	ExternalOrderID string        `json:"externalOrderId"`
	Locale          string        `json:"locale"`
	Items           []itemPayload `json:"items"`
	TotalCents      int64         `json:"totalCents"`
	Currency        string        `json:"currency"`
	Instructions    string        `json:"instructions,omitempty"`
	Customs         *customsBlock `json:"customs,omitempty"`
}

type itemPayload struct {
	SKU            string `json:"sku"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Currency       string `json:"currency"`
}

// customsBlock carries the export declaration Chinese suppliers require on
// cross-border orders.
type customsBlock struct {
	DeclaredValueCents int64  `json:"declaredValueCents"`
	Currency           string `json:"currency"`
	Incoterm           string `json:"incoterm"`
	ExportReason       string `json:"exportReason"`
}

// cancelPayload is the wire format of a cancellation request.
type cancelPayload struct {
	OrderID         string `json:"orderId"`
	ExternalOrderID string `json:"externalOrderId"`
}

// apiResponse is the supplier system's answer envelope, shared by all
// endpoints: {success, trackingCode?, confirmationId?, estimatedDelivery?}.
type apiResponse struct {
	Success           bool       `json:"success"`
	ConfirmationID    string     `json:"confirmationId,omitempty"`
	TrackingCode      string     `json:"trackingCode,omitempty"`
	Carrier           string     `json:"carrier,omitempty"`
	Status            string     `json:"status,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	Error             string     `json:"error,omitempty"`
}

// defaultInstructions is the untranslated fallback when no translation is
// available for the payload language.
const defaultInstructions = "Please confirm receipt and report tracking as soon as it is available."

func buildOrderPayload(o *order.Order, s *supplier.Supplier, language kernel.Language) orderPayload {
	items := make([]itemPayload, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, itemPayload{
			SKU:            item.SKU(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().AmountCents(),
			Currency:       item.UnitPrice().Currency(),
		})
	}

	return orderPayload{
		OrderID:         o.ID().String(),
		ExternalOrderID: o.ExternalOrderID(),
		Locale:          language.Tag(),
		Items:           items,
		TotalCents:      o.Total().AmountCents(),
		Currency:        o.Total().Currency(),
	}
}

// shapeForLocale adds the locale-specific payload parts. zh-CN suppliers get
// the customs declaration block.
func shapeForLocale(payload orderPayload, o *order.Order, language kernel.Language) orderPayload {
	if language == kernel.LanguageZHCN {
		payload.Customs = &customsBlock{
			DeclaredValueCents: o.Total().AmountCents(),
			Currency:           o.Total().Currency(),
			Incoterm:           "DAP",
			ExportReason:       "sale",
		}
	}
	return payload
}

// normalizeTrackingStatus maps a supplier's status vocabulary onto the
// pipeline's normalized tracking statuses.
func normalizeTrackingStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "processing", "accepted", "in_production", "preparing":
		return ports.TrackingStatusProcessing
	case "shipped", "in_transit", "dispatched":
		return ports.TrackingStatusShipped
	case "delivered", "completed":
		return ports.TrackingStatusDelivered
	}
	return ports.TrackingStatusUnknown
}
