// Package supplierapi is the outbound HTTP adapter to external supplier
// systems. It owns everything the application layer should not see: retry
// attempts with linear backoff, locale adaptation of the outgoing payload,
// idempotency keys, and the append-only communication log.
package supplierapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/comms"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	// defaultTimeout bounds a single supplier request.
	defaultTimeout = 30 * time.Second

	// defaultRetryDelay is the base of the linear retry delay: the n-th
	// failure waits n * retryDelay before the next attempt.
	defaultRetryDelay = 2 * time.Second

	// maxAttempts is the per-call retry budget against one supplier endpoint.
	maxAttempts = 3

	// idempotencyTTL keeps send outcomes long enough to absorb every retry
	// path that could replay the job.
	idempotencyTTL = 24 * time.Hour
)

// Action names recorded in the communication log. Must stay in sync with the
// SEND_ORDER_TO_SUPPLIER job payload vocabulary.
const (
	actionSendOrder       = "send_order"
	actionRequestTracking = "request_tracking"
	actionCancelOrder     = "cancel_order"
)

// bodyLimit caps how much of a supplier response is read and logged.
const bodyLimit = 64 * 1024

// HTTPSupplierGateway implements ports.SupplierGateway over the suppliers'
// REST endpoints.
type HTTPSupplierGateway struct {
	client      *http.Client
	commLog     ports.CommunicationLogRepository
	idempotency ports.IdempotencyStore
	translator  ports.Translator
	phones      services.PhoneLocales
	logger      *slog.Logger
	retryDelay  time.Duration
}

// GatewayOption customizes a gateway at construction time.
type GatewayOption func(*HTTPSupplierGateway)

// WithHTTPClient overrides the default 30s-timeout client.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *HTTPSupplierGateway) {
		g.client = client
	}
}

// WithRetryDelay overrides the base retry delay.
func WithRetryDelay(delay time.Duration) GatewayOption {
	return func(g *HTTPSupplierGateway) {
		g.retryDelay = delay
	}
}

// WithPhoneLocales overrides the phone-prefix language resolver.
func WithPhoneLocales(phones services.PhoneLocales) GatewayOption {
	return func(g *HTTPSupplierGateway) {
		g.phones = phones
	}
}

// NewHTTPSupplierGateway creates a gateway. commLog receives one record per
// attempt; idempotency and translator may be nil, disabling duplicate-send
// suppression and payload translation respectively.
func NewHTTPSupplierGateway(
	commLog ports.CommunicationLogRepository,
	idempotency ports.IdempotencyStore,
	translator ports.Translator,
	logger *slog.Logger,
	opts ...GatewayOption,
) *HTTPSupplierGateway {
	g := &HTTPSupplierGateway{
		client:      &http.Client{Timeout: defaultTimeout},
		commLog:     commLog,
		idempotency: idempotency,
		translator:  translator,
		phones:      services.NewPrefixPhoneLocales(),
		logger:      logger.With("component", "supplier_gateway"),
		retryDelay:  defaultRetryDelay,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// SendOrder submits the order to the supplier's system. A repeated call for
// the same order returns the outcome recorded on first success instead of
// creating a duplicate supplier-side order.
func (g *HTTPSupplierGateway) SendOrder(
	ctx context.Context,
	o *order.Order,
	s *supplier.Supplier,
) (*ports.SendResult, error) {
	key := sendKey(o)
	if g.idempotency != nil {
		outcome, processed, err := g.idempotency.ProcessedOutcome(ctx, key)
		if err != nil {
			g.logger.Warn("idempotency lookup failed",
				"order_id", o.ID().String(), "error", err)
		} else if processed {
			g.logger.Info("duplicate send suppressed",
				"order_id", o.ID().String(), "confirmation_id", outcome)
			return &ports.SendResult{ConfirmationID: outcome}, nil
		}
	}

	language := services.SupplierLanguage(s, g.phones)
	payload := shapeForLocale(buildOrderPayload(o, s, language), o, language)
	payload.Instructions = g.localizedInstructions(o, language)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := g.call(ctx, o, s, actionSendOrder,
		http.MethodPost, s.Endpoint()+"/orders", key, body)
	if err != nil {
		return nil, err
	}

	if g.idempotency != nil {
		if _, err := g.idempotency.MarkProcessed(ctx, key, resp.ConfirmationID, idempotencyTTL); err != nil {
			g.logger.Warn("idempotency store failed",
				"order_id", o.ID().String(), "error", err)
		}
	}

	return &ports.SendResult{
		ConfirmationID:    resp.ConfirmationID,
		EstimatedDelivery: resp.EstimatedDelivery,
	}, nil
}

// RequestTracking asks the supplier for the shipment state of an order
// previously submitted with SendOrder.
func (g *HTTPSupplierGateway) RequestTracking(
	ctx context.Context,
	o *order.Order,
	s *supplier.Supplier,
) (*ports.TrackingResult, error) {
	url := fmt.Sprintf("%s/orders/%s/tracking", s.Endpoint(), o.ExternalOrderID())
	resp, err := g.call(ctx, o, s, actionRequestTracking, http.MethodGet, url, "", nil)
	if err != nil {
		return nil, err
	}

	return &ports.TrackingResult{
		TrackingCode: resp.TrackingCode,
		Carrier:      resp.Carrier,
		Status:       normalizeTrackingStatus(resp.Status),
	}, nil
}

// CancelOrder tells the supplier to stop fulfilling an order. Best-effort: an
// already shipped order cannot be recalled, and the supplier answers success
// anyway.
func (g *HTTPSupplierGateway) CancelOrder(
	ctx context.Context,
	o *order.Order,
	s *supplier.Supplier,
) error {
	body, err := json.Marshal(cancelPayload{
		OrderID:         o.ID().String(),
		ExternalOrderID: o.ExternalOrderID(),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/orders/%s/cancel", s.Endpoint(), o.ExternalOrderID())
	_, err = g.call(ctx, o, s, actionCancelOrder, http.MethodPost, url, cancelKey(o), body)
	return err
}

// call runs the attempt loop for one supplier operation. Every attempt,
// successful or not, lands in the communication log. Only transient failures
// are retried; a supplier rejection is final on the first answer. The retry
// budget spent, the last error is wrapped in a SupplierCommunicationError.
func (g *HTTPSupplierGateway) call(
	ctx context.Context,
	o *order.Order,
	s *supplier.Supplier,
	action, method, url, idempotencyKey string,
	body []byte,
) (*apiResponse, error) {
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.retryDelay * time.Duration(attempt-1)):
			}
		}

		started := time.Now()
		resp, responseBody, err := g.doRequest(ctx, method, url, s.APIKey(), idempotencyKey, body)
		elapsed := time.Since(started)

		g.logAttempt(ctx, o.ID(), s.ID(), action, attempt, err, body, responseBody, elapsed)

		if err == nil {
			return resp, nil
		}
		lastErr = err
		attempts = attempt

		g.logger.Warn("supplier call failed",
			"order_id", o.ID().String(),
			"supplier_id", s.ID().String(),
			"action", action,
			"attempt", attempt,
			"error", err)

		if !errors.Is(err, errs.ErrTransientNetwork) {
			break
		}
	}

	return nil, errs.NewSupplierCommunicationError(s.ID().String(), action, attempts, lastErr)
}

func (g *HTTPSupplierGateway) doRequest(
	ctx context.Context,
	method, url, apiKey, idempotencyKey string,
	body []byte,
) (*apiResponse, string, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", errs.NewTransientNetworkError(method+" "+url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return nil, "", errs.NewTransientNetworkError(method+" "+url, err)
	}
	responseBody := string(raw)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, responseBody, errs.NewTransientNetworkError(method+" "+url,
			fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, responseBody, fmt.Errorf("supplier rejected request: status %d: %s",
			resp.StatusCode, strings.TrimSpace(responseBody))
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, responseBody, fmt.Errorf("unparseable supplier response: %w", err)
	}
	if !parsed.Success {
		return nil, responseBody, fmt.Errorf("supplier reported failure: %s", parsed.Error)
	}

	return &parsed, responseBody, nil
}

// logAttempt appends one communication record. Logging must never break the
// business call, so failures only warn.
func (g *HTTPSupplierGateway) logAttempt(
	ctx context.Context,
	orderID, supplierID kernel.UUID,
	action string,
	attempt int,
	callErr error,
	request []byte,
	response string,
	elapsed time.Duration,
) {
	record, err := comms.NewRecord(orderID, supplierID, action, attempt, callErr == nil)
	if err != nil {
		g.logger.Warn("communication record rejected", "error", err)
		return
	}

	record.WithPayloads(string(request), response).WithLatency(elapsed)
	if callErr != nil {
		record.WithError(callErr.Error())
	}

	if err := g.commLog.Append(ctx, record); err != nil {
		g.logger.Warn("communication log append failed",
			"order_id", orderID.String(), "error", err)
	}
}

// localizedInstructions translates the handling note best-effort; any
// translation problem falls back to the untranslated text.
func (g *HTTPSupplierGateway) localizedInstructions(o *order.Order, language kernel.Language) string {
	if g.translator == nil || language == kernel.LanguageEN {
		return defaultInstructions
	}

	translated, err := g.translator.Translate("order.instructions", language, map[string]string{
		"external_order_id": o.ExternalOrderID(),
	})
	if err != nil || translated == "" {
		return defaultInstructions
	}
	return translated
}

func sendKey(o *order.Order) string {
	return "supplier-send:" + o.ID().String()
}

func cancelKey(o *order.Order) string {
	return "supplier-cancel:" + o.ID().String()
}
