package supplierapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/idempotency"
	"fulfillment/internal/core/domain/model/comms"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCommLog struct {
	mu      sync.Mutex
	records []*comms.Record
}

func (l *memCommLog) Append(_ context.Context, record *comms.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

func (l *memCommLog) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*comms.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*comms.Record
	for _, record := range l.records {
		if record.OrderID().IsEqual(orderID) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (l *memCommLog) CountOutcomes(_ context.Context, since time.Time) (succeeded, failed int64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, record := range l.records {
		if record.CreatedAt().Before(since) {
			continue
		}
		if record.Success() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	price, err := kernel.NewMoney(4990, "BRL")
	require.NoError(t, err)
	item, err := order.NewItem("SKU-001", 2, price)
	require.NoError(t, err)
	total, err := kernel.NewMoney(9980, "BRL")
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"SHOP-1042",
		kernel.NewUUID(),
		[]order.Item{item},
		total,
		order.Contact{Phone: "+5511999990000", Country: "BR"},
	)
	require.NoError(t, err)
	return o
}

func testSupplier(t *testing.T, country, endpoint string) *supplier.Supplier {
	t.Helper()
	s, err := supplier.NewSupplier(
		kernel.NewUUID(),
		"Acme Fulfillment",
		4.5,
		"BR",
		true,
		24,
		endpoint,
		"key-123",
	)
	require.NoError(t, err)
	s.SetLocale(kernel.LanguageUnknown, country, "")
	return s
}

func newTestGateway(commLog ports.CommunicationLogRepository, idem ports.IdempotencyStore) *HTTPSupplierGateway {
	return NewHTTPSupplierGateway(commLog, idem, nil, testLogger(),
		WithRetryDelay(time.Millisecond))
}

func TestHTTPSupplierGateway_SendOrderSuccess(t *testing.T) {
	var captured struct {
		method         string
		path           string
		authorization  string
		idempotencyKey string
		payload        orderPayload
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.authorization = r.Header.Get("Authorization")
		captured.idempotencyKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.payload))

		_ = json.NewEncoder(w).Encode(apiResponse{Success: true, ConfirmationID: "CONF-1"})
	}))
	defer server.Close()

	commLog := &memCommLog{}
	gateway := newTestGateway(commLog, nil)
	o := testOrder(t)
	s := testSupplier(t, "BR", server.URL)

	result, err := gateway.SendOrder(context.Background(), o, s)

	require.NoError(t, err)
	assert.Equal(t, "CONF-1", result.ConfirmationID)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/orders", captured.path)
	assert.Equal(t, "Bearer key-123", captured.authorization)
	assert.Equal(t, "supplier-send:"+o.ID().String(), captured.idempotencyKey)
	assert.Equal(t, "SHOP-1042", captured.payload.ExternalOrderID)
	assert.Equal(t, "pt-BR", captured.payload.Locale)
	assert.Nil(t, captured.payload.Customs)
	require.Len(t, captured.payload.Items, 1)
	assert.Equal(t, "SKU-001", captured.payload.Items[0].SKU)

	records, err := commLog.ListByOrder(context.Background(), o.ID())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "send_order", records[0].Action())
	assert.Equal(t, 1, records[0].Attempt())
	assert.True(t, records[0].Success())
}

func TestHTTPSupplierGateway_SendOrderAddsCustomsForChineseSupplier(t *testing.T) {
	var payload orderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_ = json.NewEncoder(w).Encode(apiResponse{Success: true, ConfirmationID: "CONF-2"})
	}))
	defer server.Close()

	gateway := newTestGateway(&memCommLog{}, nil)
	o := testOrder(t)
	s := testSupplier(t, "CN", server.URL)

	_, err := gateway.SendOrder(context.Background(), o, s)

	require.NoError(t, err)
	assert.Equal(t, "zh-CN", payload.Locale)
	require.NotNil(t, payload.Customs)
	assert.Equal(t, int64(9980), payload.Customs.DeclaredValueCents)
	assert.Equal(t, "DAP", payload.Customs.Incoterm)
}

func TestHTTPSupplierGateway_SendOrderRetriesThenFails(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	commLog := &memCommLog{}
	gateway := newTestGateway(commLog, nil)
	o := testOrder(t)
	s := testSupplier(t, "BR", server.URL)

	_, err := gateway.SendOrder(context.Background(), o, s)

	var commErr *errs.SupplierCommunicationError
	require.ErrorAs(t, err, &commErr)
	assert.Equal(t, 3, commErr.Attempts)
	assert.Equal(t, "send_order", commErr.Action)
	assert.Equal(t, 3, calls)

	records, err := commLog.ListByOrder(context.Background(), o.ID())
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, i+1, record.Attempt())
		assert.False(t, record.Success())
		assert.NotEmpty(t, record.ErrMessage())
	}
}

func TestHTTPSupplierGateway_SendOrderRecoversAfterTransientFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(apiResponse{Success: true, ConfirmationID: "CONF-3"})
	}))
	defer server.Close()

	commLog := &memCommLog{}
	gateway := newTestGateway(commLog, nil)
	o := testOrder(t)

	result, err := gateway.SendOrder(context.Background(), o, testSupplier(t, "BR", server.URL))

	require.NoError(t, err)
	assert.Equal(t, "CONF-3", result.ConfirmationID)

	records, _ := commLog.ListByOrder(context.Background(), o.ID())
	require.Len(t, records, 3)
	assert.False(t, records[0].Success())
	assert.False(t, records[1].Success())
	assert.True(t, records[2].Success())
}

func TestHTTPSupplierGateway_DuplicateSendIsSuppressed(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(apiResponse{Success: true, ConfirmationID: "CONF-1"})
	}))
	defer server.Close()

	gateway := newTestGateway(&memCommLog{}, idempotency.NewMemoryStore())
	o := testOrder(t)
	s := testSupplier(t, "BR", server.URL)

	first, err := gateway.SendOrder(context.Background(), o, s)
	require.NoError(t, err)

	second, err := gateway.SendOrder(context.Background(), o, s)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.ConfirmationID, second.ConfirmationID)
}

func TestHTTPSupplierGateway_RequestTrackingNormalizesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/SHOP-1042/tracking", r.URL.Path)
		_ = json.NewEncoder(w).Encode(apiResponse{
			Success:      true,
			TrackingCode: "TRK-900",
			Carrier:      "correios",
			Status:       "in_transit",
		})
	}))
	defer server.Close()

	gateway := newTestGateway(&memCommLog{}, nil)

	result, err := gateway.RequestTracking(context.Background(),
		testOrder(t), testSupplier(t, "BR", server.URL))

	require.NoError(t, err)
	assert.Equal(t, "TRK-900", result.TrackingCode)
	assert.Equal(t, "correios", result.Carrier)
	assert.Equal(t, ports.TrackingStatusShipped, result.Status)
}

func TestHTTPSupplierGateway_RequestTrackingUnknownVocabulary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Status: "somewhere"})
	}))
	defer server.Close()

	gateway := newTestGateway(&memCommLog{}, nil)

	result, err := gateway.RequestTracking(context.Background(),
		testOrder(t), testSupplier(t, "BR", server.URL))

	require.NoError(t, err)
	assert.Equal(t, ports.TrackingStatusUnknown, result.Status)
}

func TestHTTPSupplierGateway_CancelOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/SHOP-1042/cancel", r.URL.Path)
		_ = json.NewEncoder(w).Encode(apiResponse{Success: true})
	}))
	defer server.Close()

	commLog := &memCommLog{}
	gateway := newTestGateway(commLog, nil)
	o := testOrder(t)

	err := gateway.CancelOrder(context.Background(), o, testSupplier(t, "BR", server.URL))

	require.NoError(t, err)
	records, _ := commLog.ListByOrder(context.Background(), o.ID())
	require.Len(t, records, 1)
	assert.Equal(t, "cancel_order", records[0].Action())
}

func TestHTTPSupplierGateway_SupplierReportedFailureIsFinal(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(apiResponse{Success: false, Error: "out of stock"})
	}))
	defer server.Close()

	gateway := newTestGateway(&memCommLog{}, nil)

	_, err := gateway.SendOrder(context.Background(),
		testOrder(t), testSupplier(t, "BR", server.URL))

	var commErr *errs.SupplierCommunicationError
	require.ErrorAs(t, err, &commErr)
	assert.Contains(t, commErr.Cause.Error(), "out of stock")
	assert.Equal(t, 1, commErr.Attempts)
	assert.Equal(t, 1, calls)
}

func TestHTTPSupplierGateway_RejectionIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"unknown destination country"}`))
	}))
	defer server.Close()

	commLog := &memCommLog{}
	gateway := newTestGateway(commLog, nil)
	o := testOrder(t)

	_, err := gateway.SendOrder(context.Background(), o, testSupplier(t, "BR", server.URL))

	var commErr *errs.SupplierCommunicationError
	require.ErrorAs(t, err, &commErr)
	assert.Equal(t, 1, commErr.Attempts)
	assert.Equal(t, 1, calls)
	assert.NotErrorIs(t, commErr.Cause, errs.ErrTransientNetwork)

	records, _ := commLog.ListByOrder(context.Background(), o.ID())
	require.Len(t, records, 1)
	assert.False(t, records[0].Success())
}

func TestNormalizeTrackingStatus(t *testing.T) {
	cases := map[string]string{
		"processing": ports.TrackingStatusProcessing,
		"accepted":   ports.TrackingStatusProcessing,
		"Shipped":    ports.TrackingStatusShipped,
		"dispatched": ports.TrackingStatusShipped,
		"DELIVERED":  ports.TrackingStatusDelivered,
		"completed":  ports.TrackingStatusDelivered,
		"":           ports.TrackingStatusUnknown,
		"weird":      ports.TrackingStatusUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, normalizeTrackingStatus(raw), "raw %q", raw)
	}
}
