package payments_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"shop/pkg/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test"

func signed(t *testing.T, payload string) (body []byte, header string) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	})
	return sp.Payload, sp.Header
}

func TestStripeGateway_ParseEvent(t *testing.T) {
	gw := payments.NewStripeGateway(payments.Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret})

	body, header := signed(t, `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"metadata": {"order_id": "o-1", "user_id": "u-1"}
		}}
	}`)

	ev, err := gw.ParseEvent(body, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, payments.EventCheckoutSessionCompleted, ev.Type)
	assert.Equal(t, "cs_test_1", ev.SessionID)
	assert.Equal(t, map[string]string{"order_id": "o-1", "user_id": "u-1"}, ev.Metadata)
}

func TestStripeGateway_ParseEvent_OtherTypes(t *testing.T) {
	gw := payments.NewStripeGateway(payments.Config{WebhookSecret: testWebhookSecret})

	body, header := signed(t, `{
		"id": "evt_2",
		"object": "event",
		"type": "payment_intent.created",
		"data": {"object": {"id": "pi_1", "object": "payment_intent"}}
	}`)

	ev, err := gw.ParseEvent(body, header)
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", ev.Type)
	assert.Empty(t, ev.SessionID)
}

func TestStripeGateway_ParseEvent_Rejects(t *testing.T) {
	gw := payments.NewStripeGateway(payments.Config{WebhookSecret: testWebhookSecret})
	body, header := signed(t, `{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)

	tests := []struct {
		name    string
		payload []byte
		header  string
	}{
		{"tampered payload", append(append([]byte{}, body...), ' '), header},
		{"missing header", body, ""},
		{"garbage header", body, "t=1,v1=deadbeef"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gw.ParseEvent(tc.payload, tc.header)
			assert.ErrorIs(t, err, payments.ErrInvalidSignature)
		})
	}

	other := payments.NewStripeGateway(payments.Config{WebhookSecret: "whsec_other"})
	_, err := other.ParseEvent(body, header)
	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
}

func TestStripeGateway_ParseEvent_RequiresSecret(t *testing.T) {
	gw := payments.NewStripeGateway(payments.Config{})

	// Signed with the empty key the gateway was configured with.
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(`{"id":"evt_4","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_victim","metadata":{"order_id":"o1"}}}}`),
		Secret:  "",
	})

	ev, err := gw.ParseEvent(sp.Payload, sp.Header)
	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	assert.Nil(t, ev)
}

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	var form url.Values
	var path, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_42","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_42"}`))
	}))
	defer srv.Close()

	gw := payments.NewStripeGateway(payments.Config{
		SecretKey:  "sk_test_123",
		Currency:   "USD",
		Timeout:    time.Second,
		APIBaseURL: srv.URL,
	})

	sess, err := gw.CreateCheckoutSession(context.Background(), payments.SessionRequest{
		LineItems: []payments.LineItem{
			{Name: "Widget", UnitAmountMinor: 1000, Quantity: 2},
			{Name: "Gadget", UnitAmountMinor: 2000, Quantity: 2},
		},
		SuccessURL: "http://shop.test/receipt?order_id=o-1",
		CancelURL:  "http://shop.test/cancel",
		Metadata:   map[string]string{"order_id": "o-1", "user_id": "u-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_42", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_42", sess.URL)

	assert.Equal(t, "/v1/checkout/sessions", path)
	assert.Equal(t, "Bearer sk_test_123", auth)
	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "card", form.Get("payment_method_types[0]"))
	assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "Widget", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "1000", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "2000", form.Get("line_items[1][price_data][unit_amount]"))
	assert.Equal(t, "http://shop.test/receipt?order_id=o-1", form.Get("success_url"))
	assert.Equal(t, "http://shop.test/cancel", form.Get("cancel_url"))
	assert.Equal(t, "o-1", form.Get("metadata[order_id]"))
	assert.Equal(t, "u-1", form.Get("metadata[user_id]"))
}

func TestStripeGateway_CreateCheckoutSession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such price"}}`))
	}))
	defer srv.Close()

	gw := payments.NewStripeGateway(payments.Config{SecretKey: "sk_test", APIBaseURL: srv.URL, Timeout: time.Second})
	_, err := gw.CreateCheckoutSession(context.Background(), payments.SessionRequest{
		LineItems:  []payments.LineItem{{Name: "Widget", UnitAmountMinor: 100, Quantity: 1}},
		SuccessURL: "http://shop.test/receipt",
		CancelURL:  "http://shop.test/cancel",
	})
	assert.ErrorContains(t, err, "failed to create stripe checkout session")
}
