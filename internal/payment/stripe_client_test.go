package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession_SendsFormEncodedLineItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "ord-1", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "ord-1", r.PostForm.Get("metadata[order_number]"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "1000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Widget", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "2", r.PostForm.Get("line_items[0][quantity]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`))
	}))
	defer srv.Close()

	client := NewStripeClient(config.Stripe{
		BaseAPIURL: srv.URL,
		SecretKey:  "sk_test_123",
		SuccessURL: "https://shop.example/success",
		CancelURL:  "https://shop.example/cancel",
	})

	session, err := client.CreateCheckoutSession(context.Background(), CreateSessionInput{
		OrderNumber: "ord-1",
		Currency:    "usd",
		Items: []SessionLineItem{
			{Name: "Widget", UnitAmount: 1000, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.URL)
}

func TestCreateCheckoutSession_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer srv.Close()

	client := NewStripeClient(config.Stripe{BaseAPIURL: srv.URL, SecretKey: "sk_test_123"})

	_, err := client.CreateCheckoutSession(context.Background(), CreateSessionInput{
		OrderNumber: "ord-1",
		Currency:    "usd",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}
