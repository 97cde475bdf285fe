package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"threadstory-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	gw := NewRazorpayGateway("rzp_test_key", "rzp_secret").(*razorpayGateway)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://api.razorpay.com/v1/orders", req.URL.String())

			user, pass, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)
			assert.Equal(t, "rzp_secret", pass)

			var body OrderRequest
			assert.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, int64(149950), body.Amount)
			assert.Equal(t, "INR", body.Currency)
			assert.Equal(t, "receipt_1", body.Receipt)

			return jsonResponse(http.StatusOK, `{
				"id": "order_ABC",
				"entity": "order",
				"amount": 149950,
				"amount_paid": 0,
				"amount_due": 149950,
				"currency": "INR",
				"receipt": "receipt_1",
				"status": "created",
				"attempts": 0,
				"created_at": 1700000000
			}`)
		})

		order, err := gw.CreateOrder(ctx, OrderRequest{Amount: ToMinorUnits(1499.5), Receipt: "receipt_1"})
		require.NoError(t, err)
		assert.Equal(t, "order_ABC", order.ID)
		assert.Equal(t, "created", order.Status)
		assert.Equal(t, int64(149950), order.AmountDue)
	})

	t.Run("APIError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusBadRequest, `{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`)
		})

		_, err := gw.CreateOrder(ctx, OrderRequest{Amount: 50, Currency: "INR"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "The amount must be atleast INR 1.00")
	})

	t.Run("TransportError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		})

		_, err := gw.CreateOrder(ctx, OrderRequest{Amount: 100})
		assert.Error(t, err)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		_, err := gw.CreateOrder(ctx, OrderRequest{Amount: 0})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	gw := NewRazorpayGateway("key", "secret")

	sig := Sign("secret", "order_1", "pay_1")
	assert.Len(t, sig, 64)
	assert.NoError(t, gw.VerifySignature("order_1", "pay_1", sig))
	assert.ErrorIs(t, gw.VerifySignature("order_1", "pay_2", sig), ErrInvalidSignature)
	assert.ErrorIs(t, gw.VerifySignature("order_1", "pay_1", ""), ErrInvalidSignature)
}

func TestDisabledGateway(t *testing.T) {
	gw := NewRazorpayGateway("", "secret")

	assert.False(t, gw.Enabled())
	assert.Empty(t, gw.KeyID())

	_, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, apperror.KindUnavailable, apperror.KindOf(err))
	assert.ErrorIs(t, gw.VerifySignature("o", "p", "s"), ErrNotConfigured)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(100), ToMinorUnits(1))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(1050), ToMinorUnits(10.5))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestNewReceipt(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "receipt_1700000000123", NewReceipt(now))
}
