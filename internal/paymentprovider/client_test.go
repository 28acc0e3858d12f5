package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "receipt_1_deadbeef", req.Receipt)
		assert.Equal(t, "kms-180", req.Notes["planId"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_ABC","entity":"order","amount":5000,"amount_paid":0,"amount_due":5000,
			"currency":"INR","receipt":"receipt_1_deadbeef","status":"created","attempts":0,
			"notes":{"planId":"kms-180"},"created_at":1718000000}`))
	}))
	defer srv.Close()

	c := NewClient("rzp_test_key", "rzp_test_secret", srv.URL+"/v1/", time.Second)
	order, err := c.CreateOrder(context.Background(), CreateOrderRequest{
		Amount:   5000,
		Currency: "INR",
		Receipt:  "receipt_1_deadbeef",
		Notes:    map[string]string{"planId": "kms-180"},
	})
	require.NoError(t, err)

	assert.Equal(t, "order_ABC", order.ID)
	assert.Equal(t, int64(5000), order.Amount)
	assert.Equal(t, "created", order.Status)
	assert.Equal(t, "kms-180", order.Notes["planId"])
}

func TestClient_CreateOrder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	c := NewClient("k", "s", srv.URL, time.Second)
	order, err := c.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	require.Error(t, err)
	assert.Nil(t, order)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
	assert.Contains(t, err.Error(), "paymentprovider.CreateOrder")
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestClient_CreateOrder_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	c := NewClient("k", "s", srv.URL, time.Second)
	_, err := c.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "razorpay: unexpected status 502", apiErr.Error())
}

func TestClient_CreateOrder_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient("k", "s", srv.URL, 50*time.Millisecond)
	_, err := c.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100})
	assert.Error(t, err)
}

func TestClient_CreateOrder_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("k", "s", srv.URL, time.Second)
	_, err := c.CreateOrder(ctx, CreateOrderRequest{Amount: 100})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_FetchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/order_ABC", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"order_ABC","amount":5000,"currency":"INR","status":"paid"}`))
	}))
	defer srv.Close()

	c := NewClient("k", "s", srv.URL, time.Second)
	order, err := c.FetchOrder(context.Background(), "order_ABC")
	require.NoError(t, err)
	assert.Equal(t, "paid", order.Status)
}

func TestClient_FetchOrder_EmptyNotesArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"order_ABC","entity":"order","amount":5000,"currency":"INR",` +
			`"receipt":"rcpt_1","status":"created","attempts":0,"notes":[],"created_at":1718020800}`))
	}))
	defer srv.Close()

	c := NewClient("k", "s", srv.URL, time.Second)
	order, err := c.FetchOrder(context.Background(), "order_ABC")
	require.NoError(t, err)
	assert.Equal(t, "order_ABC", order.ID)
	assert.Empty(t, order.Notes)
	assert.Equal(t, "", order.Notes["planId"])
	assert.Equal(t, int64(1718020800), order.CreatedAt)
}

func TestNotes_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Notes
		wantErr bool
	}{
		{name: "object", input: `{"planId":"kms-180","operatorId":"op-7"}`, want: Notes{"planId": "kms-180", "operatorId": "op-7"}},
		{name: "empty array", input: `[]`, want: Notes{}},
		{name: "null", input: `null`, want: nil},
		{name: "non string values", input: `{"seats":5,"trial":true}`, want: Notes{"seats": "5", "trial": "true"}},
		{name: "non empty array", input: `["x"]`, wantErr: true},
		{name: "scalar", input: `"x"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Notes
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("k", "s", "", 0)
	assert.Equal(t, DefaultAPIURL, c.apiURL)
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
}
