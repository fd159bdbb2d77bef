package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClient_Login_Success(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "t1",
			"user":  map[string]interface{}{"id": 1, "email": "a@b.com"},
		})
	}))

	resp, err := client.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)
	assert.Equal(t, uint(1), resp.User.ID)
	assert.Equal(t, "a@b.com", resp.User.Email)
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
	}))

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestClient_Products_Envelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":1,"name":"Organic Strawberries"},{"id":2,"name":"Fresh Broccoli"}]}`))
	}))

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Organic Strawberries", products[0].Name)
}

func TestClient_CreateOrder_SendsAuthAndIdempotencyKey(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		assert.Equal(t, "key-123", r.Header.Get("Idempotency-Key"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Order placed",
			"order":   map[string]interface{}{"id": 7, "status": "received"},
		})
	}))

	resp, err := client.CreateOrder(context.Background(), "t1", CreateOrderRequest{
		UserID: 1, Status: "received",
	}, "key-123")
	require.NoError(t, err)
	assert.Equal(t, uint(7), resp.Order.ID)
}

func TestClient_CreateOrder_ServerRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "Product 5 is out of season"})
	}))

	_, err := client.CreateOrder(context.Background(), "t1", CreateOrderRequest{}, "key-1")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Product 5 is out of season", apiErr.Message)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close() // connection refused from here on

	client, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = client.Products(context.Background())
	assert.ErrorIs(t, err, ErrNetworkError)
}

func TestClient_Me_Unauthorized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Authentication required"})
	}))

	_, err := client.Me(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
