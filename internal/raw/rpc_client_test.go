package raw

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

	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

func TestSendBundleSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "2.0", req.JSONRPC)
		require.Equal(t, methodSendBundle, req.Method)
		require.Len(t, req.Params, 1)

		txs, ok := req.Params[0].([]interface{})
		require.True(t, ok)
		require.Equal(t, []interface{}{"feetx", "tx1"}, txs)

		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"bundle123"}`))
	}))
	defer server.Close()

	client := NewRPCClient(time.Second)
	id, err := client.SendBundle(context.Background(), server.URL, []string{"feetx", "tx1"})
	require.NoError(t, err)
	assert.Equal(t, "bundle123", id)
}

func TestSendBundleNoResultIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1}`))
	}))
	defer server.Close()

	client := NewRPCClient(time.Second)
	_, err := client.SendBundle(context.Background(), server.URL, []string{"feetx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result")
}

func TestSendBundleRateLimited(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter string
		expected   time.Duration
	}{
		{name: "IntegerSeconds", retryAfter: "2", expected: 2 * time.Second},
		{name: "FractionalSeconds", retryAfter: "0.5", expected: 500 * time.Millisecond},
		{name: "AbsentHint", retryAfter: "", expected: 0},
		{name: "GarbageHint", retryAfter: "soon", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set(retryAfterHeader, tt.retryAfter)
				}
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer server.Close()

			client := NewRPCClient(time.Second)
			_, err := client.SendBundle(context.Background(), server.URL, []string{"feetx"})

			var rateLimited *relay.RateLimitedError
			require.True(t, errors.As(err, &rateLimited))
			assert.Equal(t, tt.expected, rateLimited.RetryAfter)
			assert.Equal(t, server.URL, rateLimited.Endpoint)
		})
	}
}

func TestSendBundleServerBusy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewRPCClient(time.Second)
	_, err := client.SendBundle(context.Background(), server.URL, []string{"feetx"})

	var busy *relay.ServerBusyError
	require.True(t, errors.As(err, &busy))
	assert.Equal(t, http.StatusServiceUnavailable, busy.StatusCode)
}

func TestGetBundleStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, methodGetBundleStatuses, req.Method)

		_, _ = w.Write([]byte(`{
			"jsonrpc": "2.0",
			"id": 1,
			"result": {
				"context": {"slot": 280999028},
				"value": [{
					"bundle_id": "bundle123",
					"transactions": ["sig1", "sig2"],
					"slot": 280999028,
					"confirmation_status": "finalized",
					"err": null
				}]
			}
		}`))
	}))
	defer server.Close()

	client := NewRPCClient(time.Second)
	statuses, err := client.GetBundleStatuses(context.Background(), server.URL, []string{"bundle123"})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "bundle123", statuses[0].BundleID)
	assert.Equal(t, relay.StatusFinalized, statuses[0].ConfirmationStatus)
	assert.Nil(t, statuses[0].Err)
}

func TestGetBundleStatusesRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`))
	}))
	defer server.Close()

	client := NewRPCClient(time.Second)
	_, err := client.GetBundleStatuses(context.Background(), server.URL, []string{"bundle123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid params")
}
