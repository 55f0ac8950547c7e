package raw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

const (
	methodSendBundle        = "sendBundle"
	methodGetBundleStatuses = "getBundleStatuses"

	retryAfterHeader = "Retry-After"
)

// RPCClient is a JSON-RPC 2.0 client for relay bundle endpoints. The
// endpoint URL is passed per call because the submitter rotates across
// interchangeable relays. It is deliberately not built on an SDK rpc
// client: failure classification needs the raw HTTP status code and the
// Retry-After header.
type RPCClient struct {
	client *http.Client
}

// NewRPCClient returns an RPCClient with the given per-request timeout.
func NewRPCClient(timeout time.Duration) *RPCClient {
	return &RPCClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type sendBundleResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

type bundleStatusesResponse struct {
	Result *struct {
		Value []relay.BundleStatus `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

// SendBundle posts the ordered list of transport-encoded transactions to
// the endpoint and returns the relay-assigned bundle id. A response
// without a result id is an error even on HTTP 200. HTTP 429 and 5xx are
// reported as typed errors so the submitter can classify them.
func (c *RPCClient) SendBundle(ctx context.Context, endpoint string, encodedTxs []string) (string, error) {
	body, err := c.call(ctx, endpoint, methodSendBundle, []interface{}{encodedTxs})
	if err != nil {
		return "", err
	}

	var res sendBundleResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("failed to unmarshal sendBundle response: %w", err)
	}
	if res.Error != nil {
		return "", fmt.Errorf("sendBundle rejected: %w", res.Error)
	}
	if res.Result == "" {
		return "", fmt.Errorf("no result in sendBundle response from %s", endpoint)
	}

	return res.Result, nil
}

// GetBundleStatuses queries the relay status API for the given bundle ids.
func (c *RPCClient) GetBundleStatuses(ctx context.Context, endpoint string, bundleIDs []string) ([]relay.BundleStatus, error) {
	body, err := c.call(ctx, endpoint, methodGetBundleStatuses, []interface{}{bundleIDs})
	if err != nil {
		return nil, err
	}

	var res bundleStatusesResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal getBundleStatuses response: %w", err)
	}
	if res.Error != nil {
		return nil, fmt.Errorf("getBundleStatuses rejected: %w", res.Error)
	}
	if res.Result == nil {
		return nil, fmt.Errorf("no result in getBundleStatuses response from %s", endpoint)
	}

	return res.Result.Value, nil
}

func (c *RPCClient) call(ctx context.Context, endpoint, method string, params []interface{}) ([]byte, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make %s request to %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &relay.RateLimitedError{
			Endpoint:   endpoint,
			RetryAfter: parseRetryAfter(resp.Header.Get(retryAfterHeader)),
		}
	case resp.StatusCode >= 500:
		return nil, &relay.ServerBusyError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("got unexpected http response status code from %s: %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response body: %w", method, err)
	}

	return body, nil
}

// parseRetryAfter interprets the hint as seconds, integer or fractional.
// Returns zero when the hint is absent or unparsable.
func parseRetryAfter(hint string) time.Duration {
	if hint == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(hint, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
