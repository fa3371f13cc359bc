// Package api is the HTTP implementation of the remote wayfinding API
// ports. The path-finding server owns all graph logic; this client only
// shuttles typed requests and responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	pkgerrors "wayfind/pkg/errors"
)

// Client bundles the per-resource API clients over one shared transport.
type Client struct {
	Buildings *BuildingClient
	Floors    *FloorClient
	Nodes     *NodeClient
	Edges     *EdgeClient
	Routes    *RouteClient
}

// core is the shared HTTP plumbing behind the resource clients.
type core struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	validate   *validator.Validate
}

// NewClient creates an API client rooted at baseURL. Every request carries
// the given timeout; retries are the caller's concern.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	c := &core{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		validate:   validator.New(),
	}

	// The breaker guards the expensive server-side path search. Domain
	// negatives (no path, unknown node) are healthy responses and must
	// not trip it.
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "route-calculate",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || pkgerrors.IsNotFound(err) || pkgerrors.IsNoPath(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		Buildings: &BuildingClient{core: c},
		Floors:    &FloorClient{core: c},
		Nodes:     &NodeClient{core: c},
		Edges:     &EdgeClient{core: c},
		Routes:    &RouteClient{core: c, breaker: breaker},
	}
}

// get issues a GET request and decodes the JSON response into out.
func (c *core) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return pkgerrors.NewInternalError("failed to build request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

// post issues a POST request with a JSON body and decodes the response.
func (c *core) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode request body").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.NewInternalError("failed to build request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

// do executes the request and maps the response onto the error taxonomy:
// 404 becomes NotFound, anything else non-2xx becomes a network error.
func (c *core) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return pkgerrors.NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return pkgerrors.NewNotFoundError("resource")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		io.Copy(io.Discard, resp.Body)
		return pkgerrors.NewNetworkError(
			fmt.Sprintf("server returned status %d", resp.StatusCode), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.NewNetworkError("failed to decode response", err)
	}
	return nil
}
