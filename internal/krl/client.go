// Package krl talks to the upstream KRL commuter-line API.
package krl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/galihvsx/better-commuline-api/internal/constants"
)

// UpstreamError is the single error type surfaced for every upstream
// failure mode. StatusCode is zero when no HTTP response was received
// (timeout, connection failure); callers branch on the code when present.
type UpstreamError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
	}
	return e.Message
}

// IsStatus reports whether err is an UpstreamError carrying the given
// HTTP status code.
func IsStatus(err error, code int) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == code
}

// Client performs authenticated, timeout-bounded calls against the
// upstream API. It never retries; retry policy belongs to callers.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: constants.DefaultUpstreamTimeout,
		},
	}
}

// SetLimiter installs an optional token-bucket limiter paced before
// every upstream call.
func (c *Client) SetLimiter(l *rate.Limiter) {
	c.limiter = l
}

// GetStations fetches the full station listing.
func (c *Client) GetStations(ctx context.Context) ([]StationData, error) {
	var out stationsResponse
	if err := c.get(ctx, constants.PathStations, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetSchedules fetches departures for one station within [timeFrom, timeTo]
// (both "HH:mm").
func (c *Client) GetSchedules(ctx context.Context, stationID, timeFrom, timeTo string) ([]ScheduleData, error) {
	q := url.Values{}
	q.Set("stationid", stationID)
	q.Set("timefrom", timeFrom)
	q.Set("timeto", timeTo)

	var out schedulesResponse
	if err := c.get(ctx, constants.PathSchedules, q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetRouteMaps fetches the route map permalinks.
func (c *Client) GetRouteMaps(ctx context.Context) ([]RouteMapData, error) {
	var out routeMapsResponse
	if err := c.get(ctx, constants.PathRouteMaps, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetFare fetches the fare between two stations. This endpoint is proxied
// live, never cached.
func (c *Client) GetFare(ctx context.Context, stationFrom, stationTo string) ([]FareData, error) {
	q := url.Values{}
	q.Set("stationfrom", stationFrom)
	q.Set("stationto", stationTo)

	var out fareResponse
	if err := c.get(ctx, constants.PathFare, q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SendPreflight issues a CORS preflight probe against an upstream path.
// The browser-facing upstream expects it before schedule reads.
func (c *Client) SendPreflight(ctx context.Context, path string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.baseURL+path, nil)
	if err != nil {
		return &UpstreamError{Message: fmt.Sprintf("failed to build preflight request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UpstreamError{Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Message: fmt.Sprintf("failed to decode upstream response: %v", err)}
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &UpstreamError{Message: fmt.Sprintf("rate limiter wait cancelled: %v", err)}
	}
	return nil
}

func classifyTransportError(err error) *UpstreamError {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &UpstreamError{Message: "request to upstream timed out"}
	}
	return &UpstreamError{Message: fmt.Sprintf("upstream unreachable: %v", err)}
}
