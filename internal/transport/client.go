// Package transport performs the HTTP leg of the bridge protocol: one
// blocking request per market event, with the outcome classified into
// transport failure, bad HTTP status, or success.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// DefaultTimeout bounds every remote call. A timeout is a transport failure;
// the next host-driven event is the only retry opportunity.
const DefaultTimeout = 5 * time.Second

// ReportType selects the remote endpoint variant via the type query parameter.
type ReportType string

const (
	ReportTypeTick  ReportType = "tick"
	ReportTypeBar   ReportType = "bar"
	ReportTypeOrder ReportType = "order"
)

// Response is the raw remote answer handed to the codec.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client posts event reports to the remote controller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a transport client for the given controller base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Send posts one report body and returns the remote response.
//
// Classification is asymmetric on purpose: a transport-level failure (bad
// URL, unreachable host, timeout) returns an ErrCodeTransportFailed error and
// NO response body, so the caller can never run commands embedded in a
// nonexistent answer. A non-2xx status returns BOTH the body and an
// ErrCodeHTTPStatus error: the remote may embed commands in error bodies, so
// the caller decodes the body even though the call failed.
func (c *Client) Send(ctx context.Context, reportType ReportType, body []byte) (Response, error) {
	reportURL, err := c.reportURL(reportType)
	if err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reportURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, errors.Wrapf(errors.ErrCodeTransportFailed, err,
			"failed to build %s report request for %s", reportType, reportURL)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, errors.Wrapf(errors.ErrCodeTransportFailed, err,
			"failed to post %s report to %s", reportType, reportURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, errors.Wrapf(errors.ErrCodeTransportFailed, err,
			"failed to read %s report response from %s", reportType, reportURL)
	}

	response := Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}

	if !statusOK(resp.StatusCode) {
		return response, errors.Newf(errors.ErrCodeHTTPStatus,
			"remote returned status %d for %s report to %s", resp.StatusCode, reportType, reportURL)
	}

	return response, nil
}

// Probe validates connectivity with an empty GET against the base endpoint.
func (c *Client) Probe(ctx context.Context) error {
	if _, err := url.ParseRequestURI(c.baseURL); err != nil {
		return errors.Wrapf(errors.ErrCodeTransportFailed, err, "invalid controller URL %q", c.baseURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeTransportFailed, err, "failed to build probe request for %s", c.baseURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeTransportFailed, err, "failed to probe %s", c.baseURL)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if !statusOK(resp.StatusCode) {
		return errors.Newf(errors.ErrCodeHTTPStatus, "probe of %s returned status %d", c.baseURL, resp.StatusCode)
	}

	return nil
}

// BaseURL returns the configured controller base URL, for log context.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) reportURL(reportType ReportType) (string, error) {
	parsed, err := url.ParseRequestURI(c.baseURL)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeTransportFailed, err, "invalid controller URL %q", c.baseURL)
	}

	query := parsed.Query()
	query.Set("type", string(reportType))
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func statusOK(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}
