package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout applies when no timeout is configured, upstream calls never block forever.
const DefaultTimeout = 10 * time.Second

const userAgent = "Mozilla/5.0 (compatible; coin-board; +https://github.com/polyrabbit/coin-board)"

type Client struct {
	StdClient *http.Client
}

// New builds a client with the given timeout in seconds and an optional proxy URL.
func New(timeoutSeconds int, rawProxyURL string) *Client {
	timeout := DefaultTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	logrus.Debugf("HTTP request timeout is set to %s", timeout)
	stdClient := &http.Client{Timeout: timeout}

	if rawProxyURL != "" {
		proxyURL, err := url.Parse(rawProxyURL)
		if err != nil {
			logrus.Warnf("Failed to parse proxy URL: %s, error: %v, using system proxy", rawProxyURL, err)
		} else {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = http.ProxyURL(proxyURL)
			logrus.Debugf("Using proxy %s", rawProxyURL)
			stdClient.Transport = transport
		}
	}
	return &Client{stdClient}
}

// Get sends a GET request and returns the whole body. Non-2xx responses return
// the body together with a *ResponseError.
func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string, headers map[string]string) ([]byte, error) {
	if params != nil {
		parsedURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrapf(err, "parse url %s", rawURL)
		}
		query := parsedURL.Query()
		for k, v := range params {
			query.Set(k, v)
		}
		parsedURL.RawQuery = query.Encode()
		rawURL = parsedURL.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.StdClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	if !(resp.StatusCode >= 200 && resp.StatusCode < 300) {
		// Most non-200 responses have valid json body
		return respBytes, &ResponseError{Status: resp.Status, StatusCode: resp.StatusCode, Body: respBytes}
	}
	return respBytes, nil
}

type ResponseError struct {
	Status     string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return "HTTP " + e.Status + ", body " + string(body)
}
