package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/go-http-utils/headers"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/retry"
	"github.com/swanchain/go-swan-sdk/util"
)

const defaultTimeout = 60 * time.Second

// Client talks to the orchestrator HTTP API. Every call after Login carries the bearer token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	getRetry   retry.Policy
	timeout    time.Duration

	lk    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRetry sets the policy applied to failed GET requests; POSTs are never repeated.
func WithRetry(policy retry.Policy) Option {
	return func(c *Client) {
		c.getRetry = policy
	}
}

// WithTimeout bounds every request. A client passed with WithHTTPClient is
// copied rather than modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func NewClient(baseURL, apiKey string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		getRetry:   retry.Fixed(1, 0),
	}
	for _, option := range options {
		option(c)
	}
	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}
	return c
}

func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Token() string {
	c.lk.RLock()
	defer c.lk.RUnlock()
	return c.token
}

// Login exchanges the api key for a bearer token.
func (c *Client) Login(ctx context.Context) error {
	const op = "Login"
	if strings.TrimSpace(c.apiKey) == "" {
		return models.ValidationError(op, fmt.Errorf("api key must be not empty: %w", models.ErrInvalidParameter))
	}

	data, err := c.request(ctx, op, http.MethodPost, loginPath, nil, map[string]string{"api_key": c.apiKey})
	if err != nil {
		return err
	}

	var token string
	if err = json.Unmarshal(data, &token); err != nil || token == "" {
		var wrapped struct {
			Token string `json:"token"`
		}
		if err = json.Unmarshal(data, &wrapped); err != nil || wrapped.Token == "" {
			return models.TransportError(op, models.KindFatal, fmt.Errorf("%w: login response carries no token", models.ErrUnauthorized))
		}
		token = wrapped.Token
	}

	c.lk.Lock()
	c.token = token
	c.lk.Unlock()
	logs.GetLogger().Infof("login to orchestrator %s successfully", c.baseURL)
	return nil
}

func (c *Client) request(ctx context.Context, op, method, path string, params url.Values, body interface{}) (json.RawMessage, error) {
	if method != http.MethodGet {
		return c.doOnce(ctx, op, method, path, params, body)
	}

	var data json.RawMessage
	err := c.getRetry.Do(ctx, func() error {
		var err error
		data, err = c.doOnce(ctx, op, method, path, params, body)
		return err
	}, models.IsRetryable)
	return data, err
}

func (c *Client) doOnce(ctx context.Context, op, method, path string, params url.Values, body interface{}) (json.RawMessage, error) {
	idempotent := method == http.MethodGet
	transportErr := func(kind models.Kind, err error) error {
		e := models.TransportError(op, kind, err)
		e.Idempotent = idempotent
		return e
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, models.ValidationError(op, fmt.Errorf("failed convert to json, error: %w", err))
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return nil, models.ValidationError(op, fmt.Errorf("error creating request: %w", err))
	}
	if body != nil {
		req.Header.Set(headers.ContentType, "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(headers.Authorization, "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logs.GetLogger().Errorf("Failed send a request, op: %s, error: %v", op, err)
		kind := models.KindFatal
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) || strings.Contains(err.Error(), "connection") {
			kind = models.KindTransient
		}
		if ctx.Err() != nil {
			kind = models.KindFatal
		}
		return nil, transportErr(kind, fmt.Errorf("%w: %v", models.ErrTransport, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(models.KindTransient, fmt.Errorf("%w: read body: %v", models.ErrTransport, err))
	}

	var envelope util.BasicResponse
	decodeErr := json.Unmarshal(raw, &envelope)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, transportErr(models.KindFatal, fmt.Errorf("%w: %s", models.ErrUnauthorized, envelope.Message))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, transportErr(models.KindTransient, fmt.Errorf("%w: status code %d", models.ErrTransport, resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return nil, transportErr(models.KindNotFound, fmt.Errorf("%w: %s %s not found: %s", models.ErrRequestRejected, method, path, envelope.Message))
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, transportErr(models.KindInvalid, fmt.Errorf("%w: status code %d: %s", models.ErrRequestRejected, resp.StatusCode, envelope.Message))
	}

	if decodeErr != nil {
		return nil, transportErr(models.KindFatal, fmt.Errorf("%w: malformed response: %v", models.ErrTransport, decodeErr))
	}
	if !envelope.IsSuccess() {
		return nil, transportErr(models.KindInvalid, fmt.Errorf("%w: %s", models.ErrRequestRejected, envelope.Message))
	}
	return envelope.Data, nil
}
