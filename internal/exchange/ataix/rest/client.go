package rest

import (
	"ladderbot/internal/logger"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string

	httpClient     *http.Client
	maxTries       uint
	backoffInitial time.Duration
	log            *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetry bounds the attempts made for idempotent requests.
func WithRetry(maxTries int, initial time.Duration) Option {
	return func(c *Client) {
		if maxTries > 0 {
			c.maxTries = uint(maxTries)
		}
		if initial > 0 {
			c.backoffInitial = initial
		}
	}
}

func New(baseURL, apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		maxTries:       3,
		backoffInitial: 500 * time.Millisecond,
		log:            log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
