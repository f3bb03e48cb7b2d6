package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"ladderbot/internal/exchange"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type response struct {
	code int
	body []byte
}

func (r response) failed() bool {
	return r.code >= http.StatusBadRequest
}

func (r response) retryable() bool {
	return r.code == http.StatusTooManyRequests || r.code >= http.StatusInternalServerError
}

func (c *Client) call(ctx context.Context, method, path string, body any, out any) (response, error) {
	var (
		resp response
		err  error
	)

	if method == http.MethodGet {
		resp, err = backoff.Retry(ctx, func() (response, error) {
			r, err := c.doRequest(ctx, method, path, body)
			if err != nil {
				return r, err
			}
			if r.retryable() {
				c.logEntry().WithFields(map[string]interface{}{
					"path":   path,
					"status": r.code,
				}).Warn("Биржа ограничила запрос, повторяем.")
				return r, httpError(method, path, r)
			}
			return r, nil
		}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(c.maxTries))
	} else {
		resp, err = c.doRequest(ctx, method, path, body)
	}
	if err != nil {
		return resp, err
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		if resp.failed() {
			return resp, httpError(method, path, resp)
		}
		return resp, fmt.Errorf("%w: %s %s: %v (ответ: %s)", exchange.ErrDataUnavailable, method, path, err, resp.body)
	}

	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (response, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("Не удалось подготовить тело запроса: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return response{}, fmt.Errorf("Не удалось создать запрос: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%w: %s %s: %v", exchange.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%w: не удалось прочитать ответ %s %s: %v", exchange.ErrTransport, method, path, err)
	}

	c.logEntry().WithFields(map[string]interface{}{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
		"body":   string(data),
	}).Debug("Ответ биржи.")

	return response{code: resp.StatusCode, body: data}, nil
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoffInitial
	b.MaxInterval = 30 * time.Second
	return b
}

func httpError(method, path string, r response) error {
	return fmt.Errorf("%w: %s %s: неуспешный статус %d (ответ: %s)", exchange.ErrTransport, method, path, r.code, r.body)
}
