package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffCap  = 10 * time.Second
)

// Transport is an HTTP client wrapper that injects the stored access token,
// replays a request once after a 401 re-auth, honors 429 Retry-After, and
// retries network failures with exponential backoff.
type Transport struct {
	httpClient  *http.Client
	store       *SessionStore
	coordinator *RefreshCoordinator
	maxRetries  int
	sleep       func(ctx context.Context, d time.Duration) error
}

// TransportOptions configures a Transport. HTTPClient defaults to
// http.DefaultClient and MaxRetries to 3.
type TransportOptions struct {
	HTTPClient  *http.Client
	Store       *SessionStore
	Coordinator *RefreshCoordinator
	MaxRetries  int
}

func NewTransport(opts TransportOptions) (*Transport, error) {
	if opts.Store == nil {
		return nil, errors.New("session store required")
	}
	if opts.Coordinator == nil {
		return nil, errors.New("refresh coordinator required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Transport{
		httpClient:  httpClient,
		store:       opts.Store,
		coordinator: opts.Coordinator,
		maxRetries:  maxRetries,
		sleep:       sleepContext,
	}, nil
}

// Do sends the request. The body is buffered so retries and the one-shot 401
// replay can resend it.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = raw
	}

	reauthed := false
	attempt := 0

	for {
		resp, err := t.send(req, body)
		if err != nil {
			attempt++
			if attempt >= t.maxRetries {
				return nil, err
			}
			if serr := t.sleep(req.Context(), backoffDelay(attempt)); serr != nil {
				return nil, serr
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized && !reauthed:
			// One replay after re-auth. A terminal rejection of the
			// refresh token is surfaced, never retried.
			drain(resp)
			if _, rerr := t.coordinator.Refresh(req.Context()); rerr != nil {
				return nil, rerr
			}
			reauthed = true
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			attempt++
			if attempt >= t.maxRetries {
				return resp, nil
			}
			delay := retryAfter(resp)
			if delay <= 0 {
				delay = backoffDelay(attempt)
			}
			drain(resp)
			if serr := t.sleep(req.Context(), delay); serr != nil {
				return nil, serr
			}
			continue

		default:
			return resp, nil
		}
	}
}

func (t *Transport) send(req *http.Request, body []byte) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if body != nil {
		clone.Body = io.NopCloser(bytes.NewReader(body))
		clone.ContentLength = int64(len(body))
	}
	if session, ok := t.store.LoadSession(); ok && session.AccessToken != "" {
		clone.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}
	return t.httpClient.Do(clone)
}

func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt-1))) * defaultBackoffBase
	if delay > defaultBackoffCap {
		return defaultBackoffCap
	}
	return delay
}

func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
