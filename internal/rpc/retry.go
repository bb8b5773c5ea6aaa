// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dotandev/granary/internal/logger"
)

// RetryConfig controls how the HTTP retrier behaves.
type RetryConfig struct {
	MaxRetries         int
	InitialBackoff     time.Duration
	MaxBackoff         time.Duration
	StatusCodesToRetry []int
}

// DefaultRetryConfig returns sensible defaults for talking to a ledger
// endpoint: three retries with exponential backoff from 1s to 10s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:         3,
		InitialBackoff:     1 * time.Second,
		MaxBackoff:         10 * time.Second,
		StatusCodesToRetry: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}
}

// Retrier wraps an http.Client with retry-on-status and backoff.
type Retrier struct {
	cfg    RetryConfig
	client *http.Client
}

// NewRetrier creates a retrier around the given client.
func NewRetrier(cfg RetryConfig, client *http.Client) *Retrier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Retrier{cfg: cfg, client: client}
}

func (r *Retrier) shouldRetry(statusCode int) bool {
	for _, code := range r.cfg.StatusCodesToRetry {
		if code == statusCode {
			return true
		}
	}
	return false
}

// Do executes the request, retrying retryable status codes and transport
// errors with exponential backoff. The context aborts waiting between
// attempts. On failure the response is nil.
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := r.cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Logger.Debug("retrying request", "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > r.cfg.MaxBackoff {
				backoff = r.cfg.MaxBackoff
			}
		}

		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := r.client.Do(attemptReq)
		if err != nil {
			lastErr = err
			continue
		}
		if !r.shouldRetry(resp.StatusCode) {
			return resp, nil
		}
		lastErr = fmt.Errorf("received retryable status %d", resp.StatusCode)
		resp.Body.Close()
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", r.cfg.MaxRetries, lastErr)
}
