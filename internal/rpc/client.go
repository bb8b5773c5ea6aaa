// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dotandev/granary/internal/errors"
	"github.com/dotandev/granary/internal/farming"
	"github.com/dotandev/granary/internal/logger"
)

// CreditRequest asks the ledger to credit a farmer for a granted reward.
type CreditRequest struct {
	ItemID   string         `json:"item_id"`
	FarmerID string         `json:"farmer_id"`
	EventID  string         `json:"event_id"`
	Amount   farming.Amount `json:"amount"`
}

// CreditSubmitter posts credit requests to the ledger collaborator. Retry
// policy lives here, not in the engine: a failed submission is a transient
// I/O problem, never a reason to re-decide the attempt.
type CreditSubmitter struct {
	url     string
	retrier *Retrier
}

// NewCreditSubmitter validates the ledger URL and builds a submitter with
// the default retry policy.
func NewCreditSubmitter(ledgerURL string) (*CreditSubmitter, error) {
	if err := isValidURL(ledgerURL); err != nil {
		return nil, err
	}
	return &CreditSubmitter{
		url:     ledgerURL,
		retrier: NewRetrier(DefaultRetryConfig(), nil),
	}, nil
}

// Submit sends one credit request. A non-2xx answer after retries means the
// ledger refused the credit.
func (c *CreditSubmitter) Submit(ctx context.Context, credit CreditRequest) error {
	payload, err := json.Marshal(credit)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Logger.Debug("submitting credit", "event_id", credit.EventID, "amount", uint64(credit.Amount))

	resp, err := c.retrier.Do(ctx, req)
	if err != nil {
		logger.Logger.Error("credit submission failed", "error", err)
		return errors.WrapLedgerConnectionFailed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Logger.Error("credit rejected", "status", resp.StatusCode)
		return errors.WrapCreditRejected(resp.StatusCode, string(body))
	}

	logger.Logger.Info("credit accepted", "event_id", credit.EventID, "amount", uint64(credit.Amount))
	return nil
}
