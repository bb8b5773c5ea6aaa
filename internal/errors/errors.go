// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for comparison with errors.Is
var (
	ErrConsistencyViolation   = errors.New("ledger consistency violation")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrDuplicateEvent         = errors.New("event already rewarded")
	ErrExcessiveValue         = errors.New("accumulated value overflow")
	ErrUnknownFarmer          = errors.New("unknown farmer")
	ErrFarmerExists           = errors.New("farmer already registered")
	ErrSchemaIncompatible     = errors.New("incompatible store schema")
	ErrLedgerConnectionFailed = errors.New("ledger connection failed")
	ErrCreditRejected         = errors.New("credit submission rejected")
)

// Wrap functions for consistent error wrapping
func WrapConsistencyViolation(msg string) error {
	return fmt.Errorf("%w: %s", ErrConsistencyViolation, msg)
}

func WrapInvalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func WrapInvalidConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}

func WrapDuplicateEvent(eventID string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateEvent, eventID)
}

func WrapExcessiveValue(farmer string) error {
	return fmt.Errorf("%w: farmer %s", ErrExcessiveValue, farmer)
}

func WrapUnknownFarmer(farmer string) error {
	return fmt.Errorf("%w: %s", ErrUnknownFarmer, farmer)
}

func WrapFarmerExists(farmer string) error {
	return fmt.Errorf("%w: %s", ErrFarmerExists, farmer)
}

func WrapSchemaIncompatible(got, want string) error {
	return fmt.Errorf("%w: store has %s, this build requires %s", ErrSchemaIncompatible, got, want)
}

func WrapLedgerConnectionFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrLedgerConnectionFailed, err)
}

func WrapCreditRejected(status int, body string) error {
	return fmt.Errorf("%w: status %d: %s", ErrCreditRejected, status, body)
}
