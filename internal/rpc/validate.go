// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"fmt"
	"net/url"
)

func isValidURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsed.Scheme == "" {
		return fmt.Errorf("URL must include scheme (http:// or https://)")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}

func validateStateArgs(args StateArgs) error {
	if args.SupplyCap == 0 {
		return fmt.Errorf("supply cap is required and must be positive")
	}

	if args.TotalIssued > args.SupplyCap {
		return fmt.Errorf("total issued %d exceeds supply cap %d", args.TotalIssued, args.SupplyCap)
	}

	if args.Utilization < 0 || args.Utilization > 1 {
		return fmt.Errorf("utilization must be within [0,1], got %v", args.Utilization)
	}

	return nil
}

func validateAttemptArgs(args AttemptArgs) error {
	if err := validateStateArgs(args.State); err != nil {
		return err
	}

	if args.Draw == nil && args.EventID == "" {
		return fmt.Errorf("either draw or event_id is required")
	}

	if args.Draw != nil && args.EventID != "" {
		return fmt.Errorf("draw and event_id are mutually exclusive")
	}

	if args.Draw != nil && (*args.Draw < 0 || *args.Draw >= 1) {
		return fmt.Errorf("draw must be within [0,1), got %v", *args.Draw)
	}

	return nil
}
