// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package upstream

import (
	"fmt"

	"github.com/goccy/go-json"
)

// StatusError reports a non-success HTTP status from a read endpoint.
// Detail carries the server-provided reason when the body is parseable.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

// FlagError reports a rejected flag-by-IP mutation. Reason is surfaced
// verbatim to the user; it falls back to a generic message when the
// server gave none.
type FlagError struct {
	StatusCode int
	Reason     string
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("flag request rejected (status %d): %s", e.StatusCode, e.Reason)
}

// GenericFlagFailure is the user-facing fallback when a rejected flag
// mutation carries no server-side reason.
const GenericFlagFailure = "Failed to flag IP address."

// errorDetail extracts the "detail" field from an error response body.
// The event store wraps all error reasons this way.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
