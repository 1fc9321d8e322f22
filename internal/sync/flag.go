// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/threatdeck/threatdeck/internal/logging"
	"github.com/threatdeck/threatdeck/internal/metrics"
	"github.com/threatdeck/threatdeck/internal/models"
	"github.com/threatdeck/threatdeck/internal/upstream"
	"github.com/threatdeck/threatdeck/internal/view"
)

// Flagger is the upstream surface the flag workflow needs.
type Flagger interface {
	FlagIP(ctx context.Context, ip string) (*models.StatusResponse, error)
}

// Resyncer triggers an immediate synchronization cycle on a feed.
type Resyncer interface {
	SyncNow(ctx context.Context) error
}

// FlagWorkflow submits flag requests and, on success, refreshes the
// feeds whose contents the flag changed. The workflow never mutates
// feed items locally: updated records arrive through the normal merge
// path on the forced refresh.
type FlagWorkflow struct {
	client    Flagger
	live      Resyncer
	flagged   Resyncer
	publisher view.Publisher
}

// NewFlagWorkflow creates a flag workflow.
func NewFlagWorkflow(client Flagger, live, flagged Resyncer, publisher view.Publisher) *FlagWorkflow {
	return &FlagWorkflow{
		client:    client,
		live:      live,
		flagged:   flagged,
		publisher: publisher,
	}
}

// Flag marks an IP address as suspicious upstream. Failures surface as
// an error notice with the upstream's reason when it supplied one; no
// refresh happens so the feeds keep showing the pre-flag state.
func (f *FlagWorkflow) Flag(ctx context.Context, ip string) error {
	status, err := f.client.FlagIP(ctx, ip)
	if err != nil {
		reason := upstream.GenericFlagFailure
		var flagErr *upstream.FlagError
		if errors.As(err, &flagErr) {
			reason = flagErr.Reason
		}
		metrics.FlagRequestsTotal.WithLabelValues("error").Inc()
		logging.Error().Err(err).Str("src_ip", ip).Msg("Flag request failed")
		f.publisher.Publish(view.MessageTypeNotice, view.Notice{Level: "error", Text: reason})
		return err
	}

	message := status.Message
	if message == "" {
		message = fmt.Sprintf("IP %s has been flagged.", ip)
	}
	metrics.FlagRequestsTotal.WithLabelValues("success").Inc()
	logging.Info().Str("src_ip", ip).Msg("IP flagged")
	f.publisher.Publish(view.MessageTypeNotice, view.Notice{Level: "info", Text: message})

	// Refresh errors are non-fatal here: the next scheduled cycle will
	// pick up the flagged record anyway.
	if err := f.live.SyncNow(ctx); err != nil {
		logging.Debug().Err(err).Msg("Post-flag live refresh failed")
	}
	if err := f.flagged.SyncNow(ctx); err != nil {
		logging.Debug().Err(err).Msg("Post-flag flagged refresh failed")
	}

	return nil
}
