// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package upstream

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/threatdeck/threatdeck/internal/logging"
	"github.com/threatdeck/threatdeck/internal/metrics"
	"github.com/threatdeck/threatdeck/internal/models"
)

// BreakerClient wraps an API with the circuit breaker pattern so that
// a dead or slow event store does not tie four independent poll loops
// up in long timeouts. A rejected call surfaces to the synchronizers
// exactly like a transport failure: error placeholder now, retry on
// the next tick.
//
// The breaker uses real time for its interval and timeout windows;
// unit tests should exercise the wrapped client directly.
type BreakerClient struct {
	api  API
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// Ensure BreakerClient implements API
var _ API = (*BreakerClient)(nil)

// NewBreakerClient wraps api with a circuit breaker.
// Opens after a 60% failure rate across at least 10 requests in a one
// minute window; probes again after two minutes open.
func NewBreakerClient(api API) *BreakerClient {
	cbName := "eventstore-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening event store circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("event store circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{api: api, cb: cb, name: cbName}
}

// execute wraps an API call with circuit breaker protection.
func (b *BreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// RecentEvents implements API.
func (b *BreakerClient) RecentEvents(ctx context.Context) ([]models.Event, error) {
	result, err := b.execute(func() (any, error) {
		return b.api.RecentEvents(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Event), nil
}

// FlaggedEvents implements API.
func (b *BreakerClient) FlaggedEvents(ctx context.Context) ([]models.Event, error) {
	result, err := b.execute(func() (any, error) {
		return b.api.FlaggedEvents(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Event), nil
}

// MapData implements API.
func (b *BreakerClient) MapData(ctx context.Context) ([]models.MapPoint, error) {
	result, err := b.execute(func() (any, error) {
		return b.api.MapData(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.MapPoint), nil
}

// EventsByLocation implements API.
func (b *BreakerClient) EventsByLocation(ctx context.Context, city, country string) ([]models.Event, error) {
	result, err := b.execute(func() (any, error) {
		return b.api.EventsByLocation(ctx, city, country)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Event), nil
}

// FlagIP implements API. The flag mutation goes through the breaker
// too: if the event store is down, the user gets an immediate rejection
// instead of a hanging dialog.
func (b *BreakerClient) FlagIP(ctx context.Context, ip string) (*models.StatusResponse, error) {
	result, err := b.execute(func() (any, error) {
		return b.api.FlagIP(ctx, ip)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.StatusResponse), nil
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
