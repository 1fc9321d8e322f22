// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package sync

import (
	"context"
	"fmt"

	"github.com/threatdeck/threatdeck/internal/logging"
	"github.com/threatdeck/threatdeck/internal/view"
	"github.com/threatdeck/threatdeck/internal/websocket"
)

// Interactions routes inbound UI commands to the components that
// handle them. Item activations are resolved by feed name and identity
// key so the UI never holds references into the item lists.
type Interactions struct {
	chrome    *view.Chrome
	flow      *FlagWorkflow
	maps      *MapSynchronizer
	publisher view.Publisher
	intelURL  string
	feeds     map[string]*view.Feed
	regions   map[string]*view.ScrollRegion
}

// NewInteractions creates the command router. Each feed gets a
// contained scroll region, plus one for the drill-down panel. The
// intelURL template backs the menu's threat-intel lookup action.
func NewInteractions(chrome *view.Chrome, flow *FlagWorkflow, maps *MapSynchronizer, publisher view.Publisher, intelURL string, feeds ...*view.Feed) *Interactions {
	byName := make(map[string]*view.Feed, len(feeds))
	regions := make(map[string]*view.ScrollRegion, len(feeds)+1)
	for _, f := range feeds {
		byName[f.Name()] = f
		regions[f.Name()] = view.NewScrollRegion(0, 0)
	}
	regions["drilldown"] = view.NewScrollRegion(0, 0)
	for _, region := range regions {
		region.Contain()
	}
	return &Interactions{
		chrome:    chrome,
		flow:      flow,
		maps:      maps,
		publisher: publisher,
		intelURL:  intelURL,
		feeds:     byName,
		regions:   regions,
	}
}

// HandleCommand dispatches a single UI command. Unknown commands and
// stale item keys are dropped; by the time a command arrives its item
// may have been replaced by an error placeholder.
func (i *Interactions) HandleCommand(ctx context.Context, cmd websocket.Command) {
	switch cmd.Type {
	case websocket.CommandPrimaryActivate:
		if item, ok := i.itemByKey(cmd.Feed, cmd.Key); ok {
			item.PrimaryActivate()
		}

	case websocket.CommandSecondaryActivate:
		if item, ok := i.itemByKey(cmd.Feed, cmd.Key); ok {
			item.SecondaryActivate(cmd.X, cmd.Y)
		}

	case websocket.CommandMenuAction:
		switch cmd.Action {
		case "flag":
			if ip, ok := i.chrome.TakeSelection(); ok {
				// Errors already surfaced to the UI as a notice.
				_ = i.flow.Flag(ctx, ip)
			}
		case "intel":
			if ip, ok := i.chrome.TakeSelection(); ok {
				i.publisher.Publish(view.MessageTypeOpenURL, view.OpenURL{URL: fmt.Sprintf(i.intelURL, ip)})
			}
		default:
			i.chrome.Dismiss()
		}

	case websocket.CommandDismiss:
		i.chrome.Dismiss()

	case websocket.CommandMarkerActivate:
		_ = i.maps.DrillDown(ctx, cmd.City, cmd.Country)

	case websocket.CommandModal:
		switch cmd.Action {
		case "open":
			i.chrome.OpenModal()
		case "close":
			i.chrome.CloseModal()
		case "toggle":
			if i.chrome.ModalOpen() {
				i.chrome.CloseModal()
			} else {
				i.chrome.OpenModal()
			}
		case "backdrop":
			i.chrome.BackdropClick()
		}

	case websocket.CommandWheel:
		if region, ok := i.regions[cmd.Region]; ok {
			outcome := region.HandleWheel(cmd.Delta)
			i.publisher.Publish(view.MessageTypeScroll, view.ScrollUpdate{
				Region:       cmd.Region,
				WheelOutcome: outcome,
			})
		}

	case websocket.CommandRegionResize:
		if region, ok := i.regions[cmd.Region]; ok {
			region.Resize(cmd.Viewport, cmd.Content)
		}

	default:
		logging.Debug().Str("type", cmd.Type).Msg("Ignoring unknown command")
	}
}

func (i *Interactions) itemByKey(feed, key string) (*view.ListItem, bool) {
	f, ok := i.feeds[feed]
	if !ok {
		return nil, false
	}
	return f.ItemByKey(key)
}
