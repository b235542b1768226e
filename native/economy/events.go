package economy

import (
	"encoding/hex"
	"strconv"

	"academychain/core/events"
	"academychain/core/types"
)

const (
	// EventTypeConfigInitialised is emitted once at genesis.
	EventTypeConfigInitialised = "economy.config.initialised"
	// EventTypeLimitsUpdated is emitted when the authority retunes XP limits.
	EventTypeLimitsUpdated = "economy.config.limits_updated"
	// EventTypeSeasonCreated is emitted when a new reward season opens.
	EventTypeSeasonCreated = "economy.season.created"
	// EventTypeSeasonClosed is emitted when issuance halts for the season.
	EventTypeSeasonClosed = "economy.season.closed"
	// EventTypeXPMinted is emitted for every platform-authorised XP transfer.
	EventTypeXPMinted = "economy.xp.minted"
	// EventTypeXPRewarded is emitted for role-based minting.
	EventTypeXPRewarded = "economy.xp.rewarded"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

func hexAddr(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

// ConfigInitialisedEvent returns the payload for genesis initialisation.
func ConfigInitialisedEvent(cfg *AcademyConfig) *types.Event {
	return &types.Event{
		Type: EventTypeConfigInitialised,
		Attributes: map[string]string{
			"authority": hexAddr(cfg.Authority),
			"backend":   hexAddr(cfg.BackendSigner),
			"season":    strconv.FormatUint(uint64(cfg.CurrentSeason), 10),
			"mint":      cfg.ActiveMint,
		},
	}
}

// LimitsUpdatedEvent returns the payload for a limit update.
func LimitsUpdatedEvent(cfg *AcademyConfig) *types.Event {
	return &types.Event{
		Type: EventTypeLimitsUpdated,
		Attributes: map[string]string{
			"maxDailyXp":       strconv.FormatUint(cfg.MaxDailyXP, 10),
			"maxAchievementXp": strconv.FormatUint(cfg.MaxAchievementXP, 10),
		},
	}
}

// SeasonCreatedEvent returns the payload for a season rotation.
func SeasonCreatedEvent(season uint32, mint string) *types.Event {
	return &types.Event{
		Type: EventTypeSeasonCreated,
		Attributes: map[string]string{
			"season": strconv.FormatUint(uint64(season), 10),
			"mint":   mint,
		},
	}
}

// SeasonClosedEvent returns the payload for a season close.
func SeasonClosedEvent(season uint32) *types.Event {
	return &types.Event{
		Type: EventTypeSeasonClosed,
		Attributes: map[string]string{
			"season": strconv.FormatUint(uint64(season), 10),
		},
	}
}

// XPMintedEvent returns the payload for a platform mint.
func XPMintedEvent(recipient [20]byte, amount uint64, mint string, reason string) *types.Event {
	return &types.Event{
		Type: EventTypeXPMinted,
		Attributes: map[string]string{
			"recipient": hexAddr(recipient),
			"amount":    strconv.FormatUint(amount, 10),
			"mint":      mint,
			"reason":    reason,
		},
	}
}

// XPRewardedEvent returns the payload for a role-based mint.
func XPRewardedEvent(minter [20]byte, recipient [20]byte, amount uint64, totalMinted uint64) *types.Event {
	return &types.Event{
		Type: EventTypeXPRewarded,
		Attributes: map[string]string{
			"minter":      hexAddr(minter),
			"recipient":   hexAddr(recipient),
			"amount":      strconv.FormatUint(amount, 10),
			"totalMinted": strconv.FormatUint(totalMinted, 10),
		},
	}
}
