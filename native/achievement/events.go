package achievement

import (
	"encoding/hex"
	"strconv"

	"academychain/core/events"
	"academychain/core/types"
)

const (
	// EventTypeCreated is emitted when an achievement type is registered.
	EventTypeCreated = "achievement.type.created"
	// EventTypeStatusChanged is emitted on activation toggles.
	EventTypeStatusChanged = "achievement.type.status_changed"
	// EventTypeAwarded is emitted for every successful award.
	EventTypeAwarded = "achievement.awarded"
	// EventTypeClaimed is emitted for every successful index-addressed claim.
	EventTypeClaimed = "achievement.claimed"
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

// CreatedEvent returns the payload for an achievement type registration.
func CreatedEvent(achievement *AchievementType) *types.Event {
	return &types.Event{
		Type: EventTypeCreated,
		Attributes: map[string]string{
			"achievement": achievement.ID,
			"index":       strconv.FormatUint(uint64(achievement.Index), 10),
			"xpReward":    strconv.FormatUint(achievement.XPReward, 10),
			"maxSupply":   strconv.FormatUint(achievement.MaxSupply, 10),
		},
	}
}

// StatusChangedEvent returns the payload for an activation toggle.
func StatusChangedEvent(achievement *AchievementType) *types.Event {
	return &types.Event{
		Type: EventTypeStatusChanged,
		Attributes: map[string]string{
			"achievement": achievement.ID,
			"active":      strconv.FormatBool(achievement.Active),
		},
	}
}

// AwardedEvent returns the payload for an award.
func AwardedEvent(achievement *AchievementType, recipient [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeAwarded,
		Attributes: map[string]string{
			"achievement": achievement.ID,
			"recipient":   hexAddr(recipient),
			"supply":      strconv.FormatUint(achievement.CurrentSupply, 10),
			"xp":          strconv.FormatUint(achievement.XPReward, 10),
		},
	}
}

// ClaimedEvent returns the payload for an index-addressed claim.
func ClaimedEvent(learner [20]byte, index uint8, xp uint64) *types.Event {
	return &types.Event{
		Type: EventTypeClaimed,
		Attributes: map[string]string{
			"learner": hexAddr(learner),
			"slot":    strconv.FormatUint(uint64(index), 10),
			"xp":      strconv.FormatUint(xp, 10),
		},
	}
}
