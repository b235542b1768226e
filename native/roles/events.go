package roles

import (
	"encoding/hex"
	"strconv"

	"academychain/core/events"
	"academychain/core/types"
)

const (
	// EventTypeMinterRegistered is emitted when the authority delegates a
	// minter role.
	EventTypeMinterRegistered = "roles.minter.registered"
	// EventTypeMinterRevoked is emitted when a minter role is deactivated.
	EventTypeMinterRevoked = "roles.minter.revoked"
	// EventTypeAuthorityRotated is emitted when the platform authority changes.
	EventTypeAuthorityRotated = "roles.authority.rotated"
	// EventTypeBackendRotated is emitted when the backend signer changes.
	EventTypeBackendRotated = "roles.backend.rotated"
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

// MinterRegisteredEvent returns the payload for a new minter delegation.
func MinterRegisteredEvent(role *MinterRole) *types.Event {
	return &types.Event{
		Type: EventTypeMinterRegistered,
		Attributes: map[string]string{
			"minter":       hexAddr(role.Minter),
			"label":        role.Label,
			"maxXpPerCall": strconv.FormatUint(role.MaxXPPerCall, 10),
		},
	}
}

// MinterRevokedEvent returns the payload for a minter deactivation.
func MinterRevokedEvent(role *MinterRole) *types.Event {
	return &types.Event{
		Type: EventTypeMinterRevoked,
		Attributes: map[string]string{
			"minter":        hexAddr(role.Minter),
			"label":         role.Label,
			"totalXpMinted": strconv.FormatUint(role.TotalXPMinted, 10),
		},
	}
}

// AuthorityRotatedEvent returns the payload for an authority rotation.
func AuthorityRotatedEvent(previous, next [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeAuthorityRotated,
		Attributes: map[string]string{
			"previous": hexAddr(previous),
			"next":     hexAddr(next),
		},
	}
}

// BackendRotatedEvent returns the payload for a backend signer rotation.
func BackendRotatedEvent(previous, next [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeBackendRotated,
		Attributes: map[string]string{
			"previous": hexAddr(previous),
			"next":     hexAddr(next),
		},
	}
}
