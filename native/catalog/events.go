package catalog

import (
	"encoding/hex"
	"strconv"

	"academychain/core/events"
	"academychain/core/types"
)

const (
	// EventTypeCourseCreated is emitted when a course lands in the catalog.
	EventTypeCourseCreated = "catalog.course.created"
	// EventTypeCourseUpdated is emitted for every patch, whether or not the
	// content version advanced.
	EventTypeCourseUpdated = "catalog.course.updated"
	// EventTypeCourseStatusChanged is emitted on activation toggles.
	EventTypeCourseStatusChanged = "catalog.course.status_changed"
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

// CourseCreatedEvent returns the payload for a catalog insertion.
func CourseCreatedEvent(course *Course) *types.Event {
	return &types.Event{
		Type: EventTypeCourseCreated,
		Attributes: map[string]string{
			"course":      course.ID,
			"creator":     hexAddr(course.Creator),
			"lessonCount": strconv.FormatUint(uint64(course.LessonCount), 10),
			"difficulty":  strconv.FormatUint(uint64(course.Difficulty), 10),
			"xpPerLesson": strconv.FormatUint(course.XPPerLesson, 10),
		},
	}
}

// CourseUpdatedEvent returns the payload for a course patch.
func CourseUpdatedEvent(course *Course) *types.Event {
	return &types.Event{
		Type: EventTypeCourseUpdated,
		Attributes: map[string]string{
			"course":  course.ID,
			"version": strconv.FormatUint(uint64(course.Version), 10),
		},
	}
}

// CourseStatusChangedEvent returns the payload for an activation toggle.
func CourseStatusChangedEvent(course *Course) *types.Event {
	return &types.Event{
		Type: EventTypeCourseStatusChanged,
		Attributes: map[string]string{
			"course": course.ID,
			"active": strconv.FormatBool(course.Active),
		},
	}
}
