package enrollment

import (
	"encoding/hex"
	"strconv"

	"academychain/core/events"
	"academychain/core/types"
)

const (
	// EventTypeLearnerInitialised is emitted when a learner profile is created.
	EventTypeLearnerInitialised = "enrollment.learner.initialised"
	// EventTypeFreezesGranted is emitted when the backend grants streak freezes.
	EventTypeFreezesGranted = "enrollment.freezes.granted"
	// EventTypeEnrolled is emitted when an enrollment record is created.
	EventTypeEnrolled = "enrollment.enrolled"
	// EventTypeLessonCompleted is emitted for every newly set lesson bit.
	EventTypeLessonCompleted = "enrollment.lesson.completed"
	// EventTypeStreakBroken carries the streak value held before a reset.
	EventTypeStreakBroken = "enrollment.streak.broken"
	// EventTypeStreakMilestone is emitted when a streak hits a milestone value.
	EventTypeStreakMilestone = "enrollment.streak.milestone"
	// EventTypeCourseFinalized is emitted when an enrollment completes.
	EventTypeCourseFinalized = "enrollment.course.finalized"
	// EventTypeCredentialIssued is emitted on first credential issuance.
	EventTypeCredentialIssued = "enrollment.credential.issued"
	// EventTypeCredentialUpgraded is emitted when a credential level rises.
	EventTypeCredentialUpgraded = "enrollment.credential.upgraded"
	// EventTypeClosed is emitted when the record is destroyed.
	EventTypeClosed = "enrollment.closed"
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

// LearnerInitialisedEvent returns the payload for profile creation.
func LearnerInitialisedEvent(profile *types.LearnerProfile) *types.Event {
	return &types.Event{
		Type: EventTypeLearnerInitialised,
		Attributes: map[string]string{
			"learner":     hexAddr(profile.Address),
			"hasReferrer": strconv.FormatBool(profile.HasReferrer),
		},
	}
}

// FreezesGrantedEvent returns the payload for a streak-freeze grant.
func FreezesGrantedEvent(learner [20]byte, granted uint8, remaining uint8) *types.Event {
	return &types.Event{
		Type: EventTypeFreezesGranted,
		Attributes: map[string]string{
			"learner":   hexAddr(learner),
			"granted":   strconv.FormatUint(uint64(granted), 10),
			"remaining": strconv.FormatUint(uint64(remaining), 10),
		},
	}
}

// EnrolledEvent returns the payload for an enrollment.
func EnrolledEvent(record *Enrollment) *types.Event {
	return &types.Event{
		Type: EventTypeEnrolled,
		Attributes: map[string]string{
			"learner": hexAddr(record.Learner),
			"course":  record.CourseID,
			"version": strconv.FormatUint(uint64(record.EnrolledVersion), 10),
		},
	}
}

// LessonCompletedEvent returns the payload for a lesson completion.
func LessonCompletedEvent(record *Enrollment, index uint8, xp uint64) *types.Event {
	return &types.Event{
		Type: EventTypeLessonCompleted,
		Attributes: map[string]string{
			"learner": hexAddr(record.Learner),
			"course":  record.CourseID,
			"lesson":  strconv.FormatUint(uint64(index), 10),
			"xp":      strconv.FormatUint(xp, 10),
		},
	}
}

// StreakBrokenEvent returns the payload for a streak reset.
func StreakBrokenEvent(learner [20]byte, priorStreak uint32) *types.Event {
	return &types.Event{
		Type: EventTypeStreakBroken,
		Attributes: map[string]string{
			"learner":     hexAddr(learner),
			"priorStreak": strconv.FormatUint(uint64(priorStreak), 10),
		},
	}
}

// StreakMilestoneEvent returns the payload for a streak milestone.
func StreakMilestoneEvent(learner [20]byte, milestone uint32) *types.Event {
	return &types.Event{
		Type: EventTypeStreakMilestone,
		Attributes: map[string]string{
			"learner":   hexAddr(learner),
			"milestone": strconv.FormatUint(uint64(milestone), 10),
		},
	}
}

// CourseFinalizedEvent returns the payload for a finalization, including the
// bonus minted to the learner and any creator reward triggered by this call.
func CourseFinalizedEvent(record *Enrollment, bonus, creatorReward uint64) *types.Event {
	return &types.Event{
		Type: EventTypeCourseFinalized,
		Attributes: map[string]string{
			"learner":       hexAddr(record.Learner),
			"course":        record.CourseID,
			"bonus":         strconv.FormatUint(bonus, 10),
			"creatorReward": strconv.FormatUint(creatorReward, 10),
		},
	}
}

// CredentialIssuedEvent returns the payload for a first credential issuance.
func CredentialIssuedEvent(record *Enrollment) *types.Event {
	return &types.Event{
		Type: EventTypeCredentialIssued,
		Attributes: map[string]string{
			"learner": hexAddr(record.Learner),
			"course":  record.CourseID,
			"asset":   record.CredentialAsset,
			"level":   strconv.FormatUint(uint64(record.CredentialLevel), 10),
		},
	}
}

// CredentialUpgradedEvent returns the payload for a credential level raise.
func CredentialUpgradedEvent(record *Enrollment) *types.Event {
	return &types.Event{
		Type: EventTypeCredentialUpgraded,
		Attributes: map[string]string{
			"learner": hexAddr(record.Learner),
			"course":  record.CourseID,
			"asset":   record.CredentialAsset,
			"level":   strconv.FormatUint(uint64(record.CredentialLevel), 10),
		},
	}
}

// ClosedEvent returns the payload for a record destruction.
func ClosedEvent(learner [20]byte, courseID string, completed bool) *types.Event {
	return &types.Event{
		Type: EventTypeClosed,
		Attributes: map[string]string{
			"learner":   hexAddr(learner),
			"course":    courseID,
			"completed": strconv.FormatBool(completed),
		},
	}
}
