package catalog

import "strings"

// MaxCourseIDLength bounds the slug identifier for a course.
const MaxCourseIDLength = 64

// Difficulty tiers form a closed three-value set.
const (
	DifficultyBeginner     uint8 = 1
	DifficultyIntermediate uint8 = 2
	DifficultyAdvanced     uint8 = 3
)

// Course is the catalog record for a single course. The content hash is an
// opaque reference; every change to it bumps Version. Courses are never
// deleted, only deactivated.
type Course struct {
	ID                      string   `json:"id"`
	Creator                 [20]byte `json:"creator"`
	ContentHash             [32]byte `json:"contentHash"`
	Version                 uint32   `json:"version"`
	LessonCount             uint8    `json:"lessonCount"`
	Difficulty              uint8    `json:"difficulty"`
	XPPerLesson             uint64   `json:"xpPerLesson"`
	TrackID                 uint32   `json:"trackId"`
	TrackLevel              uint8    `json:"trackLevel"`
	Prerequisite            string   `json:"prerequisite,omitempty"`
	CreatorRewardXP         uint64   `json:"creatorRewardXp"`
	MinCompletionsForReward uint32   `json:"minCompletionsForReward"`
	TotalEnrollments        uint32   `json:"totalEnrollments"`
	TotalCompletions        uint32   `json:"totalCompletions"`
	Active                  bool     `json:"active"`
	CreatedAt               uint64   `json:"createdAt"`
	UpdatedAt               uint64   `json:"updatedAt"`
}

// Clone returns a copy of the course record.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// NormalizeCourseID canonicalises a course slug.
func NormalizeCourseID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// CourseUpdate carries patch semantics for UpdateCourse. Nil fields are left
// untouched; a non-nil Prerequisite pointing at the empty string clears the
// prerequisite link.
type CourseUpdate struct {
	ContentHash             *[32]byte
	LessonCount             *uint8
	Difficulty              *uint8
	XPPerLesson             *uint64
	TrackID                 *uint32
	TrackLevel              *uint8
	Prerequisite            *string
	CreatorRewardXP         *uint64
	MinCompletionsForReward *uint32
}
