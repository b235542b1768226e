package enrollment

import "academychain/native/bitset"

// UnenrollCooldownSeconds is how long an unfinished enrollment must exist
// before it can be closed. Elapsed time must strictly exceed the cooldown.
const UnenrollCooldownSeconds = 86400

// Enrollment is the per-(learner, course) progress record. CompletedAt moves
// from zero to a timestamp exactly once; lesson bits are only ever set. The
// record is destroyed on close, which is the only terminal transition.
type Enrollment struct {
	Learner         [20]byte  `json:"learner"`
	CourseID        string    `json:"courseId"`
	EnrolledAt      uint64    `json:"enrolledAt"`
	EnrolledVersion uint32    `json:"enrolledVersion"`
	CompletedAt     uint64    `json:"completedAt,omitempty"`
	LessonFlags     [4]uint64 `json:"lessonFlags"`
	CredentialAsset string    `json:"credentialAsset,omitempty"`
	CredentialLevel uint8     `json:"credentialLevel,omitempty"`
}

// Clone returns a copy of the enrollment record.
func (e *Enrollment) Clone() *Enrollment {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

// Completed reports whether the enrollment has been finalized.
func (e *Enrollment) Completed() bool {
	return e != nil && e.CompletedAt != 0
}

// Flags returns the lesson bitmap as a bitset value.
func (e *Enrollment) Flags() bitset.Bitset256 {
	if e == nil {
		return bitset.Bitset256{}
	}
	return bitset.FromWords(e.LessonFlags)
}
