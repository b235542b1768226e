package enrollment

import "errors"

var (
	ErrNilState               = errors.New("enrollment: state not configured")
	ErrNilEconomy             = errors.New("enrollment: xp economy not configured")
	ErrNilIssuer              = errors.New("enrollment: asset issuer not configured")
	ErrNilAuthorizer          = errors.New("enrollment: authorizer not configured")
	ErrProfileExists          = errors.New("enrollment: learner profile already exists")
	ErrProfileNotFound        = errors.New("enrollment: learner profile not found")
	ErrReferrerNotFound       = errors.New("enrollment: referrer profile not found")
	ErrSelfReferral           = errors.New("enrollment: learner cannot refer themselves")
	ErrCourseInactive         = errors.New("enrollment: course is not active")
	ErrAlreadyEnrolled        = errors.New("enrollment: learner already enrolled")
	ErrNotEnrolled            = errors.New("enrollment: learner not enrolled")
	ErrPrerequisiteNotMet     = errors.New("enrollment: prerequisite course not completed")
	ErrLessonOutOfRange       = errors.New("enrollment: lesson index out of range")
	ErrLessonAlreadyCompleted = errors.New("enrollment: lesson already completed")
	ErrAlreadyCompleted       = errors.New("enrollment: course already completed")
	ErrCourseNotCompleted     = errors.New("enrollment: not all lessons completed")
	ErrNotCompleted           = errors.New("enrollment: course not completed")
	ErrAlreadyIssued          = errors.New("enrollment: credential already issued")
	ErrNoCredential           = errors.New("enrollment: no credential issued")
	ErrAssetMismatch          = errors.New("enrollment: credential asset mismatch")
	ErrLevelNotRaised         = errors.New("enrollment: credential level must increase")
	ErrInvalidLevel           = errors.New("enrollment: credential level must be positive")
	ErrUnenrollCooldown       = errors.New("enrollment: unenroll cooldown not elapsed")
)
