package catalog

import "errors"

var (
	ErrNilState             = errors.New("catalog: state not configured")
	ErrNilAuthorizer        = errors.New("catalog: authorizer not configured")
	ErrCourseExists         = errors.New("catalog: course already exists")
	ErrCourseNotFound       = errors.New("catalog: course not found")
	ErrInvalidCourseID      = errors.New("catalog: invalid course identifier")
	ErrInvalidLessonCount   = errors.New("catalog: lesson count out of range")
	ErrInvalidDifficulty    = errors.New("catalog: difficulty out of range")
	ErrSelfPrerequisite     = errors.New("catalog: course cannot require itself")
	ErrPrerequisiteNotFound = errors.New("catalog: prerequisite course not found")
	ErrZeroCreator          = errors.New("catalog: creator address must be set")
)
