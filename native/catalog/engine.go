package catalog

import (
	"time"

	"academychain/core/events"
	"academychain/core/types"
	nativecommon "academychain/native/common"
)

const moduleName = "catalog"

type engineState interface {
	CourseGet(id string) (*Course, bool, error)
	CoursePut(course *Course) error
}

// Authorizer gates catalog mutations. Both the platform authority and the
// backend signer may manage courses; the backend acts on behalf of creators.
type Authorizer interface {
	RequireAuthority(caller [20]byte) error
	RequireBackend(caller [20]byte) error
}

// Engine owns the course catalog. Content changes are versioned; activation is
// a soft flag so in-flight enrollments keep their snapshot of the course.
type Engine struct {
	state   engineState
	auth    Authorizer
	emitter events.Emitter
	nowFn   func() int64
	pauses  nativecommon.PauseView
}

// NewEngine constructs a catalog engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetAuthorizer configures the capability registry consulted for mutations.
func (e *Engine) SetAuthorizer(auth Authorizer) { e.auth = auth }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetPauses configures the module pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func (e *Engine) requireManager(caller [20]byte) error {
	if e.auth == nil {
		return ErrNilAuthorizer
	}
	if err := e.auth.RequireAuthority(caller); err == nil {
		return nil
	}
	return e.auth.RequireBackend(caller)
}

func validateCourseID(id string) error {
	if id == "" || len(id) > MaxCourseIDLength {
		return ErrInvalidCourseID
	}
	return nil
}

func validateDifficulty(difficulty uint8) error {
	if difficulty < DifficultyBeginner || difficulty > DifficultyAdvanced {
		return ErrInvalidDifficulty
	}
	return nil
}

func (e *Engine) course(id string) (*Course, error) {
	course, ok, err := e.state.CourseGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// requirePrerequisite checks that a declared prerequisite names an existing
// catalog entry distinct from the course itself. Only depth-1 references are
// supported; the prerequisite's own prerequisite is not chased.
func (e *Engine) requirePrerequisite(courseID, prereq string) error {
	if prereq == "" {
		return nil
	}
	if prereq == courseID {
		return ErrSelfPrerequisite
	}
	if _, ok, err := e.state.CourseGet(prereq); err != nil {
		return err
	} else if !ok {
		return ErrPrerequisiteNotFound
	}
	return nil
}

// CreateCourse validates and inserts a new course at content version 1.
func (e *Engine) CreateCourse(caller [20]byte, course *Course) (*Course, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := e.requireManager(caller); err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrInvalidCourseID
	}
	id := NormalizeCourseID(course.ID)
	if err := validateCourseID(id); err != nil {
		return nil, err
	}
	if course.Creator == ([20]byte{}) {
		return nil, ErrZeroCreator
	}
	if course.LessonCount == 0 {
		return nil, ErrInvalidLessonCount
	}
	if err := validateDifficulty(course.Difficulty); err != nil {
		return nil, err
	}
	prereq := NormalizeCourseID(course.Prerequisite)
	if err := e.requirePrerequisite(id, prereq); err != nil {
		return nil, err
	}
	if _, ok, err := e.state.CourseGet(id); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrCourseExists
	}
	now := uint64(e.nowFn())
	record := course.Clone()
	record.ID = id
	record.Prerequisite = prereq
	record.Version = 1
	record.TotalEnrollments = 0
	record.TotalCompletions = 0
	record.Active = true
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := e.state.CoursePut(record); err != nil {
		return nil, err
	}
	e.emit(CourseCreatedEvent(record))
	return record.Clone(), nil
}

// UpdateCourse applies a patch to an existing course. Only supplied fields are
// revalidated; a content-hash change advances the version with a checked add.
func (e *Engine) UpdateCourse(caller [20]byte, id string, update CourseUpdate) (*Course, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := e.requireManager(caller); err != nil {
		return nil, err
	}
	id = NormalizeCourseID(id)
	course, err := e.course(id)
	if err != nil {
		return nil, err
	}
	if update.LessonCount != nil {
		if *update.LessonCount == 0 {
			return nil, ErrInvalidLessonCount
		}
	}
	if update.Difficulty != nil {
		if err := validateDifficulty(*update.Difficulty); err != nil {
			return nil, err
		}
	}
	var prereq string
	if update.Prerequisite != nil {
		prereq = NormalizeCourseID(*update.Prerequisite)
		if err := e.requirePrerequisite(id, prereq); err != nil {
			return nil, err
		}
	}
	if update.ContentHash != nil && *update.ContentHash != course.ContentHash {
		version, err := nativecommon.AddU32(course.Version, 1)
		if err != nil {
			return nil, err
		}
		course.ContentHash = *update.ContentHash
		course.Version = version
	}
	if update.LessonCount != nil {
		course.LessonCount = *update.LessonCount
	}
	if update.Difficulty != nil {
		course.Difficulty = *update.Difficulty
	}
	if update.XPPerLesson != nil {
		course.XPPerLesson = *update.XPPerLesson
	}
	if update.TrackID != nil {
		course.TrackID = *update.TrackID
	}
	if update.TrackLevel != nil {
		course.TrackLevel = *update.TrackLevel
	}
	if update.Prerequisite != nil {
		course.Prerequisite = prereq
	}
	if update.CreatorRewardXP != nil {
		course.CreatorRewardXP = *update.CreatorRewardXP
	}
	if update.MinCompletionsForReward != nil {
		course.MinCompletionsForReward = *update.MinCompletionsForReward
	}
	course.UpdatedAt = uint64(e.nowFn())
	if err := e.state.CoursePut(course); err != nil {
		return nil, err
	}
	e.emit(CourseUpdatedEvent(course))
	return course.Clone(), nil
}

// SetCourseActive toggles the activation flag. Deactivation blocks new
// enrollments only; learners already enrolled continue unaffected.
func (e *Engine) SetCourseActive(caller [20]byte, id string, active bool) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.requireManager(caller); err != nil {
		return err
	}
	id = NormalizeCourseID(id)
	course, err := e.course(id)
	if err != nil {
		return err
	}
	if course.Active == active {
		return nil
	}
	course.Active = active
	course.UpdatedAt = uint64(e.nowFn())
	if err := e.state.CoursePut(course); err != nil {
		return err
	}
	e.emit(CourseStatusChangedEvent(course))
	return nil
}

// Course returns the catalog record for id.
func (e *Engine) Course(id string) (*Course, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	course, err := e.course(NormalizeCourseID(id))
	if err != nil {
		return nil, err
	}
	return course.Clone(), nil
}
