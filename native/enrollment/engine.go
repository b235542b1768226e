package enrollment

import (
	"time"

	"academychain/core/events"
	"academychain/core/types"
	"academychain/native/catalog"
	nativecommon "academychain/native/common"
	"academychain/native/economy"
	"academychain/native/limiter"
	"academychain/native/streak"
)

const moduleName = "enrollment"

type engineState interface {
	CourseGet(id string) (*catalog.Course, bool, error)
	CoursePut(course *catalog.Course) error
	EnrollmentGet(learner [20]byte, courseID string) (*Enrollment, bool, error)
	EnrollmentPut(record *Enrollment) error
	EnrollmentDelete(learner [20]byte, courseID string) error
	LearnerProfileGet(addr [20]byte) (*types.LearnerProfile, bool, error)
	LearnerProfilePut(profile *types.LearnerProfile) error
}

// XPEconomy is the slice of the economy engine the enrollment machine needs:
// the platform limits and the platform-authorised mint path.
type XPEconomy interface {
	Config() (*economy.AcademyConfig, error)
	MintXP(recipient [20]byte, amount uint64, mint string, reason string) error
}

// Authorizer gates the backend-only operations (streak-freeze grants).
type Authorizer interface {
	RequireBackend(caller [20]byte) error
}

// Engine drives the per-(learner, course) enrollment lifecycle from Enroll
// through lesson completion and finalization to credential issuance or record
// destruction. Every transition validates completely before mutating anything.
type Engine struct {
	state   engineState
	economy XPEconomy
	issuer  AssetIssuer
	auth    Authorizer
	emitter events.Emitter
	nowFn   func() int64
	pauses  nativecommon.PauseView
}

// NewEngine constructs an enrollment engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		issuer:  UUIDIssuer{},
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEconomy configures the XP issuance collaborator.
func (e *Engine) SetEconomy(econ XPEconomy) { e.economy = econ }

// SetIssuer configures the credential asset issuer. Passing nil restores the
// default UUID issuer.
func (e *Engine) SetIssuer(issuer AssetIssuer) {
	if issuer == nil {
		e.issuer = UUIDIssuer{}
		return
	}
	e.issuer = issuer
}

// SetAuthorizer configures the capability registry for backend-gated calls.
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

func (e *Engine) course(id string) (*catalog.Course, error) {
	course, ok, err := e.state.CourseGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || course == nil {
		return nil, catalog.ErrCourseNotFound
	}
	return course, nil
}

func (e *Engine) record(learner [20]byte, courseID string) (*Enrollment, error) {
	record, ok, err := e.state.EnrollmentGet(learner, courseID)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotEnrolled
	}
	return record, nil
}

func (e *Engine) profile(learner [20]byte) (*types.LearnerProfile, error) {
	profile, ok, err := e.state.LearnerProfileGet(learner)
	if err != nil {
		return nil, err
	}
	if !ok || profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// InitLearner creates the learner's profile. A non-nil referrer must name an
// existing learner other than the caller; their referral counter advances in
// the same transition.
func (e *Engine) InitLearner(learner [20]byte, referrer *[20]byte) (*types.LearnerProfile, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if _, ok, err := e.state.LearnerProfileGet(learner); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrProfileExists
	}
	hasReferrer := referrer != nil && *referrer != ([20]byte{})
	var referrerProfile *types.LearnerProfile
	if hasReferrer {
		if *referrer == learner {
			return nil, ErrSelfReferral
		}
		existing, ok, err := e.state.LearnerProfileGet(*referrer)
		if err != nil {
			return nil, err
		}
		if !ok || existing == nil {
			return nil, ErrReferrerNotFound
		}
		count, err := nativecommon.AddU32(existing.ReferralCount, 1)
		if err != nil {
			return nil, err
		}
		existing.ReferralCount = count
		referrerProfile = existing
	}
	profile := &types.LearnerProfile{
		Address:     learner,
		HasReferrer: hasReferrer,
		CreatedAt:   uint64(e.nowFn()),
	}
	if referrerProfile != nil {
		if err := e.state.LearnerProfilePut(referrerProfile); err != nil {
			return nil, err
		}
	}
	if err := e.state.LearnerProfilePut(profile); err != nil {
		return nil, err
	}
	e.emit(LearnerInitialisedEvent(profile))
	return profile.Clone(), nil
}

// GrantStreakFreezes adds count freezes to the learner's profile, saturating
// at the counter maximum. Backend signer only.
func (e *Engine) GrantStreakFreezes(caller [20]byte, learner [20]byte, count uint8) (*types.LearnerProfile, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.auth == nil {
		return nil, ErrNilAuthorizer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := e.auth.RequireBackend(caller); err != nil {
		return nil, err
	}
	profile, err := e.profile(learner)
	if err != nil {
		return nil, err
	}
	profile.StreakFreezes = nativecommon.SaturatingAddU8(profile.StreakFreezes, count)
	if err := e.state.LearnerProfilePut(profile); err != nil {
		return nil, err
	}
	e.emit(FreezesGrantedEvent(learner, count, profile.StreakFreezes))
	return profile.Clone(), nil
}

// Enroll creates the (learner, course) record. The course must be active, and
// when it declares a prerequisite the learner must hold a completed enrollment
// for that exact course.
func (e *Engine) Enroll(learner [20]byte, courseID string) (*Enrollment, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	courseID = catalog.NormalizeCourseID(courseID)
	course, err := e.course(courseID)
	if err != nil {
		return nil, err
	}
	if !course.Active {
		return nil, ErrCourseInactive
	}
	if _, err := e.profile(learner); err != nil {
		return nil, err
	}
	if _, ok, err := e.state.EnrollmentGet(learner, courseID); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyEnrolled
	}
	if course.Prerequisite != "" {
		proof, ok, err := e.state.EnrollmentGet(learner, course.Prerequisite)
		if err != nil {
			return nil, err
		}
		if !ok || !proof.Completed() || proof.CourseID != course.Prerequisite {
			return nil, ErrPrerequisiteNotMet
		}
	}
	enrollments, err := nativecommon.AddU32(course.TotalEnrollments, 1)
	if err != nil {
		return nil, err
	}
	course.TotalEnrollments = enrollments
	record := &Enrollment{
		Learner:         learner,
		CourseID:        courseID,
		EnrolledAt:      uint64(e.nowFn()),
		EnrolledVersion: course.Version,
	}
	if err := e.state.CoursePut(course); err != nil {
		return nil, err
	}
	if err := e.state.EnrollmentPut(record); err != nil {
		return nil, err
	}
	e.emit(EnrolledEvent(record))
	return record.Clone(), nil
}

// CompleteLesson sets the lesson bit, charges the daily XP budget, advances
// the streak and mints the lesson XP. The caller supplies the current season's
// mint handle; stale handles abort before any mutation.
func (e *Engine) CompleteLesson(learner [20]byte, courseID string, index uint8, mint string) (*Enrollment, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.economy == nil {
		return nil, ErrNilEconomy
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	courseID = catalog.NormalizeCourseID(courseID)
	record, err := e.record(learner, courseID)
	if err != nil {
		return nil, err
	}
	if record.Completed() {
		return nil, ErrAlreadyCompleted
	}
	course, err := e.course(courseID)
	if err != nil {
		return nil, err
	}
	if uint32(index) >= uint32(course.LessonCount) {
		return nil, ErrLessonOutOfRange
	}
	flags := record.Flags()
	if flags.IsSet(index) {
		return nil, ErrLessonAlreadyCompleted
	}
	profile, err := e.profile(learner)
	if err != nil {
		return nil, err
	}
	cfg, err := e.economy.Config()
	if err != nil {
		return nil, err
	}
	nowDay := limiter.DayIndex(e.nowFn())
	meter, err := limiter.CheckAndReserve(
		limiter.Meter{EarnedToday: profile.XPEarnedToday, Day: profile.XPDay},
		nowDay, course.XPPerLesson, cfg.MaxDailyXP,
	)
	if err != nil {
		return nil, err
	}
	streakState, outcome, err := streak.Apply(streak.State{
		Current:         profile.CurrentStreak,
		Longest:         profile.LongestStreak,
		LastActivityDay: profile.LastActivityDay,
		Freezes:         profile.StreakFreezes,
	}, nowDay)
	if err != nil {
		return nil, err
	}
	if err := e.economy.MintXP(learner, course.XPPerLesson, mint, economy.ReasonLesson); err != nil {
		return nil, err
	}
	record.LessonFlags = flags.Set(index).Words64()
	profile.XPEarnedToday = meter.EarnedToday
	profile.XPDay = meter.Day
	profile.CurrentStreak = streakState.Current
	profile.LongestStreak = streakState.Longest
	profile.LastActivityDay = streakState.LastActivityDay
	profile.StreakFreezes = streakState.Freezes
	if err := e.state.LearnerProfilePut(profile); err != nil {
		return nil, err
	}
	if err := e.state.EnrollmentPut(record); err != nil {
		return nil, err
	}
	e.emit(LessonCompletedEvent(record, index, course.XPPerLesson))
	if outcome.Broken {
		e.emit(StreakBrokenEvent(learner, outcome.PriorStreak))
	}
	if outcome.Milestone > 0 {
		e.emit(StreakMilestoneEvent(learner, outcome.Milestone))
	}
	return record.Clone(), nil
}

// FinalizeCourse moves a fully completed enrollment to Completed, mints the
// completion bonus to the learner and, once the course's completion total
// reaches the creator's threshold, the creator reward. The threshold check
// uses the post-increment total, so the crossing completion also pays out.
func (e *Engine) FinalizeCourse(learner [20]byte, courseID string, mint string) (*Enrollment, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.economy == nil {
		return nil, ErrNilEconomy
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	courseID = catalog.NormalizeCourseID(courseID)
	record, err := e.record(learner, courseID)
	if err != nil {
		return nil, err
	}
	if record.Completed() {
		return nil, ErrAlreadyCompleted
	}
	course, err := e.course(courseID)
	if err != nil {
		return nil, err
	}
	if record.Flags().Count() != uint32(course.LessonCount) {
		return nil, ErrCourseNotCompleted
	}
	completions, err := nativecommon.AddU32(course.TotalCompletions, 1)
	if err != nil {
		return nil, err
	}
	totalLessonXP, err := nativecommon.MulU64(uint64(course.LessonCount), course.XPPerLesson)
	if err != nil {
		return nil, err
	}
	bonus := totalLessonXP / 2
	var creatorReward uint64
	if completions >= course.MinCompletionsForReward {
		creatorReward = course.CreatorRewardXP
	}
	if err := e.economy.MintXP(learner, bonus, mint, economy.ReasonCompletionBonus); err != nil {
		return nil, err
	}
	if creatorReward > 0 {
		if err := e.economy.MintXP(course.Creator, creatorReward, mint, economy.ReasonCreatorReward); err != nil {
			return nil, err
		}
	}
	course.TotalCompletions = completions
	record.CompletedAt = uint64(e.nowFn())
	if err := e.state.CoursePut(course); err != nil {
		return nil, err
	}
	if err := e.state.EnrollmentPut(record); err != nil {
		return nil, err
	}
	e.emit(CourseFinalizedEvent(record, bonus, creatorReward))
	return record.Clone(), nil
}

// IssueCredential mints the credential asset for a completed enrollment and
// records its reference and level. Issuance happens at most once.
func (e *Engine) IssueCredential(learner [20]byte, courseID string, level uint8) (*Enrollment, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.issuer == nil {
		return nil, ErrNilIssuer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if level == 0 {
		return nil, ErrInvalidLevel
	}
	courseID = catalog.NormalizeCourseID(courseID)
	record, err := e.record(learner, courseID)
	if err != nil {
		return nil, err
	}
	if !record.Completed() {
		return nil, ErrNotCompleted
	}
	if record.CredentialAsset != "" {
		return nil, ErrAlreadyIssued
	}
	asset, err := e.issuer.Issue(learner, courseID, level)
	if err != nil {
		return nil, err
	}
	record.CredentialAsset = asset
	record.CredentialLevel = level
	if err := e.state.EnrollmentPut(record); err != nil {
		return nil, err
	}
	e.emit(CredentialIssuedEvent(record))
	return record.Clone(), nil
}

// UpgradeCredential raises the recorded level of an existing credential. The
// supplied asset reference must match the stored one and the level must be
// strictly higher.
func (e *Engine) UpgradeCredential(learner [20]byte, courseID string, asset string, level uint8) (*Enrollment, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.issuer == nil {
		return nil, ErrNilIssuer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	courseID = catalog.NormalizeCourseID(courseID)
	record, err := e.record(learner, courseID)
	if err != nil {
		return nil, err
	}
	if !record.Completed() {
		return nil, ErrNotCompleted
	}
	if record.CredentialAsset == "" {
		return nil, ErrNoCredential
	}
	if asset != record.CredentialAsset {
		return nil, ErrAssetMismatch
	}
	if level <= record.CredentialLevel {
		return nil, ErrLevelNotRaised
	}
	if err := e.issuer.Upgrade(learner, asset, level); err != nil {
		return nil, err
	}
	record.CredentialLevel = level
	if err := e.state.EnrollmentPut(record); err != nil {
		return nil, err
	}
	e.emit(CredentialUpgradedEvent(record))
	return record.Clone(), nil
}

// CloseEnrollment destroys the record and reclaims its storage. A completed
// enrollment closes unconditionally; an unfinished one only after strictly
// more than the unenroll cooldown has elapsed since enrollment.
func (e *Engine) CloseEnrollment(learner [20]byte, courseID string) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	courseID = catalog.NormalizeCourseID(courseID)
	record, err := e.record(learner, courseID)
	if err != nil {
		return err
	}
	if !record.Completed() {
		now := uint64(e.nowFn())
		var elapsed uint64
		if now > record.EnrolledAt {
			elapsed = now - record.EnrolledAt
		}
		if elapsed <= UnenrollCooldownSeconds {
			return ErrUnenrollCooldown
		}
	}
	if err := e.state.EnrollmentDelete(learner, courseID); err != nil {
		return err
	}
	e.emit(ClosedEvent(learner, courseID, record.Completed()))
	return nil
}

// Enrollment returns the record for (learner, course).
func (e *Engine) Enrollment(learner [20]byte, courseID string) (*Enrollment, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	record, err := e.record(learner, catalog.NormalizeCourseID(courseID))
	if err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Profile returns the learner's profile.
func (e *Engine) Profile(learner [20]byte) (*types.LearnerProfile, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	profile, err := e.profile(learner)
	if err != nil {
		return nil, err
	}
	return profile.Clone(), nil
}
