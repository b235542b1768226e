package core

import (
	"log/slog"
	"strconv"

	"academychain/core/events"
	"academychain/core/state"
	"academychain/core/types"
	"academychain/native/achievement"
	"academychain/native/catalog"
	"academychain/native/economy"
	"academychain/native/enrollment"
	"academychain/native/roles"
	"academychain/observability/metrics"
	"academychain/storage"
)

// Academy wires the state manager, the capability registry and every native
// engine into one ledger facade. It exposes one method per state transition;
// the engines own the invariants, the facade owns wiring, logging and metrics.
type Academy struct {
	manager     *state.Manager
	registry    *roles.Registry
	economy     *economy.Engine
	catalog     *catalog.Engine
	enrollment  *enrollment.Engine
	achievement *achievement.Engine
	metrics     *metrics.AcademyMetrics
	log         *slog.Logger
}

// AcademyOption customises facade construction.
type AcademyOption func(*Academy)

// WithEmitter routes transition events to the provided emitter.
func WithEmitter(emitter events.Emitter) AcademyOption {
	return func(a *Academy) {
		a.setEmitter(emitter)
	}
}

// WithIssuer overrides the credential asset issuer.
func WithIssuer(issuer enrollment.AssetIssuer) AcademyOption {
	return func(a *Academy) {
		a.enrollment.SetIssuer(issuer)
	}
}

// WithLogger attaches a structured logger for transition outcomes.
func WithLogger(log *slog.Logger) AcademyOption {
	return func(a *Academy) {
		if log != nil {
			a.log = log
		}
	}
}

// WithNowFunc overrides the time source of every engine, for deterministic
// tests and replay.
func WithNowFunc(now func() int64) AcademyOption {
	return func(a *Academy) {
		a.registry.SetNowFunc(now)
		a.economy.SetNowFunc(now)
		a.catalog.SetNowFunc(now)
		a.enrollment.SetNowFunc(now)
		a.achievement.SetNowFunc(now)
	}
}

// NewAcademy constructs the ledger facade over the provided database.
func NewAcademy(db storage.Database, opts ...AcademyOption) *Academy {
	manager := state.NewManager(db)
	registry := roles.NewRegistry()
	registry.SetState(manager)
	registry.SetPauses(manager)

	econ := economy.NewEngine()
	econ.SetState(manager)
	econ.SetAuthorizer(registry)
	econ.SetTokenMinter(state.NewTokenMinter(manager))
	econ.SetPauses(manager)

	cat := catalog.NewEngine()
	cat.SetState(manager)
	cat.SetAuthorizer(registry)
	cat.SetPauses(manager)

	enr := enrollment.NewEngine()
	enr.SetState(manager)
	enr.SetEconomy(econ)
	enr.SetAuthorizer(registry)
	enr.SetPauses(manager)

	ach := achievement.NewEngine()
	ach.SetState(manager)
	ach.SetEconomy(econ)
	ach.SetAuthorizer(registry)
	ach.SetPauses(manager)

	academy := &Academy{
		manager:     manager,
		registry:    registry,
		economy:     econ,
		catalog:     cat,
		enrollment:  enr,
		achievement: ach,
		metrics:     metrics.Academy(),
		log:         slog.Default(),
	}
	academy.setEmitter(events.NoopEmitter{})
	for _, opt := range opts {
		opt(academy)
	}
	return academy
}

// setEmitter installs the emitter on every engine, wrapped so economy events
// also feed the XP metrics.
func (a *Academy) setEmitter(emitter events.Emitter) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	metered := meteredEmitter{next: emitter, metrics: a.metrics}
	a.registry.SetEmitter(metered)
	a.economy.SetEmitter(metered)
	a.catalog.SetEmitter(metered)
	a.enrollment.SetEmitter(metered)
	a.achievement.SetEmitter(metered)
}

// meteredEmitter tees events to the subscriber while lifting the economy
// issuance counters into prometheus.
type meteredEmitter struct {
	next    events.Emitter
	metrics *metrics.AcademyMetrics
}

func (m meteredEmitter) Emit(evt events.Event) {
	if carrier, ok := evt.(interface{ Event() *types.Event }); ok {
		if payload := carrier.Event(); payload != nil {
			switch payload.Type {
			case economy.EventTypeXPMinted:
				if amount, err := strconv.ParseUint(payload.Attributes["amount"], 10, 64); err == nil {
					m.metrics.AddXPMinted(payload.Attributes["reason"], amount)
				}
			case economy.EventTypeXPRewarded:
				if amount, err := strconv.ParseUint(payload.Attributes["amount"], 10, 64); err == nil {
					m.metrics.AddXPMinted("reward", amount)
				}
			case economy.EventTypeSeasonCreated, economy.EventTypeConfigInitialised:
				if season, err := strconv.ParseUint(payload.Attributes["season"], 10, 32); err == nil {
					m.metrics.SetCurrentSeason(uint32(season))
				}
			}
		}
	}
	if m.next != nil {
		m.next.Emit(evt)
	}
}

func (a *Academy) observe(op string, err error) {
	a.metrics.ObserveTransition(op, err)
	if err != nil {
		a.log.Warn("transition rejected", "op", op, "err", err)
		return
	}
	a.log.Debug("transition applied", "op", op)
}

// Manager exposes the underlying state manager for genesis tooling.
func (a *Academy) Manager() *state.Manager { return a.manager }

// Initialize registers the first season's reward token and writes the academy
// config singleton.
func (a *Academy) Initialize(authority, backend [20]byte, mint string, maxDailyXP, maxAchievementXP uint64) (*economy.AcademyConfig, error) {
	if err := a.ensureToken(mint); err != nil {
		a.observe("initialize", err)
		return nil, err
	}
	cfg, err := a.economy.Initialize(authority, backend, mint, maxDailyXP, maxAchievementXP)
	a.observe("initialize", err)
	return cfg, err
}

func (a *Academy) ensureToken(mint string) error {
	handle := economy.NormalizeMintHandle(mint)
	if handle == "" {
		return economy.ErrInvalidMintHandle
	}
	if a.manager.TokenExists(handle) {
		return nil
	}
	return a.manager.RegisterToken(handle, "Academy XP "+handle, 0)
}

// Config returns the academy config singleton.
func (a *Academy) Config() (*economy.AcademyConfig, error) {
	return a.economy.Config()
}

// SetLimits retunes the platform XP limits.
func (a *Academy) SetLimits(caller [20]byte, maxDailyXP, maxAchievementXP uint64) error {
	err := a.economy.SetLimits(caller, maxDailyXP, maxAchievementXP)
	a.observe("set_limits", err)
	return err
}

// CreateSeason opens the next reward season with a fresh token handle.
func (a *Academy) CreateSeason(caller [20]byte, number uint32, mint string) error {
	if err := a.ensureToken(mint); err != nil {
		a.observe("create_season", err)
		return err
	}
	err := a.economy.CreateSeason(caller, number, mint)
	a.observe("create_season", err)
	return err
}

// CloseSeason halts issuance for the active season.
func (a *Academy) CloseSeason(caller [20]byte) error {
	err := a.economy.CloseSeason(caller)
	a.observe("close_season", err)
	return err
}

// RewardXP mints through the caller's delegated minter role.
func (a *Academy) RewardXP(caller, recipient [20]byte, amount uint64, mint string) (*roles.MinterRole, error) {
	role, err := a.economy.RewardXP(caller, recipient, amount, mint)
	a.observe("reward_xp", err)
	return role, err
}

// RegisterMinter delegates a capped minting capability.
func (a *Academy) RegisterMinter(caller, minter [20]byte, label string, maxXPPerCall uint64) (*roles.MinterRole, error) {
	role, err := a.registry.RegisterMinter(caller, minter, label, maxXPPerCall)
	a.observe("register_minter", err)
	return role, err
}

// RevokeMinter deactivates a minter role.
func (a *Academy) RevokeMinter(caller, minter [20]byte) error {
	err := a.registry.RevokeMinter(caller, minter)
	a.observe("revoke_minter", err)
	return err
}

// RotateAuthority hands the platform authority to a new principal.
func (a *Academy) RotateAuthority(caller, next [20]byte) error {
	err := a.registry.RotateAuthority(caller, next)
	a.observe("rotate_authority", err)
	return err
}

// RotateBackend swaps the backend signer.
func (a *Academy) RotateBackend(caller, next [20]byte) error {
	err := a.registry.RotateBackend(caller, next)
	a.observe("rotate_backend", err)
	return err
}

// CreateCourse inserts a new course into the catalog.
func (a *Academy) CreateCourse(caller [20]byte, course *catalog.Course) (*catalog.Course, error) {
	created, err := a.catalog.CreateCourse(caller, course)
	a.observe("create_course", err)
	return created, err
}

// UpdateCourse applies a patch to an existing course.
func (a *Academy) UpdateCourse(caller [20]byte, id string, update catalog.CourseUpdate) (*catalog.Course, error) {
	updated, err := a.catalog.UpdateCourse(caller, id, update)
	a.observe("update_course", err)
	return updated, err
}

// SetCourseActive toggles a course's activation flag.
func (a *Academy) SetCourseActive(caller [20]byte, id string, active bool) error {
	err := a.catalog.SetCourseActive(caller, id, active)
	a.observe("set_course_active", err)
	return err
}

// Course returns the catalog record for id.
func (a *Academy) Course(id string) (*catalog.Course, error) {
	return a.catalog.Course(id)
}

// Courses returns the identifiers of every stored course.
func (a *Academy) Courses() ([]string, error) {
	return a.manager.CourseList()
}

// InitLearner creates the learner's profile.
func (a *Academy) InitLearner(learner [20]byte, referrer *[20]byte) (*types.LearnerProfile, error) {
	profile, err := a.enrollment.InitLearner(learner, referrer)
	a.observe("init_learner", err)
	if err == nil {
		a.metrics.LearnerInitialised()
	}
	return profile, err
}

// GrantStreakFreezes adds streak freezes to a learner's profile.
func (a *Academy) GrantStreakFreezes(caller, learner [20]byte, count uint8) (*types.LearnerProfile, error) {
	profile, err := a.enrollment.GrantStreakFreezes(caller, learner, count)
	a.observe("grant_streak_freezes", err)
	return profile, err
}

// Enroll creates the (learner, course) enrollment record.
func (a *Academy) Enroll(learner [20]byte, courseID string) (*enrollment.Enrollment, error) {
	record, err := a.enrollment.Enroll(learner, courseID)
	a.observe("enroll", err)
	return record, err
}

// CompleteLesson records one lesson completion with XP and streak effects.
func (a *Academy) CompleteLesson(learner [20]byte, courseID string, index uint8, mint string) (*enrollment.Enrollment, error) {
	record, err := a.enrollment.CompleteLesson(learner, courseID, index, mint)
	a.observe("complete_lesson", err)
	return record, err
}

// FinalizeCourse completes an enrollment and settles bonus and creator reward.
func (a *Academy) FinalizeCourse(learner [20]byte, courseID string, mint string) (*enrollment.Enrollment, error) {
	record, err := a.enrollment.FinalizeCourse(learner, courseID, mint)
	a.observe("finalize_course", err)
	return record, err
}

// IssueCredential mints the credential asset for a completed enrollment.
func (a *Academy) IssueCredential(learner [20]byte, courseID string, level uint8) (*enrollment.Enrollment, error) {
	record, err := a.enrollment.IssueCredential(learner, courseID, level)
	a.observe("issue_credential", err)
	return record, err
}

// UpgradeCredential raises the level of an existing credential.
func (a *Academy) UpgradeCredential(learner [20]byte, courseID string, asset string, level uint8) (*enrollment.Enrollment, error) {
	record, err := a.enrollment.UpgradeCredential(learner, courseID, asset, level)
	a.observe("upgrade_credential", err)
	return record, err
}

// CloseEnrollment destroys an enrollment record.
func (a *Academy) CloseEnrollment(learner [20]byte, courseID string) error {
	err := a.enrollment.CloseEnrollment(learner, courseID)
	a.observe("close_enrollment", err)
	return err
}

// Enrollment returns the record for (learner, course).
func (a *Academy) Enrollment(learner [20]byte, courseID string) (*enrollment.Enrollment, error) {
	return a.enrollment.Enrollment(learner, courseID)
}

// Profile returns the learner's profile.
func (a *Academy) Profile(learner [20]byte) (*types.LearnerProfile, error) {
	return a.enrollment.Profile(learner)
}

// CreateAchievementType registers a new achievement.
func (a *Academy) CreateAchievementType(caller [20]byte, record *achievement.AchievementType) (*achievement.AchievementType, error) {
	created, err := a.achievement.CreateAchievementType(caller, record)
	a.observe("create_achievement_type", err)
	return created, err
}

// SetAchievementActive toggles an achievement type's activation flag.
func (a *Academy) SetAchievementActive(caller [20]byte, id string, active bool) error {
	err := a.achievement.SetAchievementActive(caller, id, active)
	a.observe("set_achievement_active", err)
	return err
}

// AwardAchievement issues an achievement to a recipient at most once.
func (a *Academy) AwardAchievement(caller [20]byte, id string, recipient [20]byte, mint string) (*achievement.AchievementType, error) {
	record, err := a.achievement.Award(caller, id, recipient, mint)
	a.observe("award_achievement", err)
	return record, err
}

// ClaimAchievement is the learner-driven index-addressed claim path. It
// returns the XP actually minted after capping.
func (a *Academy) ClaimAchievement(learner [20]byte, index uint8, requestedXP uint64, mint string) (uint64, error) {
	minted, err := a.achievement.Claim(learner, index, requestedXP, mint)
	a.observe("claim_achievement", err)
	return minted, err
}

// Achievement returns the achievement type for id.
func (a *Academy) Achievement(id string) (*achievement.AchievementType, error) {
	return a.achievement.Achievement(id)
}

// Balance reports a learner's balance for the given reward token.
func (a *Academy) Balance(addr [20]byte, token string) (uint64, error) {
	return a.manager.Balance(addr, token)
}

// SetModulePaused toggles the administrative pause flag for a module.
// Authority only.
func (a *Academy) SetModulePaused(caller [20]byte, module string, paused bool) error {
	if err := a.registry.RequireAuthority(caller); err != nil {
		a.observe("set_module_paused", err)
		return err
	}
	err := a.manager.SetModulePaused(module, paused)
	a.observe("set_module_paused", err)
	return err
}
