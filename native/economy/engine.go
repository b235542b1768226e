package economy

import (
	"time"

	"academychain/core/events"
	"academychain/core/types"
	nativecommon "academychain/native/common"
	"academychain/native/roles"
)

const moduleName = "economy"

// Mint reasons carried on XPMinted events.
const (
	ReasonLesson          = "lesson"
	ReasonCompletionBonus = "completion_bonus"
	ReasonCreatorReward   = "creator_reward"
	ReasonAchievement     = "achievement"
	ReasonClaim           = "claim"
)

type engineState interface {
	AcademyConfigGet() (*AcademyConfig, bool, error)
	AcademyConfigPut(cfg *AcademyConfig) error
	MinterRolePut(role *roles.MinterRole) error
}

// Authorizer gates every privileged economy transition. The roles registry is
// the canonical implementation.
type Authorizer interface {
	RequireAuthority(caller [20]byte) error
	RequireBackend(caller [20]byte) error
	RequireMinter(caller [20]byte) (*roles.MinterRole, error)
}

// Engine owns the season ledger and every XP issuance path. All mutations are
// precondition-checked before any record is written, so a failed call leaves
// no partial effects.
type Engine struct {
	state   engineState
	auth    Authorizer
	minter  TokenMinter
	emitter events.Emitter
	nowFn   func() int64
	pauses  nativecommon.PauseView
}

// NewEngine constructs an economy engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetAuthorizer configures the capability registry consulted for every
// privileged call.
func (e *Engine) SetAuthorizer(auth Authorizer) { e.auth = auth }

// SetTokenMinter configures the injected token-issuance capability.
func (e *Engine) SetTokenMinter(minter TokenMinter) { e.minter = minter }

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

func (e *Engine) config() (*AcademyConfig, error) {
	cfg, ok, err := e.state.AcademyConfigGet()
	if err != nil {
		return nil, err
	}
	if !ok || cfg == nil {
		return nil, ErrConfigMissing
	}
	return cfg, nil
}

// Initialize writes the academy config singleton at genesis. Season numbering
// starts at 1 with issuance open against the supplied mint handle.
func (e *Engine) Initialize(authority, backend [20]byte, mint string, maxDailyXP, maxAchievementXP uint64) (*AcademyConfig, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	mint = NormalizeMintHandle(mint)
	if mint == "" {
		return nil, ErrInvalidMintHandle
	}
	if _, ok, err := e.state.AcademyConfigGet(); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrConfigExists
	}
	cfg := &AcademyConfig{
		Authority:        authority,
		BackendSigner:    backend,
		CurrentSeason:    1,
		ActiveMint:       mint,
		SeasonClosed:     false,
		SeasonStartedAt:  uint64(e.nowFn()),
		MaxDailyXP:       maxDailyXP,
		MaxAchievementXP: maxAchievementXP,
	}
	if err := e.state.AcademyConfigPut(cfg); err != nil {
		return nil, err
	}
	e.emit(ConfigInitialisedEvent(cfg))
	return cfg.Clone(), nil
}

// Config returns the current academy config.
func (e *Engine) Config() (*AcademyConfig, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}

// SetLimits retunes the platform XP limits. Authority only.
func (e *Engine) SetLimits(caller [20]byte, maxDailyXP, maxAchievementXP uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.auth == nil {
		return ErrNilAuthorizer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.auth.RequireAuthority(caller); err != nil {
		return err
	}
	cfg, err := e.config()
	if err != nil {
		return err
	}
	cfg.MaxDailyXP = maxDailyXP
	cfg.MaxAchievementXP = maxAchievementXP
	if err := e.state.AcademyConfigPut(cfg); err != nil {
		return err
	}
	e.emit(LimitsUpdatedEvent(cfg))
	return nil
}

// CreateSeason opens season number with a fresh mint handle. Seasons are
// strictly sequential; skipping or replaying a number is rejected before any
// mutation.
func (e *Engine) CreateSeason(caller [20]byte, number uint32, mint string) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.auth == nil {
		return ErrNilAuthorizer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.auth.RequireAuthority(caller); err != nil {
		return err
	}
	mint = NormalizeMintHandle(mint)
	if mint == "" {
		return ErrInvalidMintHandle
	}
	cfg, err := e.config()
	if err != nil {
		return err
	}
	next, err := nativecommon.AddU32(cfg.CurrentSeason, 1)
	if err != nil {
		return err
	}
	if number != next {
		return ErrSeasonNotSequential
	}
	cfg.CurrentSeason = next
	cfg.ActiveMint = mint
	cfg.SeasonClosed = false
	cfg.SeasonStartedAt = uint64(e.nowFn())
	if err := e.state.AcademyConfigPut(cfg); err != nil {
		return err
	}
	e.emit(SeasonCreatedEvent(cfg.CurrentSeason, cfg.ActiveMint))
	return nil
}

// CloseSeason halts issuance until the next CreateSeason. Closing an already
// closed season is a state conflict, not a silent no-op.
func (e *Engine) CloseSeason(caller [20]byte) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.auth == nil {
		return ErrNilAuthorizer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.auth.RequireAuthority(caller); err != nil {
		return err
	}
	cfg, err := e.config()
	if err != nil {
		return err
	}
	if cfg.SeasonClosed {
		return ErrSeasonAlreadyClosed
	}
	cfg.SeasonClosed = true
	if err := e.state.AcademyConfigPut(cfg); err != nil {
		return err
	}
	e.emit(SeasonClosedEvent(cfg.CurrentSeason))
	return nil
}

// requireOpenSeason validates the supplied mint handle against the active
// season. Stale handles from a previous season are rejected even while the
// season is open.
func (e *Engine) requireOpenSeason(mint string) (*AcademyConfig, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	if NormalizeMintHandle(mint) != cfg.ActiveMint {
		return nil, ErrStaleMintHandle
	}
	if cfg.SeasonClosed {
		return nil, ErrSeasonClosed
	}
	return cfg, nil
}

// MintXP issues amount to recipient against the active season. It is the
// platform-authorised path used by lesson completion, completion bonuses,
// creator rewards and achievements. A zero amount still validates the season
// and mint handle but issues nothing.
func (e *Engine) MintXP(recipient [20]byte, amount uint64, mint string, reason string) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.minter == nil {
		return ErrNilMinter
	}
	cfg, err := e.requireOpenSeason(mint)
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	if err := e.minter.Mint(cfg.ActiveMint, recipient, amount); err != nil {
		return err
	}
	e.emit(XPMintedEvent(recipient, amount, cfg.ActiveMint, reason))
	return nil
}

// RewardXP is the role-based minting path. The amount is bounded by the
// minter's per-call cap (0 = unlimited) and accumulated into the lifetime
// counter with a checked add; either everything lands or nothing does.
func (e *Engine) RewardXP(caller [20]byte, recipient [20]byte, amount uint64, mint string) (*roles.MinterRole, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.auth == nil {
		return nil, ErrNilAuthorizer
	}
	if e.minter == nil {
		return nil, ErrNilMinter
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	role, err := e.auth.RequireMinter(caller)
	if err != nil {
		return nil, err
	}
	if role.MaxXPPerCall > 0 && amount > role.MaxXPPerCall {
		return nil, ErrMintCapExceeded
	}
	cfg, err := e.requireOpenSeason(mint)
	if err != nil {
		return nil, err
	}
	total, err := nativecommon.AddU64(role.TotalXPMinted, amount)
	if err != nil {
		return nil, err
	}
	if err := e.minter.Mint(cfg.ActiveMint, recipient, amount); err != nil {
		return nil, err
	}
	role.TotalXPMinted = total
	if err := e.state.MinterRolePut(role); err != nil {
		return nil, err
	}
	e.emit(XPRewardedEvent(role.Minter, recipient, amount, role.TotalXPMinted))
	return role.Clone(), nil
}
