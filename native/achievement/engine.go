package achievement

import (
	"time"

	"academychain/core/events"
	"academychain/core/types"
	"academychain/native/bitset"
	nativecommon "academychain/native/common"
	"academychain/native/economy"
	"academychain/native/limiter"
	"academychain/native/roles"
)

const moduleName = "achievement"

type engineState interface {
	AchievementTypeGet(id string) (*AchievementType, bool, error)
	AchievementTypePut(achievement *AchievementType) error
	AchievementReceiptGet(id string, recipient [20]byte) (*AchievementReceipt, bool, error)
	AchievementReceiptPut(receipt *AchievementReceipt) error
	LearnerProfileGet(addr [20]byte) (*types.LearnerProfile, bool, error)
	LearnerProfilePut(profile *types.LearnerProfile) error
}

// XPEconomy is the slice of the economy engine the issuer needs.
type XPEconomy interface {
	Config() (*economy.AcademyConfig, error)
	MintXP(recipient [20]byte, amount uint64, mint string, reason string) error
}

// Authorizer gates achievement-type management and awards.
type Authorizer interface {
	RequireAuthority(caller [20]byte) error
	RequireMinter(caller [20]byte) (*roles.MinterRole, error)
}

// Engine manages achievement types and the two issuance paths: receipt-guarded
// awards and index-addressed claims against the learner's profile bitmap.
type Engine struct {
	state   engineState
	economy XPEconomy
	auth    Authorizer
	emitter events.Emitter
	nowFn   func() int64
	pauses  nativecommon.PauseView
}

// NewEngine constructs an achievement engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEconomy configures the XP issuance collaborator.
func (e *Engine) SetEconomy(econ XPEconomy) { e.economy = econ }

// SetAuthorizer configures the capability registry.
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

func (e *Engine) achievement(id string) (*AchievementType, error) {
	achievement, ok, err := e.state.AchievementTypeGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || achievement == nil {
		return nil, ErrAchievementNotFound
	}
	return achievement, nil
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

// CreateAchievementType registers a new achievement. Authority only. Supply
// starts at zero against the declared cap; the XP reward must be positive.
func (e *Engine) CreateAchievementType(caller [20]byte, achievement *AchievementType) (*AchievementType, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.auth == nil {
		return nil, ErrNilAuthorizer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := e.auth.RequireAuthority(caller); err != nil {
		return nil, err
	}
	if achievement == nil {
		return nil, ErrInvalidID
	}
	id := NormalizeAchievementID(achievement.ID)
	if id == "" || len(id) > MaxIDLength {
		return nil, ErrInvalidID
	}
	if achievement.Name == "" || len(achievement.Name) > MaxNameLength {
		return nil, ErrInvalidName
	}
	if achievement.MetadataURI == "" || len(achievement.MetadataURI) > MaxURILength {
		return nil, ErrInvalidURI
	}
	if achievement.XPReward == 0 {
		return nil, ErrInvalidXPReward
	}
	if _, ok, err := e.state.AchievementTypeGet(id); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAchievementExists
	}
	record := achievement.Clone()
	record.ID = id
	record.CurrentSupply = 0
	record.Active = true
	record.CreatedAt = uint64(e.nowFn())
	if err := e.state.AchievementTypePut(record); err != nil {
		return nil, err
	}
	e.emit(CreatedEvent(record))
	return record.Clone(), nil
}

// SetAchievementActive toggles the activation flag. Authority only.
func (e *Engine) SetAchievementActive(caller [20]byte, id string, active bool) error {
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
	achievement, err := e.achievement(NormalizeAchievementID(id))
	if err != nil {
		return err
	}
	if achievement.Active == active {
		return nil
	}
	achievement.Active = active
	if err := e.state.AchievementTypePut(achievement); err != nil {
		return err
	}
	e.emit(StatusChangedEvent(achievement))
	return nil
}

// Award issues the achievement to recipient exactly once. The receipt is the
// at-most-once guard; supply, XP, receipt and the profile bit all land in the
// same transition or not at all.
func (e *Engine) Award(caller [20]byte, id string, recipient [20]byte, mint string) (*AchievementType, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.auth == nil {
		return nil, ErrNilAuthorizer
	}
	if e.economy == nil {
		return nil, ErrNilEconomy
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if _, err := e.auth.RequireMinter(caller); err != nil {
		return nil, err
	}
	id = NormalizeAchievementID(id)
	achievement, err := e.achievement(id)
	if err != nil {
		return nil, err
	}
	if !achievement.Active {
		return nil, ErrAchievementInactive
	}
	if achievement.MaxSupply > 0 && achievement.CurrentSupply >= achievement.MaxSupply {
		return nil, ErrSupplyExhausted
	}
	if _, ok, err := e.state.AchievementReceiptGet(id, recipient); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyAwarded
	}
	profile, err := e.profile(recipient)
	if err != nil {
		return nil, err
	}
	supply, err := nativecommon.AddU64(achievement.CurrentSupply, 1)
	if err != nil {
		return nil, err
	}
	if err := e.economy.MintXP(recipient, achievement.XPReward, mint, economy.ReasonAchievement); err != nil {
		return nil, err
	}
	achievement.CurrentSupply = supply
	profile.AchievementFlags = bitset.FromWords(profile.AchievementFlags).Set(achievement.Index).Words64()
	receipt := &AchievementReceipt{
		AchievementID: id,
		Recipient:     recipient,
		AwardedAt:     uint64(e.nowFn()),
	}
	if err := e.state.AchievementTypePut(achievement); err != nil {
		return nil, err
	}
	if err := e.state.LearnerProfilePut(profile); err != nil {
		return nil, err
	}
	if err := e.state.AchievementReceiptPut(receipt); err != nil {
		return nil, err
	}
	e.emit(AwardedEvent(achievement, recipient))
	return achievement.Clone(), nil
}

// Claim is the learner-driven, index-addressed path over the 256 profile
// slots. The requested XP is capped at the platform per-achievement maximum
// and charged against the daily budget; the slot bit blocks double claims.
func (e *Engine) Claim(learner [20]byte, index uint8, requestedXP uint64, mint string) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	if e.economy == nil {
		return 0, ErrNilEconomy
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	if requestedXP == 0 {
		return 0, ErrZeroRequestedXP
	}
	profile, err := e.profile(learner)
	if err != nil {
		return 0, err
	}
	flags := bitset.FromWords(profile.AchievementFlags)
	if flags.IsSet(index) {
		return 0, ErrAlreadyClaimed
	}
	cfg, err := e.economy.Config()
	if err != nil {
		return 0, err
	}
	xp := requestedXP
	if cfg.MaxAchievementXP > 0 && xp > cfg.MaxAchievementXP {
		xp = cfg.MaxAchievementXP
	}
	nowDay := limiter.DayIndex(e.nowFn())
	meter, err := limiter.CheckAndReserve(
		limiter.Meter{EarnedToday: profile.XPEarnedToday, Day: profile.XPDay},
		nowDay, xp, cfg.MaxDailyXP,
	)
	if err != nil {
		return 0, err
	}
	if err := e.economy.MintXP(learner, xp, mint, economy.ReasonClaim); err != nil {
		return 0, err
	}
	profile.AchievementFlags = flags.Set(index).Words64()
	profile.XPEarnedToday = meter.EarnedToday
	profile.XPDay = meter.Day
	if err := e.state.LearnerProfilePut(profile); err != nil {
		return 0, err
	}
	e.emit(ClaimedEvent(learner, index, xp))
	return xp, nil
}

// Achievement returns the type record for id.
func (e *Engine) Achievement(id string) (*AchievementType, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	achievement, err := e.achievement(NormalizeAchievementID(id))
	if err != nil {
		return nil, err
	}
	return achievement.Clone(), nil
}
