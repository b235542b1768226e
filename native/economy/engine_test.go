package economy

import (
	"errors"
	"math"
	"testing"

	nativecommon "academychain/native/common"
	"academychain/native/roles"
)

type mockState struct {
	cfg     *AcademyConfig
	minters map[[20]byte]*roles.MinterRole
}

func newMockState() *mockState {
	return &mockState{minters: make(map[[20]byte]*roles.MinterRole)}
}

func (m *mockState) AcademyConfigGet() (*AcademyConfig, bool, error) {
	if m.cfg == nil {
		return nil, false, nil
	}
	return m.cfg.Clone(), true, nil
}

func (m *mockState) AcademyConfigPut(cfg *AcademyConfig) error {
	m.cfg = cfg.Clone()
	return nil
}

func (m *mockState) MinterRolePut(role *roles.MinterRole) error {
	m.minters[role.Minter] = role.Clone()
	return nil
}

type mockAuthorizer struct {
	authority [20]byte
	backend   [20]byte
	minters   map[[20]byte]*roles.MinterRole
}

func (a *mockAuthorizer) RequireAuthority(caller [20]byte) error {
	if caller != a.authority {
		return roles.ErrUnauthorized
	}
	return nil
}

func (a *mockAuthorizer) RequireBackend(caller [20]byte) error {
	if caller != a.backend {
		return roles.ErrUnauthorized
	}
	return nil
}

func (a *mockAuthorizer) RequireMinter(caller [20]byte) (*roles.MinterRole, error) {
	role, ok := a.minters[caller]
	if !ok {
		return nil, roles.ErrMinterNotFound
	}
	if !role.Active {
		return nil, roles.ErrMinterInactive
	}
	return role.Clone(), nil
}

type mintCall struct {
	token     string
	recipient [20]byte
	amount    uint64
}

type mockMinter struct {
	calls []mintCall
	fail  error
}

func (m *mockMinter) Mint(token string, recipient [20]byte, amount uint64) error {
	if m.fail != nil {
		return m.fail
	}
	m.calls = append(m.calls, mintCall{token: token, recipient: recipient, amount: amount})
	return nil
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func newTestEngine(t *testing.T) (*Engine, *mockState, *mockAuthorizer, *mockMinter) {
	t.Helper()
	state := newMockState()
	auth := &mockAuthorizer{authority: addr(0x01), backend: addr(0x02), minters: map[[20]byte]*roles.MinterRole{}}
	minter := &mockMinter{}
	engine := NewEngine()
	engine.SetState(state)
	engine.SetAuthorizer(auth)
	engine.SetTokenMinter(minter)
	engine.SetNowFunc(func() int64 { return 1_000 })
	if _, err := engine.Initialize(auth.authority, auth.backend, "xps1", 500, 500); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return engine, state, auth, minter
}

func TestInitializeIsSingleShot(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)
	if _, err := engine.Initialize(addr(0x01), addr(0x02), "XPS1", 500, 500); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("second initialize allowed: %v", err)
	}
	if state.cfg.CurrentSeason != 1 || state.cfg.SeasonClosed {
		t.Fatalf("unexpected genesis config: %+v", state.cfg)
	}
	if state.cfg.ActiveMint != "XPS1" {
		t.Fatalf("mint handle not normalised: %q", state.cfg.ActiveMint)
	}
}

func TestCreateSeasonMustBeSequential(t *testing.T) {
	engine, state, auth, _ := newTestEngine(t)
	if err := engine.CreateSeason(auth.authority, 3, "XPS3"); !errors.Is(err, ErrSeasonNotSequential) {
		t.Fatalf("season skip allowed: %v", err)
	}
	if err := engine.CreateSeason(auth.authority, 1, "XPS1"); !errors.Is(err, ErrSeasonNotSequential) {
		t.Fatalf("season replay allowed: %v", err)
	}
	if err := engine.CreateSeason(auth.authority, 2, "XPS2"); err != nil {
		t.Fatalf("sequential season rejected: %v", err)
	}
	if state.cfg.CurrentSeason != 2 || state.cfg.ActiveMint != "XPS2" || state.cfg.SeasonClosed {
		t.Fatalf("unexpected config after rotation: %+v", state.cfg)
	}
}

func TestCreateSeasonReopensIssuance(t *testing.T) {
	engine, _, auth, minter := newTestEngine(t)
	if err := engine.CloseSeason(auth.authority); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := engine.MintXP(addr(0x09), 10, "XPS1", ReasonLesson); !errors.Is(err, ErrSeasonClosed) {
		t.Fatalf("mint allowed in closed season: %v", err)
	}
	if err := engine.CreateSeason(auth.authority, 2, "XPS2"); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}
	if err := engine.MintXP(addr(0x09), 10, "XPS2", ReasonLesson); err != nil {
		t.Fatalf("mint rejected in fresh season: %v", err)
	}
	if len(minter.calls) != 1 || minter.calls[0].token != "XPS2" {
		t.Fatalf("unexpected mint calls: %+v", minter.calls)
	}
}

func TestCloseSeasonIsGuarded(t *testing.T) {
	engine, _, auth, _ := newTestEngine(t)
	if err := engine.CloseSeason(addr(0x42)); !errors.Is(err, roles.ErrUnauthorized) {
		t.Fatalf("non-authority closed a season: %v", err)
	}
	if err := engine.CloseSeason(auth.authority); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := engine.CloseSeason(auth.authority); !errors.Is(err, ErrSeasonAlreadyClosed) {
		t.Fatalf("double close allowed: %v", err)
	}
}

func TestMintXPRejectsStaleHandle(t *testing.T) {
	engine, _, auth, minter := newTestEngine(t)
	if err := engine.CreateSeason(auth.authority, 2, "XPS2"); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}
	if err := engine.MintXP(addr(0x09), 10, "XPS1", ReasonLesson); !errors.Is(err, ErrStaleMintHandle) {
		t.Fatalf("stale handle accepted: %v", err)
	}
	if len(minter.calls) != 0 {
		t.Fatalf("mint reached the token engine: %+v", minter.calls)
	}
}

func TestMintXPZeroAmountIsNoop(t *testing.T) {
	engine, _, _, minter := newTestEngine(t)
	if err := engine.MintXP(addr(0x09), 0, "XPS1", ReasonCompletionBonus); err != nil {
		t.Fatalf("zero mint errored: %v", err)
	}
	if len(minter.calls) != 0 {
		t.Fatalf("zero mint reached the token engine")
	}
}

func TestMintXPZeroAmountStillValidatesSeason(t *testing.T) {
	engine, _, auth, minter := newTestEngine(t)
	if err := engine.CreateSeason(auth.authority, 2, "XPS2"); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}
	if err := engine.MintXP(addr(0x09), 0, "XPS1", ReasonCompletionBonus); !errors.Is(err, ErrStaleMintHandle) {
		t.Fatalf("zero mint accepted a stale handle: %v", err)
	}
	if err := engine.CloseSeason(auth.authority); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := engine.MintXP(addr(0x09), 0, "XPS2", ReasonCompletionBonus); !errors.Is(err, ErrSeasonClosed) {
		t.Fatalf("zero mint accepted a closed season: %v", err)
	}
	if len(minter.calls) != 0 {
		t.Fatalf("zero mint reached the token engine: %+v", minter.calls)
	}
}

func TestRewardXPEnforcesPerCallCap(t *testing.T) {
	engine, state, auth, minter := newTestEngine(t)
	grader := addr(0x10)
	auth.minters[grader] = &roles.MinterRole{Minter: grader, Label: "grader", MaxXPPerCall: 100, Active: true}

	if _, err := engine.RewardXP(grader, addr(0x09), 101, "XPS1"); !errors.Is(err, ErrMintCapExceeded) {
		t.Fatalf("over-cap reward allowed: %v", err)
	}
	role, err := engine.RewardXP(grader, addr(0x09), 100, "XPS1")
	if err != nil {
		t.Fatalf("reward failed: %v", err)
	}
	if role.TotalXPMinted != 100 {
		t.Fatalf("lifetime counter not advanced: %+v", role)
	}
	if state.minters[grader].TotalXPMinted != 100 {
		t.Fatalf("lifetime counter not persisted")
	}
	if len(minter.calls) != 1 || minter.calls[0].amount != 100 {
		t.Fatalf("unexpected mint calls: %+v", minter.calls)
	}
}

func TestRewardXPUnlimitedCap(t *testing.T) {
	engine, _, auth, _ := newTestEngine(t)
	backendMinter := addr(0x11)
	auth.minters[backendMinter] = &roles.MinterRole{Minter: backendMinter, Label: "backend", MaxXPPerCall: 0, Active: true}
	if _, err := engine.RewardXP(backendMinter, addr(0x09), 1_000_000, "XPS1"); err != nil {
		t.Fatalf("unlimited reward rejected: %v", err)
	}
}

func TestRewardXPLifetimeOverflowAborts(t *testing.T) {
	engine, state, auth, minter := newTestEngine(t)
	grader := addr(0x10)
	auth.minters[grader] = &roles.MinterRole{
		Minter:        grader,
		Label:         "grader",
		TotalXPMinted: math.MaxUint64,
		Active:        true,
	}
	if _, err := engine.RewardXP(grader, addr(0x09), 1, "XPS1"); err == nil {
		t.Fatalf("expected overflow rejection")
	}
	if len(minter.calls) != 0 {
		t.Fatalf("overflowing reward reached the token engine")
	}
	if _, ok := state.minters[grader]; ok {
		t.Fatalf("overflowing reward persisted role state")
	}
}

func TestRewardXPMintFailureLeavesRoleUntouched(t *testing.T) {
	engine, state, auth, minter := newTestEngine(t)
	grader := addr(0x10)
	auth.minters[grader] = &roles.MinterRole{
		Minter:        grader,
		Label:         "grader",
		TotalXPMinted: 50,
		Active:        true,
	}
	minter.fail = nativecommon.ErrCounterOverflow
	if _, err := engine.RewardXP(grader, addr(0x09), 10, "XPS1"); !errors.Is(err, nativecommon.ErrCounterOverflow) {
		t.Fatalf("mint failure swallowed: %v", err)
	}
	if _, ok := state.minters[grader]; ok {
		t.Fatalf("failed reward persisted role state")
	}
	minter.fail = nil
	role, err := engine.RewardXP(grader, addr(0x09), 10, "XPS1")
	if err != nil {
		t.Fatalf("reward failed: %v", err)
	}
	if role.TotalXPMinted != 60 {
		t.Fatalf("lifetime counter = %d, want 60", role.TotalXPMinted)
	}
}

func TestRewardXPRejectsInactiveMinter(t *testing.T) {
	engine, _, auth, _ := newTestEngine(t)
	revoked := addr(0x12)
	auth.minters[revoked] = &roles.MinterRole{Minter: revoked, Label: "old", Active: false}
	if _, err := engine.RewardXP(revoked, addr(0x09), 1, "XPS1"); !errors.Is(err, roles.ErrMinterInactive) {
		t.Fatalf("inactive minter rewarded: %v", err)
	}
}

func TestSetLimits(t *testing.T) {
	engine, state, auth, _ := newTestEngine(t)
	if err := engine.SetLimits(addr(0x42), 1, 2); !errors.Is(err, roles.ErrUnauthorized) {
		t.Fatalf("non-authority updated limits: %v", err)
	}
	if err := engine.SetLimits(auth.authority, 1_000, 250); err != nil {
		t.Fatalf("limit update failed: %v", err)
	}
	if state.cfg.MaxDailyXP != 1_000 || state.cfg.MaxAchievementXP != 250 {
		t.Fatalf("limits not persisted: %+v", state.cfg)
	}
}
