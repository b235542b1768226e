package achievement

import (
	"errors"
	"testing"

	"academychain/core/types"
	"academychain/native/bitset"
	"academychain/native/economy"
	"academychain/native/limiter"
	"academychain/native/roles"
)

type mockState struct {
	achievements map[string]*AchievementType
	receipts     map[string]*AchievementReceipt
	profiles     map[[20]byte]*types.LearnerProfile
}

func newMockState() *mockState {
	return &mockState{
		achievements: make(map[string]*AchievementType),
		receipts:     make(map[string]*AchievementReceipt),
		profiles:     make(map[[20]byte]*types.LearnerProfile),
	}
}

func receiptKey(id string, recipient [20]byte) string {
	return id + "/" + string(recipient[:])
}

func (m *mockState) AchievementTypeGet(id string) (*AchievementType, bool, error) {
	achievement, ok := m.achievements[id]
	if !ok {
		return nil, false, nil
	}
	return achievement.Clone(), true, nil
}

func (m *mockState) AchievementTypePut(achievement *AchievementType) error {
	m.achievements[achievement.ID] = achievement.Clone()
	return nil
}

func (m *mockState) AchievementReceiptGet(id string, recipient [20]byte) (*AchievementReceipt, bool, error) {
	receipt, ok := m.receipts[receiptKey(id, recipient)]
	if !ok {
		return nil, false, nil
	}
	return receipt.Clone(), true, nil
}

func (m *mockState) AchievementReceiptPut(receipt *AchievementReceipt) error {
	m.receipts[receiptKey(receipt.AchievementID, receipt.Recipient)] = receipt.Clone()
	return nil
}

func (m *mockState) LearnerProfileGet(addr [20]byte) (*types.LearnerProfile, bool, error) {
	profile, ok := m.profiles[addr]
	if !ok {
		return nil, false, nil
	}
	return profile.Clone(), true, nil
}

func (m *mockState) LearnerProfilePut(profile *types.LearnerProfile) error {
	m.profiles[profile.Address] = profile.Clone()
	return nil
}

type mintCall struct {
	recipient [20]byte
	amount    uint64
	reason    string
}

type mockEconomy struct {
	cfg   economy.AcademyConfig
	mints []mintCall
}

func (m *mockEconomy) Config() (*economy.AcademyConfig, error) {
	return m.cfg.Clone(), nil
}

func (m *mockEconomy) MintXP(recipient [20]byte, amount uint64, mint string, reason string) error {
	if economy.NormalizeMintHandle(mint) != m.cfg.ActiveMint {
		return economy.ErrStaleMintHandle
	}
	if amount == 0 {
		return nil
	}
	m.mints = append(m.mints, mintCall{recipient: recipient, amount: amount, reason: reason})
	return nil
}

type mockAuthorizer struct {
	authority [20]byte
	minters   map[[20]byte]*roles.MinterRole
}

func (a *mockAuthorizer) RequireAuthority(caller [20]byte) error {
	if caller != a.authority {
		return roles.ErrUnauthorized
	}
	return nil
}

func (a *mockAuthorizer) RequireMinter(caller [20]byte) (*roles.MinterRole, error) {
	role, ok := a.minters[caller]
	if !ok || !role.Active {
		return nil, roles.ErrUnauthorized
	}
	return role.Clone(), nil
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

type fixture struct {
	engine  *Engine
	state   *mockState
	economy *mockEconomy
	auth    *mockAuthorizer
	minter  [20]byte
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		state: newMockState(),
		economy: &mockEconomy{cfg: economy.AcademyConfig{
			ActiveMint:       "XPS1",
			CurrentSeason:    1,
			MaxDailyXP:       2_000,
			MaxAchievementXP: 500,
		}},
		minter: addr(0x20),
	}
	f.auth = &mockAuthorizer{
		authority: addr(0x01),
		minters: map[[20]byte]*roles.MinterRole{
			f.minter: {Minter: f.minter, Label: "backend", Active: true},
		},
	}
	f.engine = NewEngine()
	f.engine.SetState(f.state)
	f.engine.SetEconomy(f.economy)
	f.engine.SetAuthorizer(f.auth)
	f.engine.SetNowFunc(func() int64 { return 200_000 })
	return f
}

func (f *fixture) addLearner(t *testing.T, learner [20]byte) {
	t.Helper()
	if err := f.state.LearnerProfilePut(&types.LearnerProfile{Address: learner}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func sampleAchievement(id string) *AchievementType {
	return &AchievementType{
		ID:          id,
		Index:       3,
		Name:        "First Course",
		MetadataURI: "ipfs://achievements/first-course",
		XPReward:    100,
		MaxSupply:   2,
	}
}

func TestCreateAchievementTypeValidation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.engine.CreateAchievementType(addr(0x42), sampleAchievement("first")); !errors.Is(err, roles.ErrUnauthorized) {
		t.Fatalf("unauthorised creation allowed: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*AchievementType)
		want   error
	}{
		{"empty id", func(a *AchievementType) { a.ID = " " }, ErrInvalidID},
		{"empty name", func(a *AchievementType) { a.Name = "" }, ErrInvalidName},
		{"empty uri", func(a *AchievementType) { a.MetadataURI = "" }, ErrInvalidURI},
		{"oversized uri", func(a *AchievementType) { a.MetadataURI = string(make([]byte, MaxURILength+1)) }, ErrInvalidURI},
		{"zero reward", func(a *AchievementType) { a.XPReward = 0 }, ErrInvalidXPReward},
	}
	for _, tc := range cases {
		achievement := sampleAchievement("first")
		tc.mutate(achievement)
		if _, err := f.engine.CreateAchievementType(f.auth.authority, achievement); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	created, err := f.engine.CreateAchievementType(f.auth.authority, sampleAchievement("First "))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "first" || !created.Active || created.CurrentSupply != 0 {
		t.Fatalf("unexpected record: %+v", created)
	}
	if _, err := f.engine.CreateAchievementType(f.auth.authority, sampleAchievement("first")); !errors.Is(err, ErrAchievementExists) {
		t.Fatalf("duplicate create allowed: %v", err)
	}
}

func TestAwardAtMostOnce(t *testing.T) {
	f := newFixture(t)
	recipient := addr(0x10)
	f.addLearner(t, recipient)
	if _, err := f.engine.CreateAchievementType(f.auth.authority, sampleAchievement("first")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.engine.Award(addr(0x42), "first", recipient, "XPS1"); !errors.Is(err, roles.ErrUnauthorized) {
		t.Fatalf("non-minter awarded: %v", err)
	}
	awarded, err := f.engine.Award(f.minter, "first", recipient, "XPS1")
	if err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if awarded.CurrentSupply != 1 {
		t.Fatalf("supply not advanced: %+v", awarded)
	}
	if !bitset.FromWords(f.state.profiles[recipient].AchievementFlags).IsSet(3) {
		t.Fatalf("profile bit not set")
	}
	if len(f.economy.mints) != 1 || f.economy.mints[0].amount != 100 || f.economy.mints[0].reason != economy.ReasonAchievement {
		t.Fatalf("unexpected mints: %+v", f.economy.mints)
	}
	if _, err := f.engine.Award(f.minter, "first", recipient, "XPS1"); !errors.Is(err, ErrAlreadyAwarded) {
		t.Fatalf("double award allowed: %v", err)
	}
}

func TestAwardSupplyCap(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.CreateAchievementType(f.auth.authority, sampleAchievement("first")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for i := byte(0x10); i < 0x12; i++ {
		f.addLearner(t, addr(i))
		if _, err := f.engine.Award(f.minter, "first", addr(i), "XPS1"); err != nil {
			t.Fatalf("award %d failed: %v", i, err)
		}
	}
	third := addr(0x12)
	f.addLearner(t, third)
	if _, err := f.engine.Award(f.minter, "first", third, "XPS1"); !errors.Is(err, ErrSupplyExhausted) {
		t.Fatalf("capped supply exceeded: %v", err)
	}
	if f.state.achievements["first"].CurrentSupply != 2 {
		t.Fatalf("supply moved past cap: %+v", f.state.achievements["first"])
	}
}

func TestAwardUnlimitedSupply(t *testing.T) {
	f := newFixture(t)
	unlimited := sampleAchievement("open")
	unlimited.MaxSupply = 0
	if _, err := f.engine.CreateAchievementType(f.auth.authority, unlimited); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for i := byte(0x10); i < 0x15; i++ {
		f.addLearner(t, addr(i))
		if _, err := f.engine.Award(f.minter, "open", addr(i), "XPS1"); err != nil {
			t.Fatalf("award %d failed: %v", i, err)
		}
	}
}

func TestAwardRequiresActiveType(t *testing.T) {
	f := newFixture(t)
	recipient := addr(0x10)
	f.addLearner(t, recipient)
	if _, err := f.engine.CreateAchievementType(f.auth.authority, sampleAchievement("first")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.engine.SetAchievementActive(f.auth.authority, "first", false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := f.engine.Award(f.minter, "first", recipient, "XPS1"); !errors.Is(err, ErrAchievementInactive) {
		t.Fatalf("inactive type awarded: %v", err)
	}
}

// Scenario: a claim for 1000 XP against a 500 cap mints exactly 500, sets the
// slot bit and blocks a second claim of the same slot.
func TestClaimCapsAndGuards(t *testing.T) {
	f := newFixture(t)
	learner := addr(0x10)
	f.addLearner(t, learner)

	minted, err := f.engine.Claim(learner, 7, 1_000, "XPS1")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if minted != 500 {
		t.Fatalf("minted %d, want 500", minted)
	}
	if !bitset.FromWords(f.state.profiles[learner].AchievementFlags).IsSet(7) {
		t.Fatalf("slot bit not set")
	}
	if f.state.profiles[learner].XPEarnedToday != 500 {
		t.Fatalf("daily meter not charged: %+v", f.state.profiles[learner])
	}
	if _, err := f.engine.Claim(learner, 7, 100, "XPS1"); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("double claim allowed: %v", err)
	}
}

func TestClaimRoutesThroughDailyLimit(t *testing.T) {
	f := newFixture(t)
	f.economy.cfg.MaxDailyXP = 600
	learner := addr(0x10)
	f.addLearner(t, learner)

	if _, err := f.engine.Claim(learner, 0, 500, "XPS1"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := f.engine.Claim(learner, 1, 500, "XPS1"); !errors.Is(err, limiter.ErrDailyLimitExceeded) {
		t.Fatalf("daily cap not enforced: %v", err)
	}
	if bitset.FromWords(f.state.profiles[learner].AchievementFlags).IsSet(1) {
		t.Fatalf("rejected claim set the slot bit")
	}
}

func TestClaimValidation(t *testing.T) {
	f := newFixture(t)
	learner := addr(0x10)
	if _, err := f.engine.Claim(learner, 0, 100, "XPS1"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("claim without profile: %v", err)
	}
	f.addLearner(t, learner)
	if _, err := f.engine.Claim(learner, 0, 0, "XPS1"); !errors.Is(err, ErrZeroRequestedXP) {
		t.Fatalf("zero request accepted: %v", err)
	}
	if _, err := f.engine.Claim(learner, 0, 100, "XPS9"); !errors.Is(err, economy.ErrStaleMintHandle) {
		t.Fatalf("stale handle accepted: %v", err)
	}
}
