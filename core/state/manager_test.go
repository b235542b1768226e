package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"academychain/core/types"
	"academychain/native/achievement"
	"academychain/native/catalog"
	"academychain/native/economy"
	"academychain/native/enrollment"
	"academychain/native/roles"
	"academychain/storage"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db)
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func TestAcademyConfigRoundTrip(t *testing.T) {
	manager := newManager(t)

	_, ok, err := manager.AcademyConfigGet()
	require.NoError(t, err)
	require.False(t, ok)

	cfg := &economy.AcademyConfig{
		Authority:        addr(0x01),
		BackendSigner:    addr(0x02),
		CurrentSeason:    1,
		ActiveMint:       "XPS1",
		SeasonStartedAt:  42,
		MaxDailyXP:       500,
		MaxAchievementXP: 500,
	}
	require.NoError(t, manager.AcademyConfigPut(cfg))

	loaded, ok, err := manager.AcademyConfigGet()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cfg, loaded)

	authority, ok, err := manager.AcademyAuthority()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, addr(0x01), authority)

	require.NoError(t, manager.SetAcademyAuthority(addr(0x03)))
	require.NoError(t, manager.SetAcademyBackendSigner(addr(0x04)))
	loaded, _, err = manager.AcademyConfigGet()
	require.NoError(t, err)
	require.Equal(t, addr(0x03), loaded.Authority)
	require.Equal(t, addr(0x04), loaded.BackendSigner)
	// Rotation must not disturb the rest of the record.
	require.Equal(t, uint32(1), loaded.CurrentSeason)
	require.Equal(t, "XPS1", loaded.ActiveMint)
}

func TestRotationRequiresConfig(t *testing.T) {
	manager := newManager(t)
	require.ErrorIs(t, manager.SetAcademyAuthority(addr(0x03)), economy.ErrConfigMissing)
	require.ErrorIs(t, manager.SetAcademyBackendSigner(addr(0x04)), economy.ErrConfigMissing)
}

func TestMinterRoleRoundTrip(t *testing.T) {
	manager := newManager(t)

	_, ok, err := manager.MinterRoleGet(addr(0x10))
	require.NoError(t, err)
	require.False(t, ok)

	role := &roles.MinterRole{
		Minter:        addr(0x10),
		Label:         "grader",
		MaxXPPerCall:  100,
		TotalXPMinted: 5,
		Active:        true,
		CreatedAt:     42,
	}
	require.NoError(t, manager.MinterRolePut(role))
	loaded, ok, err := manager.MinterRoleGet(addr(0x10))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, role, loaded)
}

func TestCourseRoundTripAndIndex(t *testing.T) {
	manager := newManager(t)

	course := &catalog.Course{
		ID:           "rust-101",
		Creator:      addr(0x30),
		ContentHash:  [32]byte{0xAA},
		Version:      1,
		LessonCount:  5,
		Difficulty:   catalog.DifficultyBeginner,
		XPPerLesson:  100,
		Prerequisite: "",
		Active:       true,
		CreatedAt:    42,
	}
	require.NoError(t, manager.CoursePut(course))
	loaded, ok, err := manager.CourseGet("rust-101")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, course, loaded)

	second := course.Clone()
	second.ID = "rust-201"
	second.Prerequisite = "rust-101"
	require.NoError(t, manager.CoursePut(second))
	// Overwrites must not duplicate the index entry.
	require.NoError(t, manager.CoursePut(course))

	ids, err := manager.CourseList()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"rust-101", "rust-201"}, ids)
}

func TestEnrollmentRoundTripAndDelete(t *testing.T) {
	manager := newManager(t)
	learner := addr(0x10)

	record := &enrollment.Enrollment{
		Learner:         learner,
		CourseID:        "rust-101",
		EnrolledAt:      42,
		EnrolledVersion: 1,
		LessonFlags:     [4]uint64{0b1011, 0, 0, 0},
	}
	require.NoError(t, manager.EnrollmentPut(record))
	loaded, ok, err := manager.EnrollmentGet(learner, "rust-101")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, loaded)
	require.Equal(t, uint32(3), loaded.Flags().Count())

	// A different course key resolves independently.
	_, ok, err = manager.EnrollmentGet(learner, "rust-201")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, manager.EnrollmentDelete(learner, "rust-101"))
	_, ok, err = manager.EnrollmentGet(learner, "rust-101")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLearnerProfileRoundTrip(t *testing.T) {
	manager := newManager(t)

	profile := &types.LearnerProfile{
		Address:          addr(0x10),
		CurrentStreak:    3,
		LongestStreak:    9,
		LastActivityDay:  19_000,
		StreakFreezes:    2,
		AchievementFlags: [4]uint64{1 << 7, 0, 0, 0},
		XPEarnedToday:    400,
		XPDay:            19_000,
		ReferralCount:    1,
		HasReferrer:      true,
		CreatedAt:        42,
	}
	require.NoError(t, manager.LearnerProfilePut(profile))
	loaded, ok, err := manager.LearnerProfileGet(addr(0x10))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, profile, loaded)
}

func TestAchievementRoundTrip(t *testing.T) {
	manager := newManager(t)

	record := &achievement.AchievementType{
		ID:          "first",
		Index:       3,
		Name:        "First Course",
		MetadataURI: "ipfs://achievements/first",
		Creator:     addr(0x01),
		MaxSupply:   10,
		XPReward:    100,
		Active:      true,
		CreatedAt:   42,
	}
	require.NoError(t, manager.AchievementTypePut(record))
	loaded, ok, err := manager.AchievementTypeGet("first")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, loaded)

	ids, err := manager.AchievementList()
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, ids)

	receipt := &achievement.AchievementReceipt{
		AchievementID: "first",
		Recipient:     addr(0x10),
		AwardedAt:     42,
	}
	require.NoError(t, manager.AchievementReceiptPut(receipt))
	loadedReceipt, ok, err := manager.AchievementReceiptGet("first", addr(0x10))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, receipt, loadedReceipt)

	_, ok, err = manager.AchievementReceiptGet("first", addr(0x11))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokenRegistryAndMinter(t *testing.T) {
	manager := newManager(t)

	require.False(t, manager.TokenExists("XPS1"))
	require.NoError(t, manager.RegisterToken("xps1", "Season 1 XP", 0))
	require.True(t, manager.TokenExists("XPS1"))
	require.Error(t, manager.RegisterToken("XPS1", "Season 1 XP", 0))

	meta, err := manager.Token("xps1")
	require.NoError(t, err)
	require.Equal(t, "XPS1", meta.Symbol)

	minter := NewTokenMinter(manager)
	require.Error(t, minter.Mint("XPS9", addr(0x10), 100))
	require.NoError(t, minter.Mint("XPS1", addr(0x10), 100))
	require.NoError(t, minter.Mint("XPS1", addr(0x10), 250))

	balance, err := manager.Balance(addr(0x10), "XPS1")
	require.NoError(t, err)
	require.Equal(t, uint64(350), balance)

	list, err := manager.TokenList()
	require.NoError(t, err)
	require.Equal(t, []string{"XPS1"}, list)
}

func TestModulePauses(t *testing.T) {
	manager := newManager(t)

	require.False(t, manager.IsPaused("enrollment"))
	require.NoError(t, manager.SetModulePaused("enrollment", true))
	require.True(t, manager.IsPaused("enrollment"))
	require.False(t, manager.IsPaused("economy"))
	require.NoError(t, manager.SetModulePaused("enrollment", false))
	require.False(t, manager.IsPaused("enrollment"))
}
