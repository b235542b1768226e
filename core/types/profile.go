package types

// LearnerProfile aggregates the per-learner counters that every XP-earning or
// streak-affecting transition touches. It is created once per learner and never
// destroyed.
type LearnerProfile struct {
	Address          [20]byte  `json:"address"`
	CurrentStreak    uint32    `json:"currentStreak"`
	LongestStreak    uint32    `json:"longestStreak"`
	LastActivityDay  uint64    `json:"lastActivityDay"`
	StreakFreezes    uint8     `json:"streakFreezes"`
	AchievementFlags [4]uint64 `json:"achievementFlags"`
	XPEarnedToday    uint64    `json:"xpEarnedToday"`
	XPDay            uint64    `json:"xpDay"`
	ReferralCount    uint32    `json:"referralCount"`
	HasReferrer      bool      `json:"hasReferrer"`
	CreatedAt        uint64    `json:"createdAt"`
}

// Clone returns a deep copy of the profile.
func (p *LearnerProfile) Clone() *LearnerProfile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
