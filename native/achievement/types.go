package achievement

import "strings"

// Identifier and metadata bounds for achievement types.
const (
	MaxIDLength   = 64
	MaxNameLength = 64
	MaxURILength  = 200
)

// AchievementType describes one awardable achievement. Index is the learner's
// profile-bitmap slot for it; ID is the catalog key. Supply counts every award
// against MaxSupply (0 = unlimited).
type AchievementType struct {
	ID            string   `json:"id"`
	Index         uint8    `json:"index"`
	Name          string   `json:"name"`
	MetadataURI   string   `json:"metadataUri"`
	Collection    string   `json:"collection,omitempty"`
	Creator       [20]byte `json:"creator"`
	MaxSupply     uint64   `json:"maxSupply"`
	CurrentSupply uint64   `json:"currentSupply"`
	XPReward      uint64   `json:"xpReward"`
	Active        bool     `json:"active"`
	CreatedAt     uint64   `json:"createdAt"`
}

// Clone returns a copy of the achievement type.
func (a *AchievementType) Clone() *AchievementType {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// AchievementReceipt proves an (achievement, recipient) award happened. Its
// existence alone is the at-most-once guard; it is never mutated or deleted.
type AchievementReceipt struct {
	AchievementID string   `json:"achievementId"`
	Recipient     [20]byte `json:"recipient"`
	AwardedAt     uint64   `json:"awardedAt"`
}

// Clone returns a copy of the receipt.
func (r *AchievementReceipt) Clone() *AchievementReceipt {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// NormalizeAchievementID canonicalises an achievement identifier.
func NormalizeAchievementID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
