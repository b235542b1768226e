package economy

import "strings"

// AcademyConfig is the process-wide singleton governing the reward economy:
// the privileged principals, the active season and its reward-token handle,
// and the platform XP limits. It is created once at genesis and never
// destroyed.
type AcademyConfig struct {
	Authority        [20]byte `json:"authority"`
	BackendSigner    [20]byte `json:"backendSigner"`
	CurrentSeason    uint32   `json:"currentSeason"`
	ActiveMint       string   `json:"activeMint"`
	SeasonClosed     bool     `json:"seasonClosed"`
	SeasonStartedAt  uint64   `json:"seasonStartedAt"`
	MaxDailyXP       uint64   `json:"maxDailyXp"`
	MaxAchievementXP uint64   `json:"maxAchievementXp"`
}

// Clone returns a copy of the config record.
func (c *AcademyConfig) Clone() *AcademyConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// NormalizeMintHandle canonicalises a reward-token handle the way the token
// registry stores symbols.
func NormalizeMintHandle(handle string) string {
	return strings.ToUpper(strings.TrimSpace(handle))
}

// TokenMinter is the injected token-issuance capability. Implementations move
// the actual balances; the economy engine only decides whether a mint is
// allowed and for how much.
type TokenMinter interface {
	Mint(token string, recipient [20]byte, amount uint64) error
}
