package roles

// MinterRole is a delegated, capped capability to mint reward XP, distinct
// from the platform authority. Revocation deactivates the role but keeps the
// lifetime counter for auditability.
type MinterRole struct {
	Minter        [20]byte `json:"minter"`
	Label         string   `json:"label"`
	MaxXPPerCall  uint64   `json:"maxXpPerCall"`
	TotalXPMinted uint64   `json:"totalXpMinted"`
	Active        bool     `json:"active"`
	CreatedAt     uint64   `json:"createdAt"`
}

// Clone returns a copy of the role record.
func (r *MinterRole) Clone() *MinterRole {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
