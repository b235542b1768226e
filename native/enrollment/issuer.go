package enrollment

import "github.com/google/uuid"

// AssetIssuer mints and upgrades the non-fungible credential asset backing a
// completed enrollment. Implementations own the asset mechanics; the engine
// only records the returned asset reference and the level.
type AssetIssuer interface {
	Issue(owner [20]byte, courseID string, level uint8) (string, error)
	Upgrade(owner [20]byte, asset string, level uint8) error
}

// UUIDIssuer is the default issuer. It hands out opaque UUID asset references
// and treats upgrades as metadata-only, which is enough for deployments that
// track credentials purely in academy state.
type UUIDIssuer struct{}

// Issue returns a fresh asset reference for the credential.
func (UUIDIssuer) Issue(owner [20]byte, courseID string, level uint8) (string, error) {
	return uuid.NewString(), nil
}

// Upgrade accepts any level change; the engine has already validated it.
func (UUIDIssuer) Upgrade(owner [20]byte, asset string, level uint8) error {
	return nil
}
