package state

import (
	"fmt"

	"academychain/native/common"
)

// TokenMinter credits reward-token balances in ledger state. It is the default
// token-issuance collaborator wired into the economy engine; the engine decides
// whether a mint is allowed, this type only moves the balance.
type TokenMinter struct {
	manager *Manager
}

// NewTokenMinter constructs a minter over the given state manager.
func NewTokenMinter(manager *Manager) *TokenMinter {
	return &TokenMinter{manager: manager}
}

// Mint credits amount of token to recipient with a checked add. The token must
// be registered; season rotation registers each season's token before use.
func (t *TokenMinter) Mint(token string, recipient [20]byte, amount uint64) error {
	if t == nil || t.manager == nil {
		return fmt.Errorf("token minter not configured")
	}
	if !t.manager.TokenExists(token) {
		return fmt.Errorf("token %s not registered", token)
	}
	if amount == 0 {
		return nil
	}
	balance, err := t.manager.Balance(recipient, token)
	if err != nil {
		return err
	}
	next, err := common.AddU64(balance, amount)
	if err != nil {
		return err
	}
	return t.manager.SetBalance(recipient, token, next)
}
