package roles

import (
	"strings"
	"time"

	"academychain/core/events"
	"academychain/core/types"
	nativecommon "academychain/native/common"
)

const (
	moduleName  = "roles"
	maxLabelLen = 32
)

type registryState interface {
	AcademyAuthority() ([20]byte, bool, error)
	AcademyBackendSigner() ([20]byte, bool, error)
	SetAcademyAuthority(addr [20]byte) error
	SetAcademyBackendSigner(addr [20]byte) error
	MinterRoleGet(minter [20]byte) (*MinterRole, bool, error)
	MinterRolePut(role *MinterRole) error
}

// Registry answers "may this principal perform this privileged action" for
// every other module. Checks fail closed: a missing config record or minter
// role is indistinguishable from a wrong principal.
type Registry struct {
	state   registryState
	emitter events.Emitter
	nowFn   func() int64
	pauses  nativecommon.PauseView
}

// NewRegistry constructs a registry with default dependencies.
func NewRegistry() *Registry {
	return &Registry{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the registry.
func (r *Registry) SetState(state registryState) { r.state = state }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (r *Registry) SetNowFunc(now func() int64) {
	if now == nil {
		r.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	r.nowFn = now
}

// SetPauses configures the module pause view.
func (r *Registry) SetPauses(p nativecommon.PauseView) { r.pauses = p }

func (r *Registry) emit(evt *types.Event) {
	if r == nil || evt == nil || r.emitter == nil {
		return
	}
	r.emitter.Emit(WrapEvent(evt))
}

func isZeroAddress(addr [20]byte) bool {
	var zero [20]byte
	return addr == zero
}

// RequireAuthority verifies that caller is the platform authority.
func (r *Registry) RequireAuthority(caller [20]byte) error {
	if r == nil || r.state == nil {
		return ErrNilState
	}
	authority, ok, err := r.state.AcademyAuthority()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConfigMissing
	}
	if caller != authority {
		return ErrUnauthorized
	}
	return nil
}

// RequireBackend verifies that caller is the rotatable backend signer.
func (r *Registry) RequireBackend(caller [20]byte) error {
	if r == nil || r.state == nil {
		return ErrNilState
	}
	backend, ok, err := r.state.AcademyBackendSigner()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConfigMissing
	}
	if caller != backend {
		return ErrUnauthorized
	}
	return nil
}

// RequireMinter resolves the caller's minter role. Missing and deactivated
// roles both fail closed.
func (r *Registry) RequireMinter(caller [20]byte) (*MinterRole, error) {
	if r == nil || r.state == nil {
		return nil, ErrNilState
	}
	role, ok, err := r.state.MinterRoleGet(caller)
	if err != nil {
		return nil, err
	}
	if !ok || role == nil {
		return nil, ErrMinterNotFound
	}
	if !role.Active {
		return nil, ErrMinterInactive
	}
	return role, nil
}

// RegisterMinter delegates a capped minting capability to minter. Only the
// authority may register, and a minter may hold at most one role record.
func (r *Registry) RegisterMinter(caller [20]byte, minter [20]byte, label string, maxXPPerCall uint64) (*MinterRole, error) {
	if r == nil || r.state == nil {
		return nil, ErrNilState
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := r.RequireAuthority(caller); err != nil {
		return nil, err
	}
	if isZeroAddress(minter) {
		return nil, ErrZeroAddress
	}
	label = strings.TrimSpace(label)
	if label == "" || len(label) > maxLabelLen {
		return nil, ErrInvalidLabel
	}
	if existing, ok, err := r.state.MinterRoleGet(minter); err != nil {
		return nil, err
	} else if ok && existing != nil {
		return nil, ErrMinterExists
	}
	role := &MinterRole{
		Minter:       minter,
		Label:        label,
		MaxXPPerCall: maxXPPerCall,
		Active:       true,
		CreatedAt:    uint64(r.nowFn()),
	}
	if err := r.state.MinterRolePut(role); err != nil {
		return nil, err
	}
	r.emit(MinterRegisteredEvent(role))
	return role.Clone(), nil
}

// RevokeMinter deactivates a minter role. The lifetime counter survives so the
// audit trail stays intact; the record is never erased.
func (r *Registry) RevokeMinter(caller [20]byte, minter [20]byte) error {
	if r == nil || r.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.RequireAuthority(caller); err != nil {
		return err
	}
	role, ok, err := r.state.MinterRoleGet(minter)
	if err != nil {
		return err
	}
	if !ok || role == nil {
		return ErrMinterNotFound
	}
	role.Active = false
	if err := r.state.MinterRolePut(role); err != nil {
		return err
	}
	r.emit(MinterRevokedEvent(role))
	return nil
}

// RotateAuthority hands the platform authority to a new principal.
func (r *Registry) RotateAuthority(caller [20]byte, next [20]byte) error {
	if r == nil || r.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.RequireAuthority(caller); err != nil {
		return err
	}
	if isZeroAddress(next) {
		return ErrZeroAddress
	}
	previous, _, err := r.state.AcademyAuthority()
	if err != nil {
		return err
	}
	if err := r.state.SetAcademyAuthority(next); err != nil {
		return err
	}
	r.emit(AuthorityRotatedEvent(previous, next))
	return nil
}

// RotateBackend swaps the backend signer used for automated transitions.
func (r *Registry) RotateBackend(caller [20]byte, next [20]byte) error {
	if r == nil || r.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.RequireAuthority(caller); err != nil {
		return err
	}
	if isZeroAddress(next) {
		return ErrZeroAddress
	}
	previous, _, err := r.state.AcademyBackendSigner()
	if err != nil {
		return err
	}
	if err := r.state.SetAcademyBackendSigner(next); err != nil {
		return err
	}
	r.emit(BackendRotatedEvent(previous, next))
	return nil
}
