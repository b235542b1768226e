package state

import (
	"academychain/core/types"
	"academychain/native/achievement"
	"academychain/native/catalog"
	"academychain/native/economy"
	"academychain/native/enrollment"
	"academychain/native/roles"
)

// Logical key prefixes for academy records. All of them pass through kvKey, so
// the backend only ever sees keccak hashes.
var (
	academyConfigKey      = []byte("academy/config")
	minterRolePrefix      = []byte("academy/minter/")
	coursePrefix          = []byte("academy/course/")
	courseIndexKey        = []byte("academy/course-index")
	enrollmentPrefix      = []byte("academy/enrollment/")
	profilePrefix         = []byte("academy/profile/")
	achievementPrefix     = []byte("academy/achievement/")
	achievementIndexKey   = []byte("academy/achievement-index")
	achievementRcptPrefix = []byte("academy/receipt/")
)

func minterRoleKey(minter [20]byte) []byte {
	return append(append([]byte(nil), minterRolePrefix...), minter[:]...)
}

func courseKey(id string) []byte {
	return append(append([]byte(nil), coursePrefix...), id...)
}

func enrollmentKey(learner [20]byte, courseID string) []byte {
	buf := append(append([]byte(nil), enrollmentPrefix...), learner[:]...)
	buf = append(buf, '/')
	return append(buf, courseID...)
}

func profileKey(addr [20]byte) []byte {
	return append(append([]byte(nil), profilePrefix...), addr[:]...)
}

func achievementTypeKey(id string) []byte {
	return append(append([]byte(nil), achievementPrefix...), id...)
}

func achievementReceiptKey(id string, recipient [20]byte) []byte {
	buf := append(append([]byte(nil), achievementRcptPrefix...), id...)
	buf = append(buf, '/')
	return append(buf, recipient[:]...)
}

// AcademyConfigGet loads the academy config singleton.
func (m *Manager) AcademyConfigGet() (*economy.AcademyConfig, bool, error) {
	cfg := new(economy.AcademyConfig)
	ok, err := m.KVGet(academyConfigKey, cfg)
	if err != nil || !ok {
		return nil, false, err
	}
	return cfg, true, nil
}

// AcademyConfigPut stores the academy config singleton.
func (m *Manager) AcademyConfigPut(cfg *economy.AcademyConfig) error {
	return m.KVPut(academyConfigKey, cfg)
}

// AcademyAuthority returns the platform authority from the config record.
func (m *Manager) AcademyAuthority() ([20]byte, bool, error) {
	cfg, ok, err := m.AcademyConfigGet()
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	return cfg.Authority, true, nil
}

// AcademyBackendSigner returns the rotatable backend signer.
func (m *Manager) AcademyBackendSigner() ([20]byte, bool, error) {
	cfg, ok, err := m.AcademyConfigGet()
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	return cfg.BackendSigner, true, nil
}

// SetAcademyAuthority rotates the platform authority in the config record.
func (m *Manager) SetAcademyAuthority(addr [20]byte) error {
	cfg, ok, err := m.AcademyConfigGet()
	if err != nil {
		return err
	}
	if !ok {
		return economy.ErrConfigMissing
	}
	cfg.Authority = addr
	return m.AcademyConfigPut(cfg)
}

// SetAcademyBackendSigner rotates the backend signer in the config record.
func (m *Manager) SetAcademyBackendSigner(addr [20]byte) error {
	cfg, ok, err := m.AcademyConfigGet()
	if err != nil {
		return err
	}
	if !ok {
		return economy.ErrConfigMissing
	}
	cfg.BackendSigner = addr
	return m.AcademyConfigPut(cfg)
}

// MinterRoleGet loads the minter role for the given principal.
func (m *Manager) MinterRoleGet(minter [20]byte) (*roles.MinterRole, bool, error) {
	role := new(roles.MinterRole)
	ok, err := m.KVGet(minterRoleKey(minter), role)
	if err != nil || !ok {
		return nil, false, err
	}
	return role, true, nil
}

// MinterRolePut stores the minter role keyed by the minter's address.
func (m *Manager) MinterRolePut(role *roles.MinterRole) error {
	return m.KVPut(minterRoleKey(role.Minter), role)
}

// CourseGet loads a catalog record by its normalised identifier.
func (m *Manager) CourseGet(id string) (*catalog.Course, bool, error) {
	course := new(catalog.Course)
	ok, err := m.KVGet(courseKey(id), course)
	if err != nil || !ok {
		return nil, false, err
	}
	return course, true, nil
}

// CoursePut stores a catalog record and tracks its id in the course index.
func (m *Manager) CoursePut(course *catalog.Course) error {
	if err := m.KVPut(courseKey(course.ID), course); err != nil {
		return err
	}
	return m.KVAppend(courseIndexKey, []byte(course.ID))
}

// CourseList returns the identifiers of every stored course.
func (m *Manager) CourseList() ([]string, error) {
	var raw [][]byte
	if err := m.KVGetList(courseIndexKey, &raw); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, string(id))
	}
	return ids, nil
}

// EnrollmentGet loads the record for (learner, course).
func (m *Manager) EnrollmentGet(learner [20]byte, courseID string) (*enrollment.Enrollment, bool, error) {
	record := new(enrollment.Enrollment)
	ok, err := m.KVGet(enrollmentKey(learner, courseID), record)
	if err != nil || !ok {
		return nil, false, err
	}
	return record, true, nil
}

// EnrollmentPut stores the record for (learner, course).
func (m *Manager) EnrollmentPut(record *enrollment.Enrollment) error {
	return m.KVPut(enrollmentKey(record.Learner, record.CourseID), record)
}

// EnrollmentDelete destroys the record for (learner, course).
func (m *Manager) EnrollmentDelete(learner [20]byte, courseID string) error {
	return m.KVDelete(enrollmentKey(learner, courseID))
}

// LearnerProfileGet loads a learner profile.
func (m *Manager) LearnerProfileGet(addr [20]byte) (*types.LearnerProfile, bool, error) {
	profile := new(types.LearnerProfile)
	ok, err := m.KVGet(profileKey(addr), profile)
	if err != nil || !ok {
		return nil, false, err
	}
	return profile, true, nil
}

// LearnerProfilePut stores a learner profile keyed by its address.
func (m *Manager) LearnerProfilePut(profile *types.LearnerProfile) error {
	return m.KVPut(profileKey(profile.Address), profile)
}

// AchievementTypeGet loads an achievement type by its normalised identifier.
func (m *Manager) AchievementTypeGet(id string) (*achievement.AchievementType, bool, error) {
	record := new(achievement.AchievementType)
	ok, err := m.KVGet(achievementTypeKey(id), record)
	if err != nil || !ok {
		return nil, false, err
	}
	return record, true, nil
}

// AchievementTypePut stores an achievement type and tracks it in the index.
func (m *Manager) AchievementTypePut(record *achievement.AchievementType) error {
	if err := m.KVPut(achievementTypeKey(record.ID), record); err != nil {
		return err
	}
	return m.KVAppend(achievementIndexKey, []byte(record.ID))
}

// AchievementList returns the identifiers of every achievement type.
func (m *Manager) AchievementList() ([]string, error) {
	var raw [][]byte
	if err := m.KVGetList(achievementIndexKey, &raw); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, string(id))
	}
	return ids, nil
}

// AchievementReceiptGet loads the award receipt for (achievement, recipient).
func (m *Manager) AchievementReceiptGet(id string, recipient [20]byte) (*achievement.AchievementReceipt, bool, error) {
	receipt := new(achievement.AchievementReceipt)
	ok, err := m.KVGet(achievementReceiptKey(id, recipient), receipt)
	if err != nil || !ok {
		return nil, false, err
	}
	return receipt, true, nil
}

// AchievementReceiptPut stores the award receipt. Receipts are written once
// and never mutated or deleted.
func (m *Manager) AchievementReceiptPut(receipt *achievement.AchievementReceipt) error {
	return m.KVPut(achievementReceiptKey(receipt.AchievementID, receipt.Recipient), receipt)
}
