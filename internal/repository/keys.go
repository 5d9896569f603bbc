package repository

import "strings"

// namespace is the fixed application prefix shared by every key, so
// that one Redis database can also hold keys from other applications
// without collision.
const namespace = "medtrack"

// Entity kind segments used in keys.
const (
	kindUser     = "user"
	kindUsername = "username"
	kindEmail    = "email"
	kindToken    = "token"
	kindMedicine = "medicine"
	kindSchedule = "schedule"
	kindDosage   = "dosage"
)

// Keys generates store keys for one deployment environment. Keys are
// colon-separated paths: namespace, environment, kind, then for
// user-scoped entities the owning user's id and the entity id. Owned
// entities embed the user id (never the username) so renaming a
// username never invalidates stored data.
type Keys struct {
	env string
}

// NewKeys creates a key generator for the given environment name.
func NewKeys(env string) Keys {
	return Keys{env: env}
}

func (k Keys) join(parts ...string) string {
	return namespace + ":" + k.env + ":" + strings.Join(parts, ":")
}

// User returns the key holding a user record.
func (k Keys) User(id string) string {
	return k.join(kindUser, id)
}

// UsernameIndex returns the key of the username secondary index.
// The value is a comma-joined list of user ids sharing the username.
func (k Keys) UsernameIndex(username string) string {
	return k.join(kindUsername, username)
}

// EmailIndex returns the key of the email secondary index. Email
// uniqueness is case-insensitive, so the address is lowercased here
// and nowhere else.
func (k Keys) EmailIndex(email string) string {
	return k.join(kindEmail, strings.ToLower(email))
}

// Token returns the key holding a token of the given kind. The token
// value itself is the last segment, so a URL-safe token maps to a
// directly addressable key.
func (k Keys) Token(kind TokenKind, token string) string {
	return k.join(kindToken, string(kind), token)
}

// Medicine returns the key holding one of a user's medicines.
func (k Keys) Medicine(userID, id string) string {
	return k.join(kindMedicine, userID, id)
}

// MedicinePattern returns the scan pattern matching all of a user's medicines.
func (k Keys) MedicinePattern(userID string) string {
	return k.join(kindMedicine, userID, "*")
}

// Schedule returns the key holding one of a user's schedules.
func (k Keys) Schedule(userID, id string) string {
	return k.join(kindSchedule, userID, id)
}

// SchedulePattern returns the scan pattern matching all of a user's schedules.
func (k Keys) SchedulePattern(userID string) string {
	return k.join(kindSchedule, userID, "*")
}

// Dosage returns the key holding one of a user's dosage log entries.
func (k Keys) Dosage(userID, id string) string {
	return k.join(kindDosage, userID, id)
}

// DosagePattern returns the scan pattern matching all of a user's dosage entries.
func (k Keys) DosagePattern(userID string) string {
	return k.join(kindDosage, userID, "*")
}
