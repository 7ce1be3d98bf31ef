package users

// Role is the closed set of staff roles. Keep these stable; they are part of
// the auth and RBAC contracts.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleAgent      Role = "agent"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleAgent:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is a staff account. Documents are keyed by the app-level ID, not the
// store's native identity. Extension is the PBX extension used to resolve the
// answering agent from webhook payloads.
type User struct {
	ID           string  `bson:"id" json:"id"`
	Email        string  `bson:"email" json:"email"`
	PasswordHash string  `bson:"password_hash" json:"-"`
	Name         string  `bson:"name" json:"name"`
	Role         Role    `bson:"role" json:"role"`
	Status       Status  `bson:"status,omitempty" json:"status"`
	Extension    string  `bson:"extension,omitempty" json:"extension,omitempty"`
	CreatedAt    string  `bson:"created_at" json:"created_at"`
	LastLogin    *string `bson:"last_login" json:"last_login"`
}

// Normalize backfills fields older documents may lack.
func (u *User) Normalize() {
	if u.Status == "" {
		u.Status = StatusActive
	}
}

func (u *User) Inactive() bool {
	return u.Status == StatusInactive
}
