package user

import "time"

// Role values carried in auth tokens and message display payloads.
const (
	RoleAdmin     = "admin"
	RolePassenger = "passenger"
)

// User is the identity record. Registration and token issuance live outside
// this service; users are only read here, for auth claims and for resolving
// message sender/recipient display info.
type User struct {
	ID         string    `db:"id" json:"_id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Role       string    `db:"role" json:"role"`
	LastActive time.Time `db:"last_active" json:"lastActive"`
}
