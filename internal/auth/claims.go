package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the only supported JWT claims shape for this service. Tokens
// embed identity and role; the account's live status is re-checked on every
// request, so a deactivation takes effect before the token expires.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
