package model

import (
	"fmt"
	"time"
)

// Role is the role claim carried by both tokens of a pair.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r belongs to the closed set of known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole converts a stored role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Principal is an authenticated subject together with its current role.
type Principal struct {
	SubjectID string
	Role      Role
}

// TokenPair is produced by every issuance or rotation.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Claims are the verified contents of a signed token.
type Claims struct {
	SubjectID string
	Role      Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Signer mints token pairs and verifies refresh tokens.
type Signer interface {
	IssuePair(subjectID string, role Role) (TokenPair, error)
	VerifyRefresh(token string) (Claims, error)
}
