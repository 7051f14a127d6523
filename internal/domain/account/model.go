package account

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

// Account is a login. Password is the raw secret, accepted on writes only;
// repositories persist PasswordDigest and never return Password.
type Account struct {
	ID             int64
	Username       string
	Password       string
	PasswordDigest string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Hasher is the credential primitive used by the account repository.
type Hasher interface {
	Hash(rawPassword string) (string, error)
	Verify(rawPassword, digest string) bool
}

// Session exposes the account currently acting, when there is one.
type Session interface {
	CurrentUser(ctx context.Context) (int64, bool)
}
