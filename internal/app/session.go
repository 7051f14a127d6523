package app

import (
	"context"

	"github.com/riskibarqy/squad-roster/internal/domain/account"
)

// Session is a fixed acting account for one CLI run.
type Session struct {
	AccountID int64
	Role      account.Role
}

func (s Session) CurrentUser(context.Context) (int64, bool) {
	return s.AccountID, s.AccountID > 0
}
