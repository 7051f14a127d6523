package team

import (
	"strings"
	"time"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
)

// Team is the club whose roster is managed.
type Team struct {
	ID             int64
	Name           string
	FoundationDate time.Time
	CrestURL       string
	City           string
	Stadium        string
	Country        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t Team) Validate() error {
	if t.ID < 0 {
		return apperr.InvalidID("id", t.ID)
	}
	if strings.TrimSpace(t.Name) == "" {
		return apperr.Field("name", t.Name, "must not be empty")
	}

	return nil
}
