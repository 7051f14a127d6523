package sqlstore

import (
	"database/sql"
	"time"
)

var staffColumns = []string{
	"s.id",
	"s.first_name",
	"s.last_name",
	"s.birth_date",
	"s.join_date",
	"s.salary",
	"s.origin_country",
	"s.kind",
	"s.image_url",
	"s.created_at",
	"s.updated_at",
}

type staffTableModel struct {
	ID            int64        `db:"id"`
	FirstName     string       `db:"first_name"`
	LastName      string       `db:"last_name"`
	BirthDate     sql.NullTime `db:"birth_date"`
	JoinDate      sql.NullTime `db:"join_date"`
	Salary        float64      `db:"salary"`
	OriginCountry string       `db:"origin_country"`
	Kind          string       `db:"kind"`
	ImageURL      string       `db:"image_url"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

type playerTableModel struct {
	staffTableModel
	Position      string  `db:"position"`
	SquadNumber   int     `db:"squad_number"`
	Height        float64 `db:"height"`
	Weight        float64 `db:"weight"`
	Goals         int     `db:"goals"`
	MatchesPlayed int     `db:"matches_played"`
}

type coachTableModel struct {
	staffTableModel
	Specialization string `db:"specialization"`
}

var squadCallColumns = []string{
	"id",
	"call_date",
	"description",
	"team_id",
	"coach_id",
	"created_at",
	"updated_at",
}

type squadCallTableModel struct {
	ID          int64     `db:"id"`
	CallDate    time.Time `db:"call_date"`
	Description string    `db:"description"`
	TeamID      int64     `db:"team_id"`
	CoachID     int64     `db:"coach_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type squadCallPlayerTableModel struct {
	CallID    int64 `db:"call_id"`
	PlayerID  int64 `db:"player_id"`
	IsStarter bool  `db:"is_starter"`
	Slot      int   `db:"slot"`
}

var accountColumns = []string{
	"id",
	"username",
	"password_digest",
	"role",
	"created_at",
	"updated_at",
}

type accountTableModel struct {
	ID             int64     `db:"id"`
	Username       string    `db:"username"`
	PasswordDigest string    `db:"password_digest"`
	Role           string    `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

var teamColumns = []string{
	"id",
	"name",
	"foundation_date",
	"crest_url",
	"city",
	"stadium",
	"country",
	"created_at",
	"updated_at",
}

type teamTableModel struct {
	ID             int64        `db:"id"`
	Name           string       `db:"name"`
	FoundationDate sql.NullTime `db:"foundation_date"`
	CrestURL       string       `db:"crest_url"`
	City           string       `db:"city"`
	Stadium        string       `db:"stadium"`
	Country        string       `db:"country"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}
