package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/squad"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/domain/team"
)

var today = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func fixedChecker() *Checker {
	return New(func() time.Time { return today })
}

func validPlayer() staff.Player {
	return staff.Player{
		Base: staff.Base{
			FirstName:     "Vinicius",
			LastName:      "Junior",
			BirthDate:     time.Date(2000, 7, 12, 0, 0, 0, 0, time.UTC),
			JoinDate:      time.Date(2018, 7, 1, 0, 0, 0, 0, time.UTC),
			Salary:        1500000,
			OriginCountry: "Brasil",
		},
		Position:      staff.PositionForward,
		SquadNumber:   7,
		Height:        1.76,
		Weight:        73,
		Goals:         12,
		MatchesPlayed: 30,
	}
}

func validCall() squad.Call {
	return squad.Call{
		Date:        today,
		Description: "Jornada 10",
		TeamID:      1,
		CoachID:     2,
		PlayerIDs:   []int64{3, 4, 5},
		StarterIDs:  []int64{3, 4},
	}
}

func TestFor_DispatchesByRuntimeType(t *testing.T) {
	c := fixedChecker()

	tests := []struct {
		value any
		want  Validator
	}{
		{value: staff.Player{}, want: playerValidator{c}},
		{value: &staff.Player{}, want: playerValidator{c}},
		{value: staff.Coach{}, want: coachValidator{c}},
		{value: staff.Base{}, want: staffValidator{c}},
		{value: account.Account{}, want: accountValidator{c}},
		{value: &squad.Call{}, want: callValidator{c}},
	}
	for _, tt := range tests {
		got, err := c.For(tt.value)
		require.NoError(t, err)
		assert.IsType(t, tt.want, got)
	}
}

func TestFor_RejectsTypesOutsideTheClosedSet(t *testing.T) {
	for _, value := range []any{team.Team{}, "player", 42, nil} {
		_, err := For(value)
		require.Error(t, err)
		assert.True(t, apperr.IsIllegalArgument(err), "value %T", value)
	}
}

func TestValidate_NegativeIDIsNotFoundClass(t *testing.T) {
	c := fixedChecker()

	p := validPlayer()
	p.ID = -1
	coach := staff.Coach{Base: staff.Base{ID: -3, FirstName: "Carlo", LastName: "Ancelotti"}, Specialization: staff.SpecializationHead}
	acc := account.Account{ID: -2, Username: "admin", Password: "secret1", Role: account.RoleAdmin}
	call := validCall()
	call.ID = -9

	for _, value := range []any{p, coach, p.Base, acc, call} {
		err := c.Validate(value)
		require.Error(t, err, "value %T", value)
		assert.True(t, apperr.IsNotFound(err), "value %T: %v", value, err)
		assert.False(t, apperr.IsStorage(err), "value %T", value)
	}
}

func TestValidate_EmptyTextIsStorageClass(t *testing.T) {
	c := fixedChecker()

	p := validPlayer()
	p.FirstName = "   "
	acc := account.Account{Username: "", Password: "secret1", Role: account.RoleUser}
	call := validCall()
	call.Description = ""

	for field, value := range map[string]any{"first_name": p, "username": acc, "description": call} {
		err := c.Validate(value)
		require.Error(t, err)
		assert.True(t, apperr.IsStorage(err))
		fe, ok := apperr.AsField(err)
		require.True(t, ok)
		assert.Equal(t, field, fe.Field)
	}
}

func TestPlayerRules(t *testing.T) {
	c := fixedChecker()

	tests := []struct {
		name   string
		mutate func(*staff.Player)
		field  string
	}{
		{name: "valid", mutate: func(*staff.Player) {}},
		{name: "squad number zero", mutate: func(p *staff.Player) { p.SquadNumber = 0 }, field: "squad_number"},
		{name: "squad number 100", mutate: func(p *staff.Player) { p.SquadNumber = 100 }, field: "squad_number"},
		{name: "squad number 99", mutate: func(p *staff.Player) { p.SquadNumber = 99 }},
		{name: "zero height", mutate: func(p *staff.Player) { p.Height = 0 }, field: "height"},
		{name: "negative weight", mutate: func(p *staff.Player) { p.Weight = -70 }, field: "weight"},
		{name: "negative goals", mutate: func(p *staff.Player) { p.Goals = -1 }, field: "goals"},
		{name: "negative matches", mutate: func(p *staff.Player) { p.MatchesPlayed = -1 }, field: "matches_played"},
		{name: "empty last name", mutate: func(p *staff.Player) { p.LastName = "" }, field: "last_name"},
		{name: "negative salary", mutate: func(p *staff.Player) { p.Salary = -1 }, field: "salary"},
		{name: "unknown position", mutate: func(p *staff.Player) { p.Position = "LIBERO" }, field: "position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlayer()
			tt.mutate(&p)

			err := c.Validate(p)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsStorage(err))
			fe, ok := apperr.AsField(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestCoachRules(t *testing.T) {
	c := fixedChecker()
	coach := staff.Coach{
		Base:           staff.Base{FirstName: "Carlo", LastName: "Ancelotti"},
		Specialization: staff.SpecializationAssistant,
	}
	require.NoError(t, c.Validate(coach))

	coach.Specialization = ""
	err := c.Validate(coach)
	require.Error(t, err)
	fe, ok := apperr.AsField(err)
	require.True(t, ok)
	assert.Equal(t, "specialization", fe.Field)
}

func TestAccountRules(t *testing.T) {
	c := fixedChecker()

	tests := []struct {
		name  string
		acc   account.Account
		field string
	}{
		{name: "valid", acc: account.Account{Username: "ana", Password: "secret", Role: account.RoleUser}},
		{name: "short username", acc: account.Account{Username: "al", Password: "secret", Role: account.RoleUser}, field: "username"},
		{name: "empty password", acc: account.Account{Username: "alba", Role: account.RoleUser}, field: "password"},
		{name: "short password", acc: account.Account{Username: "alba", Password: "12345", Role: account.RoleUser}, field: "password"},
		{name: "unknown role", acc: account.Account{Username: "alba", Password: "123456", Role: "ROOT"}, field: "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.acc)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			fe, ok := apperr.AsField(err)
			require.True(t, ok, "expected field error, got %v", err)
			assert.Equal(t, tt.field, fe.Field)
			assert.NotContains(t, err.Error(), tt.acc.Password+"\"", "raw password must not leak")
		})
	}
}

func TestCallRules(t *testing.T) {
	c := fixedChecker()

	ids := func(from, to int64) []int64 {
		out := make([]int64, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	}

	tests := []struct {
		name   string
		mutate func(*squad.Call)
		field  string
	}{
		{name: "valid", mutate: func(*squad.Call) {}},
		{name: "later today is still today", mutate: func(call *squad.Call) { call.Date = today.Add(-9 * time.Hour) }},
		{name: "date yesterday", mutate: func(call *squad.Call) { call.Date = today.AddDate(0, 0, -1) }, field: "date"},
		{name: "missing date", mutate: func(call *squad.Call) { call.Date = time.Time{} }, field: "date"},
		{name: "team id zero", mutate: func(call *squad.Call) { call.TeamID = 0 }, field: "team_id"},
		{name: "coach id negative", mutate: func(call *squad.Call) { call.CoachID = -1 }, field: "coach_id"},
		{name: "18 players", mutate: func(call *squad.Call) { call.PlayerIDs = ids(1, 18); call.StarterIDs = ids(1, 11) }},
		{name: "19 players", mutate: func(call *squad.Call) { call.PlayerIDs = ids(1, 19) }, field: "players"},
		{name: "12 starters", mutate: func(call *squad.Call) { call.PlayerIDs = ids(1, 18); call.StarterIDs = ids(1, 12) }, field: "starters"},
		{name: "duplicate player", mutate: func(call *squad.Call) { call.PlayerIDs = []int64{3, 4, 3} }, field: "players"},
		{name: "duplicate starter", mutate: func(call *squad.Call) { call.StarterIDs = []int64{3, 3} }, field: "starters"},
		{name: "starter not called up", mutate: func(call *squad.Call) { call.StarterIDs = []int64{3, 8} }, field: "starters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := validCall()
			tt.mutate(&call)

			err := c.Validate(call)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsStorage(err))
			fe, ok := apperr.AsField(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestCallRules_StartersMustBeSubsetOfPlayers(t *testing.T) {
	call := validCall()
	call.PlayerIDs = []int64{1, 2}
	call.StarterIDs = []int64{1, 2, 3}

	err := fixedChecker().Validate(call)
	fe, ok := apperr.AsField(err)
	require.True(t, ok)
	assert.Equal(t, "starters", fe.Field)
	assert.Equal(t, "3", fe.Value)
}
