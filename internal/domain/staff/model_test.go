package staff

import "testing"

func TestParseSpecialization(t *testing.T) {
	tests := []struct {
		raw  string
		want Specialization
		ok   bool
	}{
		{raw: "", want: SpecializationHead, ok: true},
		{raw: "   ", want: SpecializationHead, ok: true},
		{raw: "entrenador_asistente", want: SpecializationAssistant, ok: true},
		{raw: "ENTRENADOR_PORTEROS", want: SpecializationGoalkeeping, ok: true},
		{raw: "MASAJISTA", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseSpecialization(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseSpecialization(%q) = (%q, %t), want (%q, %t)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePositionAndKind(t *testing.T) {
	if p, ok := ParsePosition("delantero"); !ok || p != PositionForward {
		t.Fatalf("unexpected position parse: %q %t", p, ok)
	}
	if _, ok := ParsePosition(""); ok {
		t.Fatalf("expected empty position to be rejected")
	}
	if _, ok := ParsePosition("INVALID"); ok {
		t.Fatalf("expected unknown position to be rejected")
	}
	if k, ok := ParseKind(" JUGADOR "); !ok || k != KindPlayer {
		t.Fatalf("unexpected kind parse: %q %t", k, ok)
	}
	if _, ok := ParseKind("Utillero"); ok {
		t.Fatalf("expected unknown kind to be rejected")
	}
}

func TestWithBaseKeepsVariant(t *testing.T) {
	p := Player{Base: Base{FirstName: "Luka"}, SquadNumber: 10}
	updated := WithBase(p, Base{ID: 3, FirstName: "Luka", LastName: "Modric"})

	got, ok := updated.(Player)
	if !ok {
		t.Fatalf("expected Player, got %T", updated)
	}
	if got.ID != 3 || got.SquadNumber != 10 || got.FullName() != "Luka Modric" {
		t.Fatalf("unexpected player: %+v", got)
	}
}

func TestPlayersAndSortByID(t *testing.T) {
	members := []Member{
		Coach{Base: Base{ID: 5}},
		Player{Base: Base{ID: 9}},
		Player{Base: Base{ID: 2}},
	}
	SortByID(members)
	if members[0].Common().ID != 2 || members[2].Common().ID != 9 {
		t.Fatalf("unexpected order: %v", members)
	}

	players := Players(members)
	if len(players) != 2 || players[0].ID != 2 {
		t.Fatalf("unexpected players: %+v", players)
	}
}
