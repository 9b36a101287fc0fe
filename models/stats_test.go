package models

import "testing"

func TestUnbeatenPercentage(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  float64
	}{
		{"no matches", Stats{}, 0.0},
		{"never beaten", Stats{MatchesPlayed: 4, Wins: 3, Draws: 1}, 100},
		{"two of three", Stats{MatchesPlayed: 3, Wins: 1, Draws: 1, Losses: 1}, 66.67},
		{"one of three", Stats{MatchesPlayed: 3, Wins: 1, Losses: 2}, 33.33},
		{"all losses", Stats{MatchesPlayed: 2, Losses: 2}, 0},
		{"negative matches", Stats{MatchesPlayed: -1, Losses: -1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.UnbeatenPercentage(); got != tt.want {
				t.Fatalf("UnbeatenPercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatsAddAndConsistent(t *testing.T) {
	s := Stats{MatchesPlayed: 1, Wins: 1}
	s = s.Add(StatDelta{MatchesPlayed: 1, Losses: 1, Points: 3})
	if s != (Stats{MatchesPlayed: 2, Wins: 1, Losses: 1}) {
		t.Fatalf("Add() = %+v", s)
	}
	if !s.Consistent() {
		t.Fatalf("Consistent() = false for %+v", s)
	}
	if (Stats{MatchesPlayed: 2, Wins: 1}).Consistent() {
		t.Fatal("Consistent() = true for a record missing a result")
	}
}

func TestStatDeltaNegatePlus(t *testing.T) {
	d := StatDelta{MatchesPlayed: 1, Draws: 1, Points: 1}
	if !d.Plus(d.Negate()).IsZero() {
		t.Fatalf("d + -d = %+v, want zero", d.Plus(d.Negate()))
	}
	if d.IsZero() {
		t.Fatal("IsZero() = true for a non-zero delta")
	}
}

func TestViewsCarryUnbeatenPercentage(t *testing.T) {
	p := &Player{ID: "p1", Name: "Leo", Stats: Stats{MatchesPlayed: 2, Wins: 1, Losses: 1}}
	if v := p.View(); v.UnbeatenPercentage != 50 || v.MatchesPlayed != 2 {
		t.Fatalf("player view = %+v", v)
	}

	team := &Team{
		ID:            "t1",
		MatchesPlayed: 1,
		Draws:         1,
		Points:        1,
		Roster:        []TeamPlayerRecord{{PlayerID: "p1", Stats: Stats{MatchesPlayed: 1, Losses: 1}}},
	}
	v := team.View()
	if v.UnbeatenPercentage != 100 || v.Points != 1 {
		t.Fatalf("team view = %+v", v)
	}
	if len(v.Roster) != 1 || v.Roster[0].UnbeatenPercentage != 0 {
		t.Fatalf("roster view = %+v", v.Roster)
	}
}
