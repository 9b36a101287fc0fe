package models

import "math"

// Stats holds the win/draw/loss counters shared by the career and tournament scopes.
// Invariant: Wins + Draws + Losses == MatchesPlayed.
type Stats struct {
	MatchesPlayed int `json:"matches_played" db:"matches_played"`
	Wins          int `json:"wins" db:"wins"`
	Draws         int `json:"draws" db:"draws"`
	Losses        int `json:"losses" db:"losses"`
}

// UnbeatenPercentage is derived on read and never persisted.
func (s Stats) UnbeatenPercentage() float64 {
	if s.MatchesPlayed <= 0 {
		return 0.0
	}
	pct := float64(s.Wins+s.Draws) / float64(s.MatchesPlayed) * 100
	return math.Round(pct*100) / 100
}

// Consistent reports whether the sum invariant holds.
func (s Stats) Consistent() bool {
	return s.Wins+s.Draws+s.Losses == s.MatchesPlayed
}

// Add returns s with the counters of d applied. Points are ignored.
func (s Stats) Add(d StatDelta) Stats {
	return Stats{
		MatchesPlayed: s.MatchesPlayed + d.MatchesPlayed,
		Wins:          s.Wins + d.Wins,
		Draws:         s.Draws + d.Draws,
		Losses:        s.Losses + d.Losses,
	}
}

// StatDelta is a set of named counter increments applied atomically to one aggregate.
type StatDelta struct {
	MatchesPlayed int `json:"matches_played"`
	Wins          int `json:"wins"`
	Draws         int `json:"draws"`
	Losses        int `json:"losses"`
	Points        int `json:"points"`
}

func (d StatDelta) IsZero() bool {
	return d == StatDelta{}
}

func (d StatDelta) Negate() StatDelta {
	return StatDelta{
		MatchesPlayed: -d.MatchesPlayed,
		Wins:          -d.Wins,
		Draws:         -d.Draws,
		Losses:        -d.Losses,
		Points:        -d.Points,
	}
}

// Plus sums two deltas field by field.
func (d StatDelta) Plus(o StatDelta) StatDelta {
	return StatDelta{
		MatchesPlayed: d.MatchesPlayed + o.MatchesPlayed,
		Wins:          d.Wins + o.Wins,
		Draws:         d.Draws + o.Draws,
		Losses:        d.Losses + o.Losses,
		Points:        d.Points + o.Points,
	}
}
