package scoring

import "github.com/rudrasish2003/Xenon-Backend/models"

// Sign selects between applying a match and reverting it.
type Sign int

const (
	Accrue Sign = 1
	Revert Sign = -1
)

// TeamDelta builds the team-scope increments for one match.
func TeamDelta(result models.TeamResult, points int, sign Sign) models.StatDelta {
	s := int(sign)
	d := models.StatDelta{
		MatchesPlayed: s,
		Points:        s * points,
	}
	switch result {
	case models.TeamWin:
		d.Wins = s
	case models.TeamLoss:
		d.Losses = s
	case models.TeamDraw:
		d.Draws = s
	}
	return d
}

// PlayerDelta builds the increments for one player's result. It is used for both the
// career record and the tournament-scoped roster record. A sub yields the zero delta.
func PlayerDelta(result models.Result, sign Sign) models.StatDelta {
	s := int(sign)
	switch result {
	case models.ResultWin:
		return models.StatDelta{MatchesPlayed: s, Wins: s}
	case models.ResultLoss:
		return models.StatDelta{MatchesPlayed: s, Losses: s}
	case models.ResultDraw:
		return models.StatDelta{MatchesPlayed: s, Draws: s}
	default:
		return models.StatDelta{}
	}
}

// Counts reports whether a result contributes to any counter.
func Counts(result models.Result) bool {
	return result != models.ResultSub
}

// MatchDeltas is the full fan-out of one ledger entry.
type MatchDeltas struct {
	Team    models.StatDelta
	Players []PlayerDeltaEntry
}

// RosterEntryID is empty when the match never reached a roster record.
type PlayerDeltaEntry struct {
	PlayerID      string
	RosterEntryID string
	Delta         models.StatDelta
}

// ForMatch rebuilds every delta of a stored ledger entry from its persisted fields only.
// Subs are left out entirely.
func ForMatch(m *models.Match, sign Sign) MatchDeltas {
	out := MatchDeltas{
		Team:    TeamDelta(m.TeamResult, m.PointsAwarded, sign),
		Players: make([]PlayerDeltaEntry, 0, len(m.PlayerResults)),
	}
	for _, pr := range m.PlayerResults {
		if !Counts(pr.Result) {
			continue
		}
		out.Players = append(out.Players, PlayerDeltaEntry{
			PlayerID:      pr.PlayerID,
			RosterEntryID: pr.RosterEntryID,
			Delta:         PlayerDelta(pr.Result, sign),
		})
	}
	return out
}
