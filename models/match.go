package models

import "time"

// Result is an individual player's outcome in a match.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
	// ResultSub marks squad membership only; it contributes to no counter.
	ResultSub Result = "sub"
)

func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultDraw, ResultSub:
		return true
	}
	return false
}

// TeamResult is the outcome derived for the team as a whole.
type TeamResult string

const (
	TeamWin  TeamResult = "win"
	TeamLoss TeamResult = "loss"
	TeamDraw TeamResult = "draw"
)

type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Result   Result `json:"result"`
	// RosterEntryID is the roster record credited at accrual, empty when none was.
	// It is set by the server and only that record is debited on rollback.
	RosterEntryID string `json:"roster_entry_id,omitempty"`
}

// Match is a ledger entry. TeamResult and PointsAwarded are computed once at accrual
// time and are the only inputs rollback may use.
type Match struct {
	ID            string         `json:"id" db:"id"`
	TournamentID  string         `json:"tournament_id" db:"tournament_id"`
	TeamID        string         `json:"team_id" db:"team_id"`
	OpponentName  string         `json:"opponent_name" db:"opponent_name"`
	PlayerResults []PlayerResult `json:"player_results" db:"player_results"`
	TeamResult    TeamResult     `json:"team_result" db:"team_result"`
	PointsAwarded int            `json:"points_awarded" db:"points_awarded"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}
