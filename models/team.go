package models

import "time"

// Team belongs to exactly one tournament; TournamentID never changes after creation.
type Team struct {
	ID            string    `json:"id" db:"id"`
	TournamentID  string    `json:"tournament_id" db:"tournament_id"`
	Name          string    `json:"name" db:"name"`
	MatchesPlayed int       `json:"matches_played" db:"matches_played"`
	Wins          int       `json:"wins" db:"wins"`
	Draws         int       `json:"draws" db:"draws"`
	Losses        int       `json:"losses" db:"losses"`
	Points        int       `json:"points" db:"points"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	// Roster is ordered by the position a player was added in.
	Roster []TeamPlayerRecord `json:"roster" db:"-"`
}

func (t *Team) Stats() Stats {
	return Stats{MatchesPlayed: t.MatchesPlayed, Wins: t.Wins, Draws: t.Draws, Losses: t.Losses}
}

// TeamPlayerRecord is a player's record scoped to one team in one tournament.
// EntryID names this membership; a player who leaves and rejoins gets a new one.
type TeamPlayerRecord struct {
	PlayerID string `json:"player_id" db:"player_id"`
	EntryID  string `json:"-" db:"entry_id"`
	Position int    `json:"-" db:"position"`
	Stats
}

// TeamPlayerView is a roster entry with its derived percentage.
type TeamPlayerView struct {
	PlayerID           string  `json:"player_id"`
	MatchesPlayed      int     `json:"matches_played"`
	Wins               int     `json:"wins"`
	Draws              int     `json:"draws"`
	Losses             int     `json:"losses"`
	UnbeatenPercentage float64 `json:"unbeaten_percentage"`
}

// TeamView is the read model returned by the API.
type TeamView struct {
	ID                 string           `json:"id"`
	TournamentID       string           `json:"tournament_id"`
	Name               string           `json:"name"`
	MatchesPlayed      int              `json:"matches_played"`
	Wins               int              `json:"wins"`
	Draws              int              `json:"draws"`
	Losses             int              `json:"losses"`
	Points             int              `json:"points"`
	UnbeatenPercentage float64          `json:"unbeaten_percentage"`
	Roster             []TeamPlayerView `json:"roster"`
	CreatedAt          time.Time        `json:"created_at"`
}

func (t *Team) View() TeamView {
	roster := make([]TeamPlayerView, len(t.Roster))
	for i, r := range t.Roster {
		roster[i] = TeamPlayerView{
			PlayerID:           r.PlayerID,
			MatchesPlayed:      r.MatchesPlayed,
			Wins:               r.Wins,
			Draws:              r.Draws,
			Losses:             r.Losses,
			UnbeatenPercentage: r.UnbeatenPercentage(),
		}
	}
	return TeamView{
		ID:                 t.ID,
		TournamentID:       t.TournamentID,
		Name:               t.Name,
		MatchesPlayed:      t.MatchesPlayed,
		Wins:               t.Wins,
		Draws:              t.Draws,
		Losses:             t.Losses,
		Points:             t.Points,
		UnbeatenPercentage: t.Stats().UnbeatenPercentage(),
		Roster:             roster,
		CreatedAt:          t.CreatedAt,
	}
}
