package models

import "time"

// Player is a person tracked across every tournament they play in.
type Player struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	DOB           string    `json:"dob" db:"dob"`
	InstagramLink string    `json:"instagram_link" db:"instagram_link"`
	FacebookLink  string    `json:"facebook_link" db:"facebook_link"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Stats

	PhotoKey         *string `json:"-" db:"photo_key"`
	PhotoContentType *string `json:"-" db:"photo_content_type"`
}

// PlayerView is the read model returned by the API.
type PlayerView struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	DOB                string    `json:"dob"`
	InstagramLink      string    `json:"instagram_link"`
	FacebookLink       string    `json:"facebook_link"`
	PhotoURL           *string   `json:"photo_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	MatchesPlayed      int       `json:"matches_played"`
	Wins               int       `json:"wins"`
	Draws              int       `json:"draws"`
	Losses             int       `json:"losses"`
	UnbeatenPercentage float64   `json:"unbeaten_percentage"`
}

func (p *Player) View() PlayerView {
	return PlayerView{
		ID:                 p.ID,
		Name:               p.Name,
		DOB:                p.DOB,
		InstagramLink:      p.InstagramLink,
		FacebookLink:       p.FacebookLink,
		CreatedAt:          p.CreatedAt,
		MatchesPlayed:      p.MatchesPlayed,
		Wins:               p.Wins,
		Draws:              p.Draws,
		Losses:             p.Losses,
		UnbeatenPercentage: p.UnbeatenPercentage(),
	}
}
