package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rudrasish2003/Xenon-Backend/models"
	"github.com/rudrasish2003/Xenon-Backend/storage"
)

// checkID records a validation error unless id is a well-formed UUID.
func checkID(v ValidationErrors, field, id string) {
	if strings.TrimSpace(id) == "" {
		v.Add(field, "must be provided")
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		v.Add(field, "must be a valid UUID")
	}
}

// ValidateID returns a ValidationErrors for a single malformed identifier.
func ValidateID(field, id string) error {
	v := ValidationErrors{}
	checkID(v, field, id)
	return v.Err()
}

func newID() string {
	return uuid.NewString()
}

func playerViewFunc(p *models.Player, uploader storage.FileUploader) models.PlayerView {
	view := p.View()
	if p.PhotoKey != nil && *p.PhotoKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*p.PhotoKey); url != "" {
			view.PhotoURL = &url
		}
	}
	return view
}

func teamViews(teams []*models.Team) []models.TeamView {
	views := make([]models.TeamView, 0, len(teams))
	for _, t := range teams {
		if t != nil {
			views = append(views, t.View())
		}
	}
	return views
}
