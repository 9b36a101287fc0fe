// Package scoring turns individual match results into team outcomes and counter deltas.
// Everything here is pure; accrual and rollback share it so that a rollback is always the
// exact mirror of the accrual it reverses.
package scoring

import "github.com/rudrasish2003/Xenon-Backend/models"

const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

type Outcome struct {
	TeamResult models.TeamResult `json:"team_result"`
	Points     int               `json:"points"`
}

// ResolveOutcome compares individual wins against losses. Draws and subs are not counted,
// so an empty or all-sub list ties and resolves to a draw worth one point.
func ResolveOutcome(results []models.PlayerResult) Outcome {
	var wins, losses int
	for _, r := range results {
		switch r.Result {
		case models.ResultWin:
			wins++
		case models.ResultLoss:
			losses++
		}
	}

	switch {
	case wins > losses:
		return Outcome{TeamResult: models.TeamWin, Points: PointsWin}
	case losses > wins:
		return Outcome{TeamResult: models.TeamLoss, Points: PointsLoss}
	default:
		return Outcome{TeamResult: models.TeamDraw, Points: PointsDraw}
	}
}
