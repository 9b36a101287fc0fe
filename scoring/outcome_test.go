package scoring

import (
	"testing"

	"github.com/rudrasish2003/Xenon-Backend/models"
)

func results(rs ...models.Result) []models.PlayerResult {
	out := make([]models.PlayerResult, len(rs))
	for i, r := range rs {
		out[i] = models.PlayerResult{PlayerID: "p", Result: r}
	}
	return out
}

func TestResolveOutcome(t *testing.T) {
	tests := []struct {
		name       string
		in         []models.PlayerResult
		wantResult models.TeamResult
		wantPoints int
	}{
		{"two wins one loss", results(models.ResultWin, models.ResultWin, models.ResultLoss), models.TeamWin, 3},
		{"one each", results(models.ResultWin, models.ResultLoss), models.TeamDraw, 1},
		{"two losses one win", results(models.ResultLoss, models.ResultLoss, models.ResultWin), models.TeamLoss, 0},
		{"all subs", results(models.ResultSub, models.ResultSub, models.ResultSub), models.TeamDraw, 1},
		{"empty", nil, models.TeamDraw, 1},
		{"all draws", results(models.ResultDraw, models.ResultDraw), models.TeamDraw, 1},
		{"draws ignored", results(models.ResultDraw, models.ResultDraw, models.ResultWin), models.TeamWin, 3},
		{"subs ignored", results(models.ResultSub, models.ResultSub, models.ResultLoss), models.TeamLoss, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOutcome(tt.in)
			if got.TeamResult != tt.wantResult || got.Points != tt.wantPoints {
				t.Fatalf("ResolveOutcome = (%s, %d), want (%s, %d)", got.TeamResult, got.Points, tt.wantResult, tt.wantPoints)
			}
		})
	}
}
