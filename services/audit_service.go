package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rudrasish2003/Xenon-Backend/models"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
	"github.com/rudrasish2003/Xenon-Backend/scoring"
)

var ErrAuditFailed = errors.New("consistency audit failed")

type AuditIssueKind string

const (
	IssueSumInvariant    AuditIssueKind = "sum_invariant"
	IssueNegativeCounter AuditIssueKind = "negative_counter"
	IssueLedgerDrift     AuditIssueKind = "ledger_drift"
)

// AuditIssue describes one aggregate that disagrees with itself or with the ledger.
type AuditIssue struct {
	Kind     AuditIssueKind    `json:"kind"`
	Scope    string            `json:"scope"`
	TeamID   string            `json:"team_id,omitempty"`
	PlayerID string            `json:"player_id,omitempty"`
	Expected *models.StatDelta `json:"expected,omitempty"`
	Actual   models.StatDelta  `json:"actual"`
}

type AuditReport struct {
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
	Matches       int          `json:"matches"`
	Players       int          `json:"players"`
	Teams         int          `json:"teams"`
	RosterRecords int          `json:"roster_records"`
	Issues        []AuditIssue `json:"issues"`
}

func (r *AuditReport) Healthy() bool { return len(r.Issues) == 0 }

// AuditService rebuilds every aggregate from the match ledger and compares it with what
// is stored. It only reads.
type AuditService interface {
	Run(ctx context.Context) (*AuditReport, error)
}

type auditService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	matchRepo  repositories.MatchRepository
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuditService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) AuditService {
	return &auditService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// rosterKey identifies one roster membership, not just a player on a team.
type rosterKey struct{ teamID, playerID, entryID string }

func (s *auditService) Run(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{StartedAt: s.now(), Issues: []AuditIssue{}}

	var (
		players []*models.Player
		teams   []*models.Team
		matches []*models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		players, err = s.playerRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		teams, err = s.teamRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		matches, err = s.matchRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuditFailed, err)
	}

	expectedTeams := make(map[string]models.StatDelta)
	expectedPlayers := make(map[string]models.StatDelta)
	expectedRoster := make(map[rosterKey]models.StatDelta)
	for _, m := range matches {
		deltas := scoring.ForMatch(m, scoring.Accrue)
		expectedTeams[m.TeamID] = expectedTeams[m.TeamID].Plus(deltas.Team)
		for _, pd := range deltas.Players {
			expectedPlayers[pd.PlayerID] = expectedPlayers[pd.PlayerID].Plus(pd.Delta)
			if pd.RosterEntryID == "" {
				continue
			}
			k := rosterKey{m.TeamID, pd.PlayerID, pd.RosterEntryID}
			expectedRoster[k] = expectedRoster[k].Plus(pd.Delta)
		}
	}

	for _, p := range players {
		actual := statsDelta(p.Stats, 0)
		report.check(string(repositories.ScopeGlobalPlayer), "", p.ID, p.Stats, actual, expectedPlayers[p.ID])
	}
	for _, t := range teams {
		actual := statsDelta(t.Stats(), t.Points)
		report.check(string(repositories.ScopeTeam), t.ID, "", t.Stats(), actual, expectedTeams[t.ID])
		for _, rec := range t.Roster {
			actual := statsDelta(rec.Stats, 0)
			report.check(string(repositories.ScopeTeamPlayer), t.ID, rec.PlayerID, rec.Stats, actual, expectedRoster[rosterKey{t.ID, rec.PlayerID, rec.EntryID}])
			report.RosterRecords++
		}
	}

	report.Matches = len(matches)
	report.Players = len(players)
	report.Teams = len(teams)
	report.FinishedAt = s.now()
	sort.SliceStable(report.Issues, func(i, j int) bool {
		a, b := report.Issues[i], report.Issues[j]
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		return a.PlayerID < b.PlayerID
	})

	if report.Healthy() {
		s.logger.Info("consistency audit passed",
			slog.Int("matches", report.Matches),
			slog.Int("teams", report.Teams),
			slog.Int("players", report.Players))
	} else {
		s.logger.Warn("consistency audit found issues",
			slog.Int("issues", len(report.Issues)),
			slog.Int("matches", report.Matches))
	}
	return report, nil
}

func (r *AuditReport) check(scope, teamID, playerID string, stats models.Stats, actual, expected models.StatDelta) {
	issue := AuditIssue{Scope: scope, TeamID: teamID, PlayerID: playerID, Actual: actual}
	if !stats.Consistent() {
		i := issue
		i.Kind = IssueSumInvariant
		r.Issues = append(r.Issues, i)
	}
	if actual.MatchesPlayed < 0 || actual.Wins < 0 || actual.Draws < 0 || actual.Losses < 0 || actual.Points < 0 {
		i := issue
		i.Kind = IssueNegativeCounter
		r.Issues = append(r.Issues, i)
	}
	if actual != expected {
		i := issue
		i.Kind = IssueLedgerDrift
		e := expected
		i.Expected = &e
		r.Issues = append(r.Issues, i)
	}
}

func statsDelta(s models.Stats, points int) models.StatDelta {
	return models.StatDelta{
		MatchesPlayed: s.MatchesPlayed,
		Wins:          s.Wins,
		Draws:         s.Draws,
		Losses:        s.Losses,
		Points:        points,
	}
}
