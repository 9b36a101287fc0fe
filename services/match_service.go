package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rudrasish2003/Xenon-Backend/live"
	"github.com/rudrasish2003/Xenon-Backend/models"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
	"github.com/rudrasish2003/Xenon-Backend/scoring"
)

var (
	ErrMatchCreationFailed = errors.New("failed to record match")
	ErrMatchesListFailed   = errors.New("failed to list matches")
)

// MatchEventPublisher receives a notification after every successful ledger change.
type MatchEventPublisher interface {
	PublishMatchEvent(tournamentID, eventType string, payload interface{})
}

type MatchService interface {
	RecordMatch(ctx context.Context, input RecordMatchInput) (*RecordMatchResult, error)
	ReplaceMatch(ctx context.Context, matchID string, input RecordMatchInput) (*RecordMatchResult, error)
	RemoveMatch(ctx context.Context, matchID string) error
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	ListTournamentMatches(ctx context.Context, tournamentID string, teamID *string) ([]*models.Match, error)
}

type RecordMatchInput struct {
	TournamentID  string                `json:"tournament_id"`
	TeamID        string                `json:"team_id"`
	OpponentName  string                `json:"opponent_name"`
	PlayerResults []models.PlayerResult `json:"player_results"`
}

type RecordMatchResult struct {
	MatchID       string                `json:"match_id"`
	TeamResult    models.TeamResult     `json:"team_result"`
	PointsAwarded int                   `json:"points_awarded"`
	Warnings      []PartialApplyWarning `json:"warnings"`
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	aggregates     repositories.AggregateRepository
	publisher      MatchEventPublisher
	logger         *slog.Logger
	locks          *keyedMutex
	newID          func() string
}

// NewMatchService wires the accrual, rollback and edit flows. publisher may be nil.
func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	aggregates repositories.AggregateRepository,
	publisher MatchEventPublisher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		aggregates:     aggregates,
		publisher:      publisher,
		logger:         logger,
		locks:          newKeyedMutex(),
		newID:          newID,
	}
}

func validateMatchInput(input RecordMatchInput) error {
	v := ValidationErrors{}
	checkID(v, "tournament_id", input.TournamentID)
	checkID(v, "team_id", input.TeamID)
	if strings.TrimSpace(input.OpponentName) == "" {
		v.Add("opponent_name", "must be provided")
	}
	if input.PlayerResults == nil {
		v.Add("player_results", "must be provided")
	}
	for i, pr := range input.PlayerResults {
		field := fmt.Sprintf("player_results[%d]", i)
		checkID(v, field+".player_id", pr.PlayerID)
		if !pr.Result.Valid() {
			v.Add(field+".result", "must be one of win, loss, draw, sub")
		}
	}
	return v.Err()
}

// checkMatchTarget loads the tournament and team concurrently and confirms the team
// belongs to the tournament. Nothing is written.
func (s *matchService) checkMatchTarget(ctx context.Context, input RecordMatchInput) error {
	var team *models.Team
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.tournamentRepo.GetByID(gctx, input.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to get tournament %s: %w", input.TournamentID, err)
		}
		return nil
	})
	g.Go(func() error {
		t, err := s.teamRepo.GetByID(gctx, input.TeamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to get team %s: %w", input.TeamID, err)
		}
		team = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if team.TournamentID != input.TournamentID {
		return ValidationErrors{"team_id": "team does not belong to the tournament"}
	}
	return nil
}

func (s *matchService) RecordMatch(ctx context.Context, input RecordMatchInput) (*RecordMatchResult, error) {
	if err := validateMatchInput(input); err != nil {
		return nil, err
	}
	if err := s.checkMatchTarget(ctx, input); err != nil {
		return nil, err
	}

	match, warnings, err := s.accrue(ctx, s.newID(), input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("match recorded",
		slog.String("match_id", match.ID),
		slog.String("team_id", match.TeamID),
		slog.String("team_result", string(match.TeamResult)),
		slog.Int("warnings", len(warnings)))
	s.publish(match.TournamentID, live.MatchRecorded, match)

	return newRecordMatchResult(match, warnings), nil
}

func (s *matchService) ReplaceMatch(ctx context.Context, matchID string, input RecordMatchInput) (*RecordMatchResult, error) {
	if err := ValidateID("match_id", matchID); err != nil {
		return nil, err
	}
	if err := validateMatchInput(input); err != nil {
		return nil, err
	}
	if err := s.checkMatchTarget(ctx, input); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(matchID)
	defer unlock()

	old, rollbackWarnings, err := s.rollback(ctx, matchID)
	if err != nil {
		return nil, err
	}

	match, warnings, err := s.accrue(ctx, matchID, input)
	if err != nil {
		// An incomplete accrual still left the new entry on the ledger.
		if !errors.Is(err, ErrAccrualIncomplete) {
			s.logger.Error("match missing from ledger after failed replace",
				slog.String("match_id", matchID),
				slog.Any("error", err))
			s.publish(old.TournamentID, live.MatchRemoved, old)
		}
		return nil, err
	}

	s.logger.Info("match replaced",
		slog.String("match_id", match.ID),
		slog.String("team_result", string(match.TeamResult)),
		slog.Int("warnings", len(rollbackWarnings)+len(warnings)))
	if old.TournamentID != match.TournamentID {
		s.publish(old.TournamentID, live.MatchRemoved, old)
	}
	s.publish(match.TournamentID, live.MatchReplaced, match)

	return newRecordMatchResult(match, append(rollbackWarnings, warnings...)), nil
}

func (s *matchService) RemoveMatch(ctx context.Context, matchID string) error {
	if err := ValidateID("match_id", matchID); err != nil {
		return err
	}

	unlock := s.locks.Lock(matchID)
	defer unlock()

	match, warnings, err := s.rollback(ctx, matchID)
	if err != nil {
		return err
	}

	s.logger.Info("match removed",
		slog.String("match_id", match.ID),
		slog.Int("warnings", len(warnings)))
	s.publish(match.TournamentID, live.MatchRemoved, match)
	return nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	if err := ValidateID("match_id", matchID); err != nil {
		return nil, err
	}
	return s.getMatch(ctx, matchID)
}

func (s *matchService) ListTournamentMatches(ctx context.Context, tournamentID string, teamID *string) ([]*models.Match, error) {
	v := ValidationErrors{}
	checkID(v, "tournament_id", tournamentID)
	if teamID != nil {
		checkID(v, "team_id", *teamID)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", tournamentID, err)
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: tournament %s: %w", ErrMatchesListFailed, tournamentID, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *matchService) getMatch(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}
	return match, nil
}

// accrue writes the ledger entry under matchID and then applies its deltas.
// When matchID already existed the caller must hold its lock.
func (s *matchService) accrue(ctx context.Context, matchID string, input RecordMatchInput) (*models.Match, []PartialApplyWarning, error) {
	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to get team %s: %w", input.TeamID, err)
	}
	entries := make(map[string]string, len(team.Roster))
	for _, rec := range team.Roster {
		entries[rec.PlayerID] = rec.EntryID
	}

	outcome := scoring.ResolveOutcome(input.PlayerResults)

	results := make([]models.PlayerResult, len(input.PlayerResults))
	for i, pr := range input.PlayerResults {
		results[i] = models.PlayerResult{PlayerID: pr.PlayerID, Result: pr.Result}
		if scoring.Counts(pr.Result) {
			results[i].RosterEntryID = entries[pr.PlayerID]
		}
	}

	match := &models.Match{
		ID:            matchID,
		TournamentID:  input.TournamentID,
		TeamID:        input.TeamID,
		OpponentName:  strings.TrimSpace(input.OpponentName),
		PlayerResults: results,
		TeamResult:    outcome.TeamResult,
		PointsAwarded: outcome.Points,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchTournamentInvalid):
			return nil, nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrMatchTeamInvalid):
			return nil, nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrMatchConflict):
			return nil, nil, ErrMatchConflict
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrMatchCreationFailed, err)
	}

	warnings, err := s.applyDeltas(ctx, match, scoring.Accrue)
	if err != nil {
		s.logger.Error("match accrual incomplete",
			slog.String("match_id", match.ID),
			slog.Any("error", err))
		return nil, nil, fmt.Errorf("%w: match %s: %w", ErrAccrualIncomplete, match.ID, err)
	}
	return match, warnings, nil
}

// rollback reverts the stored entry and deletes it. The caller must hold the lock for matchID.
func (s *matchService) rollback(ctx context.Context, matchID string) (*models.Match, []PartialApplyWarning, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := s.applyDeltas(ctx, match, scoring.Revert)
	if err != nil {
		s.logger.Error("match rollback incomplete",
			slog.String("match_id", match.ID),
			slog.Any("error", err))
		return nil, nil, fmt.Errorf("%w: match %s: %w", ErrRollbackIncomplete, match.ID, err)
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}
	return match, warnings, nil
}

// applyDeltas fans a ledger entry out in a fixed order: team, then for each counted
// player the career record followed by the roster record named on the entry. A missing
// player or roster record is skipped with a warning; a missing team or any storage
// error stops the run. On rollback a player whose roster record was never credited
// has no roster write at all.
func (s *matchService) applyDeltas(ctx context.Context, match *models.Match, sign scoring.Sign) ([]PartialApplyWarning, error) {
	deltas := scoring.ForMatch(match, sign)

	if err := s.aggregates.Apply(ctx, repositories.TeamTarget(match.TeamID), deltas.Team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("team %s: %w", match.TeamID, err)
	}

	warnings := make([]PartialApplyWarning, 0)
	for _, pd := range deltas.Players {
		err := s.aggregates.Apply(ctx, repositories.PlayerTarget(pd.PlayerID), pd.Delta)
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			warnings = append(warnings, s.warn(match, PartialApplyWarning{
				Scope:    string(repositories.ScopeGlobalPlayer),
				PlayerID: pd.PlayerID,
				Reason:   "player not found",
			}))
			continue
		}
		if err != nil {
			return warnings, fmt.Errorf("player %s: %w", pd.PlayerID, err)
		}

		if pd.RosterEntryID == "" {
			if sign == scoring.Accrue {
				warnings = append(warnings, s.warn(match, PartialApplyWarning{
					Scope:    string(repositories.ScopeTeamPlayer),
					TeamID:   match.TeamID,
					PlayerID: pd.PlayerID,
					Reason:   "player is not on the team roster",
				}))
			}
			continue
		}
		err = s.aggregates.Apply(ctx, repositories.RosterTarget(match.TeamID, pd.PlayerID, pd.RosterEntryID), pd.Delta)
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			reason := "player is not on the team roster"
			if sign == scoring.Revert {
				reason = "roster record credited by this match no longer exists"
			}
			warnings = append(warnings, s.warn(match, PartialApplyWarning{
				Scope:    string(repositories.ScopeTeamPlayer),
				TeamID:   match.TeamID,
				PlayerID: pd.PlayerID,
				Reason:   reason,
			}))
			continue
		}
		if err != nil {
			return warnings, fmt.Errorf("roster record %s/%s: %w", match.TeamID, pd.PlayerID, err)
		}
	}
	return warnings, nil
}

func (s *matchService) warn(match *models.Match, w PartialApplyWarning) PartialApplyWarning {
	s.logger.Warn("aggregate update skipped",
		slog.String("match_id", match.ID),
		slog.String("scope", w.Scope),
		slog.String("player_id", w.PlayerID),
		slog.String("reason", w.Reason))
	return w
}

func (s *matchService) publish(tournamentID, eventType string, match *models.Match) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishMatchEvent(tournamentID, eventType, match)
}

func newRecordMatchResult(match *models.Match, warnings []PartialApplyWarning) *RecordMatchResult {
	if warnings == nil {
		warnings = []PartialApplyWarning{}
	}
	return &RecordMatchResult{
		MatchID:       match.ID,
		TeamResult:    match.TeamResult,
		PointsAwarded: match.PointsAwarded,
		Warnings:      warnings,
	}
}
