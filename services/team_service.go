package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rudrasish2003/Xenon-Backend/models"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
)

var (
	ErrTeamCreationFailed = errors.New("failed to create team")
	ErrRosterUpdateFailed = errors.New("failed to update team roster")
)

type TeamService interface {
	CreateTeam(ctx context.Context, tournamentID string, input CreateTeamInput) (*models.TeamView, error)
	GetTeam(ctx context.Context, id string) (*models.TeamView, error)
	ListTournamentTeams(ctx context.Context, tournamentID string) ([]models.TeamView, error)
	AddRosterPlayer(ctx context.Context, teamID, playerID string) (*models.TeamView, error)
	RemoveRosterPlayer(ctx context.Context, teamID, playerID string) (*models.TeamView, error)
}

type CreateTeamInput struct {
	Name      string   `json:"name"`
	PlayerIDs []string `json:"player_ids"`
}

type teamService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
}

func NewTeamService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
) TeamService {
	return &teamService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, tournamentID string, input CreateTeamInput) (*models.TeamView, error) {
	v := ValidationErrors{}
	checkID(v, "tournament_id", tournamentID)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		v.Add("name", "must be provided")
	}
	seen := make(map[string]bool, len(input.PlayerIDs))
	for i, pid := range input.PlayerIDs {
		field := fmt.Sprintf("player_ids[%d]", i)
		checkID(v, field, pid)
		if seen[pid] {
			v.Add(field, "duplicate player")
		}
		seen[pid] = true
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

	roster := make([]models.TeamPlayerRecord, len(input.PlayerIDs))
	for i, pid := range input.PlayerIDs {
		roster[i] = models.TeamPlayerRecord{PlayerID: pid}
	}
	team := &models.Team{
		ID:           newID(),
		TournamentID: tournamentID,
		Name:         name,
		Roster:       roster,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamTournamentInvalid):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrRosterPlayerInvalid):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrRosterEntryConflict):
			return nil, ErrRosterEntryConflict
		}
		return nil, fmt.Errorf("%w: %w", ErrTeamCreationFailed, err)
	}

	view := team.View()
	return &view, nil
}

func (s *teamService) GetTeam(ctx context.Context, id string) (*models.TeamView, error) {
	if err := ValidateID("team_id", id); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	view := team.View()
	return &view, nil
}

func (s *teamService) ListTournamentTeams(ctx context.Context, tournamentID string) ([]models.TeamView, error) {
	if err := ValidateID("tournament_id", tournamentID); err != nil {
		return nil, err
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", tournamentID, err)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %s: %w", tournamentID, err)
	}
	return teamViews(teams), nil
}

// AddRosterPlayer appends a zeroed roster record. Matches recorded before the player
// joined are not replayed onto it.
func (s *teamService) AddRosterPlayer(ctx context.Context, teamID, playerID string) (*models.TeamView, error) {
	if err := validateRosterIDs(teamID, playerID); err != nil {
		return nil, err
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}

	if err := s.teamRepo.AddRosterPlayer(ctx, teamID, playerID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrRosterPlayerInvalid):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrRosterEntryConflict):
			return nil, ErrRosterEntryConflict
		}
		return nil, fmt.Errorf("%w: %w", ErrRosterUpdateFailed, err)
	}
	return s.GetTeam(ctx, teamID)
}

func (s *teamService) RemoveRosterPlayer(ctx context.Context, teamID, playerID string) (*models.TeamView, error) {
	if err := validateRosterIDs(teamID, playerID); err != nil {
		return nil, err
	}
	if err := s.teamRepo.RemoveRosterPlayer(ctx, teamID, playerID); err != nil {
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			return nil, ErrRosterEntryNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrRosterUpdateFailed, err)
	}
	return s.GetTeam(ctx, teamID)
}

func validateRosterIDs(teamID, playerID string) error {
	v := ValidationErrors{}
	checkID(v, "team_id", teamID)
	checkID(v, "player_id", playerID)
	return v.Err()
}
