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
	ErrTournamentCreationFailed = errors.New("failed to create tournament")
	ErrTournamentDeleteFailed   = errors.New("failed to delete tournament")
)

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)
	DeleteTournament(ctx context.Context, id string) error
	// Standings lists the tournament's teams by points, then wins, then draws.
	Standings(ctx context.Context, id string) ([]models.TeamView, error)
}

type CreateTournamentInput struct {
	Name       string `json:"name"`
	TotalTeams int    `json:"total_teams"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, teamRepo repositories.TeamRepository) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	v := ValidationErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		v.Add("name", "must be provided")
	}
	if input.TotalTeams < 0 {
		v.Add("total_teams", "must not be negative")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		ID:         newID(),
		Name:       name,
		TotalTeams: input.TotalTeams,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTournamentCreationFailed, err)
	}
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	if err := ValidateID("tournament_id", id); err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if tournaments == nil {
		return []*models.Tournament{}, nil
	}
	return tournaments, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id string) error {
	if err := ValidateID("tournament_id", id); err != nil {
		return err
	}
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentInUse):
			return ErrTournamentInUse
		}
		return fmt.Errorf("%w: %w", ErrTournamentDeleteFailed, err)
	}
	return nil
}

func (s *tournamentService) Standings(ctx context.Context, id string) ([]models.TeamView, error) {
	if _, err := s.GetTournament(ctx, id); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByTournament(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for tournament %s: %w", id, err)
	}
	return teamViews(teams), nil
}
