package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rudrasish2003/Xenon-Backend/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchConflict          = errors.New("match id already exists")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
)

// MatchRepository is the match ledger. Entries are inserted and deleted whole; an edit is
// a delete followed by an insert under the same id.
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID string, teamID *string) ([]*models.Match, error)
	Delete(ctx context.Context, id string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, team_id, opponent_name, player_results, team_result, points_awarded, created_at, updated_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m       models.Match
		results []byte
	)
	err := row.Scan(&m.ID, &m.TournamentID, &m.TeamID, &m.OpponentName, &results, &m.TeamResult, &m.PointsAwarded, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(results, &m.PlayerResults); err != nil {
		return nil, fmt.Errorf("failed to decode player results of match %s: %w", m.ID, err)
	}
	if m.PlayerResults == nil {
		m.PlayerResults = []models.PlayerResult{}
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	results := match.PlayerResults
	if results == nil {
		results = []models.PlayerResult{}
	}
	encoded, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode player results: %w", err)
	}

	query := `
		INSERT INTO matches (id, tournament_id, team_id, opponent_name, player_results, team_result, points_awarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		match.ID, match.TournamentID, match.TeamID, match.OpponentName, encoded, match.TeamResult, match.PointsAwarded,
	).Scan(&match.CreatedAt, &match.UpdatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	return scanMatch(r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	return r.queryMatches(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY created_at ASC, id ASC`)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID string, teamID *string) ([]*models.Match, error) {
	if teamID != nil {
		return r.queryMatches(ctx,
			`SELECT `+matchColumns+` FROM matches WHERE tournament_id = $1 AND team_id = $2 ORDER BY created_at ASC, id ASC`,
			tournamentID, *teamID)
	}
	return r.queryMatches(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE tournament_id = $1 ORDER BY created_at ASC, id ASC`,
		tournamentID)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := pqConstraintError(err, pqForeignKeyViolation); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	if _, ok := pqConstraintError(err, pqUniqueViolation); ok {
		return ErrMatchConflict
	}
	return err
}
