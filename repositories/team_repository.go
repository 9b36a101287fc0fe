package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rudrasish2003/Xenon-Backend/models"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamConflict          = errors.New("team already exists")
	ErrTeamTournamentInvalid = errors.New("team tournament conflict or invalid")
	ErrRosterEntryNotFound   = errors.New("player is not on the team roster")
	ErrRosterEntryConflict   = errors.New("player is already on the team roster")
	ErrRosterPlayerInvalid   = errors.New("roster player conflict or invalid")
)

type TeamRepository interface {
	// Create stores the team together with its initial roster.
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string, byStanding bool) ([]*models.Team, error)
	AddRosterPlayer(ctx context.Context, teamID, playerID string) error
	RemoveRosterPlayer(ctx context.Context, teamID, playerID string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, tournament_id, name, matches_played, wins, draws, losses, points, created_at`

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.TournamentID, &t.Name, &t.MatchesPlayed, &t.Wins, &t.Draws, &t.Losses, &t.Points, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	t.Roster = []models.TeamPlayerRecord{}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	query := `
		INSERT INTO teams (id, tournament_id, name, matches_played, wins, draws, losses, points)
		VALUES ($1, $2, $3, 0, 0, 0, 0, 0)
		RETURNING created_at`
	if err = tx.QueryRowContext(ctx, query, team.ID, team.TournamentID, team.Name).Scan(&team.CreatedAt); err != nil {
		return r.handleTeamError(err)
	}

	for i := range team.Roster {
		team.Roster[i].EntryID = newRosterEntryID()
		team.Roster[i].Position = i + 1
		team.Roster[i].Stats = models.Stats{}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO team_players (team_id, player_id, entry_id, position, matches_played, wins, draws, losses)
			VALUES ($1, $2, $3, $4, 0, 0, 0, 0)`,
			team.ID, team.Roster[i].PlayerID, team.Roster[i].EntryID, team.Roster[i].Position,
		)
		if err != nil {
			return r.handleTeamError(err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadRosters(ctx, []*models.Team{team}); err != nil {
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	return r.queryTeams(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY created_at ASC, id ASC`)
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID string, byStanding bool) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1`
	if byStanding {
		query += ` ORDER BY points DESC, wins DESC, draws DESC, name ASC, id ASC`
	} else {
		query += ` ORDER BY created_at ASC, id ASC`
	}
	return r.queryTeams(ctx, query, tournamentID)
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadRosters(ctx, teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) loadRosters(ctx context.Context, teams []*models.Team) error {
	for _, team := range teams {
		rows, err := r.db.QueryContext(ctx, `
			SELECT player_id, entry_id, position, matches_played, wins, draws, losses
			FROM team_players
			WHERE team_id = $1
			ORDER BY position ASC`, team.ID)
		if err != nil {
			return fmt.Errorf("failed to load roster for team %s: %w", team.ID, err)
		}
		for rows.Next() {
			var rec models.TeamPlayerRecord
			if err := rows.Scan(&rec.PlayerID, &rec.EntryID, &rec.Position, &rec.MatchesPlayed, &rec.Wins, &rec.Draws, &rec.Losses); err != nil {
				rows.Close()
				return err
			}
			team.Roster = append(team.Roster, rec)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresTeamRepository) AddRosterPlayer(ctx context.Context, teamID, playerID string) error {
	query := `
		INSERT INTO team_players (team_id, player_id, entry_id, position, matches_played, wins, draws, losses)
		SELECT $1, $2, $3, COALESCE(MAX(position), 0) + 1, 0, 0, 0, 0
		FROM team_players WHERE team_id = $1`
	_, err := r.db.ExecContext(ctx, query, teamID, playerID, newRosterEntryID())
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) RemoveRosterPlayer(ctx context.Context, teamID, playerID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_players WHERE team_id = $1 AND player_id = $2`, teamID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterEntryNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := pqConstraintError(err, pqForeignKeyViolation); ok {
		switch pqErr.Constraint {
		case "teams_tournament_id_fkey":
			return ErrTeamTournamentInvalid
		case "team_players_team_id_fkey":
			return ErrTeamNotFound
		case "team_players_player_id_fkey":
			return ErrRosterPlayerInvalid
		}
	}
	if pqErr, ok := pqConstraintError(err, pqUniqueViolation); ok {
		if pqErr.Constraint == "team_players_pkey" {
			return ErrRosterEntryConflict
		}
		return ErrTeamConflict
	}
	return err
}
