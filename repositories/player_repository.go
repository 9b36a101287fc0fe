package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rudrasish2003/Xenon-Backend/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerConflict = errors.New("player already exists")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	UpdateProfile(ctx context.Context, player *models.Player) error
	UpdatePhoto(ctx context.Context, id string, key string, contentType string) error
	Delete(ctx context.Context, id string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, dob, instagram_link, facebook_link, photo_key, photo_content_type,
		matches_played, wins, draws, losses, created_at`

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID, &p.Name, &p.DOB, &p.InstagramLink, &p.FacebookLink, &p.PhotoKey, &p.PhotoContentType,
		&p.MatchesPlayed, &p.Wins, &p.Draws, &p.Losses, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, name, dob, instagram_link, facebook_link, matches_played, wins, draws, losses)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, 0)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.ID, player.Name, player.DOB, player.InstagramLink, player.FacebookLink,
	).Scan(&player.CreatedAt)
	if err != nil {
		if _, ok := pqConstraintError(err, pqUniqueViolation); ok {
			return ErrPlayerConflict
		}
		return err
	}
	player.Stats = models.Stats{}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

// UpdateProfile never touches the counters; those belong to the accrual engine.
func (r *postgresPlayerRepository) UpdateProfile(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET name = $1, dob = $2, instagram_link = $3, facebook_link = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		player.Name, player.DOB, player.InstagramLink, player.FacebookLink, player.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePhoto(ctx context.Context, id string, key string, contentType string) error {
	query := `UPDATE players SET photo_key = $1, photo_content_type = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, key, contentType, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
