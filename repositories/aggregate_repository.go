package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rudrasish2003/Xenon-Backend/models"
)

// Scope names one of the three aggregates a match fans out to.
type Scope string

const (
	ScopeGlobalPlayer Scope = "global_player"
	ScopeTeam         Scope = "team"
	ScopeTeamPlayer   Scope = "team_player"
)

var ErrUnknownScope = errors.New("unknown aggregate scope")

// AggregateTarget addresses a single aggregate document. PlayerID is unused for ScopeTeam,
// TeamID is unused for ScopeGlobalPlayer. EntryID pins a ScopeTeamPlayer target to one
// roster membership.
type AggregateTarget struct {
	Scope    Scope
	TeamID   string
	PlayerID string
	EntryID  string
}

func PlayerTarget(playerID string) AggregateTarget {
	return AggregateTarget{Scope: ScopeGlobalPlayer, PlayerID: playerID}
}

func TeamTarget(teamID string) AggregateTarget {
	return AggregateTarget{Scope: ScopeTeam, TeamID: teamID}
}

func RosterTarget(teamID, playerID, entryID string) AggregateTarget {
	return AggregateTarget{Scope: ScopeTeamPlayer, TeamID: teamID, PlayerID: playerID, EntryID: entryID}
}

func (t AggregateTarget) String() string {
	switch t.Scope {
	case ScopeGlobalPlayer:
		return fmt.Sprintf("player:%s", t.PlayerID)
	case ScopeTeam:
		return fmt.Sprintf("team:%s", t.TeamID)
	default:
		return fmt.Sprintf("team:%s/player:%s", t.TeamID, t.PlayerID)
	}
}

// AggregateRepository adds named counter increments to one aggregate atomically.
// An unknown target reports ErrPlayerNotFound, ErrTeamNotFound or ErrRosterEntryNotFound;
// a roster record whose entry id differs from the target's counts as unknown.
// Counter points are only meaningful for ScopeTeam and are ignored elsewhere.
type AggregateRepository interface {
	Apply(ctx context.Context, target AggregateTarget, delta models.StatDelta) error
}

type postgresAggregateRepository struct {
	db *sql.DB
}

func NewPostgresAggregateRepository(db *sql.DB) AggregateRepository {
	return &postgresAggregateRepository{db: db}
}

func (r *postgresAggregateRepository) Apply(ctx context.Context, target AggregateTarget, delta models.StatDelta) error {
	var (
		result sql.Result
		err    error
		notFnd error
	)

	switch target.Scope {
	case ScopeGlobalPlayer:
		notFnd = ErrPlayerNotFound
		result, err = r.db.ExecContext(ctx, `
			UPDATE players SET
				matches_played = matches_played + $1,
				wins = wins + $2,
				draws = draws + $3,
				losses = losses + $4
			WHERE id = $5`,
			delta.MatchesPlayed, delta.Wins, delta.Draws, delta.Losses, target.PlayerID)
	case ScopeTeam:
		notFnd = ErrTeamNotFound
		result, err = r.db.ExecContext(ctx, `
			UPDATE teams SET
				matches_played = matches_played + $1,
				wins = wins + $2,
				draws = draws + $3,
				losses = losses + $4,
				points = points + $5
			WHERE id = $6`,
			delta.MatchesPlayed, delta.Wins, delta.Draws, delta.Losses, delta.Points, target.TeamID)
	case ScopeTeamPlayer:
		notFnd = ErrRosterEntryNotFound
		result, err = r.db.ExecContext(ctx, `
			UPDATE team_players SET
				matches_played = matches_played + $1,
				wins = wins + $2,
				draws = draws + $3,
				losses = losses + $4
			WHERE team_id = $5 AND player_id = $6 AND entry_id = $7`,
			delta.MatchesPlayed, delta.Wins, delta.Draws, delta.Losses, target.TeamID, target.PlayerID, target.EntryID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScope, target.Scope)
	}
	if err != nil {
		return fmt.Errorf("failed to apply delta to %s: %w", target, err)
	}
	return checkAffectedRows(result, notFnd)
}
