package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Shared errors used across services and by the HTTP error mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	ErrPlayerNotFound      = fmt.Errorf("player not found: %w", ErrNotFound)
	ErrTeamNotFound        = fmt.Errorf("team not found: %w", ErrNotFound)
	ErrTournamentNotFound  = fmt.Errorf("tournament not found: %w", ErrNotFound)
	ErrMatchNotFound       = fmt.Errorf("match not found: %w", ErrNotFound)
	ErrRosterEntryNotFound = fmt.Errorf("player is not on the team roster: %w", ErrNotFound)

	ErrRosterEntryConflict = fmt.Errorf("player is already on the team roster: %w", ErrConflict)
	ErrMatchConflict       = fmt.Errorf("match id already exists: %w", ErrConflict)
	ErrTournamentInUse     = fmt.Errorf("tournament still has teams or matches: %w", ErrConflict)

	ErrNoFieldsToUpdate        = fmt.Errorf("no data provided for update: %w", ErrValidationFailed)
	ErrPhotoStorageUnavailable = errors.New("photo storage is not configured")
	ErrPhotoNotFound           = fmt.Errorf("photo not found: %w", ErrNotFound)

	// ErrAccrualIncomplete means the ledger entry exists but some aggregate writes failed.
	ErrAccrualIncomplete = errors.New("match accrual incomplete")
	// ErrRollbackIncomplete means some reversing writes failed and the ledger entry was kept.
	ErrRollbackIncomplete = errors.New("match rollback incomplete")
)

// ValidationErrors maps an input field to what is wrong with it. It unwraps to
// ErrValidationFailed so callers can match it with errors.Is.
type ValidationErrors map[string]string

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidationFailed }

// PartialApplyWarning records a secondary aggregate that could not be updated. The
// operation still succeeds; the warning is logged and reported to the caller.
type PartialApplyWarning struct {
	Scope    string `json:"scope"`
	TeamID   string `json:"team_id,omitempty"`
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}

func (w PartialApplyWarning) String() string {
	if w.TeamID != "" {
		return fmt.Sprintf("%s team:%s/player:%s skipped: %s", w.Scope, w.TeamID, w.PlayerID, w.Reason)
	}
	return fmt.Sprintf("%s player:%s skipped: %s", w.Scope, w.PlayerID, w.Reason)
}
