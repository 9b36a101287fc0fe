package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rudrasish2003/Xenon-Backend/models"
)

// MemoryStore keeps every collection in process. Each exported repository view locks the
// whole store per call, which gives the same single-document atomicity the Postgres
// repositories have. Values are copied in and out so callers never share state with it.
type MemoryStore struct {
	mu          sync.RWMutex
	players     map[string]*models.Player
	tournaments map[string]*models.Tournament
	teams       map[string]*models.Team
	matches     map[string]*models.Match
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:     make(map[string]*models.Player),
		tournaments: make(map[string]*models.Tournament),
		teams:       make(map[string]*models.Team),
		matches:     make(map[string]*models.Match),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Players() PlayerRepository         { return memoryPlayers{s} }
func (s *MemoryStore) Tournaments() TournamentRepository { return memoryTournaments{s} }
func (s *MemoryStore) Teams() TeamRepository             { return memoryTeams{s} }
func (s *MemoryStore) Matches() MatchRepository          { return memoryMatches{s} }
func (s *MemoryStore) Aggregates() AggregateRepository   { return memoryAggregates{s} }

func copyPlayer(p *models.Player) *models.Player {
	c := *p
	return &c
}

func copyTeam(t *models.Team) *models.Team {
	c := *t
	c.Roster = append([]models.TeamPlayerRecord{}, t.Roster...)
	return &c
}

func copyMatch(m *models.Match) *models.Match {
	c := *m
	c.PlayerResults = append([]models.PlayerResult{}, m.PlayerResults...)
	return &c
}

// --- players ---

type memoryPlayers struct{ s *MemoryStore }

func (r memoryPlayers) Create(_ context.Context, player *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.players[player.ID]; exists {
		return ErrPlayerConflict
	}
	player.Stats = models.Stats{}
	player.CreatedAt = r.s.now()
	r.s.players[player.ID] = copyPlayer(player)
	return nil
}

func (r memoryPlayers) GetByID(_ context.Context, id string) (*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return copyPlayer(p), nil
}

func (r memoryPlayers) List(_ context.Context) ([]*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	players := make([]*models.Player, 0, len(r.s.players))
	for _, p := range r.s.players {
		players = append(players, copyPlayer(p))
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].CreatedAt.Before(players[j].CreatedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (r memoryPlayers) UpdateProfile(_ context.Context, player *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.players[player.ID]
	if !ok {
		return ErrPlayerNotFound
	}
	p.Name = player.Name
	p.DOB = player.DOB
	p.InstagramLink = player.InstagramLink
	p.FacebookLink = player.FacebookLink
	return nil
}

func (r memoryPlayers) UpdatePhoto(_ context.Context, id string, key string, contentType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.players[id]
	if !ok {
		return ErrPlayerNotFound
	}
	p.PhotoKey = &key
	p.PhotoContentType = &contentType
	return nil
}

// Delete cascades to roster records, mirroring the ON DELETE CASCADE in the schema.
func (r memoryPlayers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.players[id]; !ok {
		return ErrPlayerNotFound
	}
	delete(r.s.players, id)
	for _, t := range r.s.teams {
		t.Roster = removeRosterRecord(t.Roster, id)
	}
	return nil
}

// --- tournaments ---

type memoryTournaments struct{ s *MemoryStore }

func (r memoryTournaments) Create(_ context.Context, tournament *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.tournaments[tournament.ID]; exists {
		return ErrTournamentConflict
	}
	tournament.CreatedAt = r.s.now()
	c := *tournament
	r.s.tournaments[tournament.ID] = &c
	return nil
}

func (r memoryTournaments) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	c := *t
	return &c, nil
}

func (r memoryTournaments) List(_ context.Context) ([]*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Tournament, 0, len(r.s.tournaments))
	for _, t := range r.s.tournaments {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memoryTournaments) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tournaments[id]; !ok {
		return ErrTournamentNotFound
	}
	for _, t := range r.s.teams {
		if t.TournamentID == id {
			return ErrTournamentInUse
		}
	}
	for _, m := range r.s.matches {
		if m.TournamentID == id {
			return ErrTournamentInUse
		}
	}
	delete(r.s.tournaments, id)
	return nil
}

// --- teams ---

type memoryTeams struct{ s *MemoryStore }

func (r memoryTeams) Create(_ context.Context, team *models.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.teams[team.ID]; exists {
		return ErrTeamConflict
	}
	if _, ok := r.s.tournaments[team.TournamentID]; !ok {
		return ErrTeamTournamentInvalid
	}
	seen := make(map[string]bool, len(team.Roster))
	for i := range team.Roster {
		pid := team.Roster[i].PlayerID
		if _, ok := r.s.players[pid]; !ok {
			return ErrRosterPlayerInvalid
		}
		if seen[pid] {
			return ErrRosterEntryConflict
		}
		seen[pid] = true
		team.Roster[i].EntryID = newRosterEntryID()
		team.Roster[i].Position = i + 1
		team.Roster[i].Stats = models.Stats{}
	}
	if team.Roster == nil {
		team.Roster = []models.TeamPlayerRecord{}
	}
	team.MatchesPlayed, team.Wins, team.Draws, team.Losses, team.Points = 0, 0, 0, 0, 0
	team.CreatedAt = r.s.now()
	r.s.teams[team.ID] = copyTeam(team)
	return nil
}

func (r memoryTeams) GetByID(_ context.Context, id string) (*models.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return copyTeam(t), nil
}

func (r memoryTeams) List(_ context.Context) ([]*models.Team, error) {
	return r.list(func(*models.Team) bool { return true }, false), nil
}

func (r memoryTeams) ListByTournament(_ context.Context, tournamentID string, byStanding bool) ([]*models.Team, error) {
	return r.list(func(t *models.Team) bool { return t.TournamentID == tournamentID }, byStanding), nil
}

func (r memoryTeams) list(keep func(*models.Team) bool, byStanding bool) []*models.Team {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Team, 0)
	for _, t := range r.s.teams {
		if keep(t) {
			out = append(out, copyTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if byStanding {
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.Draws != b.Draws {
				return a.Draws > b.Draws
			}
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c < 0
			}
			return a.ID < b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (r memoryTeams) AddRosterPlayer(_ context.Context, teamID, playerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.teams[teamID]
	if !ok {
		return ErrTeamNotFound
	}
	if _, ok := r.s.players[playerID]; !ok {
		return ErrRosterPlayerInvalid
	}
	maxPos := 0
	for _, rec := range t.Roster {
		if rec.PlayerID == playerID {
			return ErrRosterEntryConflict
		}
		if rec.Position > maxPos {
			maxPos = rec.Position
		}
	}
	t.Roster = append(t.Roster, models.TeamPlayerRecord{
		PlayerID: playerID,
		EntryID:  newRosterEntryID(),
		Position: maxPos + 1,
	})
	return nil
}

func (r memoryTeams) RemoveRosterPlayer(_ context.Context, teamID, playerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.teams[teamID]
	if !ok {
		return ErrRosterEntryNotFound
	}
	before := len(t.Roster)
	t.Roster = removeRosterRecord(t.Roster, playerID)
	if len(t.Roster) == before {
		return ErrRosterEntryNotFound
	}
	return nil
}

func removeRosterRecord(roster []models.TeamPlayerRecord, playerID string) []models.TeamPlayerRecord {
	out := roster[:0]
	for _, rec := range roster {
		if rec.PlayerID != playerID {
			out = append(out, rec)
		}
	}
	return out
}

// --- matches ---

type memoryMatches struct{ s *MemoryStore }

func (r memoryMatches) Create(_ context.Context, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.matches[match.ID]; exists {
		return ErrMatchConflict
	}
	if _, ok := r.s.tournaments[match.TournamentID]; !ok {
		return ErrMatchTournamentInvalid
	}
	if _, ok := r.s.teams[match.TeamID]; !ok {
		return ErrMatchTeamInvalid
	}
	if match.PlayerResults == nil {
		match.PlayerResults = []models.PlayerResult{}
	}
	now := r.s.now()
	match.CreatedAt = now
	match.UpdatedAt = now
	r.s.matches[match.ID] = copyMatch(match)
	return nil
}

func (r memoryMatches) GetByID(_ context.Context, id string) (*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (r memoryMatches) List(_ context.Context) ([]*models.Match, error) {
	return r.list(func(*models.Match) bool { return true }), nil
}

func (r memoryMatches) ListByTournament(_ context.Context, tournamentID string, teamID *string) ([]*models.Match, error) {
	return r.list(func(m *models.Match) bool {
		if m.TournamentID != tournamentID {
			return false
		}
		return teamID == nil || m.TeamID == *teamID
	}), nil
}

func (r memoryMatches) list(keep func(*models.Match) bool) []*models.Match {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Match, 0)
	for _, m := range r.s.matches {
		if keep(m) {
			out = append(out, copyMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r memoryMatches) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.matches[id]; !ok {
		return ErrMatchNotFound
	}
	delete(r.s.matches, id)
	return nil
}

// --- aggregates ---

type memoryAggregates struct{ s *MemoryStore }

func (r memoryAggregates) Apply(_ context.Context, target AggregateTarget, delta models.StatDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	switch target.Scope {
	case ScopeGlobalPlayer:
		p, ok := r.s.players[target.PlayerID]
		if !ok {
			return ErrPlayerNotFound
		}
		p.Stats = p.Stats.Add(delta)
	case ScopeTeam:
		t, ok := r.s.teams[target.TeamID]
		if !ok {
			return ErrTeamNotFound
		}
		t.MatchesPlayed += delta.MatchesPlayed
		t.Wins += delta.Wins
		t.Draws += delta.Draws
		t.Losses += delta.Losses
		t.Points += delta.Points
	case ScopeTeamPlayer:
		t, ok := r.s.teams[target.TeamID]
		if !ok {
			return ErrRosterEntryNotFound
		}
		for i := range t.Roster {
			if t.Roster[i].PlayerID == target.PlayerID && t.Roster[i].EntryID == target.EntryID {
				t.Roster[i].Stats = t.Roster[i].Stats.Add(delta)
				return nil
			}
		}
		return ErrRosterEntryNotFound
	default:
		return ErrUnknownScope
	}
	return nil
}
