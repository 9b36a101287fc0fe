package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/rudrasish2003/Xenon-Backend/models"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type publishedEvent struct {
	tournamentID string
	eventType    string
	match        *models.Match
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishMatchEvent(tournamentID, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := payload.(*models.Match)
	p.events = append(p.events, publishedEvent{tournamentID: tournamentID, eventType: eventType, match: m})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.eventType
	}
	return out
}

var errStoreDown = errors.New("store unavailable")

// failingAggregates passes writes through to next until the failOn-th call, which fails.
// failOn zero never fails.
type failingAggregates struct {
	next repositories.AggregateRepository

	mu     sync.Mutex
	calls  int
	failOn int
}

func (a *failingAggregates) Apply(ctx context.Context, target repositories.AggregateTarget, delta models.StatDelta) error {
	a.mu.Lock()
	a.calls++
	fail := a.calls == a.failOn
	a.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return a.next.Apply(ctx, target, delta)
}

// failNth arms the n-th Apply from now.
func (a *failingAggregates) failNth(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failOn = a.calls + n
}

// failingMatches rejects ledger inserts while failCreate is set.
type failingMatches struct {
	repositories.MatchRepository

	mu         sync.Mutex
	failCreate bool
}

func (m *failingMatches) Create(ctx context.Context, match *models.Match) error {
	m.mu.Lock()
	fail := m.failCreate
	m.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return m.MatchRepository.Create(ctx, match)
}

func (m *failingMatches) setFailCreate(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCreate = v
}

type fixture struct {
	ctx        context.Context
	store      *repositories.MemoryStore
	matches    MatchService
	audit      AuditService
	publisher  *recordingPublisher
	tournament *models.Tournament
	team       *models.Team
	players    []string

	aggregates *failingAggregates
	ledger     *failingMatches
}

// newFixture builds one tournament with one team whose roster holds rosterSize players.
func newFixture(t *testing.T, rosterSize int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	pub := &recordingPublisher{}

	f := &fixture{
		ctx:        ctx,
		store:      store,
		publisher:  pub,
		aggregates: &failingAggregates{next: store.Aggregates()},
		ledger:     &failingMatches{MatchRepository: store.Matches()},
		audit:      NewAuditService(store.Players(), store.Teams(), store.Matches(), discardLogger()),
	}
	f.matches = NewMatchService(store.Tournaments(), store.Teams(), f.ledger, f.aggregates, pub, discardLogger())

	f.tournament = f.addTournament(t, "Summer Cup")
	roster := make([]string, rosterSize)
	for i := range roster {
		roster[i] = f.addPlayer(t, "player")
	}
	f.players = roster
	f.team = f.addTeam(t, f.tournament.ID, "Blue", roster...)
	return f
}

func (f *fixture) addTournament(t *testing.T, name string) *models.Tournament {
	t.Helper()
	tr := &models.Tournament{ID: uuid.NewString(), Name: name, TotalTeams: 8}
	if err := f.store.Tournaments().Create(f.ctx, tr); err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	return tr
}

func (f *fixture) addPlayer(t *testing.T, name string) string {
	t.Helper()
	p := &models.Player{ID: uuid.NewString(), Name: name, DOB: "2000-01-01"}
	if err := f.store.Players().Create(f.ctx, p); err != nil {
		t.Fatalf("create player: %v", err)
	}
	return p.ID
}

func (f *fixture) addTeam(t *testing.T, tournamentID, name string, playerIDs ...string) *models.Team {
	t.Helper()
	team := &models.Team{ID: uuid.NewString(), TournamentID: tournamentID, Name: name}
	for _, pid := range playerIDs {
		team.Roster = append(team.Roster, models.TeamPlayerRecord{PlayerID: pid})
	}
	if err := f.store.Teams().Create(f.ctx, team); err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team
}

func (f *fixture) input(results ...models.PlayerResult) RecordMatchInput {
	return RecordMatchInput{
		TournamentID:  f.tournament.ID,
		TeamID:        f.team.ID,
		OpponentName:  "Red",
		PlayerResults: results,
	}
}

func (f *fixture) getTeam(t *testing.T, id string) *models.Team {
	t.Helper()
	team, err := f.store.Teams().GetByID(f.ctx, id)
	if err != nil {
		t.Fatalf("get team %s: %v", id, err)
	}
	return team
}

func (f *fixture) getPlayer(t *testing.T, id string) *models.Player {
	t.Helper()
	p, err := f.store.Players().GetByID(f.ctx, id)
	if err != nil {
		t.Fatalf("get player %s: %v", id, err)
	}
	return p
}

func (f *fixture) rosterStats(t *testing.T, teamID, playerID string) models.Stats {
	t.Helper()
	for _, rec := range f.getTeam(t, teamID).Roster {
		if rec.PlayerID == playerID {
			return rec.Stats
		}
	}
	t.Fatalf("player %s is not on team %s", playerID, teamID)
	return models.Stats{}
}

func (f *fixture) ledgerSize(t *testing.T) int {
	t.Helper()
	all, err := f.store.Matches().List(f.ctx)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	return len(all)
}

// snapshot captures every aggregate of the fixture's team and players.
type snapshot struct {
	team    models.StatDelta
	roster  map[string]models.Stats
	players map[string]models.Stats
}

func (f *fixture) snapshot(t *testing.T) snapshot {
	t.Helper()
	team := f.getTeam(t, f.team.ID)
	s := snapshot{
		team:    statsDelta(team.Stats(), team.Points),
		roster:  make(map[string]models.Stats),
		players: make(map[string]models.Stats),
	}
	for _, rec := range team.Roster {
		s.roster[rec.PlayerID] = rec.Stats
	}
	for _, pid := range f.players {
		s.players[pid] = f.getPlayer(t, pid).Stats
	}
	return s
}

func win(id string) models.PlayerResult  { return models.PlayerResult{PlayerID: id, Result: models.ResultWin} }
func loss(id string) models.PlayerResult { return models.PlayerResult{PlayerID: id, Result: models.ResultLoss} }
func draw(id string) models.PlayerResult { return models.PlayerResult{PlayerID: id, Result: models.ResultDraw} }
func sub(id string) models.PlayerResult  { return models.PlayerResult{PlayerID: id, Result: models.ResultSub} }
