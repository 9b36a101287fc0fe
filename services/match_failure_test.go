package services

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/rudrasish2003/Xenon-Backend/live"
	"github.com/rudrasish2003/Xenon-Backend/models"
)

func TestRecordMatchIncompleteKeepsLedgerEntry(t *testing.T) {
	f := newFixture(t, 2)
	p1, p2 := f.players[0], f.players[1]

	// team, p1 career, then p1 roster fails
	f.aggregates.failNth(3)
	_, err := f.matches.RecordMatch(f.ctx, f.input(win(p1), win(p2)))
	if !errors.Is(err, ErrAccrualIncomplete) || !errors.Is(err, errStoreDown) {
		t.Fatalf("RecordMatch() error = %v, want ErrAccrualIncomplete wrapping the store error", err)
	}

	if n := f.ledgerSize(t); n != 1 {
		t.Fatalf("ledger size = %d, want the entry kept", n)
	}
	team := f.getTeam(t, f.team.ID)
	if got := statsDelta(team.Stats(), team.Points); got != (models.StatDelta{MatchesPlayed: 1, Wins: 1, Points: 3}) {
		t.Fatalf("team counters = %+v, want the win applied", got)
	}
	if got := f.getPlayer(t, p1).Stats; got != (models.Stats{MatchesPlayed: 1, Wins: 1}) {
		t.Fatalf("p1 career = %+v, want the win applied", got)
	}
	if got := f.rosterStats(t, f.team.ID, p1); got != (models.Stats{}) {
		t.Fatalf("p1 roster = %+v, want untouched", got)
	}
	if got := f.getPlayer(t, p2).Stats; got != (models.Stats{}) {
		t.Fatalf("p2 career = %+v, want untouched", got)
	}
	if got := f.publisher.types(); len(got) != 0 {
		t.Fatalf("published events = %v, want none", got)
	}

	report, err := f.audit.Run(f.ctx)
	if err != nil {
		t.Fatalf("audit Run() error = %v", err)
	}
	if report.Healthy() {
		t.Fatal("audit missed the partially applied match")
	}
}

func TestRemoveMatchIncompleteKeepsLedgerEntry(t *testing.T) {
	f := newFixture(t, 2)
	p1, p2 := f.players[0], f.players[1]

	res, err := f.matches.RecordMatch(f.ctx, f.input(win(p1), win(p2)))
	if err != nil {
		t.Fatalf("RecordMatch() error = %v", err)
	}

	// team reverts, p1 career fails
	f.aggregates.failNth(2)
	err = f.matches.RemoveMatch(f.ctx, res.MatchID)
	if !errors.Is(err, ErrRollbackIncomplete) || !errors.Is(err, errStoreDown) {
		t.Fatalf("RemoveMatch() error = %v, want ErrRollbackIncomplete wrapping the store error", err)
	}

	if _, err := f.matches.GetMatch(f.ctx, res.MatchID); err != nil {
		t.Fatalf("GetMatch() error = %v, want the entry kept", err)
	}
	if got := f.getTeam(t, f.team.ID).MatchesPlayed; got != 0 {
		t.Fatalf("team matches played = %d, want the revert applied", got)
	}
	if got := f.getPlayer(t, p1).Stats; got != (models.Stats{MatchesPlayed: 1, Wins: 1}) {
		t.Fatalf("p1 career = %+v, want untouched by the failed revert", got)
	}
	want := []string{live.MatchRecorded}
	if got := f.publisher.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("published events = %v, want %v", got, want)
	}
}

func TestReplaceMatchLedgerWriteFailureLeavesMatchAbsent(t *testing.T) {
	f := newFixture(t, 2)
	p1, p2 := f.players[0], f.players[1]
	before := f.snapshot(t)

	res, err := f.matches.RecordMatch(f.ctx, f.input(win(p1), win(p2)))
	if err != nil {
		t.Fatalf("RecordMatch() error = %v", err)
	}

	f.ledger.setFailCreate(true)
	_, err = f.matches.ReplaceMatch(f.ctx, res.MatchID, f.input(loss(p1), loss(p2)))
	if !errors.Is(err, ErrMatchCreationFailed) {
		t.Fatalf("ReplaceMatch() error = %v, want ErrMatchCreationFailed", err)
	}

	if _, err := f.matches.GetMatch(f.ctx, res.MatchID); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("GetMatch() error = %v, want ErrMatchNotFound", err)
	}
	if after := f.snapshot(t); !reflect.DeepEqual(before, after) {
		t.Fatalf("aggregates = %+v, want the original fully reverted to %+v", after, before)
	}
	want := []string{live.MatchRecorded, live.MatchRemoved}
	if got := f.publisher.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("published events = %v, want %v", got, want)
	}
}

func TestReplaceMatchIncompleteReaccrualKeepsNewEntry(t *testing.T) {
	f := newFixture(t, 2)
	p1, p2 := f.players[0], f.players[1]

	res, err := f.matches.RecordMatch(f.ctx, f.input(win(p1), win(p2)))
	if err != nil {
		t.Fatalf("RecordMatch() error = %v", err)
	}

	// five reverting writes succeed, the new entry's team write fails
	f.aggregates.failNth(6)
	_, err = f.matches.ReplaceMatch(f.ctx, res.MatchID, f.input(loss(p1), loss(p2)))
	if !errors.Is(err, ErrAccrualIncomplete) {
		t.Fatalf("ReplaceMatch() error = %v, want ErrAccrualIncomplete", err)
	}

	stored, err := f.matches.GetMatch(f.ctx, res.MatchID)
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if stored.TeamResult != models.TeamLoss {
		t.Fatalf("stored team result = %s, want the replacement on the ledger", stored.TeamResult)
	}
	if got := f.getTeam(t, f.team.ID).MatchesPlayed; got != 0 {
		t.Fatalf("team matches played = %d, want 0", got)
	}
	want := []string{live.MatchRecorded}
	if got := f.publisher.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("published events = %v, want %v", got, want)
	}
}

func TestConcurrentMatchesConverge(t *testing.T) {
	f := newFixture(t, 4)
	const (
		workers   = 8
		perWorker = 5
		removed   = 2
	)

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			a, b := f.players[w%4], f.players[(w+1)%4]
			var ids []string
			for i := 0; i < perWorker; i++ {
				res, err := f.matches.RecordMatch(f.ctx, f.input(win(a), draw(b)))
				if err != nil {
					errs <- fmt.Errorf("worker %d record: %w", w, err)
					return
				}
				ids = append(ids, res.MatchID)
			}
			for _, id := range ids[:removed] {
				if err := f.matches.RemoveMatch(f.ctx, id); err != nil {
					errs <- fmt.Errorf("worker %d remove: %w", w, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	kept := workers * (perWorker - removed)
	if n := f.ledgerSize(t); n != kept {
		t.Fatalf("ledger size = %d, want %d", n, kept)
	}
	team := f.getTeam(t, f.team.ID)
	if got := statsDelta(team.Stats(), team.Points); got != (models.StatDelta{MatchesPlayed: kept, Wins: kept, Points: 3 * kept}) {
		t.Fatalf("team counters = %+v", got)
	}
	report, err := f.audit.Run(f.ctx)
	if err != nil {
		t.Fatalf("audit Run() error = %v", err)
	}
	if !report.Healthy() {
		t.Fatalf("audit issues = %+v", report.Issues)
	}
}
