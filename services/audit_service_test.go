package services

import (
	"testing"

	"github.com/rudrasish2003/Xenon-Backend/models"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
)

func TestAuditHealthyAfterRecording(t *testing.T) {
	f := newFixture(t, 3)
	p := f.players
	if _, err := f.matches.RecordMatch(f.ctx, f.input(win(p[0]), loss(p[1]), sub(p[2]))); err != nil {
		t.Fatalf("RecordMatch() error = %v", err)
	}
	if _, err := f.matches.RecordMatch(f.ctx, f.input(win(p[0]), win(p[1]), draw(p[2]))); err != nil {
		t.Fatalf("RecordMatch() error = %v", err)
	}

	report, err := f.audit.Run(f.ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Healthy() {
		t.Fatalf("issues = %+v", report.Issues)
	}
	if report.Matches != 2 || report.Teams != 1 || report.Players != 3 || report.RosterRecords != 3 {
		t.Fatalf("report counts = %+v", report)
	}
}

func TestAuditReportsDrift(t *testing.T) {
	f := newFixture(t, 1)
	p1 := f.players[0]
	if _, err := f.matches.RecordMatch(f.ctx, f.input(win(p1))); err != nil {
		t.Fatalf("RecordMatch() error = %v", err)
	}

	// A write that bypasses the ledger.
	if err := f.store.Aggregates().Apply(f.ctx, repositories.PlayerTarget(p1), models.StatDelta{Wins: 1}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	report, err := f.audit.Run(f.ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	kinds := map[AuditIssueKind]bool{}
	for _, issue := range report.Issues {
		if issue.PlayerID != p1 || issue.Scope != string(repositories.ScopeGlobalPlayer) {
			t.Fatalf("unexpected issue %+v", issue)
		}
		kinds[issue.Kind] = true
	}
	if !kinds[IssueSumInvariant] || !kinds[IssueLedgerDrift] {
		t.Fatalf("issue kinds = %v, want sum_invariant and ledger_drift", kinds)
	}
	for _, issue := range report.Issues {
		if issue.Kind == IssueLedgerDrift && (issue.Expected == nil || issue.Expected.Wins != 1 || issue.Actual.Wins != 2) {
			t.Fatalf("drift issue = %+v, want expected 1 win and actual 2", issue)
		}
	}
}

func TestAuditReportsNegativeCounters(t *testing.T) {
	f := newFixture(t, 0)
	delta := models.StatDelta{MatchesPlayed: -1, Losses: -1}
	if err := f.store.Aggregates().Apply(f.ctx, repositories.TeamTarget(f.team.ID), delta); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	report, err := f.audit.Run(f.ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var negative bool
	for _, issue := range report.Issues {
		if issue.Kind == IssueNegativeCounter && issue.TeamID == f.team.ID {
			negative = true
		}
	}
	if !negative {
		t.Fatalf("issues = %+v, want a negative counter on the team", report.Issues)
	}
}
