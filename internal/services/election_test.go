package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"allvoter/internal/models"
	"allvoter/internal/testutil"

	"gorm.io/gorm"
)

func electionFixture(t *testing.T) (*ElectionService, *gorm.DB, *models.User) {
	t.Helper()
	gdb := testutil.SetupTestDB(t)
	return NewElectionService(gdb, 5*time.Second), gdb, testutil.CreateAdmin(t, gdb)
}

func TestCreateElectionValidation(t *testing.T) {
	s, gdb, admin := electionFixture(t)

	now := time.Now()
	_, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:     "Backwards",
		StartDate: now.Add(time.Hour),
		EndDate:   now,
	})
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}

	_, err = s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:        "Ghost candidates",
		StartDate:    now,
		EndDate:      now.Add(time.Hour),
		CandidateIDs: []uint{12345},
	})
	if !errors.Is(err, ErrInvalidCandidates) {
		t.Errorf("expected ErrInvalidCandidates, got %v", err)
	}

	c := testutil.CreateCandidate(t, gdb, "Ravi", "Progress Party")
	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:        "General",
		StartDate:    now,
		EndDate:      now.Add(time.Hour),
		CandidateIDs: []uint{c.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if election.Status != models.ElectionDraft {
		t.Errorf("expected draft status, got %s", election.Status)
	}
	if election.CreatedByID != admin.ID {
		t.Errorf("expected creator %d, got %d", admin.ID, election.CreatedByID)
	}
	if len(election.Candidates) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(election.Candidates))
	}
}

func TestStartRequiresCandidates(t *testing.T) {
	s, gdb, admin := electionFixture(t)

	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:     "Empty",
		StartDate: time.Now().Add(-time.Minute),
		EndDate:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// No candidates: not startable even with valid dates.
	if _, err := s.Start(context.Background(), election.ID); !errors.Is(err, ErrElectionNotStartable) {
		t.Fatalf("expected ErrElectionNotStartable, got %v", err)
	}

	c := testutil.CreateCandidate(t, gdb, "Ravi", "Progress Party")
	if _, err := s.AddCandidates(context.Background(), election.ID, []uint{c.ID}); err != nil {
		t.Fatalf("AddCandidates failed: %v", err)
	}

	started, err := s.Start(context.Background(), election.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != models.ElectionActive {
		t.Errorf("expected active status, got %s", started.Status)
	}
}

func TestStartBeforeWindow(t *testing.T) {
	s, gdb, admin := electionFixture(t)

	c := testutil.CreateCandidate(t, gdb, "Ravi", "Progress Party")
	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:        "Future",
		StartDate:    time.Now().Add(time.Hour),
		EndDate:      time.Now().Add(2 * time.Hour),
		CandidateIDs: []uint{c.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := s.Start(context.Background(), election.ID); !errors.Is(err, ErrElectionNotStartable) {
		t.Fatalf("expected ErrElectionNotStartable before window, got %v", err)
	}
}

func TestEndTwice(t *testing.T) {
	s, gdb, admin := electionFixture(t)

	c := testutil.CreateCandidate(t, gdb, "Ravi", "Progress Party")
	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:        "General",
		StartDate:    time.Now().Add(-time.Minute),
		EndDate:      time.Now().Add(time.Hour),
		CandidateIDs: []uint{c.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Start(context.Background(), election.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ended, err := s.End(context.Background(), election.ID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if ended.Status != models.ElectionCompleted {
		t.Errorf("expected completed status, got %s", ended.Status)
	}

	// A second end is an error, never a silent no-op.
	if _, err := s.End(context.Background(), election.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestUpdateCompletedElection(t *testing.T) {
	s, _, admin := electionFixture(t)

	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:     "General",
		StartDate: time.Now().Add(-time.Minute),
		EndDate:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.End(context.Background(), election.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	title := "Renamed"
	if _, err := s.Update(context.Background(), election.ID, UpdateElectionInput{Title: &title}); !errors.Is(err, ErrElectionCompleted) {
		t.Fatalf("expected ErrElectionCompleted, got %v", err)
	}
}

func TestUpdateDateCrossCheck(t *testing.T) {
	s, _, admin := electionFixture(t)

	start := time.Now()
	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:     "General",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// New end before the existing, unedited start.
	badEnd := start.Add(-time.Hour)
	if _, err := s.Update(context.Background(), election.ID, UpdateElectionInput{EndDate: &badEnd}); !errors.Is(err, ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart for bad end, got %v", err)
	}

	// New start after the existing, unedited end.
	badStart := start.Add(2 * time.Hour)
	if _, err := s.Update(context.Background(), election.ID, UpdateElectionInput{StartDate: &badStart}); !errors.Is(err, ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart for bad start, got %v", err)
	}

	// Moving both bounds together is fine.
	newStart := start.Add(24 * time.Hour)
	newEnd := start.Add(25 * time.Hour)
	updated, err := s.Update(context.Background(), election.ID, UpdateElectionInput{EndDate: &newEnd, StartDate: &newStart})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.EndDate.After(updated.StartDate) {
		t.Error("expected end after start")
	}
}

func TestAddCandidatesDedupes(t *testing.T) {
	s, gdb, admin := electionFixture(t)

	c := testutil.CreateCandidate(t, gdb, "Ravi", "Progress Party")
	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:        "General",
		StartDate:    time.Now(),
		EndDate:      time.Now().Add(time.Hour),
		CandidateIDs: []uint{c.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := s.AddCandidates(context.Background(), election.ID, []uint{c.ID, c.ID})
	if err != nil {
		t.Fatalf("AddCandidates failed: %v", err)
	}
	if len(updated.Candidates) != 1 {
		t.Errorf("expected 1 candidate after duplicate add, got %d", len(updated.Candidates))
	}

	if _, err := s.AddCandidates(context.Background(), election.ID, []uint{4242}); !errors.Is(err, ErrInvalidCandidates) {
		t.Errorf("expected ErrInvalidCandidates, got %v", err)
	}
}

func TestRemoveCandidate(t *testing.T) {
	s, gdb, admin := electionFixture(t)

	a := testutil.CreateCandidate(t, gdb, "A", "Alpha")
	b := testutil.CreateCandidate(t, gdb, "B", "Beta")
	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:        "General",
		StartDate:    time.Now(),
		EndDate:      time.Now().Add(time.Hour),
		CandidateIDs: []uint{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := s.RemoveCandidate(context.Background(), election.ID, a.ID)
	if err != nil {
		t.Fatalf("RemoveCandidate failed: %v", err)
	}
	if len(updated.Candidates) != 1 || updated.Candidates[0].ID != b.ID {
		t.Errorf("expected only candidate B to remain")
	}
}

func TestDeleteElectionGuards(t *testing.T) {
	s, gdb, admin := electionFixture(t)

	c := testutil.CreateCandidate(t, gdb, "Ravi", "Progress Party")
	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:        "General",
		StartDate:    time.Now().Add(-time.Minute),
		EndDate:      time.Now().Add(time.Hour),
		CandidateIDs: []uint{c.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Start(context.Background(), election.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := s.Delete(context.Background(), election.ID); !errors.Is(err, ErrElectionActive) {
		t.Fatalf("expected ErrElectionActive, got %v", err)
	}

	if _, err := s.End(context.Background(), election.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if err := s.Delete(context.Background(), election.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(context.Background(), election.ID); !errors.Is(err, ErrElectionNotFound) {
		t.Errorf("expected ErrElectionNotFound after delete, got %v", err)
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	s, _, admin := electionFixture(t)

	election, err := s.Create(context.Background(), admin.ID, CreateElectionInput{
		Title:     "General",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cancelled := models.ElectionCancelled
	if _, err := s.Update(context.Background(), election.ID, UpdateElectionInput{Status: &cancelled}); err != nil {
		t.Fatalf("Update to cancelled failed: %v", err)
	}

	title := "Renamed"
	if _, err := s.Update(context.Background(), election.ID, UpdateElectionInput{Title: &title}); !errors.Is(err, ErrElectionCompleted) {
		t.Fatalf("expected terminal guard on cancelled election, got %v", err)
	}
}
