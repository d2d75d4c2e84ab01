package cache

import (
	"path/filepath"
	"testing"
	"time"

	"lettersmith/internal/types"
)

func testSession(title, company, desc string) types.CachedSession {
	return types.CachedSession{
		JobDetails: &types.JobDetails{
			JobTitle:    title,
			CompanyName: company,
			Description: desc,
			Success:     true,
		},
		UserProfile: &types.UserProfile{FullName: "Dana Smith"},
		Resume:      "resume text",
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	m := NewManager(NewMemoryStore(), 10, 0, nil)

	saved, err := m.SaveSession(testSession("Backend Engineer", "Acme", "Build services"))
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SaveSession should assign an id")
	}
	if saved.JDHash == "" {
		t.Fatal("SaveSession should assign a job hash")
	}

	got, err := m.GetSessionByID(saved.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if got == nil {
		t.Fatal("saved session not found")
	}
	if got.JobDetails.JobTitle != "Backend Engineer" {
		t.Errorf("JobTitle = %q", got.JobDetails.JobTitle)
	}
}

func TestCountEviction(t *testing.T) {
	m := NewManager(NewMemoryStore(), 3, 0, nil)

	var first types.CachedSession
	for i, title := range []string{"A", "B", "C", "D"} {
		s, err := m.SaveSession(testSession(title, "Acme", "desc"))
		if err != nil {
			t.Fatalf("SaveSession %d: %v", i, err)
		}
		if i == 0 {
			first = s
		}
	}

	sessions, err := m.GetSessions()
	if err != nil {
		t.Fatalf("GetSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("len = %d, want 3", len(sessions))
	}
	if sessions[0].JobDetails.JobTitle != "D" {
		t.Errorf("newest first, got %q", sessions[0].JobDetails.JobTitle)
	}

	got, err := m.GetSessionByID(first.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if got != nil {
		t.Error("oldest session should have been evicted")
	}
}

func TestRetentionEviction(t *testing.T) {
	m := NewManager(NewMemoryStore(), 10, 7*24*time.Hour, nil)

	now := time.Now()
	m.now = func() time.Time { return now.Add(-8 * 24 * time.Hour) }
	if _, err := m.SaveSession(testSession("Old", "Acme", "desc")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	m.now = func() time.Time { return now }
	if _, err := m.SaveSession(testSession("New", "Acme", "desc")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	sessions, err := m.GetSessions()
	if err != nil {
		t.Fatalf("GetSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len = %d, want 1 after retention eviction", len(sessions))
	}
	if sessions[0].JobDetails.JobTitle != "New" {
		t.Errorf("surviving session = %q", sessions[0].JobDetails.JobTitle)
	}
}

func TestFindByJobDetailsNormalizes(t *testing.T) {
	m := NewManager(NewMemoryStore(), 10, 0, nil)

	if _, err := m.SaveSession(testSession("Backend Engineer", "Acme", "Build services")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	// Same posting with different casing and spacing hashes equal.
	got, err := m.FindSessionByJobDetails(types.JobDetails{
		JobTitle:    "  backend ENGINEER ",
		CompanyName: "ACME",
		Description: "build services",
	})
	if err != nil {
		t.Fatalf("FindSessionByJobDetails: %v", err)
	}
	if got == nil {
		t.Fatal("equivalent posting should hit the cache")
	}

	miss, err := m.FindSessionByJobDetails(types.JobDetails{
		JobTitle:    "Frontend Engineer",
		CompanyName: "Acme",
		Description: "build services",
	})
	if err != nil {
		t.Fatalf("FindSessionByJobDetails: %v", err)
	}
	if miss != nil {
		t.Error("different posting should miss the cache")
	}
}

func TestUpdateSessionShallowMerge(t *testing.T) {
	m := NewManager(NewMemoryStore(), 10, 0, nil)

	saved, err := m.SaveSession(testSession("Backend Engineer", "Acme", "Build services"))
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	origHash := saved.JDHash

	updated, err := m.UpdateSession(saved.ID, map[string]any{
		"resume": "tailored resume",
		"jobDetails": map[string]any{
			"jobTitle":    "Staff Engineer",
			"companyName": "Acme",
			"description": "Build services",
			"success":     true,
		},
		"_scratch": "must not persist",
	})
	if err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	if updated.Resume != "tailored resume" {
		t.Errorf("Resume = %q", updated.Resume)
	}
	if updated.JobDetails.JobTitle != "Staff Engineer" {
		t.Errorf("JobTitle = %q", updated.JobDetails.JobTitle)
	}
	if updated.JDHash == origHash {
		t.Error("jdHash should be recomputed after a job-details update")
	}
	if updated.UserProfile.FullName != "Dana Smith" {
		t.Error("untouched fields must survive the merge")
	}
	if !updated.Timestamp.After(saved.Timestamp) && !updated.Timestamp.Equal(saved.Timestamp) {
		t.Error("timestamp should be refreshed")
	}
}

func TestUpdatedSessionSortsNewestFirst(t *testing.T) {
	m := NewManager(NewMemoryStore(), 10, 0, nil)

	now := time.Now()
	m.now = func() time.Time { return now }
	a, err := m.SaveSession(testSession("A", "Acme", "desc a"))
	if err != nil {
		t.Fatalf("SaveSession A: %v", err)
	}

	m.now = func() time.Time { return now.Add(time.Minute) }
	if _, err := m.SaveSession(testSession("B", "Acme", "desc b")); err != nil {
		t.Fatalf("SaveSession B: %v", err)
	}

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := m.UpdateSession(a.ID, map[string]any{"resume": "v2"}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	sessions, err := m.GetSessions()
	if err != nil {
		t.Fatalf("GetSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	if sessions[0].ID != a.ID {
		t.Errorf("updated session should sort first, got %q", sessions[0].JobDetails.JobTitle)
	}
	if sessions[0].Timestamp.Before(sessions[1].Timestamp) {
		t.Error("sessions must be ordered newest first")
	}

	found, err := m.FindSessionByJobURL("")
	if err != nil {
		t.Fatalf("FindSessionByJobURL: %v", err)
	}
	if found != nil {
		t.Error("empty URL must never match")
	}
}

func TestUpdateUnknownSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), 10, 0, nil)
	if _, err := m.UpdateSession("missing", map[string]any{"resume": "x"}); err == nil {
		t.Error("updating an unknown id should fail")
	}
}

func TestDeleteSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), 10, 0, nil)

	saved, err := m.SaveSession(testSession("Backend Engineer", "Acme", "desc"))
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := m.DeleteSession(saved.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	got, err := m.GetSessionByID(saved.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if got != nil {
		t.Error("deleted session still present")
	}

	if err := m.DeleteSession("never-existed"); err != nil {
		t.Errorf("deleting an unknown id should be a no-op, got %v", err)
	}
}

func TestMalformedStoreStartsEmpty(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Write([]byte("{not json")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m := NewManager(store, 10, 0, nil)
	sessions, err := m.GetSessions()
	if err != nil {
		t.Fatalf("GetSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("malformed blob should read as empty, got %d sessions", len(sessions))
	}

	// And the cache is usable again after the next save.
	if _, err := m.SaveSession(testSession("A", "B", "c")); err != nil {
		t.Fatalf("SaveSession after malformed read: %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.json")
	m := NewManager(NewFileStore(path), 10, 0, nil)

	saved, err := m.SaveSession(testSession("Backend Engineer", "Acme", "desc"))
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	// A fresh manager over the same file sees the session.
	m2 := NewManager(NewFileStore(path), 10, 0, nil)
	got, err := m2.GetSessionByID(saved.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if got == nil {
		t.Fatal("session not persisted to disk")
	}
}

func TestGetCacheStats(t *testing.T) {
	m := NewManager(NewMemoryStore(), 5, 0, nil)

	stats, err := m.GetCacheStats()
	if err != nil {
		t.Fatalf("GetCacheStats: %v", err)
	}
	if stats.Sessions != 0 || stats.MaxSessions != 5 {
		t.Errorf("empty stats = %+v", stats)
	}
	if stats.Oldest != nil || stats.Newest != nil {
		t.Error("empty cache should have no age span")
	}

	if _, err := m.SaveSession(testSession("A", "B", "c")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	stats, err = m.GetCacheStats()
	if err != nil {
		t.Fatalf("GetCacheStats: %v", err)
	}
	if stats.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", stats.Sessions)
	}
	if stats.Oldest == nil || stats.Newest == nil {
		t.Error("stats should report the age span")
	}
}
