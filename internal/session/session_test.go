package session

import (
	"path/filepath"
	"testing"

	"gymtrack/internal/adherence"
	"gymtrack/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "gymtrack.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettingsRoundtrip(t *testing.T) {
	s := openTestStore(t)

	if v, err := s.Get(KeyToken); err != nil || v != "" {
		t.Fatalf("Get(unset) = %q, %v, want empty", v, err)
	}

	if err := s.Set(KeyToken, "tok-123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _ := s.Get(KeyToken); v != "tok-123" {
		t.Errorf("Get() = %q", v)
	}

	if err := s.Set(KeyToken, "tok-456"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if v, _ := s.Get(KeyToken); v != "tok-456" {
		t.Errorf("Get() after overwrite = %q", v)
	}

	if err := s.Delete(KeyToken); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if v, _ := s.Get(KeyToken); v != "" {
		t.Errorf("Get() after delete = %q", v)
	}
}

func TestMonthFactsRoundtrip(t *testing.T) {
	s := openTestStore(t)

	facts := map[adherence.Key]models.TriState{
		{Day: "2025-08-01", HabitID: models.TrainingHabitID}: models.TriYes,
		{Day: "2025-08-02", HabitID: models.TrainingHabitID}: models.TriNo,
		{Day: "2025-08-01", HabitID: "creatine"}:             models.TriYes,
	}
	if err := s.SaveMonthFacts("2025-08", facts); err != nil {
		t.Fatalf("SaveMonthFacts() error = %v", err)
	}

	got, err := s.LoadMonthFacts("2025-08")
	if err != nil {
		t.Fatalf("LoadMonthFacts() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for k, v := range facts {
		if got[k] != v {
			t.Errorf("facts[%v] = %q, want %q", k, got[k], v)
		}
	}

	if other, _ := s.LoadMonthFacts("2025-07"); len(other) != 0 {
		t.Errorf("other month has %d facts, want 0", len(other))
	}
}

func TestSaveMonthFactsReplaces(t *testing.T) {
	s := openTestStore(t)

	key := adherence.Key{Day: "2025-08-01", HabitID: models.TrainingHabitID}
	if err := s.SaveMonthFacts("2025-08", map[adherence.Key]models.TriState{key: models.TriYes}); err != nil {
		t.Fatalf("SaveMonthFacts() error = %v", err)
	}
	// The second save carries only one fact; the stale row must not linger.
	if err := s.SaveMonthFacts("2025-08", map[adherence.Key]models.TriState{
		{Day: "2025-08-02", HabitID: models.TrainingHabitID}: models.TriNo,
	}); err != nil {
		t.Fatalf("SaveMonthFacts() error = %v", err)
	}

	got, err := s.LoadMonthFacts("2025-08")
	if err != nil {
		t.Fatalf("LoadMonthFacts() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
	if _, ok := got[key]; ok {
		t.Error("replaced fact still present")
	}
}

func TestSaveMonthFactsSkipsUnset(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveMonthFacts("2025-08", map[adherence.Key]models.TriState{
		{Day: "2025-08-01", HabitID: models.TrainingHabitID}: models.TriUnset,
	}); err != nil {
		t.Fatalf("SaveMonthFacts() error = %v", err)
	}

	got, _ := s.LoadMonthFacts("2025-08")
	if len(got) != 0 {
		t.Errorf("len = %d, want 0 (unset is never persisted)", len(got))
	}
}

func TestWipeClearsTokenAndFacts(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set(KeyToken, "tok"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyLastMonth, "2025-08"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMonthFacts("2025-08", map[adherence.Key]models.TriState{
		{Day: "2025-08-01", HabitID: models.TrainingHabitID}: models.TriYes,
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.Wipe(); err != nil {
		t.Fatalf("Wipe() error = %v", err)
	}

	if v, _ := s.Get(KeyToken); v != "" {
		t.Errorf("token survives Wipe: %q", v)
	}
	if facts, _ := s.LoadMonthFacts("2025-08"); len(facts) != 0 {
		t.Errorf("fact cache survives Wipe: %d rows", len(facts))
	}
	// Non-credential settings are kept.
	if v, _ := s.Get(KeyLastMonth); v != "2025-08" {
		t.Errorf("last month = %q, want 2025-08", v)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gymtrack.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s1.Set(KeyBaseURL, "http://example.test"); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	if v, _ := s2.Get(KeyBaseURL); v != "http://example.test" {
		t.Errorf("setting lost across reopen: %q", v)
	}
}
