package habits

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gymtrack/internal/api"
	"gymtrack/internal/models"
)

type fakeInvoker struct {
	fn    func(op api.Operation, params map[string]string) (json.RawMessage, error)
	calls int
}

func (f *fakeInvoker) Invoke(_ context.Context, op api.Operation, params map[string]string) (json.RawMessage, error) {
	f.calls++
	return f.fn(op, params)
}

func listInvoker(payload string) *fakeInvoker {
	return &fakeInvoker{fn: func(op api.Operation, _ map[string]string) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	}}
}

func TestListTrainingFirst(t *testing.T) {
	inv := listInvoker(`[{"id": 2, "name": "creatine"}, {"id": 1, "name": "zinc"}]`)
	r := NewRegistry(inv)

	list, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].ID != models.TrainingHabitID || list[0].Kind != models.HabitTraining {
		t.Errorf("list[0] = %+v, want the training habit", list[0])
	}
	// Server order is preserved, not sorted.
	if list[1].Name != "creatine" || list[2].Name != "zinc" {
		t.Errorf("supplement order = %q, %q", list[1].Name, list[2].Name)
	}
	if list[1].ID != "2" {
		t.Errorf("list[1].ID = %q, want \"2\"", list[1].ID)
	}
}

func TestListCachesPerSession(t *testing.T) {
	inv := listInvoker(`["creatine"]`)
	r := NewRegistry(inv)

	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if inv.calls != 1 {
		t.Errorf("calls = %d, want 1 (list is cached)", inv.calls)
	}

	r.Invalidate()
	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if inv.calls != 2 {
		t.Errorf("calls after Invalidate = %d, want 2", inv.calls)
	}
}

func TestListNameOnlyDeployment(t *testing.T) {
	inv := listInvoker(`["creatine", "omega 3"]`)
	r := NewRegistry(inv)

	list, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list[1].ID != "creatine" || list[1].Name != "creatine" {
		t.Errorf("list[1] = %+v, want name doubling as id", list[1])
	}
}

func TestAddValidatesName(t *testing.T) {
	inv := listInvoker(`{"ok": true}`)
	r := NewRegistry(inv)

	for _, name := range []string{"", "   ", "\t"} {
		_, err := r.Add(context.Background(), name)
		var ve *api.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Add(%q) error = %v, want *ValidationError", name, err)
		}
	}
	if inv.calls != 0 {
		t.Errorf("calls = %d, want 0 (validation happens before the network)", inv.calls)
	}
}

func TestAddTrimsAndAppends(t *testing.T) {
	inv := &fakeInvoker{fn: func(op api.Operation, params map[string]string) (json.RawMessage, error) {
		if op == api.OpListSupplements {
			return json.RawMessage(`[]`), nil
		}
		if got := params["name"]; got != "creatine" {
			t.Errorf("name param = %q, want trimmed", got)
		}
		return json.RawMessage(`{"id": 5, "name": "creatine"}`), nil
	}}
	r := NewRegistry(inv)

	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	h, err := r.Add(context.Background(), "  creatine  ")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if h.ID != "5" || h.Kind != models.HabitSupplement {
		t.Errorf("habit = %+v", h)
	}

	list, _ := r.List(context.Background())
	if len(list) != 2 || list[1].ID != "5" {
		t.Errorf("list after add = %+v", list)
	}
}

func TestAddSurfacesConflict(t *testing.T) {
	inv := &fakeInvoker{fn: func(api.Operation, map[string]string) (json.RawMessage, error) {
		return nil, &api.ConflictError{Detail: "supplement already exists"}
	}}
	r := NewRegistry(inv)

	_, err := r.Add(context.Background(), "creatine")
	var ce *api.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Add() error = %v, want *ConflictError", err)
	}
}

func TestRemoveTrainingRefusedLocally(t *testing.T) {
	inv := listInvoker(`{"ok": true}`)
	r := NewRegistry(inv)

	err := r.Remove(context.Background(), models.TrainingHabitID)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Remove(training) error = %v, want ErrInvalidOperation", err)
	}
	if inv.calls != 0 {
		t.Errorf("calls = %d, want 0 (refused before the network)", inv.calls)
	}
}

func TestRemoveUnsupportedKeepsHabit(t *testing.T) {
	inv := &fakeInvoker{fn: func(op api.Operation, _ map[string]string) (json.RawMessage, error) {
		if op == api.OpListSupplements {
			return json.RawMessage(`[{"id": 5, "name": "creatine"}]`), nil
		}
		return nil, api.ErrUnsupported
	}}
	r := NewRegistry(inv)

	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if err := r.Remove(context.Background(), "5"); !errors.Is(err, api.ErrUnsupported) {
		t.Fatalf("Remove() error = %v, want ErrUnsupported", err)
	}

	list, _ := r.List(context.Background())
	if len(list) != 2 {
		t.Errorf("len = %d, want 2 (removal is never fabricated locally)", len(list))
	}
}

func TestRemoveDropsHabitFromCache(t *testing.T) {
	inv := &fakeInvoker{fn: func(op api.Operation, _ map[string]string) (json.RawMessage, error) {
		if op == api.OpListSupplements {
			return json.RawMessage(`[{"id": 5, "name": "creatine"}, {"id": 6, "name": "zinc"}]`), nil
		}
		return json.RawMessage(`{"ok": true}`), nil
	}}
	r := NewRegistry(inv)

	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := r.Remove(context.Background(), "5"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	list, _ := r.List(context.Background())
	if len(list) != 2 || list[1].ID != "6" {
		t.Errorf("list after remove = %+v", list)
	}
}
