package habits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gymtrack/internal/api"
	"gymtrack/internal/models"
)

// ErrInvalidOperation is returned for operations that must never reach the
// network, such as removing the training habit.
var ErrInvalidOperation = errors.New("invalid operation")

// Registry holds the account's trackable habits: the implicit training habit
// plus the user's supplements in server-returned order.
type Registry struct {
	inv api.Invoker

	mu          sync.Mutex
	supplements []models.Habit
	loaded      bool
	inflight    map[string]bool // add by name, remove by id
}

func NewRegistry(inv api.Invoker) *Registry {
	return &Registry{
		inv:      inv,
		inflight: make(map[string]bool),
	}
}

// List returns every habit, training first, then supplements in the order the
// server returned them. The supplement list is fetched once per session and
// reused; Invalidate forces a refetch.
func (r *Registry) List(ctx context.Context) ([]models.Habit, error) {
	r.mu.Lock()
	if r.loaded {
		out := r.allLocked()
		r.mu.Unlock()
		return out, nil
	}
	r.mu.Unlock()

	payload, err := r.inv.Invoke(ctx, api.OpListSupplements, nil)
	if err != nil {
		return nil, err
	}
	supps, err := decodeSupplements(payload)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.supplements = supps
	r.loaded = true
	return r.allLocked(), nil
}

func (r *Registry) allLocked() []models.Habit {
	out := make([]models.Habit, 0, len(r.supplements)+1)
	out = append(out, models.TrainingHabit())
	out = append(out, r.supplements...)
	return out
}

// Invalidate drops the cached supplement list so the next List refetches.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.loaded = false
	r.supplements = nil
	r.mu.Unlock()
}

// Add creates a supplement habit. The name is trimmed and validated locally;
// a server-reported duplicate surfaces as *api.ConflictError. Rapid repeated
// invocations for the same name are coalesced into one request.
func (r *Registry) Add(ctx context.Context, name string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, &api.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	guard := "add:" + strings.ToLower(name)
	r.mu.Lock()
	if r.inflight[guard] {
		r.mu.Unlock()
		return models.Habit{}, &api.ValidationError{Field: "name", Reason: "add already in progress"}
	}
	r.inflight[guard] = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inflight, guard)
		r.mu.Unlock()
	}()

	payload, err := r.inv.Invoke(ctx, api.OpAddSupplement, map[string]string{"name": name})
	if err != nil {
		return models.Habit{}, err
	}

	habit := decodeAddedHabit(payload, name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		for _, h := range r.supplements {
			if h.ID == habit.ID {
				return h, nil
			}
		}
		r.supplements = append(r.supplements, habit)
	}
	return habit, nil
}

// Remove deletes a supplement habit, best effort. Removing the training habit
// fails before any network call; a backend without a remove route reports
// api.ErrUnsupported and the registry keeps the habit (it never fabricates a
// removal).
func (r *Registry) Remove(ctx context.Context, id string) error {
	if id == models.TrainingHabitID {
		return fmt.Errorf("training habit cannot be removed: %w", ErrInvalidOperation)
	}
	if strings.TrimSpace(id) == "" {
		return &api.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	guard := "remove:" + id
	r.mu.Lock()
	if r.inflight[guard] {
		r.mu.Unlock()
		return nil
	}
	r.inflight[guard] = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inflight, guard)
		r.mu.Unlock()
	}()

	if _, err := r.inv.Invoke(ctx, api.OpRemoveSupplement, map[string]string{"id": id}); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.supplements {
		if h.ID == id {
			r.supplements = append(r.supplements[:i], r.supplements[i+1:]...)
			break
		}
	}
	return nil
}

// decodeSupplements accepts the list layouts seen across deployments: a bare
// array, or {"items": [...]}, with elements that are either plain name
// strings or {id, name} objects. Name-only deployments use the name as id.
func decodeSupplements(payload json.RawMessage) ([]models.Habit, error) {
	var wrapped struct {
		Items json.RawMessage `json:"items"`
	}
	list := payload
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Items != nil {
		list = wrapped.Items
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(list, &raw); err != nil {
		return nil, &api.TransientError{Err: fmt.Errorf("malformed supplements response: %w", err)}
	}

	supps := make([]models.Habit, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			supps = append(supps, models.Habit{ID: name, Name: name, Kind: models.HabitSupplement})
			continue
		}
		var obj struct {
			ID   json.Number `json:"id"`
			Name string      `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, &api.TransientError{Err: fmt.Errorf("malformed supplement entry: %w", err)}
		}
		id := obj.ID.String()
		if id == "" {
			id = obj.Name
		}
		supps = append(supps, models.Habit{ID: id, Name: obj.Name, Kind: models.HabitSupplement})
	}
	return supps, nil
}

// decodeAddedHabit reads the created habit out of the add response when the
// backend echoes one; older backends answer {"ok": true} and the name doubles
// as the id.
func decodeAddedHabit(payload json.RawMessage, name string) models.Habit {
	var obj struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	}
	if err := json.Unmarshal(payload, &obj); err == nil && obj.ID.String() != "" {
		n := obj.Name
		if n == "" {
			n = name
		}
		return models.Habit{ID: obj.ID.String(), Name: n, Kind: models.HabitSupplement}
	}
	return models.Habit{ID: name, Name: name, Kind: models.HabitSupplement}
}
