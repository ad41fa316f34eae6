package adherence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gymtrack/internal/api"
	"gymtrack/internal/models"
)

// PendingEdit is a locally applied write that the backend has not confirmed
// yet. Prev is the rollback target; Seq orders the edit against other edits
// and against month fetches.
type PendingEdit struct {
	Handle string
	Key    Key
	Value  models.TriState
	Prev   models.TriState
	Seq    uint64
}

// Store owns the session's adherence state: per-month fact caches, optimistic
// edits, and the merge of both with authoritative server fetches.
//
// One monotonic counter sequences edits and fetches alike. A pending edit
// survives a refresh only when its sequence is newer than the fetch's
// issuance sequence; everything else the server says wins.
type Store struct {
	inv api.Invoker

	mu      sync.Mutex
	seq     uint64
	months  map[MonthKey]map[Key]models.TriState
	pending map[Key]*PendingEdit
}

func NewStore(inv api.Invoker) *Store {
	return &Store{
		inv:     inv,
		months:  make(map[MonthKey]map[Key]models.TriState),
		pending: make(map[Key]*PendingEdit),
	}
}

func (s *Store) nextSeqLocked() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) monthLocked(mk MonthKey) map[Key]models.TriState {
	m, ok := s.months[mk]
	if !ok {
		m = make(map[Key]models.TriState)
		s.months[mk] = m
	}
	return m
}

// GetMonth returns a snapshot of the cached slice for (year, month), creating
// an empty one on first navigation. It never touches the network; callers
// wanting fresh server state follow up with Refresh.
func (s *Store) GetMonth(year int, month time.Month) *Slice {
	mk := MonthKey{Year: year, Month: month}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(mk)
}

func (s *Store) snapshotLocked(mk MonthKey) *Slice {
	src := s.monthLocked(mk)
	facts := make(map[Key]models.TriState, len(src))
	for k, v := range src {
		facts[k] = v
	}
	return &Slice{Year: mk.Year, Month: mk.Month, facts: facts}
}

// Hydrate seeds a month from the local offline cache. It only fills months
// the session has not touched yet, so it can never clobber live state.
func (s *Store) Hydrate(year int, month time.Month, facts map[Key]models.TriState) {
	mk := MonthKey{Year: year, Month: month}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.months[mk]; ok {
		return
	}
	m := make(map[Key]models.TriState, len(facts))
	for k, v := range facts {
		if v == models.TriUnset {
			continue
		}
		m[k] = v
	}
	s.months[mk] = m
}

// SetFact applies an explicit tri-state write for (day, habit) optimistically,
// persists it with exactly one request scoped to that key, and rolls back on
// failure. Identical writes are coalesced: a repeat of the current or
// in-flight value issues no network call.
func (s *Store) SetFact(ctx context.Context, day string, habit models.Habit, v models.TriState) error {
	if v != models.TriYes && v != models.TriNo {
		return &api.ValidationError{Field: "value", Reason: "only yes/no can be persisted; unset is the absence of a record"}
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return &api.ValidationError{Field: "day", Reason: fmt.Sprintf("want YYYY-MM-DD, got %q", day)}
	}

	edit, ok := s.begin(day, habit.ID, v)
	if !ok {
		return nil
	}

	_, err := s.inv.Invoke(ctx, persistOp(habit), persistParams(day, habit, v))
	if err != nil {
		s.Rollback(edit)
		return err
	}
	s.Confirm(edit)
	return nil
}

// begin records the optimistic edit. The false return means the write was
// coalesced and nothing was sent.
func (s *Store) begin(day, habitID string, v models.TriState) (*PendingEdit, bool) {
	key := Key{Day: day, HabitID: habitID}
	mk := monthOf(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	facts := s.monthLocked(mk)

	prev := models.TriUnset
	if cur, ok := facts[key]; ok {
		prev = cur
	}

	if p, ok := s.pending[key]; ok {
		if p.Value == v {
			return nil, false
		}
		// Supersede the in-flight edit but keep its rollback target: the
		// last server-confirmed value, not the optimistic one.
		prev = p.Prev
	} else if prev == v {
		return nil, false
	}

	edit := &PendingEdit{
		Handle: uuid.New().String(),
		Key:    key,
		Value:  v,
		Prev:   prev,
		Seq:    s.nextSeqLocked(),
	}
	s.pending[key] = edit
	facts[key] = v
	return edit, true
}

// Confirm settles a pending edit after the backend acknowledged it. A
// superseded edit (another write or a newer fetch won the key) is ignored.
func (s *Store) Confirm(edit *PendingEdit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[edit.Key]; ok && p.Seq == edit.Seq {
		delete(s.pending, edit.Key)
	}
}

// Rollback reverts a failed pending edit to its pre-edit value. Like Confirm
// it ignores superseded edits.
func (s *Store) Rollback(edit *PendingEdit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[edit.Key]
	if !ok || p.Seq != edit.Seq {
		return
	}
	delete(s.pending, edit.Key)

	facts := s.monthLocked(monthOf(edit.Key.Day))
	if edit.Prev == models.TriUnset {
		delete(facts, edit.Key)
	} else {
		facts[edit.Key] = edit.Prev
	}
}

// PendingFor reports whether an unconfirmed edit is outstanding for
// (day, habitID).
func (s *Store) PendingFor(day, habitID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[Key{Day: day, HabitID: habitID}]
	return ok
}

// Refresh fetches the month's authoritative state and merges it into the
// cache without discarding still-pending local edits. The returned slice is
// the post-merge snapshot.
func (s *Store) Refresh(ctx context.Context, year int, month time.Month) (*Slice, error) {
	mk := MonthKey{Year: year, Month: month}

	s.mu.Lock()
	fetchSeq := s.nextSeqLocked()
	s.mu.Unlock()

	serverFacts, err := s.fetchMonth(ctx, mk)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeLocked(mk, serverFacts, fetchSeq)
	return s.snapshotLocked(mk), nil
}

// fetchMonth pulls training and supplement check-ins for one month. Older
// deployments bundle supplement rows into the check-ins response; when they
// don't, the dedicated operation is tried, and its absence is not an error.
func (s *Store) fetchMonth(ctx context.Context, mk MonthKey) (map[Key]models.TriState, error) {
	payload, err := s.inv.Invoke(ctx, api.OpMonthCheckins, map[string]string{"month": mk.String()})
	if err != nil {
		return nil, err
	}

	facts, sawSupp, err := decodeCheckins(payload)
	if err != nil {
		return nil, err
	}

	if !sawSupp {
		suppPayload, err := s.inv.Invoke(ctx, api.OpMonthSuppCheckins, map[string]string{"month": mk.String()})
		switch {
		case errors.Is(err, api.ErrUnsupported):
			// No supplement read anywhere; training facts still count.
		case err != nil:
			return nil, err
		default:
			if err := decodeSuppRows(suppPayload, facts); err != nil {
				return nil, err
			}
		}
	}

	// Server is authoritative only for the month it was asked about.
	for k := range facts {
		if !strings.HasPrefix(k.Day, mk.String()+"-") {
			delete(facts, k)
		}
	}
	return facts, nil
}

// mergeLocked replaces the month's facts with the server's, except for keys
// whose pending edit outranks the fetch.
func (s *Store) mergeLocked(mk MonthKey, serverFacts map[Key]models.TriState, fetchSeq uint64) {
	merged := make(map[Key]models.TriState, len(serverFacts))

	for k, v := range serverFacts {
		if p, ok := s.pending[k]; ok && p.Seq > fetchSeq {
			merged[k] = p.Value
			continue
		}
		if _, ok := s.pending[k]; ok {
			// Fetch issued after the edit: the server state already reflects
			// it, or a newer remote change superseded it. Either way the
			// response for the stale edit will be ignored on arrival.
			delete(s.pending, k)
		}
		merged[k] = v
	}

	// Pending edits for keys the server has no record of.
	for k, p := range s.pending {
		if monthOf(k.Day) != mk {
			continue
		}
		if _, ok := merged[k]; ok {
			continue
		}
		if p.Seq > fetchSeq {
			merged[k] = p.Value
		} else {
			delete(s.pending, k)
		}
	}

	s.months[mk] = merged
}

func monthOf(day string) MonthKey {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return MonthKey{}
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func persistOp(habit models.Habit) api.Operation {
	if habit.Kind == models.HabitTraining {
		return api.OpSetCheckin
	}
	return api.OpSetSuppCheckin
}

func persistParams(day string, habit models.Habit, v models.TriState) map[string]string {
	flag := "0"
	if v == models.TriYes {
		flag = "1"
	}
	if habit.Kind == models.HabitTraining {
		return map[string]string{"day": day, "trained": flag}
	}
	// Deployments key supplement check-ins by name or by id; sending both
	// satisfies either, and unknown fields are ignored.
	return map[string]string{
		"day":             day,
		"supplement_name": habit.Name,
		"supplement_id":   habit.ID,
		"took":            flag,
	}
}
