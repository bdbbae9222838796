package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"calmd/internal/models"
)

type userRecord struct {
	mu          sync.Mutex
	streak      *models.StreakState
	moods       []models.MoodEvent
	activity    *roaring.Bitmap
	assessments []models.AssessmentResult
}

func newUserRecord() *userRecord {
	return &userRecord{activity: roaring.New()}
}

// MemoryStore keeps all user data in memory. Each user has its own lock, so
// the streak compare-and-swap of one user never waits on another.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*userRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*userRecord)}
}

func (ms *MemoryStore) get(userID string) (*userRecord, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	rec, ok := ms.users[userID]
	return rec, ok
}

func (ms *MemoryStore) getOrCreate(userID string) *userRecord {
	if rec, ok := ms.get(userID); ok {
		return rec
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	rec, ok := ms.users[userID]
	if !ok {
		rec = newUserRecord()
		ms.users[userID] = rec
	}
	return rec
}

func (ms *MemoryStore) FindStreakState(_ context.Context, userID string) (*models.StreakState, error) {
	rec, ok := ms.get(userID)
	if !ok {
		return nil, nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.streak == nil {
		return nil, nil
	}
	state := *rec.streak
	return &state, nil
}

func (ms *MemoryStore) SaveStreakState(_ context.Context, userID string, prev *models.StreakState, next models.StreakState) error {
	rec := ms.getOrCreate(userID)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if !rec.streak.SameAs(prev) {
		return ErrConflict
	}
	next.UserID = userID
	rec.streak = &next
	return nil
}

func (ms *MemoryStore) SaveMoodEvent(_ context.Context, event models.MoodEvent) error {
	if event.Day.IsZero() {
		return fmt.Errorf("%w: no day", ErrInvalidEvent)
	}
	rec := ms.getOrCreate(event.UserID)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.moods = append(rec.moods, event)
	rec.activity.Add(event.Day.Ordinal())
	return nil
}

func (ms *MemoryStore) ActivityDays(_ context.Context, userID string, from, to models.CalendarDay) ([]models.CalendarDay, error) {
	rec, ok := ms.get(userID)
	if !ok {
		return nil, nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	lo, hi := from.Ordinal(), to.Ordinal()
	var days []models.CalendarDay
	it := rec.activity.Iterator()
	it.AdvanceIfNeeded(lo)
	for it.HasNext() {
		n := it.Next()
		if n > hi {
			break
		}
		days = append(days, models.DayFromOrdinal(n))
	}
	return days, nil
}

func (ms *MemoryStore) SaveAssessmentResult(_ context.Context, userID string, result models.AssessmentResult) error {
	rec := ms.getOrCreate(userID)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	result.UserID = userID
	rec.assessments = append(rec.assessments, result)
	return nil
}

func (ms *MemoryStore) ListAssessmentResults(_ context.Context, userID string, limit int) ([]models.AssessmentResult, error) {
	rec, ok := ms.get(userID)
	if !ok {
		return nil, nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := slices.Clone(rec.assessments)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

// Snapshot returns a deep copy of the store contents.
func (ms *MemoryStore) Snapshot() *models.Storage {
	ms.mu.RLock()
	ids := make([]string, 0, len(ms.users))
	recs := make([]*userRecord, 0, len(ms.users))
	for id, rec := range ms.users {
		ids = append(ids, id)
		recs = append(recs, rec)
	}
	ms.mu.RUnlock()

	snap := &models.Storage{
		Version: models.SnapshotVersion,
		Users:   make(map[string]*models.UserSnapshot, len(ids)),
	}
	for i, rec := range recs {
		rec.mu.Lock()
		us := &models.UserSnapshot{
			Moods:       slices.Clone(rec.moods),
			Assessments: slices.Clone(rec.assessments),
		}
		if rec.streak != nil {
			state := *rec.streak
			us.Streak = &state
		}
		if !rec.activity.IsEmpty() {
			// ToBytes only fails on writer errors, which a byte buffer never returns.
			us.Activity, _ = rec.activity.ToBytes()
		}
		rec.mu.Unlock()
		snap.Users[ids[i]] = us
	}
	return snap
}

// Restore replaces the store contents with snapshot.
func (ms *MemoryStore) Restore(snapshot *models.Storage) error {
	if snapshot == nil {
		return nil
	}
	if snapshot.Version != models.SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	users := make(map[string]*userRecord, len(snapshot.Users))
	for id, us := range snapshot.Users {
		if us == nil {
			continue
		}
		rec := newUserRecord()
		rec.streak = us.Streak
		rec.moods = us.Moods
		rec.assessments = us.Assessments
		if len(us.Activity) > 0 {
			if err := rec.activity.UnmarshalBinary(us.Activity); err != nil {
				return fmt.Errorf("restore activity of %s: %w", id, err)
			}
		}
		users[id] = rec
	}

	ms.mu.Lock()
	ms.users = users
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.users)
}
