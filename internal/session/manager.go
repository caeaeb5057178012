// ABOUTME: Manager owns the single active workout session and the rest timer.
// ABOUTME: Every mutation is serialized and written to the state store.
package session

import (
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/clock"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/timer"
)

// IDGenerator returns a new v4 UUID string.
type IDGenerator func() string

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source for start and log timestamps.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithIDGenerator sets the ID source for sessions and sets.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) { m.newID = gen }
}

// WithStateStore sets where session state is persisted.
func WithStateStore(s StateStore) Option {
	return func(m *Manager) { m.store = s }
}

// WithTimer sets the rest timer.
func WithTimer(t *timer.Timer) Option {
	return func(m *Manager) { m.timer = t }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager is the session store. At most one session exists at a time.
type Manager struct {
	mu sync.Mutex

	clock  clock.Clock
	newID  IDGenerator
	store  StateStore
	timer  *timer.Timer
	logger *log.Logger

	current  *Session
	selected *string
}

// New creates a Manager with no active session. Call Load to restore persisted state.
func New(opts ...Option) *Manager {
	m := &Manager{
		clock:  clock.Real{},
		newID:  uuid.NewString,
		store:  &MemoryStore{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.timer == nil {
		m.timer = timer.New(timer.WithLogger(m.logger))
	}
	return m
}

// Timer returns the rest timer.
func (m *Manager) Timer() *timer.Timer {
	return m.timer
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// Close stops the rest timer.
func (m *Manager) Close() {
	m.timer.Close()
}

// Start begins a session for routine with a snapshot of exercises sorted by OrderIndex.
func (m *Manager) Start(routine *models.Routine, exercises []models.Exercise) error {
	if routine == nil || strings.TrimSpace(routine.Name) == "" {
		return invalid("routine", "name must not be empty")
	}
	if len(exercises) == 0 {
		return invalid("exercises", "a workout needs at least one exercise")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return ErrSessionActive
	}

	snapshot := append([]models.Exercise(nil), exercises...)
	models.SortExercises(snapshot)

	m.current = &Session{
		ID:          m.newID(),
		RoutineID:   routine.ID,
		RoutineName: routine.Name,
		Exercises:   snapshot,
		StartTime:   m.clock.Now(),
		EnergyLevel: DefaultEnergyLevel,
	}
	m.logger.Info("workout started", "id", m.current.ID, "routine", routine.Name)
	m.persistLocked()
	return nil
}

// LogSet appends a set. SetNumber is one more than the number of sets
// already logged for the same exercise name. Names match the routine's
// exercises, or earlier ad-hoc sets, case-insensitively.
func (m *Manager) LogSet(in SetInput) (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Set{}, ErrNoSession
	}

	set := Set{
		ID:           m.newID(),
		WorkoutID:    m.current.ID,
		ExerciseName: strings.TrimSpace(in.ExerciseName),
		Weights:      copyWeights(in.Weights),
		Intensity:    in.Intensity,
		Correctness:  in.Correctness,
		CreatedAt:    m.clock.Now(),
	}
	if c := strings.TrimSpace(in.Comment); c != "" {
		set.Comment = &c
	}
	if err := validateSet(set); err != nil {
		return Set{}, err
	}

	set.ExerciseName, _ = m.current.canonicalName(set.ExerciseName)
	set.SetNumber = len(m.current.SetsFor(set.ExerciseName)) + 1
	m.current.Sets = append(m.current.Sets, set)

	m.logger.Debug("set logged", "exercise", set.ExerciseName, "set", set.SetNumber)
	m.persistLocked()
	return set.clone(), nil
}

// RemoveSet deletes a logged set. Remaining sets keep their numbers.
func (m *Manager) RemoveSet(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoSession
	}

	i := m.indexOfSetLocked(id)
	if i < 0 {
		return ErrSetNotFound
	}
	m.current.Sets = append(m.current.Sets[:i], m.current.Sets[i+1:]...)

	m.logger.Debug("set removed", "id", id)
	m.persistLocked()
	return nil
}

// UpdateSet merges upd into a logged set and revalidates it.
// ID, WorkoutID, SetNumber and CreatedAt never change.
func (m *Manager) UpdateSet(id string, upd SetUpdate) (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Set{}, ErrNoSession
	}

	i := m.indexOfSetLocked(id)
	if i < 0 {
		return Set{}, ErrSetNotFound
	}

	merged := m.current.Sets[i].clone()
	if upd.Weights != nil {
		merged.Weights = copyWeights(upd.Weights)
	}
	if upd.Intensity != nil {
		merged.Intensity = *upd.Intensity
	}
	if upd.Correctness != nil {
		merged.Correctness = *upd.Correctness
	}
	if upd.Comment != nil {
		if c := strings.TrimSpace(*upd.Comment); c != "" {
			merged.Comment = &c
		} else {
			merged.Comment = nil
		}
	}
	if err := validateSet(merged); err != nil {
		return Set{}, err
	}

	m.current.Sets[i] = merged
	m.persistLocked()
	return merged.clone(), nil
}

// NextExercise moves the pointer forward, stopping at the last exercise.
func (m *Manager) NextExercise() {
	m.moveExercise(func(i int) int { return i + 1 })
}

// PreviousExercise moves the pointer back, stopping at the first exercise.
func (m *Manager) PreviousExercise() {
	m.moveExercise(func(i int) int { return i - 1 })
}

// SetCurrentExercise points at index i, clamped into range.
func (m *Manager) SetCurrentExercise(i int) {
	m.moveExercise(func(int) int { return i })
}

func (m *Manager) moveExercise(next func(int) int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	idx := clampIndex(next(m.current.CurrentExerciseIndex), len(m.current.Exercises))
	if idx == m.current.CurrentExerciseIndex {
		return
	}
	m.current.CurrentExerciseIndex = idx
	m.persistLocked()
}

// MarkExerciseComplete records an explicit completion marker for name.
func (m *Manager) MarkExerciseComplete(name string) error {
	return m.markExercise(name, true)
}

// MarkExerciseIncomplete removes the explicit completion marker for name.
func (m *Manager) MarkExerciseIncomplete(name string) error {
	return m.markExercise(name, false)
}

func (m *Manager) markExercise(name string, done bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoSession
	}
	canonical, ok := m.current.canonicalName(name)
	if !ok {
		return invalid("exercise", "no exercise named "+name+" in this workout")
	}

	kept := m.current.CompletedExercises[:0]
	for _, n := range m.current.CompletedExercises {
		if n != canonical {
			kept = append(kept, n)
		}
	}
	if done {
		kept = append(kept, canonical)
	}
	m.current.CompletedExercises = kept

	m.persistLocked()
	return nil
}

// ExerciseStatus reports progress on name. An exercise is complete when it
// is explicitly marked or its target set count has been logged.
func (m *Manager) ExerciseStatus(name string) (ExerciseStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ExerciseStatus{}, ErrNoSession
	}
	return m.current.Status(name), nil
}

// SetEnergyLevel records the subjective energy level (1-5).
func (m *Manager) SetEnergyLevel(level int) error {
	if err := validateScale("energy", level); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoSession
	}
	m.current.EnergyLevel = level
	m.persistLocked()
	return nil
}

// SelectRoutine remembers the routine the user picked.
func (m *Manager) SelectRoutine(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.selected = &id
	m.persistLocked()
}

// SelectedRoutine returns the remembered routine ID.
func (m *Manager) SelectedRoutine() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected == nil {
		return "", false
	}
	return *m.selected, true
}

// End clears the session and stops the timer. The routine selection is kept.
// Callers persist the workout remotely before calling End.
func (m *Manager) End() {
	m.mu.Lock()
	m.endLocked()
	m.mu.Unlock()

	m.timer.Stop()
}

// Clear discards the session, the timer and the routine selection.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.selected = nil
	m.endLocked()
	m.mu.Unlock()

	m.timer.Stop()
}

func (m *Manager) endLocked() {
	if m.current != nil {
		m.logger.Info("workout cleared", "id", m.current.ID)
	}
	m.current = nil
	m.persistLocked()
}

// endIf ends the session only if it is still the one with id.
func (m *Manager) endIf(id string) {
	m.mu.Lock()
	ended := m.current != nil && m.current.ID == id
	if ended {
		m.endLocked()
	}
	m.mu.Unlock()

	if ended {
		m.timer.Stop()
	}
}

// Load restores persisted state. Unreadable or malformed state is discarded.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.store.Read()
	if err != nil {
		m.logger.Warn("could not read saved workout, starting fresh", "err", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		m.logger.Warn("discarding unreadable saved workout", "err", err)
		m.current, m.selected = nil, nil
		m.persistLocked()
		return
	}

	m.selected = state.SelectedRoutineID
	m.current = nil
	if state.CurrentWorkout == nil {
		return
	}

	s, err := decodeSession(state.CurrentWorkout)
	if err != nil {
		m.logger.Warn("discarding corrupt saved workout", "err", err)
		m.persistLocked()
		return
	}
	m.current = s
	m.logger.Debug("workout restored", "id", s.ID, "sets", len(s.Sets))
}

// Current returns a copy of the active session.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Session{}, false
	}
	return m.current.clone(), true
}

// Active reports whether a session is in progress.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

func (m *Manager) indexOfSetLocked(id string) int {
	for i, set := range m.current.Sets {
		if set.ID == id || (len(id) >= 8 && strings.HasPrefix(set.ID, id) && m.uniqueSetPrefixLocked(id)) {
			return i
		}
	}
	return -1
}

func (m *Manager) uniqueSetPrefixLocked(prefix string) bool {
	n := 0
	for _, set := range m.current.Sets {
		if strings.HasPrefix(set.ID, prefix) {
			n++
		}
	}
	return n == 1
}

func (m *Manager) persistLocked() {
	data, err := encodeState(m.current, m.selected)
	if err != nil {
		m.logger.Warn("could not encode workout state", "err", err)
		return
	}
	if err := m.store.Write(data); err != nil {
		m.logger.Warn("could not save workout state", "err", err)
	}
}

func copyWeights(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for label, reps := range in {
		out[strings.TrimSpace(label)] = reps
	}
	return out
}
