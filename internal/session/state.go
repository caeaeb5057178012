// ABOUTME: Durable local state for the session store.
// ABOUTME: Encodes the workout-store record and provides file and memory backends.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

// StateName is the name of the single persisted record.
const StateName = "workout-store"

var idPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// ValidID reports whether id is a version-4 random UUID string.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// StateStore reads and writes the raw persisted record.
// Read returns nil, nil when nothing has been stored yet.
type StateStore interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// State is the persisted layout: the current workout and the selected routine.
type State struct {
	CurrentWorkout    *workoutState `json:"currentWorkout"`
	SelectedRoutineID *string       `json:"selectedRoutineId"`
}

type workoutState struct {
	ID                   string            `json:"id"`
	RoutineID            string            `json:"routineId"`
	RoutineName          string            `json:"routineName"`
	Exercises            []models.Exercise `json:"exercises"`
	StartTime            string            `json:"startTime"`
	CurrentExerciseIndex int               `json:"currentExerciseIndex"`
	EnergyLevel          int               `json:"energyLevel"`
	CompletedSets        []setState        `json:"completedSets"`
	CompletedExercises   []string          `json:"completedExercises,omitempty"`
}

type setState struct {
	ID           string         `json:"id"`
	WorkoutID    string         `json:"workout_id"`
	ExerciseName string         `json:"exercise_name"`
	SetNumber    int            `json:"set_number"`
	Weights      map[string]int `json:"weights"`
	Intensity    int            `json:"intensity"`
	Correctness  int            `json:"correctness"`
	Comment      *string        `json:"comment,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

func encodeState(s *Session, selected *string) ([]byte, error) {
	state := State{SelectedRoutineID: selected}
	if s != nil {
		ws := &workoutState{
			ID:                   s.ID,
			RoutineID:            s.RoutineID.String(),
			RoutineName:          s.RoutineName,
			Exercises:            s.Exercises,
			StartTime:            s.StartTime.Format(time.RFC3339Nano),
			CurrentExerciseIndex: s.CurrentExerciseIndex,
			EnergyLevel:          s.EnergyLevel,
			CompletedSets:        make([]setState, 0, len(s.Sets)),
			CompletedExercises:   s.CompletedExercises,
		}
		for _, set := range s.Sets {
			ws.CompletedSets = append(ws.CompletedSets, setState{
				ID:           set.ID,
				WorkoutID:    set.WorkoutID,
				ExerciseName: set.ExerciseName,
				SetNumber:    set.SetNumber,
				Weights:      set.Weights,
				Intensity:    set.Intensity,
				Correctness:  set.Correctness,
				Comment:      set.Comment,
				CreatedAt:    set.CreatedAt.Format(time.RFC3339Nano),
			})
		}
		state.CurrentWorkout = ws
	}
	return json.MarshalIndent(state, "", "  ")
}

// decodeSession rehydrates a persisted workout. Any malformed identifier or
// timestamp rejects the whole session.
func decodeSession(ws *workoutState) (*Session, error) {
	if !ValidID(ws.ID) {
		return nil, fmt.Errorf("session id %q is not a v4 uuid", ws.ID)
	}
	routineID, err := uuid.Parse(ws.RoutineID)
	if err != nil {
		return nil, fmt.Errorf("parse routine id: %w", err)
	}
	start, err := time.Parse(time.RFC3339Nano, ws.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}
	if len(ws.Exercises) == 0 {
		return nil, errors.New("session has no exercises")
	}

	s := &Session{
		ID:                 ws.ID,
		RoutineID:          routineID,
		RoutineName:        ws.RoutineName,
		Exercises:          append([]models.Exercise(nil), ws.Exercises...),
		StartTime:          start,
		EnergyLevel:        ws.EnergyLevel,
		CompletedExercises: ws.CompletedExercises,
	}
	models.SortExercises(s.Exercises)
	s.CurrentExerciseIndex = clampIndex(ws.CurrentExerciseIndex, len(s.Exercises))
	if validateScale("energy", s.EnergyLevel) != nil {
		s.EnergyLevel = DefaultEnergyLevel
	}

	for _, ss := range ws.CompletedSets {
		if !ValidID(ss.ID) {
			return nil, fmt.Errorf("set id %q is not a v4 uuid", ss.ID)
		}
		created, err := time.Parse(time.RFC3339Nano, ss.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse set time: %w", err)
		}
		s.Sets = append(s.Sets, Set{
			ID:           ss.ID,
			WorkoutID:    ss.WorkoutID,
			ExerciseName: ss.ExerciseName,
			SetNumber:    ss.SetNumber,
			Weights:      ss.Weights,
			Intensity:    ss.Intensity,
			Correctness:  ss.Correctness,
			Comment:      ss.Comment,
			CreatedAt:    created,
		})
	}
	return s, nil
}

// FileStore keeps the record as a JSON file in dir.
type FileStore struct {
	path string
}

// NewFileStore stores the record at dir/workout-store.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StateName+".json")}
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Read returns the file contents, or nil if the file does not exist.
func (f *FileStore) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return data, nil
}

// Write replaces the file atomically.
func (f *FileStore) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+StateName+"-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// MemoryStore keeps the record in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// Read returns a copy of the stored bytes.
func (m *MemoryStore) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

// Write replaces the stored bytes.
func (m *MemoryStore) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}
