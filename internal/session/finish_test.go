// ABOUTME: Tests for finishing a workout against a workout writer.
// ABOUTME: Verifies the session is cleared only after a successful save.
package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

type recordingWriter struct {
	saved []*models.Workout
	err   error
}

func (w *recordingWriter) SaveWorkout(_ context.Context, wo *models.Workout) error {
	if w.err != nil {
		return w.err
	}
	w.saved = append(w.saved, wo)
	return nil
}

func TestFinishSavesThenEnds(t *testing.T) {
	m, fake, _ := setupTestManager(t)
	r, exercises := testRoutine()
	_ = m.Start(r, exercises)
	logSet(t, m, "Row")
	logSet(t, m, "Bench Press")
	_ = m.SetEnergyLevel(4)
	fake.Advance(44*time.Minute + 40*time.Second)

	writer := &recordingWriter{}
	w, err := Finish(context.Background(), writer, m)
	if err != nil {
		t.Fatalf("Finish() error: %v", err)
	}

	if len(writer.saved) != 1 {
		t.Fatalf("saved %d workouts, want 1", len(writer.saved))
	}
	if w.RoutineID != r.ID || w.RoutineName != r.Name || w.EnergyLevel != 4 {
		t.Errorf("workout row = %+v", w)
	}
	if w.DurationMinutes == nil || *w.DurationMinutes != 45 {
		t.Errorf("DurationMinutes = %v, want 45", w.DurationMinutes)
	}
	if len(w.Sets) != 2 || w.Sets[0].WorkoutID != w.ID || w.Sets[1].SetNumber != 1 {
		t.Errorf("set rows = %+v", w.Sets)
	}
	if m.Active() {
		t.Error("session still active after successful finish")
	}
}

func TestFinishFailureKeepsSession(t *testing.T) {
	m, _, _ := setupTestManager(t)
	r, exercises := testRoutine()
	_ = m.Start(r, exercises)
	logSet(t, m, "Row")

	boom := errors.New("network down")
	_, err := Finish(context.Background(), &recordingWriter{err: boom}, m)
	if !errors.Is(err, boom) {
		t.Fatalf("Finish() error = %v, want wrapped %v", err, boom)
	}

	s, ok := m.Current()
	if !ok || len(s.Sets) != 1 {
		t.Error("failed finish lost the session")
	}

	// Retry succeeds.
	if _, err := Finish(context.Background(), &recordingWriter{}, m); err != nil {
		t.Errorf("retry Finish() error: %v", err)
	}
}

func TestFinishWithoutSession(t *testing.T) {
	m, _, _ := setupTestManager(t)
	if _, err := Finish(context.Background(), &recordingWriter{}, m); !errors.Is(err, ErrNoSession) {
		t.Errorf("Finish() error = %v, want ErrNoSession", err)
	}
}
