// ABOUTME: JSON views of sessions, routines and workouts returned to MCP clients.
// ABOUTME: IDs are shortened to 8 characters where the user types them back.
package mcp

import (
	"time"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/session"
)

type exerciseView struct {
	Name      string  `json:"name"`
	Sets      int     `json:"sets"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Logged    int     `json:"logged"`
	Completed bool    `json:"completed"`
}

type setView struct {
	ID           string         `json:"id"`
	ExerciseName string         `json:"exercise_name"`
	SetNumber    int            `json:"set_number"`
	Weights      map[string]int `json:"weights"`
	Intensity    int            `json:"intensity"`
	Correctness  int            `json:"correctness"`
	Comment      string         `json:"comment,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type sessionView struct {
	ID              string         `json:"id"`
	RoutineName     string         `json:"routine_name"`
	StartTime       time.Time      `json:"start_time"`
	ElapsedMinutes  int            `json:"elapsed_minutes"`
	CurrentExercise string         `json:"current_exercise"`
	CurrentIndex    int            `json:"current_index"`
	EnergyLevel     int            `json:"energy_level"`
	Exercises       []exerciseView `json:"exercises"`
	Sets            []setView      `json:"sets"`
	Message         string         `json:"message,omitempty"`
}

func newSetView(st session.Set) setView {
	v := setView{
		ID:           shortID(st.ID),
		ExerciseName: st.ExerciseName,
		SetNumber:    st.SetNumber,
		Weights:      st.Weights,
		Intensity:    st.Intensity,
		Correctness:  st.Correctness,
		CreatedAt:    st.CreatedAt,
	}
	if st.Comment != nil {
		v.Comment = *st.Comment
	}
	return v
}

func newSessionView(s session.Session, now time.Time) sessionView {
	v := sessionView{
		ID:             s.ID,
		RoutineName:    s.RoutineName,
		StartTime:      s.StartTime,
		ElapsedMinutes: int(now.Sub(s.StartTime).Minutes()),
		CurrentIndex:   s.CurrentExerciseIndex,
		EnergyLevel:    s.EnergyLevel,
		Exercises:      make([]exerciseView, 0, len(s.Exercises)),
		Sets:           make([]setView, 0, len(s.Sets)),
	}
	if ex, ok := s.CurrentExercise(); ok {
		v.CurrentExercise = ex.Name
	}
	for _, ex := range s.Exercises {
		st := s.Status(ex.Name)
		v.Exercises = append(v.Exercises, exerciseView{
			Name:      ex.Name,
			Sets:      ex.Sets,
			Reps:      ex.Reps,
			Weight:    ex.Weight,
			Logged:    st.Logged,
			Completed: st.Completed,
		})
	}
	for _, st := range s.Sets {
		v.Sets = append(v.Sets, newSetView(st))
	}
	return v
}

type routineView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

func newRoutineView(r *models.Routine) routineView {
	v := routineView{ID: r.ID.String()[:8], Name: r.Name, Exercises: []string{}}
	for _, ex := range r.Exercises {
		v.Exercises = append(v.Exercises, ex.Name)
	}
	return v
}

type workoutSummary struct {
	ID              string    `json:"id"`
	RoutineName     string    `json:"routine_name"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	EnergyLevel     int       `json:"energy_level"`
}

func newWorkoutSummary(w *models.Workout) workoutSummary {
	v := workoutSummary{
		ID:          w.ID.String()[:8],
		RoutineName: w.RoutineName,
		StartTime:   w.StartTime,
		EnergyLevel: w.EnergyLevel,
	}
	if w.DurationMinutes != nil {
		v.DurationMinutes = *w.DurationMinutes
	}
	return v
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
