// ABOUTME: MCP tool implementations for gymlog.
// ABOUTME: Routine lookup, the active workout lifecycle and workout history.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/gymlog/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// list_routines
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_routines",
		Description: "List active workout routines with their exercises",
	}, s.handleListRoutines)

	// get_routine
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_routine",
		Description: "Get a routine with exercise targets by ID or ID prefix",
	}, s.handleGetRoutine)

	// start_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a workout from a routine. Fails if a workout is already in progress",
	}, s.handleStartWorkout)

	// log_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a set in the active workout. Defaults to the current exercise",
	}, s.handleLogSet)

	// remove_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_set",
		Description: "Remove a logged set from the active workout by ID or ID prefix",
	}, s.handleRemoveSet)

	// next_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "next_exercise",
		Description: "Move to the next exercise in the active workout",
	}, s.handleNextExercise)

	// previous_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "previous_exercise",
		Description: "Move to the previous exercise in the active workout",
	}, s.handlePreviousExercise)

	// current_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "current_workout",
		Description: "Show the active workout with progress per exercise",
	}, s.handleCurrentWorkout)

	// finish_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_workout",
		Description: "Save the active workout to history and end it",
	}, s.handleFinishWorkout)

	// abandon_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "abandon_workout",
		Description: "Discard the active workout without saving",
	}, s.handleAbandonWorkout)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List finished workouts, most recent first",
	}, s.handleListWorkouts)

	// get_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a finished workout with all its sets",
	}, s.handleGetWorkout)

	// delete_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a finished workout and its sets",
	}, s.handleDeleteWorkout)
}

// Tool input/output types

type emptyInput struct{}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix (at least 8 characters)"`
}

type logSetInput struct {
	Exercise    string         `json:"exercise,omitempty" jsonschema:"Exercise name, defaults to the current exercise"`
	Weights     map[string]int `json:"weights" jsonschema:"Reps per weight label, e.g. {\"60kg\": 10}"`
	Intensity   int            `json:"intensity" jsonschema:"Perceived intensity from 1 to 5"`
	Correctness int            `json:"correctness" jsonschema:"Form correctness from 1 to 5"`
	Comment     string         `json:"comment,omitempty" jsonschema:"Optional note about the set"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type listRoutinesOutput struct {
	Routines []routineView `json:"routines"`
}

type listWorkoutsOutput struct {
	Workouts []workoutSummary `json:"workouts"`
}

// Tool handlers

func (s *Server) handleListRoutines(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, listRoutinesOutput, error) {
	routines, err := s.repo.ListActiveRoutines(ctx)
	if err != nil {
		return nil, listRoutinesOutput{}, fmt.Errorf("failed to list routines: %w", err)
	}

	out := listRoutinesOutput{Routines: make([]routineView, 0, len(routines))}
	for _, r := range routines {
		out.Routines = append(out.Routines, newRoutineView(r))
	}
	return nil, out, nil
}

func (s *Server) handleGetRoutine(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	r, err := s.repo.GetRoutine(ctx, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("routine not found: %w", err)
	}
	return nil, r, nil
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, sessionView, error) {
	r, err := s.repo.GetRoutine(ctx, input.ID)
	if err != nil {
		return nil, sessionView{}, fmt.Errorf("routine not found: %w", err)
	}

	s.sessions.SelectRoutine(r.ID.String())
	if err := s.sessions.Start(r, r.Exercises); err != nil {
		return nil, sessionView{}, fmt.Errorf("failed to start workout: %w", err)
	}

	v, err := s.currentView()
	if err != nil {
		return nil, sessionView{}, err
	}
	v.Message = fmt.Sprintf("Started %s with %d exercises", r.Name, len(r.Exercises))
	return nil, v, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, setView, error) {
	name := input.Exercise
	if name == "" {
		cur, ok := s.sessions.Current()
		if !ok {
			return nil, setView{}, session.ErrNoSession
		}
		ex, ok := cur.CurrentExercise()
		if !ok {
			return nil, setView{}, fmt.Errorf("no current exercise")
		}
		name = ex.Name
	}

	st, err := s.sessions.LogSet(session.SetInput{
		ExerciseName: name,
		Weights:      input.Weights,
		Intensity:    input.Intensity,
		Correctness:  input.Correctness,
		Comment:      input.Comment,
	})
	if err != nil {
		return nil, setView{}, fmt.Errorf("failed to log set: %w", err)
	}
	return nil, newSetView(st), nil
}

func (s *Server) handleRemoveSet(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.sessions.RemoveSet(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to remove set: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Removed set: %s", input.ID)}, nil
}

func (s *Server) handleNextExercise(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, sessionView, error) {
	s.sessions.NextExercise()
	v, err := s.currentView()
	return nil, v, err
}

func (s *Server) handlePreviousExercise(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, sessionView, error) {
	s.sessions.PreviousExercise()
	v, err := s.currentView()
	return nil, v, err
}

func (s *Server) handleCurrentWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, sessionView, error) {
	v, err := s.currentView()
	return nil, v, err
}

func (s *Server) handleFinishWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, workoutSummary, error) {
	w, err := session.Finish(ctx, s.repo, s.sessions)
	if err != nil {
		return nil, workoutSummary{}, fmt.Errorf("failed to finish workout: %w", err)
	}
	return nil, newWorkoutSummary(w), nil
}

func (s *Server) handleAbandonWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !s.sessions.Active() {
		return nil, simpleOutput{}, session.ErrNoSession
	}
	s.sessions.End()
	return nil, simpleOutput{Message: "Workout discarded"}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	workouts, err := s.repo.ListWorkouts(ctx, input.Limit)
	if err != nil {
		return nil, listWorkoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}

	out := listWorkoutsOutput{Workouts: make([]workoutSummary, 0, len(workouts))}
	for _, w := range workouts {
		out.Workouts = append(out.Workouts, newWorkoutSummary(w))
	}
	return nil, out, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	w, err := s.repo.GetWorkout(ctx, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if _, err := s.repo.DeleteWorkouts(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout: %s", input.ID)}, nil
}

func (s *Server) currentView() (sessionView, error) {
	cur, ok := s.sessions.Current()
	if !ok {
		return sessionView{}, session.ErrNoSession
	}
	return newSessionView(cur, s.sessions.Now()), nil
}
