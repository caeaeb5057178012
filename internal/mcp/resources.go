// ABOUTME: MCP resource implementations for gymlog.
// ABOUTME: Provides gymlog://session and gymlog://history resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	sessionURI = "gymlog://session"
	historyURI = "gymlog://history"
)

func (s *Server) registerResources() {
	// gymlog://session - The workout in progress, if any
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         sessionURI,
		Name:        "Active Workout",
		Description: "The workout in progress with logged sets and rest timer state",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	// gymlog://history - Recent finished workouts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "Workout History",
		Description: "The last 10 finished workouts",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// Resource handlers

func (s *Server) handleSessionResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{"active": false}

	if cur, ok := s.sessions.Current(); ok {
		st := s.sessions.Timer().Status()
		result = map[string]interface{}{
			"active":  true,
			"workout": newSessionView(cur, s.sessions.Now()),
			"rest": map[string]interface{}{
				"state":     st.State.String(),
				"remaining": st.Remaining,
			},
		}
	}

	return jsonResource(sessionURI, result)
}

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts, err := s.repo.ListWorkouts(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	summaries := make([]workoutSummary, 0, len(workouts))
	for _, w := range workouts {
		summaries = append(summaries, newWorkoutSummary(w))
	}

	return jsonResource(historyURI, map[string]interface{}{
		"workouts": summaries,
		"count":    len(summaries),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
