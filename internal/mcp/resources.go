// ABOUTME: MCP resource implementations for the healthlife tracker.
// ABOUTME: Provides healthlife://today and healthlife://history resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "healthlife://today"
	historyURI = "healthlife://history"

	historyResourceLimit = 30
)

func (s *Server) registerResources() {
	// healthlife://today - hydration, gym and measurements for the current day
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Health Data",
		Description: "Hydration, gym muscles and body measurements for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// healthlife://history - recent days per domain
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "Health History",
		Description: "Most recent recorded days for each tracker, latest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.tr.Calendar.Now()
	date := s.tr.Calendar.FormatDay(now)

	water, _, err := s.tr.Hydration.ForDay(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load hydration: %w", err)
	}
	gym, _, err := s.tr.Gym.ForDay(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load gym day: %w", err)
	}
	body, _, err := s.tr.Measurements.ForDay(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load measurements: %w", err)
	}

	hydration := s.hydrationResult(date, water)
	result := map[string]any{
		"date":         date,
		"hydration":    hydration,
		"goal_met":     s.tr.Hydration.GoalMet(water),
		"gym":          s.gymResult(date, gym),
		"measurements": s.measurementResult(date, body),
	}

	return jsonResource(todayURI, result)
}

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := make(map[string]any)
	for _, domain := range []string{domainHydration, domainGym, domainMeasurements} {
		_, out, err := s.handleListHistory(ctx, nil, listHistoryInput{Domain: domain, Limit: historyResourceLimit})
		if err != nil {
			return nil, err
		}
		result[domain] = out.Entries
	}

	return jsonResource(historyURI, result)
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
