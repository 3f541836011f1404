// ABOUTME: MCP tool implementations for hydration, gym and body measurements.
// ABOUTME: Every tool works on one calendar day, defaulting to today.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "hydration_today",
		Description: "Show cups of water drunk on a day",
	}, s.handleHydrationToday)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "hydration_add_cup",
		Description: "Record one more cup of water, up to the daily maximum",
	}, s.handleHydrationAddCup)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "hydration_remove_cup",
		Description: "Remove one cup of water, never below zero",
	}, s.handleHydrationRemoveCup)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "hydration_set",
		Description: "Set the cup count and optionally the cup size for a day",
	}, s.handleHydrationSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "gym_today",
		Description: "Show the muscle groups trained on a day",
	}, s.handleGymToday)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "gym_toggle",
		Description: "Toggle one muscle group for a day",
	}, s.handleGymToggle)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "gym_set",
		Description: "Replace the muscle groups trained on a day",
	}, s.handleGymSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "measurements_today",
		Description: "Show body measurements for a day",
	}, s.handleMeasurementsToday)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "measurements_save",
		Description: "Save all seven body measurements for a day (cm and kg)",
	}, s.handleMeasurementsSave)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_history",
		Description: "List recorded days for hydration, gym or measurements, latest first",
	}, s.handleListHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a hydration, gym or measurement record by ID or ID prefix",
	}, s.handleDeleteRecord)
}

// Tool input/output types

type dayInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD; defaults to today"`
}

type hydrationSetInput struct {
	Date      string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD; defaults to today"`
	Cups      int    `json:"cups" jsonschema:"Cups drunk; clamped to the daily maximum"`
	CupSizeMl int    `json:"cup_size_ml,omitempty" jsonschema:"Cup size in milliliters"`
}

type hydrationOutput struct {
	ID        string  `json:"id,omitempty"`
	Date      string  `json:"date"`
	Cups      int     `json:"cups"`
	CupSizeMl int     `json:"cup_size_ml"`
	TotalMl   int     `json:"total_ml"`
	GoalCups  int     `json:"goal_cups"`
	Progress  float64 `json:"progress"`
	Message   string  `json:"message"`
}

type gymToggleInput struct {
	Date   string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD; defaults to today"`
	Muscle string `json:"muscle" jsonschema:"Muscle group: chest back traps shoulders biceps triceps abs legs calves or cardio"`
}

type gymSetInput struct {
	Date    string   `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD; defaults to today"`
	Muscles []string `json:"muscles" jsonschema:"Muscle groups trained; empty clears the day"`
}

type gymOutput struct {
	ID      string   `json:"id,omitempty"`
	Date    string   `json:"date"`
	Muscles []string `json:"muscles"`
	Message string   `json:"message"`
}

type measurementsSaveInput struct {
	Date     string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD; defaults to today"`
	Chest    string `json:"chest" jsonschema:"Chest circumference in cm"`
	Belly    string `json:"belly" jsonschema:"Belly circumference in cm"`
	LeftArm  string `json:"left_arm" jsonschema:"Left arm circumference in cm"`
	RightArm string `json:"right_arm" jsonschema:"Right arm circumference in cm"`
	LeftLeg  string `json:"left_leg" jsonschema:"Left leg circumference in cm"`
	RightLeg string `json:"right_leg" jsonschema:"Right leg circumference in cm"`
	Weight   string `json:"weight" jsonschema:"Body weight in kg"`
}

type measurementOutput struct {
	ID      string             `json:"id,omitempty"`
	Date    string             `json:"date"`
	Values  map[string]float64 `json:"values"`
	Summary string             `json:"summary"`
	Message string             `json:"message"`
}

type listHistoryInput struct {
	Domain string `json:"domain" jsonschema:"One of hydration gym or measurements"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type historyOutput struct {
	Domain  string `json:"domain"`
	Count   int    `json:"count"`
	Entries []any  `json:"entries"`
}

type deleteRecordInput struct {
	Domain string `json:"domain" jsonschema:"One of hydration gym or measurements"`
	ID     string `json:"id" jsonschema:"Record ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

const (
	domainHydration    = "hydration"
	domainGym          = "gym"
	domainMeasurements = "measurements"
)

// Output builders

func (s *Server) hydrationResult(date string, rec *models.HydrationRecord) hydrationOutput {
	settings := s.tr.Hydration.Settings()
	out := hydrationOutput{
		Date:      date,
		CupSizeMl: settings.DefaultCupSizeMl,
		GoalCups:  settings.DailyGoalCups,
		Progress:  s.tr.Hydration.Progress(rec),
	}
	if rec != nil {
		out.ID = models.ShortID(rec.ID)
		out.Cups = rec.CupsDrunk
		out.CupSizeMl = rec.CupSizeMl
		out.TotalMl = rec.TotalMl()
	}
	out.Message = fmt.Sprintf("%d/%d cups (%d ml) on %s", out.Cups, out.GoalCups, out.TotalMl, date)
	return out
}

func (s *Server) gymResult(date string, rec *models.GymRecord) gymOutput {
	out := gymOutput{Date: date, Muscles: []string{}}
	if rec != nil {
		out.ID = models.ShortID(rec.ID)
		for _, m := range rec.Muscles {
			out.Muscles = append(out.Muscles, string(m))
		}
	}
	if len(out.Muscles) == 0 {
		out.Message = fmt.Sprintf("No muscle groups trained on %s", date)
	} else {
		out.Message = fmt.Sprintf("Trained on %s: %s", date, strings.Join(out.Muscles, ", "))
	}
	return out
}

func (s *Server) measurementResult(date string, rec *models.BodyMeasurementRecord) measurementOutput {
	out := measurementOutput{Date: date, Values: map[string]float64{}, Summary: "No measurements"}
	if rec != nil {
		out.ID = models.ShortID(rec.ID)
		for _, f := range models.AllMeasurementFields {
			if v := rec.Value(f); v != nil {
				out.Values[string(f)] = *v
			}
		}
		out.Summary = s.tr.Measurements.Summary(rec)
	}
	out.Message = fmt.Sprintf("Measurements for %s:\n%s", date, out.Summary)
	return out
}

// Tool handlers

func (s *Server) handleHydrationToday(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, hydrationOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, hydrationOutput{}, err
	}
	rec, _, err := s.tr.Hydration.ForDay(day)
	if err != nil {
		return nil, hydrationOutput{}, fmt.Errorf("failed to load hydration: %w", err)
	}
	return nil, s.hydrationResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleHydrationAddCup(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, hydrationOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, hydrationOutput{}, err
	}
	rec, err := s.tr.Hydration.AddCup(day)
	if err != nil {
		return nil, hydrationOutput{}, fmt.Errorf("failed to add cup: %w", err)
	}
	return nil, s.hydrationResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleHydrationRemoveCup(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, hydrationOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, hydrationOutput{}, err
	}
	rec, err := s.tr.Hydration.RemoveCup(day)
	if err != nil {
		return nil, hydrationOutput{}, fmt.Errorf("failed to remove cup: %w", err)
	}
	return nil, s.hydrationResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleHydrationSet(ctx context.Context, req *mcp.CallToolRequest, input hydrationSetInput) (*mcp.CallToolResult, hydrationOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, hydrationOutput{}, err
	}
	if input.CupSizeMl != 0 {
		if _, err := s.tr.Hydration.SetCupSize(day, input.CupSizeMl); err != nil {
			return nil, hydrationOutput{}, fmt.Errorf("failed to set cup size: %w", err)
		}
	}
	rec, err := s.tr.Hydration.SetCups(day, input.Cups)
	if err != nil {
		return nil, hydrationOutput{}, fmt.Errorf("failed to set cups: %w", err)
	}
	return nil, s.hydrationResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleGymToday(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, gymOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, gymOutput{}, err
	}
	rec, _, err := s.tr.Gym.ForDay(day)
	if err != nil {
		return nil, gymOutput{}, fmt.Errorf("failed to load gym day: %w", err)
	}
	return nil, s.gymResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleGymToggle(ctx context.Context, req *mcp.CallToolRequest, input gymToggleInput) (*mcp.CallToolResult, gymOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, gymOutput{}, err
	}
	m, err := models.ParseMuscle(input.Muscle)
	if err != nil {
		return nil, gymOutput{}, err
	}
	rec, err := s.tr.Gym.Toggle(day, m)
	if err != nil {
		return nil, gymOutput{}, fmt.Errorf("failed to toggle %s: %w", m, err)
	}
	return nil, s.gymResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleGymSet(ctx context.Context, req *mcp.CallToolRequest, input gymSetInput) (*mcp.CallToolResult, gymOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, gymOutput{}, err
	}
	muscles, err := tracker.ParseMuscles(input.Muscles)
	if err != nil {
		return nil, gymOutput{}, err
	}
	rec, err := s.tr.Gym.Set(day, muscles)
	if err != nil {
		return nil, gymOutput{}, fmt.Errorf("failed to set muscles: %w", err)
	}
	return nil, s.gymResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleMeasurementsToday(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, measurementOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, measurementOutput{}, err
	}
	rec, _, err := s.tr.Measurements.ForDay(day)
	if err != nil {
		return nil, measurementOutput{}, fmt.Errorf("failed to load measurements: %w", err)
	}
	return nil, s.measurementResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleMeasurementsSave(ctx context.Context, req *mcp.CallToolRequest, input measurementsSaveInput) (*mcp.CallToolResult, measurementOutput, error) {
	day, err := s.day(input.Date)
	if err != nil {
		return nil, measurementOutput{}, err
	}
	form := tracker.MeasurementForm{
		Chest:    input.Chest,
		Belly:    input.Belly,
		LeftArm:  input.LeftArm,
		RightArm: input.RightArm,
		LeftLeg:  input.LeftLeg,
		RightLeg: input.RightLeg,
		Weight:   input.Weight,
	}
	rec, err := s.tr.Measurements.Save(day, form)
	if err != nil {
		return nil, measurementOutput{}, fmt.Errorf("failed to save measurements: %w", err)
	}
	return nil, s.measurementResult(s.tr.Calendar.FormatDay(day), rec), nil
}

func (s *Server) handleListHistory(ctx context.Context, req *mcp.CallToolRequest, input listHistoryInput) (*mcp.CallToolResult, historyOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	out := historyOutput{Domain: input.Domain, Entries: []any{}}
	switch input.Domain {
	case domainHydration:
		recs, err := s.tr.Hydration.History()
		if err != nil {
			return nil, historyOutput{}, fmt.Errorf("failed to list hydration: %w", err)
		}
		for _, r := range recs[:min(len(recs), input.Limit)] {
			out.Entries = append(out.Entries, s.hydrationResult(s.tr.Calendar.FormatDay(r.Date), r))
		}
	case domainGym:
		recs, err := s.tr.Gym.History()
		if err != nil {
			return nil, historyOutput{}, fmt.Errorf("failed to list gym days: %w", err)
		}
		for _, r := range recs[:min(len(recs), input.Limit)] {
			out.Entries = append(out.Entries, s.gymResult(s.tr.Calendar.FormatDay(r.Date), r))
		}
	case domainMeasurements:
		recs, err := s.tr.Measurements.History()
		if err != nil {
			return nil, historyOutput{}, fmt.Errorf("failed to list measurements: %w", err)
		}
		for _, r := range recs[:min(len(recs), input.Limit)] {
			out.Entries = append(out.Entries, s.measurementResult(s.tr.Calendar.FormatDay(r.Date), r))
		}
	default:
		return nil, historyOutput{}, fmt.Errorf("unknown domain: %q", input.Domain)
	}
	out.Count = len(out.Entries)
	return nil, out, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input deleteRecordInput) (*mcp.CallToolResult, simpleOutput, error) {
	var (
		id  string
		err error
	)
	switch input.Domain {
	case domainHydration:
		var rec *models.HydrationRecord
		if rec, err = s.tr.Hydration.Find(input.ID); err == nil {
			id, err = models.ShortID(rec.ID), s.tr.Hydration.Delete(rec)
		}
	case domainGym:
		var rec *models.GymRecord
		if rec, err = s.tr.Gym.Find(input.ID); err == nil {
			id, err = models.ShortID(rec.ID), s.tr.Gym.Delete(rec)
		}
	case domainMeasurements:
		var rec *models.BodyMeasurementRecord
		if rec, err = s.tr.Measurements.Find(input.ID); err == nil {
			id, err = models.ShortID(rec.ID), s.tr.Measurements.Delete(rec)
		}
	default:
		return nil, simpleOutput{}, fmt.Errorf("unknown domain: %q", input.Domain)
	}
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete %s record: %w", input.Domain, err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s record: %s", input.Domain, id),
	}, nil
}
