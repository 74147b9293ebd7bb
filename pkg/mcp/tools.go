package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/report"
	"github.com/pario-ai/reqlens/pkg/store"
)

// toolArgs is the union of all tool arguments; each tool reads the fields
// it needs.
type toolArgs struct {
	DatasetID string   `json:"dataset_id"`
	Month     string   `json:"month"`
	Plan      string   `json:"plan"`
	Date      string   `json:"date"`
	User      string   `json:"user"`
	Users     []string `json:"users"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args toolArgs) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"reqlens_datasets":    handleDatasets,
	"reqlens_daily":       handleDaily,
	"reqlens_models":      handleModels,
	"reqlens_power_users": handlePowerUsers,
	"reqlens_exceeded":    handleExceeded,
	"reqlens_quota":       handleQuota,
	"reqlens_projection":  handleProjection,
	"reqlens_user":        handleUser,
}

var (
	datasetProp = map[string]any{
		"type":        "string",
		"description": "Dataset ID (optional, defaults to the latest import)",
	}
	monthProp = map[string]any{
		"type":        "string",
		"description": "Restrict to a month, YYYY-MM (optional)",
	}
	planProp = map[string]any{
		"type":        "string",
		"enum":        []string{"Individual", "Business", "Enterprise"},
		"description": "Plan whose monthly limit applies (optional, defaults to the configured plan)",
	}
)

func schema(required []string, props map[string]any) map[string]any {
	props["dataset_id"] = datasetProp
	props["month"] = monthProp
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "reqlens_datasets",
		Description: "List imported premium request usage datasets.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "reqlens_daily",
		Description: "Show compliant and exceeding premium requests per day and model.",
		InputSchema: schema(nil, map[string]any{}),
	},
	{
		Name:        "reqlens_models",
		Description: "Summarise requests, multipliers and excess cost per model, with default models merged.",
		InputSchema: schema(nil, map[string]any{"plan": planProp}),
	},
	{
		Name:        "reqlens_power_users",
		Description: "Show the top 10% of users by requests, or a daily breakdown for the given users.",
		InputSchema: schema(nil, map[string]any{
			"users": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Users to break down per day (optional)",
			},
		}),
	},
	{
		Name:        "reqlens_exceeded",
		Description: "List user-days with requests that exceeded quota, optionally for one date or user.",
		InputSchema: schema(nil, map[string]any{
			"date": map[string]any{
				"type":        "string",
				"description": "Day in YYYY-MM-DD format (optional)",
			},
			"user": map[string]any{
				"type":        "string",
				"description": "Username (optional)",
			},
		}),
	},
	{
		Name:        "reqlens_quota",
		Description: "Show the quota overview: users over the plan limit, flagged requests, projections and cost.",
		InputSchema: schema(nil, map[string]any{"plan": planProp}),
	},
	{
		Name:        "reqlens_projection",
		Description: "List users projected to exceed the plan limit by the end of the latest month.",
		InputSchema: schema(nil, map[string]any{"plan": planProp}),
	},
	{
		Name:        "reqlens_user",
		Description: "Show a single user's totals, weekly breakdown and exceeded-quota summary.",
		InputSchema: schema([]string{"user"}, map[string]any{
			"user": map[string]any{
				"type":        "string",
				"description": "Username",
			},
		}),
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

// records loads the requested dataset, narrowed to args.Month.
func (s *Server) records(ctx context.Context, args toolArgs) ([]models.UsageRecord, error) {
	var (
		ds  models.Dataset
		err error
	)
	if args.DatasetID == "" || args.DatasetID == "latest" {
		ds, err = s.store.Latest(ctx)
	} else {
		ds, err = s.store.Dataset(ctx, args.DatasetID)
	}
	if errors.Is(err, store.ErrDatasetNotFound) && args.DatasetID == "" {
		return nil, errors.New("no datasets imported yet; run `reqlens import <file.csv>` first")
	}
	if err != nil {
		return nil, err
	}

	recs, err := s.store.Records(ctx, ds.ID)
	if err != nil {
		return nil, err
	}
	if args.Month != "" {
		m, err := calendar.ParseMonth(args.Month)
		if err != nil {
			return nil, err
		}
		recs = calendar.FilterByMonth(recs, m)
	}
	return recs, nil
}

func (s *Server) planFor(args toolArgs) (models.Plan, error) {
	if args.Plan == "" {
		return s.plan, nil
	}
	return models.ParsePlan(args.Plan)
}

func handleDatasets(ctx context.Context, s *Server, _ toolArgs) ToolCallResult {
	list, err := s.store.ListDatasets(ctx)
	if err != nil {
		return errorResult("Error listing datasets: " + err.Error())
	}
	return textResult(report.Datasets(list))
}

func handleDaily(ctx context.Context, s *Server, args toolArgs) ToolCallResult {
	recs, err := s.records(ctx, args)
	if err != nil {
		return errorResult("Error loading records: " + err.Error())
	}
	return textResult(report.Daily(analytics.AggregateByDay(recs)))
}

func handleModels(ctx context.Context, s *Server, args toolArgs) ToolCallResult {
	plan, err := s.planFor(args)
	if err != nil {
		return errorResult(err.Error())
	}
	recs, err := s.records(ctx, args)
	if err != nil {
		return errorResult("Error loading records: " + err.Error())
	}
	return textResult(report.Models(s.engine.ModelSummary(recs), plan))
}

func handlePowerUsers(ctx context.Context, s *Server, args toolArgs) ToolCallResult {
	recs, err := s.records(ctx, args)
	if err != nil {
		return errorResult("Error loading records: " + err.Error())
	}
	if len(args.Users) > 0 {
		days := analytics.PowerUserDailyBreakdown(recs, args.Users)
		return textResult(report.PowerUserBreakdown(days, analytics.UniqueModels(days)))
	}
	return textResult(report.PowerUsers(s.engine.PowerUsers(recs)))
}

func handleExceeded(ctx context.Context, s *Server, args toolArgs) ToolCallResult {
	if args.Date != "" {
		if _, err := time.Parse(models.DateLayout, args.Date); err != nil {
			return errorResult("Invalid date (use YYYY-MM-DD): " + args.Date)
		}
	}
	recs, err := s.records(ctx, args)
	if err != nil {
		return errorResult("Error loading records: " + err.Error())
	}
	text := report.Exceeded(analytics.ExceededRequestDetails(recs, analytics.ExceededFilter{Date: args.Date, User: args.User}))
	if args.User != "" {
		text = report.UserExceeded(args.User, analytics.UserExceededSummary(recs, args.User)) + "\n" + text
	}
	return textResult(text)
}

func handleQuota(ctx context.Context, s *Server, args toolArgs) ToolCallResult {
	plan, err := s.planFor(args)
	if err != nil {
		return errorResult(err.Error())
	}
	recs, err := s.records(ctx, args)
	if err != nil {
		return errorResult("Error loading records: " + err.Error())
	}
	return textResult(report.Quota(s.engine.QuotaOverview(recs, plan)))
}

func handleProjection(ctx context.Context, s *Server, args toolArgs) ToolCallResult {
	plan, err := s.planFor(args)
	if err != nil {
		return errorResult(err.Error())
	}
	recs, err := s.records(ctx, args)
	if err != nil {
		return errorResult("Error loading records: " + err.Error())
	}
	users := s.engine.ProjectedUsers(recs, plan)
	return textResult(report.Projection(users, s.engine.ProjectedOverage(users, plan), plan, s.engine.Limit(plan)))
}

func handleUser(ctx context.Context, s *Server, args toolArgs) ToolCallResult {
	if strings.TrimSpace(args.User) == "" {
		return errorResult("user is required")
	}
	recs, err := s.records(ctx, args)
	if err != nil {
		return errorResult("Error loading records: " + err.Error())
	}
	a, ok := analytics.UserAnalysis(recs, args.User)
	if !ok {
		return textResult("No activity found for " + args.User + ".")
	}
	return textResult(report.UserAnalysis(a) + "\n" + report.UserExceeded(args.User, analytics.UserExceededSummary(recs, args.User)))
}
