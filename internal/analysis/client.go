package analysis

import (
	"context"
	"fmt"
	"strings"

	"opsinsight/internal/config"
	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/workset"
)

// PriorityRiskCount counts projects with one "priority/risk" combination
type PriorityRiskCount struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// FlaggedProject is a high-risk project above the profit threshold
type FlaggedProject struct {
	Name     string  `json:"name" yaml:"name"`
	Priority string  `json:"priority" yaml:"priority"`
	Risk     string  `json:"risk" yaml:"risk"`
	Profit   float64 `json:"profit" yaml:"profit"`
}

// ClientResult is the output of the client analyzer
type ClientResult struct {
	// PriorityRisk is in order of first appearance
	PriorityRisk []PriorityRiskCount `json:"priorities_risk" yaml:"priorities_risk"`
	// Ratio is high and critical priority projects over low priority ones
	Ratio            float64          `json:"ratio" yaml:"ratio"`
	HighPriority     int              `json:"high_priority_count" yaml:"high_priority_count"`
	LowPriority      int              `json:"low_priority_count" yaml:"low_priority_count"`
	HighRiskProjects []FlaggedProject `json:"projects" yaml:"projects"`
}

func (r *ClientResult) AnalyzerName() string { return NameClient }

func (r *ClientResult) Tables() []Table {
	pairs := Table{
		Name:    "client_priority_risk",
		Title:   "Priorities-risk for project:",
		Columns: []string{"priority/risk", "count"},
	}
	for _, p := range r.PriorityRisk {
		pairs.Rows = append(pairs.Rows, []interface{}{p.Key, p.Count})
	}

	flagged := Table{
		Name:    "client_high_risk",
		Title:   "Project with high risk and profit:",
		Columns: []string{"name", "priority", "risk", "profit"},
	}
	for _, p := range r.HighRiskProjects {
		flagged.Rows = append(flagged.Rows, []interface{}{p.Name, p.Priority, p.Risk, p.Profit})
	}

	return []Table{pairs, flagged}
}

// Client cross-tabulates project priority and risk
type Client struct {
	base
	ws *workset.WorkingSet
}

// NewClient creates a client analyzer over ws
func NewClient(ws *workset.WorkingSet, deps Deps) *Client {
	return &Client{base: newBase(NameClient, deps), ws: ws}
}

// Execute implements Analyzer
func (a *Client) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *Client) compute() (Result, error) {
	res := &ClientResult{
		PriorityRisk:     []PriorityRiskCount{},
		HighRiskProjects: []FlaggedProject{},
	}
	index := make(map[string]int)
	threshold := a.settings().HighProfitThreshold

	for _, p := range a.ws.Projects {
		key := p.Priority + "/" + p.RiskLevel
		i, ok := index[key]
		if !ok {
			i = len(res.PriorityRisk)
			index[key] = i
			res.PriorityRisk = append(res.PriorityRisk, PriorityRiskCount{Key: key})
		}
		res.PriorityRisk[i].Count++

		switch p.Priority {
		case config.LevelLow:
			res.LowPriority++
		case config.LevelHigh, config.LevelCritical:
			res.HighPriority++
		}

		if p.Profit > threshold && p.RiskLevel == config.LevelHigh {
			res.HighRiskProjects = append(res.HighRiskProjects, FlaggedProject{
				Name:     p.Name,
				Priority: p.Priority,
				Risk:     p.RiskLevel,
				Profit:   p.Profit,
			})
		}
	}

	if res.LowPriority == 0 {
		return nil, apperrors.NewInsufficientDataError(NameClient, "priority ratio", "no low-priority projects")
	}
	res.Ratio = float64(res.HighPriority) / float64(res.LowPriority)
	return res, nil
}

func (a *Client) report(res Result) {
	r := res.(*ClientResult)
	rep := a.reporter()

	pairs := make([]string, len(r.PriorityRisk))
	for i, p := range r.PriorityRisk {
		pairs[i] = fmt.Sprintf("%s: %d", p.Key, p.Count)
	}
	projects := make([]string, len(r.HighRiskProjects))
	for i, p := range r.HighRiskProjects {
		projects[i] = fmt.Sprintf("{name: %s, priority: %s, risk: %s, profit: %s}", p.Name, p.Priority, p.Risk, Plain(p.Profit))
	}

	rep.Section("CLIENT ANALYSIS")
	rep.Line("Priorities-risk for project: {%s}", strings.Join(pairs, ", "))
	rep.Line("Ratio high/critical to low priority: %s", Plain(r.Ratio))
	rep.Line("Project with high risk and profit: [%s]", strings.Join(projects, ", "))
}
