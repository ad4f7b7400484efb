package domain

import "time"

// AgentResult holds the outcome of one reviewer invocation.
// Created by the council invoker, consumed once during report assembly.
type AgentResult struct {
	AgentName   string
	RawOutput   string
	Succeeded   bool
	ErrorDetail string
	Duration    time.Duration
}

// CouncilStats summarizes a council run.
type CouncilStats struct {
	TotalAgents       int
	SuccessfulAgents  int
	FailedAgents      []string
	AgentDurations    map[string]time.Duration
	WallClockDuration time.Duration
}

// AllFailed returns true if every agent invocation failed.
func (s *CouncilStats) AllFailed() bool {
	return s.TotalAgents > 0 && len(s.FailedAgents) == s.TotalAgents
}

// BuildStats builds council statistics from results.
func BuildStats(results []AgentResult, wallClock time.Duration) CouncilStats {
	stats := CouncilStats{
		TotalAgents:       len(results),
		AgentDurations:    make(map[string]time.Duration),
		WallClockDuration: wallClock,
	}

	for _, r := range results {
		stats.AgentDurations[r.AgentName] = r.Duration
		if r.Succeeded {
			stats.SuccessfulAgents++
		} else {
			stats.FailedAgents = append(stats.FailedAgents, r.AgentName)
		}
	}

	return stats
}
