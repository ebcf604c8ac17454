package database

import "math"

// RoundedMean returns the mean of values rounded half away from zero.
// An empty input yields 0.
func RoundedMean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// SponsorSummary holds the aggregate figures shown above the sponsor table.
type SponsorSummary struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	PendingOnboarding int `json:"pending_onboarding"`
	CompletionRate    int `json:"completion_rate"`
}

// SponsorStats aggregates a sponsor collection.
func SponsorStats(sponsors []Sponsor) SponsorSummary {
	summary := SponsorSummary{Total: len(sponsors)}
	rates := make([]int, 0, len(sponsors))
	for _, s := range sponsors {
		switch s.Status {
		case SponsorActive:
			summary.Active++
		case SponsorPending:
			summary.PendingOnboarding++
		}
		rates = append(rates, s.CompletionRate)
	}
	summary.CompletionRate = RoundedMean(rates)
	return summary
}

// RequirementSummary holds the aggregate figures shown above the requirement list.
type RequirementSummary struct {
	Total         int `json:"total"`
	Pending       int `json:"pending"`
	InProgress    int `json:"in_progress"`
	Completed     int `json:"completed"`
	Overdue       int `json:"overdue"`
	AvgCompletion int `json:"avg_completion"`
}

// RequirementStats aggregates a requirement collection.
func RequirementStats(reqs []Requirement) RequirementSummary {
	summary := RequirementSummary{Total: len(reqs)}
	rates := make([]int, 0, len(reqs))
	for _, r := range reqs {
		switch r.Status {
		case RequirementPending:
			summary.Pending++
		case RequirementInProgress:
			summary.InProgress++
		case RequirementCompleted:
			summary.Completed++
		case RequirementOverdue:
			summary.Overdue++
		}
		rates = append(rates, r.CompletionRate)
	}
	summary.AvgCompletion = RoundedMean(rates)
	return summary
}
