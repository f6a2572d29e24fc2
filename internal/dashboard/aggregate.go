// Package dashboard computes the derived series behind the dashboard
// charts. Everything here is a pure, synchronous grouping pass over
// already-fetched slices: nothing is persisted and every series is
// recomputed per request. The charting widget consuming the output is an
// external collaborator.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

// TrendPoint is one day in an issue-creation trend series.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// PriorityCounts groups issues by priority.
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// RoleCounts groups users by role.
type RoleCounts struct {
	Admins     int `json:"admins"`
	Developers int `json:"developers"`
	Testers    int `json:"testers"`
}

// IssueTrend buckets issues by creation day over the last days days,
// ending at now. Days with no issues are present with a zero count so the
// series is dense.
func IssueTrend(issues []*models.Issue, days int, now time.Time) []TrendPoint {
	if days <= 0 {
		return nil
	}

	counts := make(map[string]int, days)
	start := now.AddDate(0, 0, -(days - 1))
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	for _, issue := range issues {
		if issue.CreatedAt.Before(startDay) {
			continue
		}
		counts[issue.CreatedAt.Format("2006-01-02")]++
	}

	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := startDay.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, TrendPoint{Date: day, Count: counts[day]})
	}
	return points
}

// CountByPriority tallies issues per priority level.
func CountByPriority(issues []*models.Issue) PriorityCounts {
	var c PriorityCounts
	for _, issue := range issues {
		switch issue.Priority {
		case models.PriorityLow:
			c.Low++
		case models.PriorityMedium:
			c.Medium++
		case models.PriorityHigh:
			c.High++
		}
	}
	return c
}

// CountByRole tallies users per role.
func CountByRole(users []*models.User) RoleCounts {
	var c RoleCounts
	for _, user := range users {
		switch user.Role {
		case models.RoleAdmin:
			c.Admins++
		case models.RoleDeveloper:
			c.Developers++
		case models.RoleTester:
			c.Testers++
		}
	}
	return c
}

// PartitionByStatus splits a project's issues into the open and resolved
// lists the project page renders. Resolved issues are ordered by
// updatedAt descending (most recently resolved first); open issues keep
// their fetch order.
func PartitionByStatus(issues []*models.IssueWithAssignee) (open, resolved []*models.IssueWithAssignee) {
	for _, issue := range issues {
		if issue.IsResolved() {
			resolved = append(resolved, issue)
		} else {
			open = append(open, issue)
		}
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].UpdatedAt.After(resolved[j].UpdatedAt)
	})
	return open, resolved
}

// SplitByCompletion splits projects into active and completed lists.
func SplitByCompletion(projects []*models.Project) (active, completed []*models.Project) {
	for _, p := range projects {
		if p.IsCompleted() {
			completed = append(completed, p)
		} else {
			active = append(active, p)
		}
	}
	return active, completed
}

// AssignedTo filters projects down to those whose assigned set contains
// userID. Ids are compared as trimmed strings on both sides so populated
// and raw reference shapes behave identically.
func AssignedTo(projects []*models.Project, userID string) []*models.Project {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}

	var assigned []*models.Project
	for _, p := range projects {
		for _, id := range p.AssignedUserIDs {
			if strings.TrimSpace(id) == userID {
				assigned = append(assigned, p)
				break
			}
		}
	}
	return assigned
}
