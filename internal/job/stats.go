package job

import (
	"math"
	"strconv"
	"time"

	"github.com/aclements/go-moremath/stats"
)

// Stats is the aggregate view over one user's job set. All rates are
// percentages and every field is 0 for an empty job set, never NaN.
type Stats struct {
	Total             int     `json:"total"`
	Applied           int     `json:"applied"`
	Interviewing      int     `json:"interviewing"`
	Offers            int     `json:"offers"`
	Rejected          int     `json:"rejected"`
	AverageSalary     float64 `json:"averageSalary"`
	ResponseRate      float64 `json:"responseRate"`
	SuccessRate       float64 `json:"successRate"`
	AvgDaysToResponse float64 `json:"avgDaysToResponse"`
	WeeklyProgress    int     `json:"weeklyProgress"`
}

// ComputeStats reduces the job set into counters and derived rates.
// Weekly progress counts applications in the trailing 7 days.
func ComputeStats(entries []*Entry, now time.Time) Stats {
	s := Stats{Total: len(entries)}
	var salaries stats.Sample
	var responseDays stats.Sample
	weekAgo := now.AddDate(0, 0, -7)
	for _, e := range entries {
		switch e.Status {
		case StatusApplied:
			s.Applied++
		case StatusInterviewing:
			s.Interviewing++
		case StatusOffer:
			s.Offers++
		case StatusRejected:
			s.Rejected++
		}
		if e.Salary != "" {
			if v, err := strconv.ParseFloat(e.Salary, 64); err == nil {
				salaries.Xs = append(salaries.Xs, v)
			}
		}
		if e.ApplicationDate != nil && e.ResponseDate != nil {
			days := math.Abs(e.ResponseDate.Sub(*e.ApplicationDate).Hours() / 24)
			responseDays.Xs = append(responseDays.Xs, days)
		}
		if e.ApplicationDate != nil && !e.ApplicationDate.Before(weekAgo) && !e.ApplicationDate.After(now) {
			s.WeeklyProgress++
		}
	}
	if len(salaries.Xs) > 0 {
		s.AverageSalary = salaries.Mean()
	}
	if len(responseDays.Xs) > 0 {
		s.AvgDaysToResponse = responseDays.Mean()
	}
	if s.Total > 0 {
		s.ResponseRate = float64(s.Total-s.Applied) * 100 / float64(s.Total)
		s.SuccessRate = float64(s.Offers) * 100 / float64(s.Total)
	}
	return s
}
