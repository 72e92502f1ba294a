package job

import (
	"math"
	"testing"
	"time"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil, time.Now())
	if s.Total != 0 || s.Applied != 0 || s.Interviewing != 0 || s.Offers != 0 || s.Rejected != 0 {
		t.Errorf("expected all counts 0, got %+v", s)
	}
	for name, v := range map[string]float64{
		"averageSalary":     s.AverageSalary,
		"responseRate":      s.ResponseRate,
		"successRate":       s.SuccessRate,
		"avgDaysToResponse": s.AvgDaysToResponse,
	} {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("expected %s = 0, got %v", name, v)
		}
	}
}

func TestComputeStatsCountsAndRates(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	entries := []*Entry{
		{Status: StatusApplied},
		{Status: StatusApplied},
		{Status: StatusInterviewing},
		{Status: StatusOffer},
	}
	s := ComputeStats(entries, now)
	if s.Total != 4 || s.Applied != 2 || s.Interviewing != 1 || s.Offers != 1 || s.Rejected != 0 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.ResponseRate != 50 {
		t.Errorf("expected response rate 50, got %v", s.ResponseRate)
	}
	if s.SuccessRate != 25 {
		t.Errorf("expected success rate 25, got %v", s.SuccessRate)
	}
}

func TestComputeStatsAverageSalary(t *testing.T) {
	now := time.Now()
	entries := []*Entry{
		{Status: StatusApplied, Salary: "80000"},
		{Status: StatusApplied, Salary: "100000"},
		{Status: StatusApplied, Salary: "competitive"}, // ignored, not numeric
		{Status: StatusApplied},
	}
	s := ComputeStats(entries, now)
	if s.AverageSalary != 90000 {
		t.Errorf("expected average salary 90000, got %v", s.AverageSalary)
	}
}

func TestComputeStatsAvgDaysToResponse(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	applied := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	entries := []*Entry{
		{Status: StatusRejected, ApplicationDate: datePtr(applied), ResponseDate: datePtr(applied.AddDate(0, 0, 10))},
		{Status: StatusOffer, ApplicationDate: datePtr(applied), ResponseDate: datePtr(applied.AddDate(0, 0, 20))},
		{Status: StatusApplied, ApplicationDate: datePtr(applied)}, // no response, ignored
	}
	s := ComputeStats(entries, now)
	if s.AvgDaysToResponse != 15 {
		t.Errorf("expected avg days to response 15, got %v", s.AvgDaysToResponse)
	}
}

func TestComputeStatsWeeklyProgress(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	entries := []*Entry{
		{Status: StatusApplied, ApplicationDate: datePtr(now.AddDate(0, 0, -1))},
		{Status: StatusApplied, ApplicationDate: datePtr(now.AddDate(0, 0, -6))},
		{Status: StatusApplied, ApplicationDate: datePtr(now.AddDate(0, 0, -8))}, // outside the rolling week
		{Status: StatusApplied},
	}
	s := ComputeStats(entries, now)
	if s.WeeklyProgress != 2 {
		t.Errorf("expected weekly progress 2, got %d", s.WeeklyProgress)
	}
}
