package job

import (
	"testing"
	"time"

	"github.com/jobtally/job-tracker/internal/notification"
)

func TestTransitionNoOpOnSameStatus(t *testing.T) {
	e := &Entry{ID: "j1", Company: "Acme", Role: "Engineer", Status: StatusApplied}
	changed, fx := Transition(e, StatusApplied, time.Now())
	if changed {
		t.Errorf("expected no change when target equals current status")
	}
	if fx.CongratsMessage != "" || fx.Notification != nil {
		t.Errorf("expected no side effects on no-op transition, got %+v", fx)
	}
	if e.Status != StatusApplied {
		t.Errorf("entry status mutated on no-op transition")
	}
}

func TestTransitionToOffer(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e := &Entry{ID: "j1", Company: "Acme", Role: "Engineer", Status: StatusApplied}
	changed, fx := Transition(e, StatusOffer, now)
	if !changed {
		t.Fatalf("expected transition to report a change")
	}
	if e.Status != StatusOffer {
		t.Errorf("expected status offer, got %q", e.Status)
	}
	if fx.CongratsMessage == "" {
		t.Errorf("expected a congratulatory message")
	}
	found := false
	for _, m := range CongratsMessages() {
		if m == fx.CongratsMessage {
			found = true
		}
	}
	if !found {
		t.Errorf("congrats message %q not from the fixed list", fx.CongratsMessage)
	}
	if fx.Notification == nil {
		t.Fatalf("expected a success notification")
	}
	if fx.Notification.Type != notification.TypeAchievement {
		t.Errorf("expected achievement notification, got %q", fx.Notification.Type)
	}
	if fx.Notification.JobID != "j1" {
		t.Errorf("expected notification bound to job j1, got %q", fx.Notification.JobID)
	}
}

func TestTransitionAppliedToInterviewing(t *testing.T) {
	e := &Entry{ID: "j1", Company: "Acme", Role: "Engineer", Status: StatusApplied}
	changed, fx := Transition(e, StatusInterviewing, time.Now())
	if !changed {
		t.Fatalf("expected transition to report a change")
	}
	if fx.CongratsMessage != "" {
		t.Errorf("no congrats modal outside of offer transitions")
	}
	if fx.Notification == nil || fx.Notification.Type != notification.TypeInterview {
		t.Errorf("expected interview notification, got %+v", fx.Notification)
	}
}

func TestTransitionOtherToInterviewingSilent(t *testing.T) {
	// informational notification fires for applied -> interviewing only
	e := &Entry{ID: "j1", Company: "Acme", Role: "Engineer", Status: StatusRejected}
	changed, fx := Transition(e, StatusInterviewing, time.Now())
	if !changed {
		t.Fatalf("expected transition to report a change")
	}
	if fx.Notification != nil {
		t.Errorf("expected no notification for rejected -> interviewing, got %+v", fx.Notification)
	}
}

func TestTransitionToRejected(t *testing.T) {
	e := &Entry{ID: "j1", Company: "Acme", Role: "Engineer", Status: StatusInterviewing}
	changed, fx := Transition(e, StatusRejected, time.Now())
	if !changed {
		t.Fatalf("expected transition to report a change")
	}
	if fx.Notification == nil {
		t.Fatalf("expected an encouragement notification")
	}
	if fx.Notification.Title == "" || fx.Notification.Message == "" {
		t.Errorf("expected populated notification, got %+v", fx.Notification)
	}
}

func TestTransitionSideEffectsFireAtMostOnce(t *testing.T) {
	e := &Entry{ID: "j1", Company: "Acme", Role: "Engineer", Status: StatusApplied}
	changed, fx := Transition(e, StatusOffer, time.Now())
	if !changed || fx.Notification == nil {
		t.Fatalf("first transition should change and emit side effects")
	}
	changed, fx = Transition(e, StatusOffer, time.Now())
	if changed {
		t.Errorf("second identical transition must be a no-op")
	}
	if fx.CongratsMessage != "" || fx.Notification != nil {
		t.Errorf("second identical transition must not repeat side effects")
	}
}
