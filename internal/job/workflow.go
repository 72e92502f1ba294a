package job

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jobtally/job-tracker/internal/notification"
)

// congratsMessages is shown as a blocking modal when an application lands an offer
var congratsMessages = []string{
	"Congratulations! All that hard work paid off!",
	"You did it! Time to celebrate your new offer!",
	"Amazing news! They would be lucky to have you!",
	"An offer! Your persistence made this happen!",
	"Fantastic! Go treat yourself, you earned this one!",
}

// TransitionEffects carries the side effects of an actual status change.
// Zero value means no effects.
type TransitionEffects struct {
	CongratsMessage string                     `json:"congratsMessage,omitempty"`
	Notification    *notification.Notification `json:"notification,omitempty"`
}

// Transition applies newStatus to the entry and reports the side effects the
// caller should surface. A transition to the current status is a no-op:
// nothing changes and no side effect fires, so repeated identical calls
// perform side effects at most once. The caller persists the status change
// before invoking Transition so local state never runs ahead of the store.
func Transition(e *Entry, newStatus Status, now time.Time) (bool, TransitionEffects) {
	if newStatus == e.Status {
		return false, TransitionEffects{}
	}
	oldStatus := e.Status
	e.Status = newStatus

	fx := TransitionEffects{}
	switch {
	case newStatus == StatusOffer:
		fx.CongratsMessage = congratsMessages[rand.Intn(len(congratsMessages))]
		fx.Notification = &notification.Notification{
			ID:      notification.DeriveID(e.ID, "status-offer"),
			Type:    notification.TypeAchievement,
			Title:   "Offer Received!",
			Message: fmt.Sprintf("You got an offer from %s for %s", e.Company, e.Role),
			Date:    now,
			JobID:   e.ID,
		}
	case oldStatus == StatusApplied && newStatus == StatusInterviewing:
		fx.Notification = &notification.Notification{
			ID:      notification.DeriveID(e.ID, "status-interviewing"),
			Type:    notification.TypeInterview,
			Title:   "Moving Forward!",
			Message: fmt.Sprintf("%s moved your %s application to interviewing", e.Company, e.Role),
			Date:    now,
			JobID:   e.ID,
		}
	case newStatus == StatusRejected:
		fx.Notification = &notification.Notification{
			ID:      notification.DeriveID(e.ID, "status-rejected"),
			Type:    notification.TypeDeadline,
			Title:   "Keep Going!",
			Message: fmt.Sprintf("%s passed on %s. The right one is still out there", e.Company, e.Role),
			Date:    now,
			JobID:   e.ID,
		}
	}
	return true, fx
}

// CongratsMessages exposes the fixed modal message list
func CongratsMessages() []string {
	out := make([]string, len(congratsMessages))
	copy(out, congratsMessages)
	return out
}
