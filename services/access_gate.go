package services

import (
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
)

type AccessState string

const (
	AccessTooEarly      AccessState = "too_early"
	AccessPreSession    AccessState = "pre_session"
	AccessDuringSession AccessState = "during_session"
	AccessPostSession   AccessState = "post_session"
	AccessExpired       AccessState = "expired"
)

// AccessWindow is how far the chat opens before a session and stays open
// after it.
const AccessWindow = time.Hour

type Access struct {
	State      AccessState `json:"state"`
	CanMessage bool        `json:"can_message"`
	CanStart   bool        `json:"can_start"`
	OpensAt    time.Time   `json:"opens_at"`
	ClosesAt   time.Time   `json:"closes_at"`
}

// EvaluateAccess derives what a participant may do at now. It reads nothing
// but its arguments, so it is safe to call from any goroutine.
func EvaluateAccess(now, start, end time.Time, status models.SessionStatus, isTutor bool) Access {
	opens := start.Add(-AccessWindow)
	closes := end.Add(AccessWindow)
	access := Access{OpensAt: opens, ClosesAt: closes}

	switch {
	case status.Finished():
		if !now.After(closes) {
			access.State, access.CanMessage = AccessPostSession, true
		} else {
			access.State = AccessExpired
		}
	case now.Before(opens):
		access.State = AccessTooEarly
	case now.Before(start):
		access.State, access.CanMessage = AccessPreSession, true
		access.CanStart = isTutor
	case !now.After(end):
		access.State, access.CanMessage = AccessDuringSession, true
		access.CanStart = isTutor && status == models.SessionScheduled
	case !now.After(closes):
		access.State, access.CanMessage = AccessPostSession, true
	default:
		access.State = AccessExpired
	}
	return access
}
