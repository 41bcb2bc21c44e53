package notifications

import (
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
)

const emailTimeFormat = "Mon 02 Jan 2006 15:04 MST"

func sessionTime(b *models.Booking) string {
	return b.ScheduledStartTime.UTC().Format(emailTimeFormat)
}

func BookingRequested(n Notifier, b *models.Booking) {
	if b.Tutor == nil {
		return
	}
	Dispatch(n, b.Tutor.FullName, b.Tutor.Email, "You Have a New Booking Request!",
		fmt.Sprintf("<h1>New Booking Request</h1><p>A student asked for a session on %s. Please accept or reject it from your dashboard.</p>", sessionTime(b)))
}

func BookingAccepted(n Notifier, b *models.Booking) {
	if b.Student == nil {
		return
	}
	Dispatch(n, b.Student.FullName, b.Student.Email, "Your Booking is Confirmed!",
		fmt.Sprintf("<h1>Booking Confirmed</h1><p>Your session on %s is confirmed. Chat opens one hour before the start.</p>", sessionTime(b)))
}

func BookingRejected(n Notifier, b *models.Booking) {
	if b.Student == nil {
		return
	}
	Dispatch(n, b.Student.FullName, b.Student.Email, "Booking Request Declined",
		fmt.Sprintf("<h1>Booking Declined</h1><p>Your tutor could not take the session on %s.%s</p>", sessionTime(b), reasonLine(b)))
}

// BookingCancelled tells the participant who did not cancel.
func BookingCancelled(n Notifier, b *models.Booking) {
	recipient := b.Tutor
	if b.CancelledBy != nil && *b.CancelledBy == b.TutorID {
		recipient = b.Student
	}
	if recipient == nil {
		return
	}
	Dispatch(n, recipient.FullName, recipient.Email, "Session Cancelled",
		fmt.Sprintf("<h1>Session Cancelled</h1><p>The session on %s was cancelled.%s</p>", sessionTime(b), reasonLine(b)))
}

func SessionReminder(n Notifier, b *models.Booking, lead time.Duration) {
	subject := fmt.Sprintf("Reminder: Your Session Starts in %s!", lead.Round(time.Minute))
	body := fmt.Sprintf("<h1>Session Reminder</h1><p>Your session is scheduled to start at %s.</p>", sessionTime(b))
	for _, u := range []*models.User{b.Student, b.Tutor} {
		if u != nil {
			Dispatch(n, u.FullName, u.Email, subject, body)
		}
	}
}

func reasonLine(b *models.Booking) string {
	if b.CancellationReason == nil {
		return ""
	}
	return fmt.Sprintf(" Reason: %s", html.EscapeString(*b.CancellationReason))
}
