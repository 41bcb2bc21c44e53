package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/anjiri1684/tutor_scheduler/notifications"
	"github.com/anjiri1684/tutor_scheduler/services"
	"gorm.io/gorm"
)

// ReminderJob mails both participants of confirmed bookings that start
// Lead from now. Each run covers the next Interval of start times, so with
// Interval equal to the cron period every booking is reminded once.
type ReminderJob struct {
	DB       *gorm.DB
	Clock    services.Clock
	Notifier notifications.Notifier
	Lead     time.Duration
	Interval time.Duration
}

func (j *ReminderJob) Run() {
	if _, err := j.SendClassReminders(context.Background()); err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
	}
}

func (j *ReminderJob) SendClassReminders(ctx context.Context) (int, error) {
	log.Println("Running job: SendClassReminders...")

	now := j.Clock.Now()
	lowerBound := now.Add(j.Lead)
	upperBound := lowerBound.Add(j.Interval)

	var upcoming []models.Booking
	err := j.DB.WithContext(ctx).
		Preload("Student").
		Preload("Tutor").
		Where("status = ? AND scheduled_start_time >= ? AND scheduled_start_time < ?",
			models.BookingConfirmed, lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		return 0, err
	}

	for i := range upcoming {
		log.Printf("Sending reminder for booking ID: %s", upcoming[i].ID)
		notifications.SessionReminder(j.Notifier, &upcoming[i], j.Lead)
	}
	return len(upcoming), nil
}
