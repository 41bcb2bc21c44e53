package jobs

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_scheduler/database/dbtest"
	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/anjiri1684/tutor_scheduler/services"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var now = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

type recorder struct {
	mu   sync.Mutex
	wg   sync.WaitGroup
	sent []string
}

func (r *recorder) SendEmail(_ context.Context, _, toEmail, _, _ string) error {
	defer r.wg.Done()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, toEmail)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{FullName: name, Email: name + "@example.com", Password: "x", Role: models.RoleStudent}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedBooking(t *testing.T, db *gorm.DB, student, tutor uuid.UUID, start time.Time, status models.BookingStatus) {
	t.Helper()
	b := models.Booking{
		StudentID:          student,
		TutorID:            tutor,
		ScheduledStartTime: start,
		ScheduledEndTime:   start.Add(models.SessionLength),
		SlotDate:           datatypes.Date(time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)),
		SlotHour:           start.Hour(),
		Status:             status,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
}

func TestSendClassReminders(t *testing.T) {
	db := dbtest.Open(t)
	student := seedUser(t, db, "sam")
	tutor := seedUser(t, db, "tina")
	other := seedUser(t, db, "otto")

	seedBooking(t, db, student.ID, tutor.ID, now.Add(time.Hour), models.BookingConfirmed)
	// pending and out-of-window bookings are skipped
	seedBooking(t, db, other.ID, tutor.ID, now.Add(2*time.Hour), models.BookingConfirmed)
	seedBooking(t, db, other.ID, student.ID, now.Add(time.Hour), models.BookingPending)

	rec := &recorder{}
	rec.wg.Add(2)
	job := &ReminderJob{
		DB:       db,
		Clock:    &services.FixedClock{T: now},
		Notifier: rec,
		Lead:     time.Hour,
		Interval: 5 * time.Minute,
	}

	n, err := job.SendClassReminders(context.Background())
	if err != nil {
		t.Fatalf("SendClassReminders: %v", err)
	}
	if n != 1 {
		t.Fatalf("reminded %d bookings, want 1", n)
	}
	rec.wg.Wait()

	sort.Strings(rec.sent)
	if len(rec.sent) != 2 || rec.sent[0] != "sam@example.com" || rec.sent[1] != "tina@example.com" {
		t.Fatalf("sent to %v", rec.sent)
	}
}

func TestMessageCleanupJob(t *testing.T) {
	db := dbtest.Open(t)
	sessionID := uuid.New()
	msgs := []models.SessionMessage{
		{SessionID: sessionID, SenderID: uuid.New(), MessageContent: "old", SentAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-30 * time.Hour)},
		{SessionID: sessionID, SenderID: uuid.New(), MessageContent: "recent", SentAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
	}
	if err := db.Create(&msgs).Error; err != nil {
		t.Fatalf("seed messages: %v", err)
	}

	job := &MessageCleanupJob{DB: db, Clock: &services.FixedClock{T: now}, Retention: 24 * time.Hour}
	job.Run()

	var left []models.SessionMessage
	if err := db.Find(&left).Error; err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(left) != 1 || left[0].MessageContent != "recent" {
		t.Fatalf("left %+v", left)
	}
}

func TestScheduleDerivesReminderInterval(t *testing.T) {
	c := cron.New()
	reminders := &ReminderJob{}
	if err := Schedule(c, "*/5 * * * *", reminders, &MessageCleanupJob{}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if reminders.Interval != 5*time.Minute {
		t.Fatalf("interval %s, want 5m", reminders.Interval)
	}
	if len(c.Entries()) != 2 {
		t.Fatalf("entries %d, want 2", len(c.Entries()))
	}

	if err := Schedule(cron.New(), "not a spec", &ReminderJob{}, &MessageCleanupJob{}); err == nil {
		t.Fatalf("expected parse error")
	}
}
