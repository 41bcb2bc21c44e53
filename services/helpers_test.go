package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_scheduler/database/dbtest"
	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 2024-01-10 08:00 UTC, the morning of the reference session day.
var baseNow = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 10, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	db       *gorm.DB
	clock    *FixedClock
	avail    *AvailabilityService
	blackout *BlackoutService
	resolver *SlotResolver
	bookings *BookingService
	sessions *SessionService
	tutors   *TutorService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	clock := &FixedClock{T: baseNow}
	return &fixture{
		db:       db,
		clock:    clock,
		avail:    NewAvailabilityService(db),
		blackout: NewBlackoutService(db),
		resolver: NewSlotResolver(db, clock),
		bookings: NewBookingService(db, clock, 0),
		sessions: NewSessionService(db, clock),
		tutors:   NewTutorService(db),
	}
}

func (f *fixture) user(t *testing.T, name string) uuid.UUID {
	t.Helper()
	u := models.User{
		FullName: name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     models.RoleStudent,
	}
	if err := f.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u.ID
}

func (f *fixture) tutor(t *testing.T, name string, hours ...int) uuid.UUID {
	t.Helper()
	id := f.user(t, name)
	if _, err := f.tutors.Create(context.Background(), NewTutor{UserID: id, InitialHours: hours}); err != nil {
		t.Fatalf("seed tutor %s: %v", name, err)
	}
	return id
}

// confirmedSession books hour on the reference day and has the tutor accept it.
func (f *fixture) confirmedSession(t *testing.T, tutorID, studentID uuid.UUID, hour int) (*models.Booking, *models.Session) {
	t.Helper()
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, studentID, tutorID, at(hour, 0))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	b, err = f.bookings.Accept(ctx, b.ID, tutorID)
	if err != nil {
		t.Fatalf("accept booking: %v", err)
	}
	return b, b.Session
}

func equalHours(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
