package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SlotResolver combines the template, blackouts and active bookings into
// the hours a student can still book on a date. The listing and the
// single-slot check share bookedHours so what is shown and what is allowed
// cannot drift apart. Hours that no longer start in the future are left
// out, matching what BookingService.Create accepts.
type SlotResolver struct {
	db    *gorm.DB
	clock Clock
}

func NewSlotResolver(db *gorm.DB, clock Clock) *SlotResolver {
	return &SlotResolver{db: db, clock: clock}
}

func (r *SlotResolver) ResolveOpenSlots(ctx context.Context, tutorID uuid.UUID, date time.Time) ([]int, error) {
	hours, err := resolveOpenSlots(r.db.WithContext(ctx), tutorID, date)
	if err != nil {
		return nil, err
	}
	now := r.clock.Now()
	upcoming := hours[:0]
	for _, h := range hours {
		if slotStart(date, h).After(now) {
			upcoming = append(upcoming, h)
		}
	}
	return upcoming, nil
}

func (r *SlotResolver) IsSlotAvailable(ctx context.Context, tutorID uuid.UUID, start time.Time) (bool, error) {
	if !start.After(r.clock.Now()) {
		return false, nil
	}
	return isSlotAvailable(r.db.WithContext(ctx), tutorID, start)
}

func resolveOpenSlots(tx *gorm.DB, tutorID uuid.UUID, date time.Time) ([]int, error) {
	blacked, err := isBlackedOut(tx, tutorID, date)
	if err != nil {
		return nil, err
	}
	if blacked {
		return []int{}, nil
	}

	template, err := loadTemplate(tx, tutorID)
	if err != nil {
		return nil, err
	}
	booked, err := bookedHours(tx, tutorID, calendarDay(date), -1)
	if err != nil {
		return nil, err
	}

	open := make([]int, 0, models.HoursPerDay)
	for _, h := range OpenHours(template) {
		if !booked[h] {
			open = append(open, h)
		}
	}
	return open, nil
}

func isSlotAvailable(tx *gorm.DB, tutorID uuid.UUID, start time.Time) (bool, error) {
	day, hour := slotOf(start)

	blacked, err := isBlackedOut(tx, tutorID, time.Time(day))
	if err != nil {
		return false, err
	}
	if blacked {
		return false, nil
	}

	var row models.AvailabilitySlot
	err = tx.Where("tutor_id = ? AND hour_start = ?", tutorID, hour).Limit(1).Find(&row).Error
	if err != nil {
		return false, fmt.Errorf("load template hour: %w", err)
	}
	if !row.IsAvailable {
		return false, nil
	}

	booked, err := bookedHours(tx, tutorID, day, hour)
	if err != nil {
		return false, err
	}
	return !booked[hour], nil
}

// bookedHours collects the hours held by pending or confirmed bookings on
// day. hour >= 0 narrows the query to that single hour.
func bookedHours(tx *gorm.DB, tutorID uuid.UUID, day datatypes.Date, hour int) (map[int]bool, error) {
	q := tx.Model(&models.Booking{}).
		Where("tutor_id = ? AND slot_date = ?", tutorID, day).
		Where("status IN ?", []models.BookingStatus{models.BookingPending, models.BookingConfirmed})
	if hour >= 0 {
		q = q.Where("slot_hour = ?", hour)
	}

	var hours []int
	if err := q.Pluck("slot_hour", &hours).Error; err != nil {
		return nil, fmt.Errorf("load booked hours: %w", err)
	}
	booked := make(map[int]bool, len(hours))
	for _, h := range hours {
		booked[h] = true
	}
	return booked, nil
}
