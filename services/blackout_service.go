package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlackoutService keeps the dates on which a tutor cannot be booked at all.
type BlackoutService struct {
	db *gorm.DB
}

func NewBlackoutService(db *gorm.DB) *BlackoutService {
	return &BlackoutService{db: db}
}

func (s *BlackoutService) Add(ctx context.Context, tutorID uuid.UUID, date time.Time, reason *string) (*models.BlackoutDate, error) {
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if trimmed == "" {
			reason = nil
		} else {
			reason = &trimmed
		}
	}
	blackout := models.BlackoutDate{
		TutorID: tutorID,
		Date:    calendarDay(date),
		Reason:  reason,
	}
	if err := s.db.WithContext(ctx).Create(&blackout).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s is already blacked out", ErrConflict, date.Format(time.DateOnly))
		}
		return nil, fmt.Errorf("add blackout: %w", err)
	}
	return &blackout, nil
}

func (s *BlackoutService) IsBlackedOut(ctx context.Context, tutorID uuid.UUID, date time.Time) (bool, error) {
	return isBlackedOut(s.db.WithContext(ctx), tutorID, date)
}

func isBlackedOut(tx *gorm.DB, tutorID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := tx.Model(&models.BlackoutDate{}).
		Where("tutor_id = ? AND blackout_date = ?", tutorID, calendarDay(date)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check blackout: %w", err)
	}
	return count > 0, nil
}

// List returns blackouts between from and to inclusive, earliest first. A
// zero bound leaves that side open.
func (s *BlackoutService) List(ctx context.Context, tutorID uuid.UUID, from, to time.Time) ([]models.BlackoutDate, error) {
	q := s.db.WithContext(ctx).Where("tutor_id = ?", tutorID)
	if !from.IsZero() {
		q = q.Where("blackout_date >= ?", calendarDay(from))
	}
	if !to.IsZero() {
		q = q.Where("blackout_date <= ?", calendarDay(to))
	}
	var blackouts []models.BlackoutDate
	if err := q.Order("blackout_date asc").Find(&blackouts).Error; err != nil {
		return nil, fmt.Errorf("list blackouts: %w", err)
	}
	return blackouts, nil
}

func (s *BlackoutService) Remove(ctx context.Context, tutorID uuid.UUID, date time.Time) error {
	res := s.db.WithContext(ctx).
		Where("tutor_id = ? AND blackout_date = ?", tutorID, calendarDay(date)).
		Delete(&models.BlackoutDate{})
	if res.Error != nil {
		return fmt.Errorf("remove blackout: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no blackout on %s", ErrNotFound, date.Format(time.DateOnly))
	}
	return nil
}
