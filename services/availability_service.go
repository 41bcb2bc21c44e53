package services

import (
	"context"
	"fmt"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityService owns the recurring 24-hour template of each tutor.
// It does not check that the tutor exists; callers that care do that first.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// Initialize creates all 24 rows. Rows that already exist are left alone, so
// account setup flows may call it more than once.
func (s *AvailabilityService) Initialize(ctx context.Context, tutorID uuid.UUID, initialHours []int) error {
	return initializeTemplate(s.db.WithContext(ctx), tutorID, initialHours)
}

func initializeTemplate(tx *gorm.DB, tutorID uuid.UUID, initialHours []int) error {
	rows, err := templateRows(tutorID, initialHours)
	if err != nil {
		return err
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tutor_id"}, {Name: "hour_start"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("initialize template: %w", err)
	}
	return nil
}

// ReplaceAll rewrites the whole template in one transaction. Existing
// bookings in hours that become closed stay valid.
func (s *AvailabilityService) ReplaceAll(ctx context.Context, tutorID uuid.UUID, availableHours []int) error {
	rows, err := templateRows(tutorID, availableHours)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(upsertAvailability()).Create(&rows).Error; err != nil {
			return fmt.Errorf("replace template: %w", err)
		}
		return nil
	})
}

func (s *AvailabilityService) SetSlot(ctx context.Context, tutorID uuid.UUID, hour int, isAvailable bool) error {
	if err := validHour(hour); err != nil {
		return err
	}
	row := models.AvailabilitySlot{TutorID: tutorID, HourStart: hour, IsAvailable: isAvailable}
	if err := s.db.WithContext(ctx).Clauses(upsertAvailability()).Create(&row).Error; err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	return nil
}

// Template returns the tutor's flags indexed by hour.
func (s *AvailabilityService) Template(ctx context.Context, tutorID uuid.UUID) ([models.HoursPerDay]bool, error) {
	return loadTemplate(s.db.WithContext(ctx), tutorID)
}

func loadTemplate(tx *gorm.DB, tutorID uuid.UUID) ([models.HoursPerDay]bool, error) {
	var template [models.HoursPerDay]bool
	var rows []models.AvailabilitySlot
	if err := tx.Where("tutor_id = ?", tutorID).Find(&rows).Error; err != nil {
		return template, fmt.Errorf("load template: %w", err)
	}
	for _, row := range rows {
		if row.HourStart >= 0 && row.HourStart < models.HoursPerDay {
			template[row.HourStart] = row.IsAvailable
		}
	}
	return template, nil
}

func templateRows(tutorID uuid.UUID, hours []int) ([]models.AvailabilitySlot, error) {
	var open [models.HoursPerDay]bool
	for _, h := range hours {
		if err := validHour(h); err != nil {
			return nil, err
		}
		open[h] = true
	}
	rows := make([]models.AvailabilitySlot, models.HoursPerDay)
	for h := range rows {
		rows[h] = models.AvailabilitySlot{TutorID: tutorID, HourStart: h, IsAvailable: open[h]}
	}
	return rows, nil
}

func upsertAvailability() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "tutor_id"}, {Name: "hour_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
	}
}

// OpenHours lists the template hours that are switched on, ascending.
func OpenHours(template [models.HoursPerDay]bool) []int {
	hours := make([]int, 0, models.HoursPerDay)
	for h, open := range template {
		if open {
			hours = append(hours, h)
		}
	}
	return hours
}
