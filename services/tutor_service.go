package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TutorService struct {
	db *gorm.DB
}

func NewTutorService(db *gorm.DB) *TutorService {
	return &TutorService{db: db}
}

type NewTutor struct {
	UserID       uuid.UUID
	Headline     *string
	Bio          *string
	InitialHours []int
}

// Create promotes an existing user to tutor and lays down the availability
// template in the same transaction.
func (s *TutorService) Create(ctx context.Context, in NewTutor) (*models.Tutor, error) {
	for _, h := range in.InitialHours {
		if err := validHour(h); err != nil {
			return nil, err
		}
	}

	var tutor models.Tutor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", in.UserID).Error; err != nil {
			return notFound(err, "user")
		}
		if user.Role == models.RoleAdmin {
			return validationf("admins cannot become tutors")
		}

		var existing int64
		if err := tx.Model(&models.Tutor{}).Where("user_id = ?", in.UserID).Count(&existing).Error; err != nil {
			return fmt.Errorf("check tutor: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: user is already a tutor", ErrConflict)
		}

		if err := tx.Model(&user).Update("role", models.RoleTutor).Error; err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		user.Role = models.RoleTutor

		tutor = models.Tutor{UserID: in.UserID, Headline: in.Headline, Bio: in.Bio}
		if err := tx.Create(&tutor).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user is already a tutor", ErrConflict)
			}
			return fmt.Errorf("create tutor: %w", err)
		}
		tutor.User = &user
		return initializeTemplate(tx, in.UserID, in.InitialHours)
	})
	if err != nil {
		return nil, err
	}
	return &tutor, nil
}

func (s *TutorService) Get(ctx context.Context, tutorID uuid.UUID) (*models.Tutor, error) {
	var tutor models.Tutor
	if err := s.db.WithContext(ctx).Preload("User").First(&tutor, "user_id = ?", tutorID).Error; err != nil {
		return nil, notFound(err, "tutor")
	}
	return &tutor, nil
}

func (s *TutorService) List(ctx context.Context, page, pageSize int) ([]models.Tutor, int64, error) {
	limit, offset := BookingFilter{Page: page, PageSize: pageSize}.limits()

	q := s.db.WithContext(ctx).Model(&models.Tutor{}).
		Joins("JOIN users ON users.id = tutors.user_id").
		Where("users.is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tutors: %w", err)
	}
	var tutors []models.Tutor
	if err := q.Preload("User").
		Order("tutors.avg_rating desc, tutors.created_at asc").
		Limit(limit).Offset(offset).
		Find(&tutors).Error; err != nil {
		return nil, 0, fmt.Errorf("list tutors: %w", err)
	}
	return tutors, total, nil
}
