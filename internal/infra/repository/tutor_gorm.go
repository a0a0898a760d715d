package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/tutor"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type TutorGormRepository struct {
	db *gorm.DB
}

func NewTutorGormRepository(db *gorm.DB) *TutorGormRepository {
	return &TutorGormRepository{db: db}
}

func (r *TutorGormRepository) Search(
	ctx context.Context,
	f tutor.Filter,
) ([]models.User, error) {

	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Preload("Subjects").
		Where("role = ?", models.RoleTutor)

	if f.SubjectID != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM tutor_subjects ts WHERE ts.user_id = users.id AND ts.subject_id = ?)",
			*f.SubjectID,
		)
	}
	if f.MinRating != nil {
		q = q.Where("average_rating >= ?", *f.MinRating)
	}
	if f.MinPrice != nil {
		q = q.Where("hourly_rate >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("hourly_rate <= ?", *f.MaxPrice)
	}
	if f.Name != "" {
		q = q.Where("name ILIKE ?", containsPattern(f.Name))
	}

	var tutors []models.User
	if err := q.Order("average_rating DESC, id ASC").Find(&tutors).Error; err != nil {
		return nil, err
	}
	return tutors, nil
}

func (r *TutorGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Subjects").
		Preload("Availability", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC, start_time ASC")
		}).
		First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *TutorGormRepository) CountSubjects(
	ctx context.Context,
	ids []uint,
) (int64, error) {

	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Subject{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateProfile applies upd in one transaction. Subjects and availability
// are replaced as whole sets.
func (r *TutorGormRepository) UpdateProfile(
	ctx context.Context,
	userID uint,
	upd tutor.ProfileUpdate,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{}
		if upd.Name != nil {
			fields["name"] = *upd.Name
		}
		if upd.Bio != nil {
			fields["bio"] = *upd.Bio
		}
		if upd.Timezone != nil {
			fields["timezone"] = *upd.Timezone
		}
		if upd.HourlyRate != nil {
			fields["hourly_rate"] = *upd.HourlyRate
		}

		if len(fields) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(fields).Error; err != nil {
				return err
			}
		}

		if upd.SubjectIDs != nil {
			if err := tx.Exec("DELETE FROM tutor_subjects WHERE user_id = ?", userID).Error; err != nil {
				return err
			}
			if len(*upd.SubjectIDs) > 0 {
				rows := make([]map[string]any, 0, len(*upd.SubjectIDs))
				for _, id := range *upd.SubjectIDs {
					rows = append(rows, map[string]any{"user_id": userID, "subject_id": id})
				}
				if err := tx.Table("tutor_subjects").Create(rows).Error; err != nil {
					return err
				}
			}
		}

		if upd.Availability != nil {
			if err := tx.Where("tutor_id = ?", userID).Delete(&models.AvailabilitySlot{}).Error; err != nil {
				return err
			}
			if len(*upd.Availability) > 0 {
				if err := tx.Create(upd.Availability).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func (r *TutorGormRepository) SetProfilePicture(
	ctx context.Context,
	userID uint,
	url string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("profile_picture", url).Error
}

var _ tutor.Repository = (*TutorGormRepository)(nil)
