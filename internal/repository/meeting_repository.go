package repository

import (
	"context"
	"errors"

	"backoffice/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MeetingRepository struct {
	db *gorm.DB
}

type MeetingRepositoryInterface interface {
	Create(ctx context.Context, meeting *model.Meeting, participants []model.MeetingParticipant) error
	GetByID(ctx context.Context, id uint) (*model.Meeting, error)
	List(ctx context.Context, status string) ([]model.Meeting, error)
	Update(ctx context.Context, meeting *model.Meeting, participants []model.MeetingParticipant) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	SaveNotes(ctx context.Context, id uint, notes string) error
	SaveAttachment(ctx context.Context, id uint, path, link string) error
	Delete(ctx context.Context, id uint) error
}

var _ MeetingRepositoryInterface = (*MeetingRepository)(nil)

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create persists the meeting and its participant rows in one transaction.
func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting, participants []model.MeetingParticipant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(meeting).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].MeetingID = meeting.ID
		}
		if len(participants) > 0 {
			if err := tx.Omit(clause.Associations).Create(&participants).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uint) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Participants.User").
		First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepository) List(ctx context.Context, status string) ([]model.Meeting, error) {
	var meetings []model.Meeting
	query := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Participants.User")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&meetings).Error
	return meetings, err
}

// Update saves the meeting fields and replaces all participant rows. The
// replacement is wholesale (delete then re-insert), matching the submission
// semantics: the two lists fully describe the new membership.
func (r *MeetingRepository) Update(ctx context.Context, meeting *model.Meeting, participants []model.MeetingParticipant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(meeting).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", meeting.ID).Delete(&model.MeetingParticipant{}).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].MeetingID = meeting.ID
		}
		if len(participants) > 0 {
			if err := tx.Omit(clause.Associations).Create(&participants).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepository) SaveNotes(ctx context.Context, id uint, notes string) error {
	result := r.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("id = ?", id).
		Update("notes", notes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

// SaveAttachment records the stored file path and/or link. Only the parts
// that were submitted are written; an empty value leaves the column alone.
func (r *MeetingRepository) SaveAttachment(ctx context.Context, id uint, path, link string) error {
	updates := map[string]interface{}{}
	if path != "" {
		updates["attachment_path"] = path
	}
	if link != "" {
		updates["attachment_link"] = link
	}
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

// Delete removes the participant rows and the meeting together. The remote
// event, if any, must already be gone by the time this is called.
func (r *MeetingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&model.MeetingParticipant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Meeting{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMeetingNotFound
		}
		return nil
	})
}
