package repository

import (
	"context"

	"gorm.io/gorm"

	"mews-mentor/backend/internal/model"
)

// ParticipantRepository 参与者档案数据访问接口
type ParticipantRepository interface {
	Create(ctx context.Context, participant *model.Participant) error
	BatchCreate(ctx context.Context, participants []model.Participant) error
	GetByID(ctx context.Context, id string) (*model.Participant, error)
	ListByCohort(ctx context.Context, cohortID string) ([]model.Participant, error)
	ListByCohortAndRole(ctx context.Context, cohortID, role string) ([]model.Participant, error)
}

// participantRepo ParticipantRepository 的 GORM 实现
type participantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo 创建 ParticipantRepository 实例
func NewParticipantRepo(db *gorm.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) Create(ctx context.Context, participant *model.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *participantRepo) BatchCreate(ctx context.Context, participants []model.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&participants).Error
}

func (r *participantRepo) GetByID(ctx context.Context, id string) (*model.Participant, error) {
	var participant model.Participant
	err := r.db.WithContext(ctx).
		Where("participant_id = ?", id).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepo) ListByCohort(ctx context.Context, cohortID string) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.db.WithContext(ctx).
		Where("cohort_id = ?", cohortID).
		Order("created_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *participantRepo) ListByCohortAndRole(ctx context.Context, cohortID, role string) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.db.WithContext(ctx).
		Where("cohort_id = ? AND role = ?", cohortID, role).
		Order("participant_id ASC").
		Find(&participants).Error
	return participants, err
}
