package repository

import (
	"context"

	"gorm.io/gorm"

	"mews-mentor/backend/internal/model"
	pkgerrors "mews-mentor/backend/pkg/errors"
)

// CohortRepository 辅导周期数据访问接口
type CohortRepository interface {
	Create(ctx context.Context, cohort *model.Cohort) error
	GetByID(ctx context.Context, id string) (*model.Cohort, error)
	List(ctx context.Context, offset, limit int) ([]model.Cohort, int64, error)
	// SaveMatches 整体替换匹配记录（原子提交，不做字段级补丁）
	SaveMatches(ctx context.Context, cohort *model.Cohort) error
}

// cohortRepo CohortRepository 的 GORM 实现
type cohortRepo struct {
	db *gorm.DB
}

// NewCohortRepo 创建 CohortRepository 实例
func NewCohortRepo(db *gorm.DB) CohortRepository {
	return &cohortRepo{db: db}
}

func (r *cohortRepo) Create(ctx context.Context, cohort *model.Cohort) error {
	return r.db.WithContext(ctx).Create(cohort).Error
}

func (r *cohortRepo) GetByID(ctx context.Context, id string) (*model.Cohort, error) {
	var cohort model.Cohort
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("cohort_id = ?", id).
		First(&cohort).Error
	if err != nil {
		return nil, err
	}
	return &cohort, nil
}

func (r *cohortRepo) List(ctx context.Context, offset, limit int) ([]model.Cohort, int64, error) {
	var cohorts []model.Cohort
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Cohort{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&cohorts).Error
	return cohorts, total, err
}

func (r *cohortRepo) SaveMatches(ctx context.Context, cohort *model.Cohort) error {
	oldVersion := cohort.Version
	result := r.db.WithContext(ctx).
		Model(cohort).
		Where("cohort_id = ? AND version = ?", cohort.CohortID, oldVersion).
		Updates(map[string]interface{}{
			"matches":    cohort.Matches,
			"updated_by": cohort.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	cohort.Version = oldVersion + 1
	return nil
}
