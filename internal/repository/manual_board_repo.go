package repository

import (
	"context"

	"gorm.io/gorm"

	"mews-mentor/backend/internal/model"
	pkgerrors "mews-mentor/backend/pkg/errors"
)

// ManualBoardRepository 手动匹配看板数据访问接口
type ManualBoardRepository interface {
	Create(ctx context.Context, board *model.ManualBoard) error
	GetByCohort(ctx context.Context, cohortID string) (*model.ManualBoard, error)
	Update(ctx context.Context, board *model.ManualBoard) error
}

type manualBoardRepo struct {
	db *gorm.DB
}

// NewManualBoardRepo 创建 ManualBoardRepository 实例
func NewManualBoardRepo(db *gorm.DB) ManualBoardRepository {
	return &manualBoardRepo{db: db}
}

func (r *manualBoardRepo) Create(ctx context.Context, board *model.ManualBoard) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *manualBoardRepo) GetByCohort(ctx context.Context, cohortID string) (*model.ManualBoard, error) {
	var board model.ManualBoard
	err := r.db.WithContext(ctx).
		Where("cohort_id = ?", cohortID).
		First(&board).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Update 整体替换看板草稿, 带乐观锁
func (r *manualBoardRepo) Update(ctx context.Context, board *model.ManualBoard) error {
	currentVersion := board.Version
	result := r.db.WithContext(ctx).
		Model(&model.ManualBoard{}).
		Where("board_id = ? AND version = ?", board.BoardID, currentVersion).
		Updates(map[string]interface{}{
			"matches":    board.Matches,
			"finalized":  board.Finalized,
			"updated_by": board.UpdatedBy,
			"version":    currentVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	board.Version = currentVersion + 1
	return nil
}
