package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mews-mentor/backend/internal/dto"
	"mews-mentor/backend/internal/service"
	pkgerrors "mews-mentor/backend/pkg/errors"
	"mews-mentor/backend/pkg/response"
)

// MatchingHandler 匹配模块 HTTP 处理器
type MatchingHandler struct {
	matchingSvc service.MatchingService
}

// NewMatchingHandler 创建 MatchingHandler
func NewMatchingHandler(matchingSvc service.MatchingService) *MatchingHandler {
	return &MatchingHandler{matchingSvc: matchingSvc}
}

// CheckReadiness 匹配前置条件检测
// GET /api/v1/cohorts/:id/matches/readiness
func (h *MatchingHandler) CheckReadiness(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "周期ID不能为空")
		return
	}

	result, err := h.matchingSvc.CheckReadiness(c.Request.Context(), id)
	if err != nil {
		h.handleMatchingError(c, err)
		return
	}

	response.OK(c, result)
}

// Generate 生成推荐（纯计算，不落库）
// POST /api/v1/cohorts/:id/matches/generate
func (h *MatchingHandler) Generate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "周期ID不能为空")
		return
	}

	var req dto.GenerateMatchesRequest
	// 请求体可为空（使用默认模型）
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	result, err := h.matchingSvc.Generate(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMatchingError(c, err)
		return
	}

	response.OK(c, result)
}

// ApplySelections 批准人工选择并持久化
// POST /api/v1/cohorts/:id/matches/selections
func (h *MatchingHandler) ApplySelections(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "周期ID不能为空")
		return
	}

	var req dto.ApplySelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.matchingSvc.ApplySelections(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleMatchingError(c, err)
		return
	}

	response.OK(c, result)
}

// ClearPending 清除待定结果，仅保留已批准
// DELETE /api/v1/cohorts/:id/matches/pending
func (h *MatchingHandler) ClearPending(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "周期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.matchingSvc.ClearPending(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleMatchingError(c, err)
		return
	}

	response.OK(c, result)
}

// ContinueSelection 提取待定子集供继续处理
// GET /api/v1/cohorts/:id/matches/pending
func (h *MatchingHandler) ContinueSelection(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "周期ID不能为空")
		return
	}

	result, err := h.matchingSvc.ContinueSelection(c.Request.Context(), id)
	if err != nil {
		h.handleMatchingError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMatches 获取完整匹配记录
// GET /api/v1/cohorts/:id/matches
func (h *MatchingHandler) GetMatches(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "周期ID不能为空")
		return
	}

	result, err := h.matchingSvc.GetMatches(c.Request.Context(), id)
	if err != nil {
		h.handleMatchingError(c, err)
		return
	}

	response.OK(c, result)
}

// CapacityOverview 导师容量总览
// GET /api/v1/cohorts/:id/capacity
func (h *MatchingHandler) CapacityOverview(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "周期ID不能为空")
		return
	}

	result, err := h.matchingSvc.CapacityOverview(c.Request.Context(), id)
	if err != nil {
		h.handleMatchingError(c, err)
		return
	}

	response.OK(c, result)
}

// handleMatchingError 统一处理匹配模块业务错误
func (h *MatchingHandler) handleMatchingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCohortNotFound):
		response.NotFound(c, 12101, "辅导周期不存在")
	case errors.Is(err, service.ErrMatchingModelNotFound):
		response.NotFound(c, 14101, "匹配模型不存在")
	case errors.Is(err, service.ErrNoDefaultMatchingModel):
		response.BadRequest(c, 15101, "未设置默认匹配模型")
	case errors.Is(err, service.ErrMenteeNotInResults):
		response.BadRequest(c, 15103, "选择引用了不在结果中的学员")
	case errors.Is(err, service.ErrMentorNotInCandidates):
		response.BadRequest(c, 15104, "选择的导师不在候选列表中")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 15105, "匹配记录已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/matching_handler.go
