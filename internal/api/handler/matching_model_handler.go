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

// MatchingModelHandler 匹配模型模块 HTTP 处理器
type MatchingModelHandler struct {
	modelSvc service.MatchingModelService
}

// NewMatchingModelHandler 创建 MatchingModelHandler
func NewMatchingModelHandler(modelSvc service.MatchingModelService) *MatchingModelHandler {
	return &MatchingModelHandler{modelSvc: modelSvc}
}

// Create 创建匹配模型（草稿）
// POST /api/v1/matching-models
func (h *MatchingModelHandler) Create(c *gin.Context) {
	var req dto.CreateMatchingModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.modelSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.Created(c, result)
}

// CreateNewVersion 派生新版本
// POST /api/v1/matching-models/:id/versions
func (h *MatchingModelHandler) CreateNewVersion(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "模型ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.modelSvc.CreateNewVersion(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.Created(c, result)
}

// Activate 激活模型
// POST /api/v1/matching-models/:id/activate
func (h *MatchingModelHandler) Activate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "模型ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.modelSvc.Activate(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, result)
}

// SetDefault 设为默认模型
// POST /api/v1/matching-models/:id/default
func (h *MatchingModelHandler) SetDefault(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "模型ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.modelSvc.SetDefault(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, result)
}

// Archive 归档模型
// POST /api/v1/matching-models/:id/archive
func (h *MatchingModelHandler) Archive(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "模型ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.modelSvc.Archive(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 更新模型（仅草稿）
// PUT /api/v1/matching-models/:id
func (h *MatchingModelHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "模型ID不能为空")
		return
	}

	var req dto.UpdateMatchingModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.modelSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 获取单个模型
// GET /api/v1/matching-models/:id
func (h *MatchingModelHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "模型ID不能为空")
		return
	}

	result, err := h.modelSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, result)
}

// List 模型列表
// GET /api/v1/matching-models?status=draft|active|archived
func (h *MatchingModelHandler) List(c *gin.Context) {
	var req dto.MatchingModelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	list, total, err := h.modelSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// handleModelError 统一处理匹配模型模块业务错误
func (h *MatchingModelHandler) handleModelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMatchingModelNotFound):
		response.NotFound(c, 14101, "匹配模型不存在")
	case errors.Is(err, service.ErrModelNotDraft):
		response.BadRequest(c, 14102, "仅草稿状态的模型可编辑")
	case errors.Is(err, service.ErrModelArchived):
		response.BadRequest(c, 14103, "模型已归档，不可执行此操作")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 14104, "模型已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/matching_model_handler.go
