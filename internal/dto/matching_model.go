package dto

// ── 匹配模型模块 DTO ──

// CreateMatchingModelRequest 创建模型请求, 初始为草稿并携带默认权重
type CreateMatchingModelRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// WeightsInput 权重输入, 各项为 0-100 的百分比
type WeightsInput struct {
	Capability      float64 `json:"capability"       binding:"min=0,max=100"`
	Semantic        float64 `json:"semantic"         binding:"min=0,max=100"`
	Domain          float64 `json:"domain"           binding:"min=0,max=100"`
	Seniority       float64 `json:"seniority"        binding:"min=0,max=100"`
	Timezone        float64 `json:"timezone"         binding:"min=0,max=100"`
	CapacityPenalty float64 `json:"capacity_penalty" binding:"min=0,max=100"`
}

// FiltersInput 硬过滤条件输入
type FiltersInput struct {
	MaxTimezoneDifference    int  `json:"max_timezone_difference" binding:"min=0,max=26"`
	RequireAvailableCapacity bool `json:"require_available_capacity"`
}

// UpdateMatchingModelRequest 更新模型请求, 仅草稿状态可编辑
type UpdateMatchingModelRequest struct {
	Name        *string       `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string       `json:"description" binding:"omitempty,max=500"`
	Weights     *WeightsInput `json:"weights"`
	Filters     *FiltersInput `json:"filters"`
}

// MatchingModelListRequest 模型列表查询参数
type MatchingModelListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=draft active archived"`
	PaginationRequest
}

// ── 响应 ──

// MatchingModelResponse 匹配模型响应
type MatchingModelResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Version     int          `json:"version"`
	Status      string       `json:"status"`
	IsDefault   bool         `json:"is_default"`
	Weights     WeightsInput `json:"weights"`
	Filters     FiltersInput `json:"filters"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}
