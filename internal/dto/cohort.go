package dto

// ── 队列（Cohort）模块 DTO ──

// CreateCohortRequest 创建队列请求
type CreateCohortRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CohortListRequest 队列列表查询参数
type CohortListRequest struct {
	PaginationRequest
}

// ImportParticipantsRequest 批量导入参与者请求
type ImportParticipantsRequest struct {
	Participants []ParticipantImport `json:"participants" binding:"required,min=1,max=500,dive"`
}

// ParticipantImport 单个参与者导入项
type ParticipantImport struct {
	Name              string            `json:"name"           binding:"required,min=1,max=100"`
	Email             string            `json:"email"          binding:"required,email"`
	Role              string            `json:"role"           binding:"required,oneof=mentor mentee"`
	ProfileSchema     string            `json:"profile_schema" binding:"required,oneof=legacy capability"`
	Topics            []string          `json:"topics"`
	PrimaryCaps       []CapabilityInput `json:"primary_capabilities"   binding:"omitempty,dive"`
	SecondaryCaps     []CapabilityInput `json:"secondary_capabilities" binding:"omitempty,dive"`
	Department        string            `json:"department"      binding:"max=100"`
	JobGrade          string            `json:"job_grade"       binding:"max=50"`
	ExperienceBand    string            `json:"experience_band" binding:"omitempty,oneof=junior mid senior lead principal"`
	TimezoneOffset    int               `json:"timezone_offset" binding:"min=-12,max=14"`
	Goals             string            `json:"goals"           binding:"max=2000"`
	Expertise         string            `json:"expertise"       binding:"max=2000"`
	CapacityRemaining int               `json:"capacity_remaining" binding:"min=0,max=20"`
}

// CapabilityInput 能力条目输入
type CapabilityInput struct {
	Name        string `json:"name"        binding:"required,min=1,max=100"`
	Proficiency *int   `json:"proficiency" binding:"omitempty,min=1,max=5"`
}

// ── 响应 ──

// CohortResponse 队列响应
type CohortResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	MentorCount      int    `json:"mentor_count"`
	MenteeCount      int    `json:"mentee_count"`
	ApprovedMatches  int    `json:"approved_matches"`
	PendingMatches   int    `json:"pending_matches"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// ParticipantResponse 参与者响应
type ParticipantResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Role              string            `json:"role"`
	ProfileSchema     string            `json:"profile_schema"`
	Topics            []string          `json:"topics,omitempty"`
	PrimaryCaps       []CapabilityInput `json:"primary_capabilities,omitempty"`
	SecondaryCaps     []CapabilityInput `json:"secondary_capabilities,omitempty"`
	Department        string            `json:"department,omitempty"`
	JobGrade          string            `json:"job_grade,omitempty"`
	ExperienceBand    string            `json:"experience_band,omitempty"`
	TimezoneOffset    int               `json:"timezone_offset"`
	CapacityRemaining int               `json:"capacity_remaining"`
}

// ImportParticipantsResponse 导入结果响应
type ImportParticipantsResponse struct {
	Imported int `json:"imported"`
}
