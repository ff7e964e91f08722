package dto

// ── 匹配模块 DTO ──

// GenerateMatchesRequest 生成推荐请求
type GenerateMatchesRequest struct {
	ModelID string `json:"model_id" binding:"omitempty,uuid"` // 为空时使用默认模型
}

// ScoreBreakdownPayload 评分明细
type ScoreBreakdownPayload struct {
	Capability      float64  `json:"capability"`
	Semantic        float64  `json:"semantic"`
	Domain          float64  `json:"domain"`
	Seniority       float64  `json:"seniority"`
	Timezone        float64  `json:"timezone"`
	CapacityPenalty float64  `json:"capacity_penalty"`
	TotalScore      float64  `json:"total_score"`
	Reasons         []string `json:"reasons"`
}

// MatchCandidatePayload 单个候选导师
type MatchCandidatePayload struct {
	MentorID   string                `json:"mentor_id"   binding:"required,uuid"`
	MentorName string                `json:"mentor_name" binding:"required"`
	Score      ScoreBreakdownPayload `json:"score"`
}

// ProposedAssignmentPayload 已批准的指派
type ProposedAssignmentPayload struct {
	MentorID   string `json:"mentor_id"   binding:"required,uuid"`
	MentorName string `json:"mentor_name" binding:"required"`
}

// MatchResultPayload 单个学员的匹配结果
type MatchResultPayload struct {
	MenteeID           string                     `json:"mentee_id"   binding:"required,uuid"`
	MenteeName         string                     `json:"mentee_name" binding:"required"`
	Recommendations    []MatchCandidatePayload    `json:"recommendations"`
	ProposedAssignment *ProposedAssignmentPayload `json:"proposed_assignment,omitempty"`
}

// SelectionInput 人工单选: 学员 → 候选列表中的导师
type SelectionInput struct {
	MenteeID string `json:"mentee_id" binding:"required,uuid"`
	MentorID string `json:"mentor_id" binding:"required,uuid"`
}

// ApplySelectionsRequest 批准选择请求
// 生成阶段不落库, 前端将本次生成的结果连同选择一并提交
type ApplySelectionsRequest struct {
	Results    []MatchResultPayload `json:"results"    binding:"required,min=1,dive"`
	Selections []SelectionInput     `json:"selections" binding:"omitempty,dive"`
}

// ── 响应 ──

// GenerateMatchesResponse 生成推荐响应
type GenerateMatchesResponse struct {
	ModelID   string               `json:"model_id"`
	ModelName string               `json:"model_name"`
	Results   []MatchResultPayload `json:"results"`
	Warnings  []string             `json:"warnings,omitempty"`
}

// MatchRecordResponse 队列匹配记录响应
type MatchRecordResponse struct {
	CohortID string               `json:"cohort_id"`
	Results  []MatchResultPayload `json:"results"`
	Approved int                  `json:"approved"`
	Pending  int                  `json:"pending"`
}

// ReadinessResponse 匹配前置条件检测响应
type ReadinessResponse struct {
	Ready   bool     `json:"ready"`
	Reasons []string `json:"reasons,omitempty"`
}

// MentorCapacityResponse 单个导师容量视图
type MentorCapacityResponse struct {
	MentorID       string `json:"mentor_id"`
	MentorName     string `json:"mentor_name"`
	Nominal        int    `json:"nominal"`
	Approved       int    `json:"approved"`
	PendingManual  int    `json:"pending_manual"`
	Remaining      int    `json:"remaining"`       // 对外展示值, 永不为负
	OverCapacity   bool   `json:"over_capacity"`   // 内部余量为负时置位
}

// CapacityOverviewResponse 队列容量总览响应
type CapacityOverviewResponse struct {
	CohortID string                   `json:"cohort_id"`
	Mentors  []MentorCapacityResponse `json:"mentors"`
}
