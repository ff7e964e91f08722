package dto

// ── 手动匹配看板 DTO ──

// ManualMatchInput 手动配对输入
type ManualMatchInput struct {
	MenteeID   string `json:"mentee_id"  binding:"required,uuid"`
	MentorID   string `json:"mentor_id"  binding:"required,uuid"`
	Confidence int    `json:"confidence" binding:"required,min=1,max=5"`
	Notes      string `json:"notes"      binding:"max=500"`
}

// SaveManualBoardRequest 保存看板草稿请求, 整体替换草稿内容
type SaveManualBoardRequest struct {
	Matches []ManualMatchInput `json:"matches" binding:"omitempty,dive"`
}

// ── 响应 ──

// ManualBoardResponse 看板响应
type ManualBoardResponse struct {
	ID        string             `json:"id"`
	CohortID  string             `json:"cohort_id"`
	Matches   []ManualMatchInput `json:"matches"`
	Finalized bool               `json:"finalized"`
	UpdatedAt string             `json:"updated_at"`
}

// CommitManualBoardResponse 看板提交响应
// 容量超额仅产生警告, 不阻止提交
type CommitManualBoardResponse struct {
	Board    ManualBoardResponse `json:"board"`
	Approved int                 `json:"approved"`
	Warnings []string            `json:"warnings,omitempty"`
}
