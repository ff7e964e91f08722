package model

// ManualBoard 人工配对草稿板 — 对应 manual_boards
// 管理员会话的临时工作区：finalized=false 为可继续编辑的草稿，
// finalized=true 为已提交的权威状态；提交后任何编辑都会重置为草稿
type ManualBoard struct {
	BoardID   string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"board_id"`
	CohortID  string          `gorm:"type:uuid;not null;uniqueIndex"                 json:"cohort_id"`
	Matches   ManualMatchList `gorm:"type:jsonb;not null"                            json:"matches"`
	Finalized bool            `gorm:"not null;default:false"                         json:"finalized"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// TableName 指定表名
func (ManualBoard) TableName() string { return "manual_boards" }
